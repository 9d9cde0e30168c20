package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/providers"
)

func payload(t *testing.T, event *entities.DoctorEvent) string {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return string(data)
}

func TestBroadcast_FansOutToEverySubscriber(t *testing.T) {
	bus := newRedisEventBus(nil)
	bus.mu.Lock()
	first, _ := bus.addSubscriberLocked(providers.EventChannelDoctorUpdates)
	second, count := bus.addSubscriberLocked(providers.EventChannelDoctorUpdates)
	bus.mu.Unlock()
	assert.Equal(t, 2, count)

	event := entities.NewDoctorEvent("d1", entities.DoctorEventTypeAvailabilityChanged, map[string]interface{}{"available": false})
	delivered := bus.broadcast(providers.EventChannelDoctorUpdates, payload(t, event))

	assert.Equal(t, 2, delivered)
	for _, ch := range []chan *entities.DoctorEvent{first, second} {
		got := <-ch
		assert.Equal(t, "d1", got.DoctorID)
		assert.Equal(t, entities.DoctorEventTypeAvailabilityChanged, got.EventType)
	}
}

func TestBroadcast_DropsWhenSubscriberIsFull(t *testing.T) {
	bus := newRedisEventBus(nil)
	bus.mu.Lock()
	ch, _ := bus.addSubscriberLocked(providers.EventChannelDoctorUpdates)
	bus.mu.Unlock()

	msg := payload(t, entities.NewDoctorEvent("d1", entities.DoctorEventTypeRatingChanged, nil))
	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, bus.broadcast(providers.EventChannelDoctorUpdates, msg))
	}

	assert.Equal(t, 0, bus.broadcast(providers.EventChannelDoctorUpdates, msg))
	assert.Len(t, ch, subscriberBuffer)
}

func TestBroadcast_IgnoresMalformedPayload(t *testing.T) {
	bus := newRedisEventBus(nil)
	bus.mu.Lock()
	ch, _ := bus.addSubscriberLocked(providers.EventChannelDoctorUpdates)
	bus.mu.Unlock()

	assert.Equal(t, 0, bus.broadcast(providers.EventChannelDoctorUpdates, "{not json"))
	assert.Len(t, ch, 0)
}

func TestClose_ClosesSubscriberChannels(t *testing.T) {
	bus := newRedisEventBus(nil)
	bus.mu.Lock()
	ch, _ := bus.addSubscriberLocked(providers.EventChannelDoctorUpdates)
	bus.mu.Unlock()

	require.NoError(t, bus.Close())

	_, open := <-ch
	assert.False(t, open)
}
