package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/adapters/database"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/providers"
)

// SearchResponseCachePattern matches cached HTTP responses of the doctor
// search endpoint
const SearchResponseCachePattern = "http:cache:doctors-search:*"

// CacheInvalidationService drops directory cache entries when a doctor
// event arrives from another process
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelDoctorUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to doctor updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(eventChan)
	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service and waits for the event loop
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.DoctorEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.DoctorEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := log.With().
		Str("event_id", event.ID).
		Str("doctor_id", event.DoctorID).
		Str("event_type", string(event.EventType)).
		Logger()

	if err := s.InvalidateDoctor(ctx, event.DoctorID); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate doctor cache")
		return
	}
	logger.Debug().Msg("Invalidated doctor cache")
}

// InvalidateDoctor drops the listing, the doctor's own entry and every
// cached search response
func (s *CacheInvalidationService) InvalidateDoctor(ctx context.Context, doctorID string) error {
	if err := s.cache.Delete(ctx, database.AvailableDoctorsCacheKey, database.DoctorCacheKey(doctorID)); err != nil {
		return err
	}
	if err := s.cache.DeletePattern(ctx, SearchResponseCachePattern); err != nil {
		return fmt.Errorf("failed to invalidate pattern %s: %w", SearchResponseCachePattern, err)
	}
	return nil
}
