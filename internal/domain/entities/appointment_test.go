package entities

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotStart(t *testing.T) {
	tests := []struct {
		label string
		hour  int
		min   int
		ok    bool
	}{
		{"10:00 AM - 10:15 AM", 10, 0, true},
		{"01:30 PM - 01:45 PM", 13, 30, true},
		{"3:00 PM", 15, 0, true},
		{"12:00 pm - 12:15 pm", 12, 0, true},
		{"", 0, 0, false},
		{"teatime", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := SlotStart(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.hour, got.Hour())
				assert.Equal(t, tt.min, got.Minute())
			}
		})
	}
}

func TestTimeSlots_CatalogIsChronological(t *testing.T) {
	assert.Len(t, TimeSlots, 12)
	for i := 1; i < len(TimeSlots); i++ {
		prev, _ := SlotStart(TimeSlots[i-1])
		cur, ok := SlotStart(TimeSlots[i])
		assert.True(t, ok)
		assert.True(t, prev.Before(cur), "%s should precede %s", TimeSlots[i-1], TimeSlots[i])
	}
	assert.True(t, IsKnownSlot("03:00 PM - 03:15 PM"))
	assert.False(t, IsKnownSlot("02:00 PM - 02:15 PM"))
}

func TestCompareSchedule_UsesClockTimeWithinADay(t *testing.T) {
	appointments := []*Appointment{
		{ID: "morning", Date: "2025-06-01", Time: "10:00 AM - 10:15 AM"},
		{ID: "afternoon", Date: "2025-06-01", Time: "01:00 PM - 01:15 PM"},
		{ID: "earlier-day", Date: "2025-05-30", Time: "04:30 PM - 04:45 PM"},
		{ID: "later-day", Date: "2025-06-02", Time: "10:30 AM - 10:45 AM"},
	}

	// newest first
	sort.SliceStable(appointments, func(i, j int) bool {
		return CompareSchedule(appointments[i], appointments[j]) > 0
	})

	var ids []string
	for _, a := range appointments {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"later-day", "afternoon", "morning", "earlier-day"}, ids)
}

func TestAppointmentStatus_Valid(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.Valid())
	assert.True(t, AppointmentStatusCompleted.Valid())
	assert.True(t, AppointmentStatusCancelled.Valid())
	assert.False(t, AppointmentStatus("pending").Valid())
	assert.False(t, AppointmentStatus("").Valid())
}

func TestNewDoctorSession_FlattensProfile(t *testing.T) {
	rating := 4.5
	u := &User{ID: "u1", Name: "Dr. Rao", Email: "rao@example.com", Mobile: "9000000001", PasswordHash: "secret", Role: RoleDoctor}
	d := &Doctor{ID: "d1", UserID: "u1", Name: "Dr. Rao", Specialty: "Cardiology", Rating: &rating, Available: true}

	s := NewDoctorSession(u, d)

	assert.Equal(t, "u1", s.ID)
	assert.Equal(t, "d1", s.ProfileID)
	assert.Equal(t, "Cardiology", s.Specialty)
	assert.Equal(t, &rating, s.Rating)
	if assert.NotNil(t, s.Available) {
		assert.True(t, *s.Available)
	}
	assert.False(t, s.IsPatient())
}
