package entities

import (
	"time"

	"github.com/google/uuid"
)

// DoctorEventType represents the type of doctor event
type DoctorEventType string

const (
	DoctorEventTypeAvailabilityChanged DoctorEventType = "availability_changed"
	DoctorEventTypeRatingChanged       DoctorEventType = "rating_changed"
	DoctorEventTypeProfileChanged      DoctorEventType = "profile_changed"
)

// DoctorEvent is published when an administrative edit changes what the
// public directory shows for a doctor
type DoctorEvent struct {
	ID            string                 `json:"id"`
	DoctorID      string                 `json:"doctor_id"`
	EventType     DoctorEventType        `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewDoctorEvent creates a new doctor event
func NewDoctorEvent(doctorID string, eventType DoctorEventType, changedFields map[string]interface{}) *DoctorEvent {
	return &DoctorEvent{
		ID:            uuid.NewString(),
		DoctorID:      doctorID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		ChangedFields: changedFields,
	}
}
