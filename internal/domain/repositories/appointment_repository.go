package repositories

import (
	"context"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create inserts the appointment and appends its ID to the patient and
	// doctor profiles. All three writes commit or none do.
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// ListByPatient retrieves appointments booked by a patient
	ListByPatient(ctx context.Context, patientID string) ([]*entities.Appointment, error)

	// ListByDoctor retrieves appointments booked with a doctor
	ListByDoctor(ctx context.Context, doctorID string) ([]*entities.Appointment, error)

	// UpdateStatus overwrites the status and returns the updated record
	UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) (*entities.Appointment, error)
}
