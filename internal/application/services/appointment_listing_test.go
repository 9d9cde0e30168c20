package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/ayucare/internal/application/services"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

// memoryAppointmentRepository keeps appointments in insertion order so a
// booking can be read back through both listings
type memoryAppointmentRepository struct {
	mu           sync.Mutex
	appointments []*entities.Appointment
}

var _ repositories.AppointmentRepository = (*memoryAppointmentRepository)(nil)

func (r *memoryAppointmentRepository) Create(_ context.Context, appointment *entities.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *appointment
	r.appointments = append(r.appointments, &stored)
	return nil
}

func (r *memoryAppointmentRepository) GetByID(_ context.Context, id string) (*entities.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if a.ID == id {
			found := *a
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("appointment not found")
}

func (r *memoryAppointmentRepository) ListByPatient(_ context.Context, patientID string) ([]*entities.Appointment, error) {
	return r.filter(func(a *entities.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *memoryAppointmentRepository) ListByDoctor(_ context.Context, doctorID string) ([]*entities.Appointment, error) {
	return r.filter(func(a *entities.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *memoryAppointmentRepository) UpdateStatus(_ context.Context, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if a.ID == id {
			a.Status = status
			updated := *a
			return &updated, nil
		}
	}
	return nil, apperrors.NewNotFoundError("appointment not found")
}

func (r *memoryAppointmentRepository) filter(keep func(*entities.Appointment) bool) []*entities.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entities.Appointment{}
	for _, a := range r.appointments {
		if keep(a) {
			found := *a
			out = append(out, &found)
		}
	}
	return out
}

func countID(views []*entities.AppointmentView, id string) int {
	n := 0
	for _, v := range views {
		if v.ID == id {
			n++
		}
	}
	return n
}

func TestAppointmentService_BookingAppearsOnceForBothParties(t *testing.T) {
	ctx := context.Background()
	repo := &memoryAppointmentRepository{}
	doctors := new(MockDoctorRepository)
	patients := new(MockPatientRepository)
	svc := services.NewAppointmentService(repo, doctors, patients)

	doctor := &entities.Doctor{ID: "d1", UserID: "u-doc", Name: "Dr. Rao", Specialty: "Cardiology", Available: true}
	patient := &entities.Patient{ID: "p1", UserID: "u-pat", Name: "Asha"}
	other := &entities.Patient{ID: "p2", UserID: "u-other", Name: "Kiran"}

	doctors.On("GetByID", ctx, "d1").Return(doctor, nil)
	doctors.On("GetByUserID", ctx, "u-doc").Return(doctor, nil)
	doctors.On("GetByIDs", ctx, mock.Anything).Return(map[string]*entities.Doctor{"d1": doctor}, nil)
	patients.On("GetByID", ctx, "p1").Return(patient, nil)
	patients.On("GetByID", ctx, "p2").Return(other, nil)
	patients.On("GetByUserID", ctx, "u-pat").Return(patient, nil)
	patients.On("GetByIDs", ctx, mock.Anything).Return(map[string]*entities.Patient{"p1": patient, "p2": other}, nil)

	// an unrelated booking with the same doctor and slot
	_, err := svc.CreateAppointment(ctx, services.CreateAppointmentInput{
		PatientID: "p2", DoctorID: "d1", Date: "2025-06-10", Time: "10:00 AM - 10:15 AM",
	})
	require.NoError(t, err)

	booked, err := svc.CreateAppointment(ctx, services.CreateAppointmentInput{
		PatientID: "p1", DoctorID: "d1", Date: "2025-06-10", Time: "10:00 AM - 10:15 AM", PatientProblem: "chest pain",
	})
	require.NoError(t, err)

	mine, err := svc.ListAppointments(ctx, "u-pat", entities.RolePatient)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, countID(mine, booked.ID))
	require.NotNil(t, mine[0].Doctor)
	assert.Equal(t, "Dr. Rao", mine[0].Doctor.Name)
	assert.Nil(t, mine[0].Patient)

	theirs, err := svc.ListAppointments(ctx, "u-doc", entities.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, theirs, 2)
	assert.Equal(t, 1, countID(theirs, booked.ID))
	for _, v := range theirs {
		require.NotNil(t, v.Patient)
		assert.Nil(t, v.Doctor)
	}

	// a status change is visible to both sides without duplicating the record
	_, err = svc.UpdateStatus(ctx, booked.ID, entities.AppointmentStatusCancelled)
	require.NoError(t, err)

	mine, err = svc.ListAppointments(ctx, "u-pat", entities.RolePatient)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, entities.AppointmentStatusCancelled, mine[0].Status)

	theirs, err = svc.ListAppointments(ctx, "u-doc", entities.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, 1, countID(theirs, booked.ID))
}
