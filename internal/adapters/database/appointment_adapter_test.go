package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/ayucare/internal/adapters/database"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

var appointmentRowColumns = []string{
	"id", "patient_id", "doctor_id", "doctor_name", "patient_name",
	"patient_problem", "date", "time", "status", "created_at", "updated_at",
}

func newAppointment() *entities.Appointment {
	now := time.Now().UTC()
	return &entities.Appointment{
		ID:             "a1",
		PatientID:      "p1",
		DoctorID:       "d1",
		DoctorName:     "Dr. Rao",
		PatientName:    "Asha",
		PatientProblem: "Chest pain",
		Date:           "2025-07-01",
		Time:           "10:00 AM - 10:15 AM",
		Status:         entities.AppointmentStatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestAppointmentAdapter_Create(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAppointmentAdapter(client)

	t.Run("inserts and links both profiles in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(sqlPrefix(`INSERT INTO "appointments"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "patients" SET "appointment_ids"=array_append\(appointment_ids, 'a1'\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "doctors" SET "appointment_ids"=array_append\(appointment_ids, 'a1'\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, adapter.Create(context.Background(), newAppointment()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the doctor link fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(sqlPrefix(`INSERT INTO "appointments"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(sqlPrefix(`UPDATE "patients"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(sqlPrefix(`UPDATE "doctors"`)).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := adapter.Create(context.Background(), newAppointment())

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the patient row is gone", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(sqlPrefix(`INSERT INTO "appointments"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(sqlPrefix(`UPDATE "patients"`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := adapter.Create(context.Background(), newAppointment())

		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAppointmentAdapter_ListByPatient(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAppointmentAdapter(client)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM "appointments" WHERE .*"patient_id" = 'p1'.* ORDER BY "date" DESC`).
		WillReturnRows(sqlmock.NewRows(appointmentRowColumns).
			AddRow("a2", "p1", "d1", "Dr. Rao", "Asha", "", "2025-07-02", "03:00 PM - 03:15 PM", "completed", now, now).
			AddRow("a1", "p1", "d1", "Dr. Rao", "Asha", "Chest pain", "2025-07-01", "10:00 AM - 10:15 AM", "scheduled", now, now))

	appointments, err := adapter.ListByPatient(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, entities.AppointmentStatusCompleted, appointments[0].Status)
	assert.Equal(t, "Chest pain", appointments[1].PatientProblem)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentAdapter_UpdateStatus(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAppointmentAdapter(client)
	now := time.Now().UTC()

	t.Run("returns the updated record", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE "appointments" SET "status"='cancelled'.* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows(appointmentRowColumns).
				AddRow("a1", "p1", "d1", "Dr. Rao", "Asha", "", "2025-07-01", "10:00 AM - 10:15 AM", "cancelled", now, now))

		appointment, err := adapter.UpdateStatus(context.Background(), "a1", entities.AppointmentStatusCancelled)

		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusCancelled, appointment.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing appointment", func(t *testing.T) {
		mock.ExpectQuery(sqlPrefix(`UPDATE "appointments"`)).WillReturnRows(sqlmock.NewRows(appointmentRowColumns))

		_, err := adapter.UpdateStatus(context.Background(), "nope", entities.AppointmentStatusCompleted)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestAppointmentAdapter_GetByID(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAppointmentAdapter(client)
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`FROM "appointments" WHERE .*"id" = 'a1'`).
			WillReturnRows(sqlmock.NewRows(appointmentRowColumns).
				AddRow("a1", "p1", "d1", "Dr. Rao", "Asha", "Chest pain", "2025-07-01", "10:00 AM - 10:15 AM", "scheduled", now, now))

		appointment, err := adapter.GetByID(context.Background(), "a1")

		require.NoError(t, err)
		assert.Equal(t, "Dr. Rao", appointment.DoctorName)
		assert.Equal(t, entities.AppointmentStatusScheduled, appointment.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(sqlPrefix(`SELECT`)).WillReturnRows(sqlmock.NewRows(appointmentRowColumns))

		_, err := adapter.GetByID(context.Background(), "nope")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(sqlPrefix(`SELECT`)).WillReturnError(errors.New("connection reset"))

		_, err := adapter.GetByID(context.Background(), "a1")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})
}
