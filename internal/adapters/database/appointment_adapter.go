package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

var appointmentColumns = []interface{}{
	"id", "patient_id", "doctor_id", "doctor_name", "patient_name",
	"patient_problem", "date", "time", "status", "created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	err := row.Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.DoctorName,
		&appointment.PatientName,
		&appointment.PatientProblem,
		&appointment.Date,
		&appointment.Time,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Create inserts the appointment and appends its ID to both profiles in one
// transaction. A missing profile rolls the insert back.
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":              appointment.ID,
		"patient_id":      appointment.PatientID,
		"doctor_id":       appointment.DoctorID,
		"doctor_name":     appointment.DoctorName,
		"patient_name":    appointment.PatientName,
		"patient_problem": appointment.PatientProblem,
		"date":            appointment.Date,
		"time":            appointment.Time,
		"status":          appointment.Status,
		"created_at":      appointment.CreatedAt,
		"updated_at":      appointment.UpdatedAt,
	}

	insertQuery, insertArgs, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	patientQuery, patientArgs, err := a.appendQuery("patients", appointment.PatientID, appointment.ID, appointment.UpdatedAt)
	if err != nil {
		return err
	}
	doctorQuery, doctorArgs, err := a.appendQuery("doctors", appointment.DoctorID, appointment.ID, appointment.UpdatedAt)
	if err != nil {
		return err
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}
	if err := execAppend(ctx, tx, patientQuery, patientArgs, "patient", appointment.PatientID); err != nil {
		return err
	}
	if err := execAppend(ctx, tx, doctorQuery, doctorArgs, "doctor", appointment.DoctorID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit appointment", err)
	}
	return nil
}

func (a *AppointmentAdapter) appendQuery(table, profileID, appointmentID string, at time.Time) (string, []interface{}, error) {
	query, args, err := a.db.Update(table).
		Set(goqu.Record{
			"appointment_ids": goqu.L("array_append(appointment_ids, ?)", appointmentID),
			"updated_at":      at,
		}).
		Where(goqu.Ex{"id": profileID}).
		ToSQL()
	if err != nil {
		return "", nil, apperrors.NewInternalError("failed to build update query", err)
	}
	return query, args, nil
}

func execAppend(ctx context.Context, tx *sql.Tx, query string, args []interface{}, kind, id string) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to link appointment to %s", kind), err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", kind, id))
	}
	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}
	return appointment, nil
}

// ListByPatient retrieves appointments booked by a patient
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"patient_id": patientID})
}

// ListByDoctor retrieves appointments booked with a doctor
func (a *AppointmentAdapter) ListByDoctor(ctx context.Context, doctorID string) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"doctor_id": doctorID})
}

func (a *AppointmentAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(where).
		Order(goqu.C("date").Desc(), goqu.C("time").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := []*entities.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating appointments", err)
	}
	return appointments, nil
}

// UpdateStatus overwrites the status and returns the updated record
func (a *AppointmentAdapter) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		Returning(appointmentColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update appointment", err)
	}
	return appointment, nil
}
