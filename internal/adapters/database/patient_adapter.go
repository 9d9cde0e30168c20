package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

var patientColumns = []interface{}{
	"id", "user_id", "name", "age", "gender", "icon_url", "height", "weight",
	"problem", "appointment_ids", "created_at", "updated_at",
}

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanPatient(row rowScanner) (*entities.Patient, error) {
	patient := &entities.Patient{}
	var age sql.NullInt64
	var height, weight sql.NullFloat64

	err := row.Scan(
		&patient.ID,
		&patient.UserID,
		&patient.Name,
		&age,
		&patient.Gender,
		&patient.IconURL,
		&height,
		&weight,
		&patient.Problem,
		pq.Array(&patient.AppointmentIDs),
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	patient.Age = intPtr(age)
	patient.Height = floatPtr(height)
	patient.Weight = floatPtr(weight)
	return patient, nil
}

func (a *PatientAdapter) getOne(ctx context.Context, where exp.Expression, notFound string) (*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	patient, err := scanPatient(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}
	return patient, nil
}

// GetByID retrieves a patient by profile ID
func (a *PatientAdapter) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("patient with id %s not found", id))
}

// GetByUserID retrieves the patient profile owned by a user
func (a *PatientAdapter) GetByUserID(ctx context.Context, userID string) (*entities.Patient, error) {
	return a.getOne(ctx, goqu.Ex{"user_id": userID}, fmt.Sprintf("patient for user %s not found", userID))
}

// GetByIDs retrieves patients keyed by profile ID
func (a *PatientAdapter) GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Patient, error) {
	patients := make(map[string]*entities.Patient, len(ids))
	if len(ids) == 0 {
		return patients, nil
	}

	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list patients", err)
	}
	defer rows.Close()

	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient", err)
		}
		patients[patient.ID] = patient
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating patients", err)
	}
	return patients, nil
}

// Count returns the number of patient profiles
func (a *PatientAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.From("patients").Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count patients", err)
	}
	return count, nil
}
