package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

var doctorColumns = []interface{}{
	"id", "user_id", "name", "about", "gender", "icon_url", "services", "specialty",
	"expression", "degree", "experience_years", "patients_count", "rating",
	"reviews_count", "available", "appointment_ids", "created_at", "updated_at",
}

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanDoctor(row rowScanner) (*entities.Doctor, error) {
	doctor := &entities.Doctor{}
	var experience, reviews sql.NullInt64
	var rating sql.NullFloat64

	err := row.Scan(
		&doctor.ID,
		&doctor.UserID,
		&doctor.Name,
		&doctor.About,
		&doctor.Gender,
		&doctor.IconURL,
		pq.Array(&doctor.Services),
		&doctor.Specialty,
		&doctor.Expression,
		&doctor.Degree,
		&experience,
		&doctor.PatientsCount,
		&rating,
		&reviews,
		&doctor.Available,
		pq.Array(&doctor.AppointmentIDs),
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doctor.ExperienceYears = intPtr(experience)
	doctor.Rating = floatPtr(rating)
	doctor.ReviewsCount = intPtr(reviews)
	return doctor, nil
}

func (a *DoctorAdapter) getOne(ctx context.Context, where exp.Ex, notFound string) (*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).
		From("doctors").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor, err := scanDoctor(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}
	return doctor, nil
}

func (a *DoctorAdapter) list(ctx context.Context, where ...exp.Expression) ([]*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).
		From("doctors").
		Where(where...).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list doctors", err)
	}
	defer rows.Close()

	doctors := []*entities.Doctor{}
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating doctors", err)
	}
	return doctors, nil
}

// ListAvailable retrieves every doctor open for booking
func (a *DoctorAdapter) ListAvailable(ctx context.Context) ([]*entities.Doctor, error) {
	return a.list(ctx, goqu.Ex{"available": true})
}

// ListAll retrieves every doctor regardless of availability
func (a *DoctorAdapter) ListAll(ctx context.Context) ([]*entities.Doctor, error) {
	return a.list(ctx)
}

// GetAvailableByID retrieves a doctor that is open for booking
func (a *DoctorAdapter) GetAvailableByID(ctx context.Context, id string) (*entities.Doctor, error) {
	return a.getOne(ctx, goqu.Ex{"id": id, "available": true}, fmt.Sprintf("doctor with id %s not found", id))
}

// GetByID retrieves a doctor regardless of availability
func (a *DoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("doctor with id %s not found", id))
}

// GetByUserID retrieves the doctor profile owned by a user
func (a *DoctorAdapter) GetByUserID(ctx context.Context, userID string) (*entities.Doctor, error) {
	return a.getOne(ctx, goqu.Ex{"user_id": userID}, fmt.Sprintf("doctor for user %s not found", userID))
}

// GetByIDs retrieves doctors keyed by profile ID
func (a *DoctorAdapter) GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Doctor, error) {
	doctors := make(map[string]*entities.Doctor, len(ids))
	if len(ids) == 0 {
		return doctors, nil
	}

	list, err := a.list(ctx, goqu.Ex{"id": ids})
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		doctors[d.ID] = d
	}
	return doctors, nil
}

// SetAvailability opens or closes a doctor for booking
func (a *DoctorAdapter) SetAvailability(ctx context.Context, id string, available bool) error {
	return a.update(ctx, id, goqu.Record{
		"available":  available,
		"updated_at": time.Now().UTC(),
	})
}

// UpdateRating overwrites a doctor's rating and review count
func (a *DoctorAdapter) UpdateRating(ctx context.Context, id string, rating float64, reviews int) error {
	return a.update(ctx, id, goqu.Record{
		"rating":        rating,
		"reviews_count": reviews,
		"updated_at":    time.Now().UTC(),
	})
}

// UpdateProfile overwrites the descriptive fields. Name, availability,
// rating and the appointment list are left alone.
func (a *DoctorAdapter) UpdateProfile(ctx context.Context, doctor *entities.Doctor) error {
	return a.update(ctx, doctor.ID, goqu.Record{
		"about":            doctor.About,
		"gender":           string(doctor.Gender),
		"services":         textArray(doctor.Services),
		"specialty":        doctor.Specialty,
		"expression":       doctor.Expression,
		"degree":           doctor.Degree,
		"experience_years": nullableInt(doctor.ExperienceYears),
		"patients_count":   doctor.PatientsCount,
		"updated_at":       time.Now().UTC(),
	})
}

func (a *DoctorAdapter) update(ctx context.Context, id string, record goqu.Record) error {
	query, args, err := a.db.Update("doctors").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update doctor", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}
	return nil
}
