package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

// ErrMsgAlreadyRegistered is returned when email or mobile is taken
const ErrMsgAlreadyRegistered = "Email or Mobile already registered."

var userColumns = []interface{}{
	"id", "name", "email", "mobile", "password_hash", "role", "created_at", "updated_at",
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *UserAdapter) userRecord(user *entities.User) goqu.Record {
	return goqu.Record{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"mobile":        user.Mobile,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}
}

// CreatePatientAccount creates a user and its patient profile in one transaction
func (a *UserAdapter) CreatePatientAccount(ctx context.Context, user *entities.User, patient *entities.Patient) error {
	profile := goqu.Record{
		"id":              patient.ID,
		"user_id":         user.ID,
		"name":            patient.Name,
		"age":             nullableInt(patient.Age),
		"gender":          patient.Gender,
		"icon_url":        patient.IconURL,
		"height":          nullableFloat(patient.Height),
		"weight":          nullableFloat(patient.Weight),
		"problem":         patient.Problem,
		"appointment_ids": textArray(patient.AppointmentIDs),
		"created_at":      patient.CreatedAt,
		"updated_at":      patient.UpdatedAt,
	}
	return a.createAccount(ctx, user, "patients", profile)
}

// CreateDoctorAccount creates a user and its doctor profile in one transaction
func (a *UserAdapter) CreateDoctorAccount(ctx context.Context, user *entities.User, doctor *entities.Doctor) error {
	profile := goqu.Record{
		"id":               doctor.ID,
		"user_id":          user.ID,
		"name":             doctor.Name,
		"about":            doctor.About,
		"gender":           doctor.Gender,
		"icon_url":         doctor.IconURL,
		"services":         textArray(doctor.Services),
		"specialty":        doctor.Specialty,
		"expression":       doctor.Expression,
		"degree":           doctor.Degree,
		"experience_years": nullableInt(doctor.ExperienceYears),
		"patients_count":   doctor.PatientsCount,
		"rating":           nullableFloat(doctor.Rating),
		"reviews_count":    nullableInt(doctor.ReviewsCount),
		"available":        doctor.Available,
		"appointment_ids":  textArray(doctor.AppointmentIDs),
		"created_at":       doctor.CreatedAt,
		"updated_at":       doctor.UpdatedAt,
	}
	return a.createAccount(ctx, user, "doctors", profile)
}

func (a *UserAdapter) createAccount(ctx context.Context, user *entities.User, profileTable string, profile goqu.Record) error {
	userQuery, userArgs, err := a.db.Insert("users").Rows(a.userRecord(user)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	profileQuery, profileArgs, err := a.db.Insert(profileTable).Rows(profile).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, userQuery, userArgs...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(ErrMsgAlreadyRegistered)
		}
		return apperrors.NewInternalError("failed to create user", err)
	}

	if _, err := tx.ExecContext(ctx, profileQuery, profileArgs...); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to create %s profile", user.Role), err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit account", err)
	}
	return nil
}

// GetByIdentifier retrieves a user whose email or mobile equals identifier
func (a *UserAdapter) GetByIdentifier(ctx context.Context, identifier string) (*entities.User, error) {
	where := goqu.Or(
		goqu.C("email").Eq(identifier),
		goqu.C("mobile").Eq(identifier),
	)
	return a.getOne(ctx, where, "user not found")
}

func (a *UserAdapter) getOne(ctx context.Context, where exp.Expression, notFound string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// ExistsByEmailOrMobile reports whether either value is already registered
func (a *UserAdapter) ExistsByEmailOrMobile(ctx context.Context, email, mobile string) (bool, error) {
	query, args, err := a.db.From("users").
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Or(
			goqu.C("email").Eq(email),
			goqu.C("mobile").Eq(mobile),
		)).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check existing users", err)
	}
	return count > 0, nil
}
