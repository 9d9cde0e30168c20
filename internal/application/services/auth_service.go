package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Messages returned to API callers
const (
	MsgAllFieldsRequired     = "All fields are required."
	MsgInvalidRole           = "Invalid role."
	MsgAlreadyRegistered     = "Email or Mobile already registered."
	MsgIdentifierPasswordReq = "Identifier and Password required."
	MsgInvalidCredentials    = "Invalid credentials!"
)

// RegisterInput holds the sign-up form
type RegisterInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Mobile   string        `json:"mobile"`
	Password string        `json:"password"`
	Role     entities.Role `json:"role"`
}

// AuthService handles registration and sign-in
type AuthService struct {
	users      repositories.UserRepository
	patients   repositories.PatientRepository
	doctors    repositories.DoctorRepository
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repositories.UserRepository,
	patients repositories.PatientRepository,
	doctors repositories.DoctorRepository,
	bcryptCost int,
) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		patients:   patients,
		doctors:    doctors,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user and the empty profile matching its role. No
// session is established.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)

	if in.Name == "" || in.Email == "" || in.Mobile == "" || in.Password == "" || in.Role == "" {
		return apperrors.NewValidationError(MsgAllFieldsRequired)
	}
	if !in.Role.Valid() {
		return apperrors.NewValidationError(MsgInvalidRole)
	}

	exists, err := s.users.ExistsByEmailOrMobile(ctx, in.Email, in.Mobile)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewConflictError(MsgAlreadyRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch in.Role {
	case entities.RolePatient:
		err = s.users.CreatePatientAccount(ctx, user, &entities.Patient{
			ID:             uuid.New().String(),
			UserID:         user.ID,
			Name:           user.Name,
			IconURL:        entities.DefaultPatientIconURL,
			AppointmentIDs: []string{},
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	case entities.RoleDoctor:
		err = s.users.CreateDoctorAccount(ctx, user, &entities.Doctor{
			ID:             uuid.New().String(),
			UserID:         user.ID,
			Name:           user.Name,
			IconURL:        entities.DefaultDoctorIconURL,
			Services:       []string{},
			AppointmentIDs: []string{},
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	if err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return nil
}

// Authenticate matches identifier against email or mobile and returns the
// user with its profile flattened in
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*entities.SessionUser, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.NewValidationError(MsgIdentifierPasswordReq)
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to verify password", err)
	}

	switch user.Role {
	case entities.RolePatient:
		patient, err := s.patients.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return entities.NewPatientSession(user, patient), nil
	case entities.RoleDoctor:
		doctor, err := s.doctors.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return entities.NewDoctorSession(user, doctor), nil
	}
	return nil, apperrors.NewInternalError("user has unknown role", errors.New(string(user.Role)))
}
