package repositories

import (
	"context"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// CreatePatientAccount creates a user and its patient profile in one transaction
	CreatePatientAccount(ctx context.Context, user *entities.User, patient *entities.Patient) error

	// CreateDoctorAccount creates a user and its doctor profile in one transaction
	CreateDoctorAccount(ctx context.Context, user *entities.User, doctor *entities.Doctor) error

	// GetByIdentifier retrieves a user whose email or mobile equals identifier
	GetByIdentifier(ctx context.Context, identifier string) (*entities.User, error)

	// ExistsByEmailOrMobile reports whether either value is already registered
	ExistsByEmailOrMobile(ctx context.Context, email, mobile string) (bool, error)
}
