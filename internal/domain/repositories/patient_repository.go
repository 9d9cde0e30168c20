package repositories

import (
	"context"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// PatientRepository defines the interface for patient profile operations
type PatientRepository interface {
	// GetByID retrieves a patient by profile ID
	GetByID(ctx context.Context, id string) (*entities.Patient, error)

	// GetByUserID retrieves the patient profile owned by a user
	GetByUserID(ctx context.Context, userID string) (*entities.Patient, error)

	// GetByIDs retrieves patients keyed by profile ID. Unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Patient, error)

	// Count returns the number of patient profiles
	Count(ctx context.Context) (int, error)
}
