package repositories

import (
	"context"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// DoctorRepository defines the interface for doctor profile operations
type DoctorRepository interface {
	// ListAvailable retrieves every doctor open for booking
	ListAvailable(ctx context.Context) ([]*entities.Doctor, error)

	// GetAvailableByID retrieves a doctor that is open for booking
	GetAvailableByID(ctx context.Context, id string) (*entities.Doctor, error)

	// GetByID retrieves a doctor regardless of availability
	GetByID(ctx context.Context, id string) (*entities.Doctor, error)

	// GetByUserID retrieves the doctor profile owned by a user
	GetByUserID(ctx context.Context, userID string) (*entities.Doctor, error)

	// GetByIDs retrieves doctors keyed by profile ID. Unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Doctor, error)

	// ListAll retrieves every doctor regardless of availability
	ListAll(ctx context.Context) ([]*entities.Doctor, error)

	// SetAvailability opens or closes a doctor for booking
	SetAvailability(ctx context.Context, id string, available bool) error

	// UpdateRating overwrites a doctor's rating and review count
	UpdateRating(ctx context.Context, id string, rating float64, reviews int) error

	// UpdateProfile overwrites the descriptive profile fields of a doctor
	UpdateProfile(ctx context.Context, doctor *entities.Doctor) error
}

// DoctorSearchParams holds the public directory search input
type DoctorSearchParams struct {
	Query     string
	Specialty string
	Limit     int
}

// DoctorSearchRepository defines the interface for doctor search operations (e.g. Typesense)
type DoctorSearchRepository interface {
	// Search returns the IDs of matching available doctors, best match first
	Search(ctx context.Context, params DoctorSearchParams) ([]string, error)

	// Index indexes a doctor
	Index(ctx context.Context, doctor *entities.Doctor) error

	// Delete removes a doctor from the index
	Delete(ctx context.Context, id string) error
}
