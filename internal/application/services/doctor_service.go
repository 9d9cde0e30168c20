package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/directory"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/providers"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

// MsgDoctorNotFound is returned by GetDoctor
const MsgDoctorNotFound = "Doctor not found!"

// DoctorService serves the public doctor directory and the administrative
// edits made from the admin CLI
type DoctorService struct {
	doctors  repositories.DoctorRepository
	patients repositories.PatientRepository
	search   repositories.DoctorSearchRepository
	eventBus providers.EventBus
}

// NewDoctorService creates a new doctor service. search and eventBus are
// optional.
func NewDoctorService(
	doctors repositories.DoctorRepository,
	patients repositories.PatientRepository,
	search repositories.DoctorSearchRepository,
	eventBus providers.EventBus,
) *DoctorService {
	return &DoctorService{
		doctors:  doctors,
		patients: patients,
		search:   search,
		eventBus: eventBus,
	}
}

// ListAvailableDoctors returns every doctor open for booking
func (s *DoctorService) ListAvailableDoctors(ctx context.Context) ([]*entities.Doctor, error) {
	return s.doctors.ListAvailable(ctx)
}

// GetDoctor returns one doctor open for booking
func (s *DoctorService) GetDoctor(ctx context.Context, id string) (*entities.Doctor, error) {
	doctor, err := s.doctors.GetAvailableByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgDoctorNotFound)
	}
	return doctor, err
}

// CountPatients returns the number of registered patients
func (s *DoctorService) CountPatients(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}

// SearchDoctors finds available doctors by name or specialty substring and
// exact specialty. Index hits are narrowed by directory.Filter so they never
// include a doctor the filter would reject. When the index is missing, fails
// or yields nothing, the directory listing is filtered in process.
func (s *DoctorService) SearchDoctors(ctx context.Context, query, specialty string) ([]*entities.Doctor, error) {
	if s.search != nil {
		doctors, err := s.searchIndex(ctx, query, specialty)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("Doctor index search failed, falling back to directory filter")
		case len(doctors) > 0:
			return doctors, nil
		default:
			log.Debug().Str("query", query).Msg("Doctor index returned no matches, falling back to directory filter")
		}
	}

	all, err := s.doctors.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Filter(all, query, specialty), nil
}

func (s *DoctorService) searchIndex(ctx context.Context, query, specialty string) ([]*entities.Doctor, error) {
	ids, err := s.search.Search(ctx, repositories.DoctorSearchParams{Query: query, Specialty: specialty})
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	found, err := s.doctors.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// keep index order; drop anything the database no longer lists
	doctors := make([]*entities.Doctor, 0, len(ids))
	for _, id := range ids {
		if d, ok := found[id]; ok && d.Available {
			doctors = append(doctors, d)
		}
	}
	return directory.Filter(doctors, query, specialty), nil
}

// SetAvailability opens or closes a doctor for booking
func (s *DoctorService) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := s.doctors.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	s.afterEdit(ctx, id, entities.DoctorEventTypeAvailabilityChanged, map[string]interface{}{"available": available})
	return nil
}

// UpdateRating overwrites a doctor's rating (0 to 5) and review count
func (s *DoctorService) UpdateRating(ctx context.Context, id string, rating float64, reviews int) error {
	if math.IsNaN(rating) || rating < 0 || rating > 5 {
		return apperrors.NewValidationError(fmt.Sprintf("rating must be between 0 and 5, got %v", rating))
	}
	if reviews < 0 {
		return apperrors.NewValidationError("reviews count cannot be negative")
	}

	if err := s.doctors.UpdateRating(ctx, id, rating, reviews); err != nil {
		return err
	}
	s.afterEdit(ctx, id, entities.DoctorEventTypeRatingChanged, map[string]interface{}{"rating": rating, "reviewsCount": reviews})
	return nil
}

// UpdateProfile overwrites a doctor's descriptive fields
func (s *DoctorService) UpdateProfile(ctx context.Context, doctor *entities.Doctor) error {
	if doctor == nil || strings.TrimSpace(doctor.ID) == "" {
		return apperrors.NewValidationError("doctor id is required")
	}
	if doctor.Gender != "" && !doctor.Gender.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid gender %q", doctor.Gender))
	}

	if err := s.doctors.UpdateProfile(ctx, doctor); err != nil {
		return err
	}
	s.afterEdit(ctx, doctor.ID, entities.DoctorEventTypeProfileChanged, map[string]interface{}{"specialty": doctor.Specialty})
	return nil
}

// Reindex pushes every doctor to the search index and returns how many
// were indexed
func (s *DoctorService) Reindex(ctx context.Context) (int, error) {
	if s.search == nil {
		return 0, fmt.Errorf("search index is not configured")
	}

	doctors, err := s.doctors.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for i, d := range doctors {
		if err := s.search.Index(ctx, d); err != nil {
			return i, fmt.Errorf("failed to index doctor %s: %w", d.ID, err)
		}
	}
	return len(doctors), nil
}

// afterEdit keeps the search index and the directory caches in step with a
// committed write. Failures are logged; the write itself stands.
func (s *DoctorService) afterEdit(ctx context.Context, id string, eventType entities.DoctorEventType, changed map[string]interface{}) {
	if s.search != nil {
		doctor, err := s.doctors.GetByID(ctx, id)
		if err == nil {
			err = s.search.Index(ctx, doctor)
		}
		if err != nil {
			log.Warn().Err(err).Str("doctor_id", id).Msg("Failed to re-index doctor")
		}
	}

	if s.eventBus != nil {
		event := entities.NewDoctorEvent(id, eventType, changed)
		if err := s.eventBus.Publish(ctx, providers.EventChannelDoctorUpdates, event); err != nil {
			log.Warn().Err(err).Str("doctor_id", id).Msg("Failed to publish doctor event")
		}
	}
}
