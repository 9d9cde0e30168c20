package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/providers"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/observability"
)

// Cache TTLs
const (
	doctorByIDTTL       = 5 * time.Minute
	availableDoctorsTTL = 3 * time.Minute
)

// AvailableDoctorsCacheKey holds the public directory listing
const AvailableDoctorsCacheKey = "doctors:available"

// DoctorCacheKey returns the key a single public doctor is cached under
func DoctorCacheKey(id string) string {
	return fmt.Sprintf("doctor:%s", id)
}

// CachedDoctorAdapter wraps a DoctorRepository with read-through caching of
// the public directory reads. Writes go straight through and drop the
// affected keys.
type CachedDoctorAdapter struct {
	repositories.DoctorRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedDoctorAdapter creates a new cached doctor adapter. metrics may be nil.
func NewCachedDoctorAdapter(adapter repositories.DoctorRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.DoctorRepository {
	return &CachedDoctorAdapter{
		DoctorRepository: adapter,
		cache:            cache,
		metrics:          metrics,
	}
}

// ListAvailable retrieves the directory listing with caching
func (a *CachedDoctorAdapter) ListAvailable(ctx context.Context) ([]*entities.Doctor, error) {
	var doctors []*entities.Doctor
	if a.lookup(ctx, AvailableDoctorsCacheKey, &doctors) {
		return doctors, nil
	}

	doctors, err := a.DoctorRepository.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	a.store(ctx, AvailableDoctorsCacheKey, doctors, availableDoctorsTTL)
	return doctors, nil
}

// GetAvailableByID retrieves a bookable doctor with caching
func (a *CachedDoctorAdapter) GetAvailableByID(ctx context.Context, id string) (*entities.Doctor, error) {
	cacheKey := DoctorCacheKey(id)

	var doctor entities.Doctor
	if a.lookup(ctx, cacheKey, &doctor) {
		return &doctor, nil
	}

	found, err := a.DoctorRepository.GetAvailableByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(ctx, cacheKey, found, doctorByIDTTL)
	return found, nil
}

// SetAvailability writes through and invalidates the directory keys
func (a *CachedDoctorAdapter) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := a.DoctorRepository.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	a.invalidate(ctx, id)
	return nil
}

// UpdateRating writes through and invalidates the directory keys
func (a *CachedDoctorAdapter) UpdateRating(ctx context.Context, id string, rating float64, reviews int) error {
	if err := a.DoctorRepository.UpdateRating(ctx, id, rating, reviews); err != nil {
		return err
	}
	a.invalidate(ctx, id)
	return nil
}

// UpdateProfile writes through and invalidates the directory keys
func (a *CachedDoctorAdapter) UpdateProfile(ctx context.Context, doctor *entities.Doctor) error {
	if err := a.DoctorRepository.UpdateProfile(ctx, doctor); err != nil {
		return err
	}
	a.invalidate(ctx, doctor.ID)
	return nil
}

// lookup decodes a cached value into dest and reports whether it was usable.
// Cached values carry only the public JSON view of a doctor.
func (a *CachedDoctorAdapter) lookup(ctx context.Context, key string, dest interface{}) bool {
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		observability.RecordCacheMiss(ctx, a.metrics, key)
		return false
	}

	if err := json.Unmarshal(cached, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached doctors")
		observability.RecordCacheMiss(ctx, a.metrics, key)
		return false
	}

	observability.RecordCacheHit(ctx, a.metrics, key)
	return true
}

func (a *CachedDoctorAdapter) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal doctors for cache")
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache doctors")
	}
}

func (a *CachedDoctorAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, AvailableDoctorsCacheKey, DoctorCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("doctor_id", id).Msg("Failed to invalidate doctor cache")
	}
}
