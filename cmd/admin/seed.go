package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/application/services"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

type seedDoctor struct {
	account services.RegisterInput
	profile entities.Doctor
	rating  float64
	reviews int
}

func intp(v int) *int { return &v }

var demoDoctors = []seedDoctor{
	{
		account: services.RegisterInput{Name: "Dr. Ananya Iyer", Email: "ananya.iyer@ayucare.test", Mobile: "9000000101"},
		profile: entities.Doctor{
			Specialty: "Cardiology", Degree: "MBBS, MD, DM (Cardiology)", Gender: entities.GenderFemale,
			Expression: "Every heartbeat matters.", ExperienceYears: intp(14), PatientsCount: "3000+",
			Services: []string{"ECG", "Echocardiography", "Hypertension care"},
			About:    "Interventional cardiologist focused on preventive heart care.",
		},
		rating: 4.9, reviews: 212,
	},
	{
		account: services.RegisterInput{Name: "Dr. Rohan Mehta", Email: "rohan.mehta@ayucare.test", Mobile: "9000000102"},
		profile: entities.Doctor{
			Specialty: "Dermatology", Degree: "MBBS, MD (Dermatology)", Gender: entities.GenderMale,
			Expression: "Healthy skin, confident you.", ExperienceYears: intp(9), PatientsCount: "1500+",
			Services: []string{"Acne treatment", "Psoriasis", "Allergy testing"},
		},
		rating: 4.6, reviews: 98,
	},
	{
		account: services.RegisterInput{Name: "Dr. Kavya Nair", Email: "kavya.nair@ayucare.test", Mobile: "9000000103"},
		profile: entities.Doctor{
			Specialty: "Pediatrics", Degree: "MBBS, DCH", Gender: entities.GenderFemale,
			Expression: "Little patients, big care.", ExperienceYears: intp(11), PatientsCount: "2500+",
			Services: []string{"Vaccination", "Growth monitoring", "Newborn care"},
		},
		rating: 4.8, reviews: 176,
	},
	{
		account: services.RegisterInput{Name: "Dr. Sameer Khan", Email: "sameer.khan@ayucare.test", Mobile: "9000000104"},
		profile: entities.Doctor{
			Specialty: "Orthopedics", Degree: "MBBS, MS (Ortho)", Gender: entities.GenderMale,
			Expression: "Back on your feet.", ExperienceYears: intp(17), PatientsCount: "4000+",
			Services: []string{"Joint replacement", "Sports injuries", "Fracture care"},
		},
		rating: 4.7, reviews: 143,
	},
	{
		account: services.RegisterInput{Name: "Dr. Priya Sharma", Email: "priya.sharma@ayucare.test", Mobile: "9000000105"},
		profile: entities.Doctor{
			Specialty: "Cardiology", Degree: "MBBS, MD", Gender: entities.GenderFemale,
			Expression: "Listening to your heart.", ExperienceYears: intp(6), PatientsCount: "800+",
			Services: []string{"Cardiac screening", "Cholesterol management"},
		},
		rating: 4.3, reviews: 41,
	},
}

// seed registers the demo doctors, fills their profiles and opens them for
// booking. Running it twice updates the existing accounts.
func seed(ctx context.Context, env *environment, reset bool, password string) error {
	if password == "" {
		password = os.Getenv("SEED_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("-password or SEED_PASSWORD is required")
	}

	if reset {
		log.Warn().Msg("Truncating tables before seeding")
		if _, err := env.pg.DB().ExecContext(ctx,
			`TRUNCATE TABLE appointments, doctors, patients, users RESTART IDENTITY CASCADE`); err != nil {
			return fmt.Errorf("failed to truncate tables: %w", err)
		}
	}

	for _, d := range demoDoctors {
		account := d.account
		account.Password = password
		account.Role = entities.RoleDoctor

		err := env.auth.Register(ctx, account)
		if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return fmt.Errorf("register %s: %w", account.Email, err)
		}

		user, err := env.users.GetByIdentifier(ctx, account.Email)
		if err != nil {
			return fmt.Errorf("look up %s: %w", account.Email, err)
		}
		doctor, err := env.doctorDB.GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("look up profile of %s: %w", account.Email, err)
		}

		profile := d.profile
		profile.ID = doctor.ID
		if err := env.doctors.UpdateProfile(ctx, &profile); err != nil {
			return err
		}
		if err := env.doctors.UpdateRating(ctx, doctor.ID, d.rating, d.reviews); err != nil {
			return err
		}
		if err := env.doctors.SetAvailability(ctx, doctor.ID, true); err != nil {
			return err
		}
		log.Info().Str("doctor_id", doctor.ID).Str("name", account.Name).Msg("Seeded doctor")
	}

	log.Info().Int("doctors", len(demoDoctors)).Msg("Seeding complete")
	return nil
}
