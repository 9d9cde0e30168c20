package entities

import (
	"time"
)

// DefaultDoctorIconURL is stored on new doctor profiles
const DefaultDoctorIconURL = "https://png.pngtree.com/png-vector/20191021/ourmid/pngtree-vector-doctor-icon-png-image_1834402.jpg"

// Doctor is the profile owned by a user with role doctor. Only doctors with
// Available set are listed or bookable. UserID, AppointmentIDs and the
// timestamps never leave the server.
type Doctor struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"-" db:"user_id"`
	Name            string    `json:"name" db:"name"`
	About           string    `json:"about,omitempty" db:"about"`
	Gender          Gender    `json:"gender,omitempty" db:"gender"`
	IconURL         string    `json:"iconUrl" db:"icon_url"`
	Services        []string  `json:"service" db:"services"`
	Specialty       string    `json:"specialty,omitempty" db:"specialty"`
	Expression      string    `json:"expression,omitempty" db:"expression"`
	Degree          string    `json:"degree,omitempty" db:"degree"`
	ExperienceYears *int      `json:"experienceYears,omitempty" db:"experience_years"`
	PatientsCount   string    `json:"patientsCount,omitempty" db:"patients_count"`
	Rating          *float64  `json:"rating,omitempty" db:"rating"`
	ReviewsCount    *int      `json:"reviewsCount,omitempty" db:"reviews_count"`
	Available       bool      `json:"available" db:"available"`
	AppointmentIDs  []string  `json:"-" db:"appointment_ids"`
	CreatedAt       time.Time `json:"-" db:"created_at"`
	UpdatedAt       time.Time `json:"-" db:"updated_at"`
}

// RatingValue returns the rating, treating a missing one as zero
func (d *Doctor) RatingValue() float64 {
	if d.Rating == nil {
		return 0
	}
	return *d.Rating
}

// DoctorSummary is attached to appointments listed for a patient
type DoctorSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	IconURL   string `json:"iconUrl,omitempty"`
}

// Summary returns the fields shown next to a patient's appointment
func (d *Doctor) Summary() *DoctorSummary {
	return &DoctorSummary{
		ID:        d.ID,
		Name:      d.Name,
		Specialty: d.Specialty,
		IconURL:   d.IconURL,
	}
}
