package entities

import (
	"time"
)

// DefaultPatientIconURL is stored on new patient profiles
const DefaultPatientIconURL = "https://png.pngtree.com/png-vector/20191009/ourmid/pngtree-user-icon-png-image_1796659.jpg"

// Patient is the profile owned by a user with role patient
type Patient struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"-" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Age            *int      `json:"age,omitempty" db:"age"`
	Gender         Gender    `json:"gender,omitempty" db:"gender"`
	IconURL        string    `json:"iconUrl" db:"icon_url"`
	Height         *float64  `json:"height,omitempty" db:"height"`
	Weight         *float64  `json:"weight,omitempty" db:"weight"`
	Problem        string    `json:"problem,omitempty" db:"problem"`
	AppointmentIDs []string  `json:"-" db:"appointment_ids"`
	CreatedAt      time.Time `json:"-" db:"created_at"`
	UpdatedAt      time.Time `json:"-" db:"updated_at"`
}

// PatientSummary is attached to appointments listed for a doctor
type PatientSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Age     *int   `json:"age,omitempty"`
	Gender  Gender `json:"gender,omitempty"`
	Problem string `json:"problem,omitempty"`
}

// Summary returns the fields shown next to a doctor's appointment
func (p *Patient) Summary() *PatientSummary {
	return &PatientSummary{
		ID:      p.ID,
		Name:    p.Name,
		Age:     p.Age,
		Gender:  p.Gender,
		Problem: p.Problem,
	}
}
