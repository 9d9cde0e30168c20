package entities

import (
	"time"
)

// Role decides which profile a user owns. It is fixed at sign-up.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// Gender is optional on both profile kinds
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is male or female
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// User represents an identity record
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Mobile       string    `json:"mobile" db:"mobile"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SessionUser is what sign-in returns and what the client persists:
// identity fields with the owning profile flattened in. ProfileID is the
// patient or doctor id that appointments reference; ID is the user id.
type SessionUser struct {
	ID        string `json:"id"`
	ProfileID string `json:"profileId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Role      Role   `json:"role"`

	Gender  Gender `json:"gender,omitempty"`
	IconURL string `json:"iconUrl,omitempty"`

	// patient
	Age     *int     `json:"age,omitempty"`
	Height  *float64 `json:"height,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
	Problem string   `json:"problem,omitempty"`

	// doctor
	About           string   `json:"about,omitempty"`
	Specialty       string   `json:"specialty,omitempty"`
	Expression      string   `json:"expression,omitempty"`
	Degree          string   `json:"degree,omitempty"`
	ExperienceYears *int     `json:"experienceYears,omitempty"`
	PatientsCount   string   `json:"patientsCount,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewsCount    *int     `json:"reviewsCount,omitempty"`
	Services        []string `json:"service,omitempty"`
	Available       *bool    `json:"available,omitempty"`
}

// IsPatient reports whether the session belongs to a patient
func (s *SessionUser) IsPatient() bool {
	return s != nil && s.Role == RolePatient
}

func newSessionUser(u *User, profileID string) *SessionUser {
	return &SessionUser{
		ID:        u.ID,
		ProfileID: profileID,
		Name:      u.Name,
		Email:     u.Email,
		Mobile:    u.Mobile,
		Role:      u.Role,
	}
}

// NewPatientSession flattens a patient profile into a session user
func NewPatientSession(u *User, p *Patient) *SessionUser {
	s := newSessionUser(u, p.ID)
	s.Gender = p.Gender
	s.IconURL = p.IconURL
	s.Age = p.Age
	s.Height = p.Height
	s.Weight = p.Weight
	s.Problem = p.Problem
	return s
}

// NewDoctorSession flattens a doctor profile into a session user
func NewDoctorSession(u *User, d *Doctor) *SessionUser {
	s := newSessionUser(u, d.ID)
	available := d.Available
	s.Gender = d.Gender
	s.IconURL = d.IconURL
	s.About = d.About
	s.Specialty = d.Specialty
	s.Expression = d.Expression
	s.Degree = d.Degree
	s.ExperienceYears = d.ExperienceYears
	s.PatientsCount = d.PatientsCount
	s.Rating = d.Rating
	s.ReviewsCount = d.ReviewsCount
	s.Services = d.Services
	s.Available = &available
	return s
}
