package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the enumerated statuses
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// MaxProblemLength bounds the free-text problem attached to a booking
const MaxProblemLength = 500

// DateLayout is the wire format of Appointment.Date
const DateLayout = "2006-01-02"

// Appointment is a booking of one slot with one doctor. DoctorName and
// PatientName are copied at creation and never re-synced.
type Appointment struct {
	ID             string            `json:"id" db:"id"`
	PatientID      string            `json:"patientId" db:"patient_id"`
	DoctorID       string            `json:"doctorId" db:"doctor_id"`
	DoctorName     string            `json:"doctorName" db:"doctor_name"`
	PatientName    string            `json:"patientName" db:"patient_name"`
	PatientProblem string            `json:"patientProblem" db:"patient_problem"`
	Date           string            `json:"date" db:"date"`
	Time           string            `json:"time" db:"time"`
	Status         AppointmentStatus `json:"status" db:"status"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time         `json:"updatedAt" db:"updated_at"`
}

// AppointmentView is an appointment with the counterpart's profile summary
// attached. Exactly one of Doctor and Patient is set depending on who asked.
type AppointmentView struct {
	Appointment
	Doctor  *DoctorSummary  `json:"doctor,omitempty"`
	Patient *PatientSummary `json:"patient,omitempty"`
}

// CompareSchedule orders two appointments by (date, slot start). It returns
// a negative number when a comes first chronologically.
func CompareSchedule(a, b *Appointment) int {
	if a.Date != b.Date {
		if a.Date < b.Date {
			return -1
		}
		return 1
	}

	ta, okA := SlotStart(a.Time)
	tb, okB := SlotStart(b.Time)
	if okA && okB {
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	}

	switch {
	case a.Time < b.Time:
		return -1
	case a.Time > b.Time:
		return 1
	}
	return 0
}
