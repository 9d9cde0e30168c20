package services

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	"github.com/zatekoja/ayucare/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

// Messages returned to API callers
const (
	MsgMissingRequiredFields = "Missing required fields."
	MsgProblemTooLong        = "Problem description must be at most 500 characters."
	MsgInvalidDate           = "Date must be in YYYY-MM-DD format."
	MsgDoctorNotAvailable    = "Doctor is not available for booking."
	MsgPatientNotFound       = "Patient not found."
	MsgMissingUserInfo       = "Missing user info."
	MsgProfileDoctorNotFound = "Doctor not found."
	MsgInvalidStatus         = "Invalid status."
	MsgAppointmentNotFound   = "Appointment not found."
	MsgAppointmentBooked     = "Appointment booked successfully."
	MsgAppointmentUpdated    = "Appointment updated."
)

// CreateAppointmentInput holds a booking request
type CreateAppointmentInput struct {
	PatientID      string `json:"patientId"`
	DoctorID       string `json:"doctorId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	PatientProblem string `json:"patientProblem"`
}

// AppointmentService handles appointment booking logic
type AppointmentService struct {
	repo        repositories.AppointmentRepository
	doctorRepo  repositories.DoctorRepository
	patientRepo repositories.PatientRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	doctorRepo repositories.DoctorRepository,
	patientRepo repositories.PatientRepository,
) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
	}
}

// CreateAppointment books a slot with a doctor. Slots are not checked for
// conflicts; the same doctor, date and time may be booked repeatedly.
func (s *AppointmentService) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*entities.Appointment, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.DoctorID = strings.TrimSpace(in.DoctorID)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)

	if in.PatientID == "" || in.DoctorID == "" || in.Date == "" || in.Time == "" {
		return nil, apperrors.NewValidationError(MsgMissingRequiredFields)
	}
	if utf8.RuneCountInString(in.PatientProblem) > entities.MaxProblemLength {
		return nil, apperrors.NewValidationError(MsgProblemTooLong)
	}
	if _, err := time.Parse(entities.DateLayout, in.Date); err != nil {
		return nil, apperrors.NewValidationError(MsgInvalidDate)
	}

	doctor, err := s.doctorRepo.GetByID(ctx, in.DoctorID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewValidationError(MsgDoctorNotAvailable)
	}
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return nil, apperrors.NewValidationError(MsgDoctorNotAvailable)
	}

	patient, err := s.patientRepo.GetByID(ctx, in.PatientID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgPatientNotFound)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	appointment := &entities.Appointment{
		ID:             uuid.New().String(),
		PatientID:      patient.ID,
		DoctorID:       doctor.ID,
		DoctorName:     doctor.Name,
		PatientName:    patient.Name,
		PatientProblem: in.PatientProblem,
		Date:           in.Date,
		Time:           in.Time,
		Status:         entities.AppointmentStatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", appointment.ID).
		Str("doctor_id", doctor.ID).
		Str("patient_id", patient.ID).
		Msg("Appointment booked")
	return appointment, nil
}

// ListAppointments returns the appointments of the profile owned by userID,
// newest first, each with the counterpart's summary attached
func (s *AppointmentService) ListAppointments(ctx context.Context, userID string, role entities.Role) ([]*entities.AppointmentView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || role == "" {
		return nil, apperrors.NewValidationError(MsgMissingUserInfo)
	}

	var views []*entities.AppointmentView
	switch role {
	case entities.RolePatient:
		patient, err := s.patientRepo.GetByUserID(ctx, userID)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError(MsgPatientNotFound)
		}
		if err != nil {
			return nil, err
		}
		views, err = s.patientView(ctx, patient.ID)
		if err != nil {
			return nil, err
		}
	case entities.RoleDoctor:
		doctor, err := s.doctorRepo.GetByUserID(ctx, userID)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError(MsgProfileDoctorNotFound)
		}
		if err != nil {
			return nil, err
		}
		views, err = s.doctorView(ctx, doctor.ID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewValidationError(MsgInvalidRole)
	}

	SortNewestFirst(views)
	return views, nil
}

func (s *AppointmentService) patientView(ctx context.Context, patientID string) ([]*entities.AppointmentView, error) {
	appointments, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	doctors, err := s.doctorRepo.GetByIDs(ctx, distinct(appointments, func(a *entities.Appointment) string { return a.DoctorID }))
	if err != nil {
		return nil, err
	}

	views := make([]*entities.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		view := &entities.AppointmentView{Appointment: *a}
		if d, ok := doctors[a.DoctorID]; ok {
			view.Doctor = d.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *AppointmentService) doctorView(ctx context.Context, doctorID string) ([]*entities.AppointmentView, error) {
	appointments, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	patients, err := s.patientRepo.GetByIDs(ctx, distinct(appointments, func(a *entities.Appointment) string { return a.PatientID }))
	if err != nil {
		return nil, err
	}

	views := make([]*entities.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		view := &entities.AppointmentView{Appointment: *a}
		if p, ok := patients[a.PatientID]; ok {
			view.Patient = p.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateStatus overwrites an appointment's status. Any enumerated status
// may follow any other.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(MsgInvalidStatus)
	}

	current, err := s.repo.GetByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgAppointmentNotFound)
	}
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	appointment, err := s.repo.UpdateStatus(ctx, id, status)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgAppointmentNotFound)
	}
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", id).
		Str("status", string(status)).
		Msg("Appointment status updated")
	return appointment, nil
}

// SortNewestFirst orders appointments descending by date, then by slot
// start time
func SortNewestFirst(views []*entities.AppointmentView) {
	sort.SliceStable(views, func(i, j int) bool {
		return entities.CompareSchedule(&views[i].Appointment, &views[j].Appointment) > 0
	})
}

func distinct(appointments []*entities.Appointment, key func(*entities.Appointment) string) []string {
	seen := make(map[string]struct{}, len(appointments))
	ids := make([]string, 0, len(appointments))
	for _, a := range appointments {
		k := key(a)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ids = append(ids, k)
	}
	return ids
}
