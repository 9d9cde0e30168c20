package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/ayucare/internal/application/services"
	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	CreateAppointment(ctx context.Context, in services.CreateAppointmentInput) (*entities.Appointment, error)
	ListAppointments(ctx context.Context, userID string, role entities.Role) ([]*entities.AppointmentView, error)
	UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) (*entities.Appointment, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

type appointmentResponse struct {
	Message     string                `json:"message"`
	Appointment *entities.Appointment `json:"appointment"`
}

type updateStatusRequest struct {
	Status entities.AppointmentStatus `json:"status"`
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in services.CreateAppointmentInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithMessage(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	appointment, err := h.service.CreateAppointment(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, appointmentResponse{
		Message:     services.MsgAppointmentBooked,
		Appointment: appointment,
	})
}

// ListAppointments handles GET /api/appointments?userId=&role=
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	views, err := h.service.ListAppointments(r.Context(), query.Get("userId"), entities.Role(query.Get("role")))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(views))
}

// UpdateStatus handles PUT /api/appointments/{id}
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in updateStatusRequest
	if err := decodeJSON(r, &in); err != nil {
		respondWithMessage(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), r.PathValue("id"), in.Status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, appointmentResponse{
		Message:     services.MsgAppointmentUpdated,
		Appointment: appointment,
	})
}
