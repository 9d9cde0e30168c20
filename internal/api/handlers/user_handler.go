package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/ayucare/internal/application/services"
	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// Success messages of the user endpoints
const (
	MsgSignupSuccessful = "Sign up Successful!"
	MsgSigninSuccessful = "Sign in successful."
)

// AuthService defines the registration and sign-in operations
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) error
	Authenticate(ctx context.Context, identifier, password string) (*entities.SessionUser, error)
}

// DoctorService defines the public directory operations
type DoctorService interface {
	ListAvailableDoctors(ctx context.Context) ([]*entities.Doctor, error)
	SearchDoctors(ctx context.Context, query, specialty string) ([]*entities.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*entities.Doctor, error)
	CountPatients(ctx context.Context) (int, error)
}

// UserHandler handles the /api/users endpoints
type UserHandler struct {
	auth    AuthService
	doctors DoctorService
}

// NewUserHandler creates a new user handler
func NewUserHandler(auth AuthService, doctors DoctorService) *UserHandler {
	return &UserHandler{
		auth:    auth,
		doctors: doctors,
	}
}

type signinRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type signinResponse struct {
	Message string                `json:"message"`
	User    *entities.SessionUser `json:"user"`
}

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithMessage(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	if err := h.auth.Register(r.Context(), in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithMessage(w, http.StatusCreated, MsgSignupSuccessful)
}

// Signin handles POST /api/users/signin
func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var in signinRequest
	if err := decodeJSON(r, &in); err != nil {
		respondWithMessage(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), in.Identifier, in.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, signinResponse{Message: MsgSigninSuccessful, User: user})
}

// ListDoctors handles GET /api/users/doctors
func (h *UserHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctors.ListAvailableDoctors(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(doctors))
}

// SearchDoctors handles GET /api/users/doctors/search?q=&specialty=
func (h *UserHandler) SearchDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	doctors, err := h.doctors.SearchDoctors(r.Context(), query.Get("q"), query.Get("specialty"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNil(doctors))
}

// GetDoctor handles GET /api/users/doctors/{id}
func (h *UserHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctors.GetDoctor(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doctor)
}

// CountPatients handles GET /api/users/patients/count
func (h *UserHandler) CountPatients(w http.ResponseWriter, r *http.Request) {
	count, err := h.doctors.CountPatients(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}

// nonNil keeps empty listings encoded as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
