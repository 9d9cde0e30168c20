// Package client is the HTTP client the command-line app uses to talk to
// the Ayucare API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/directory"
	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// ErrNetwork is returned when the API could not be reached
var ErrNetwork = errors.New("Network error. Please try again.")

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// SignupRequest is the sign-up form
type SignupRequest struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Mobile   string        `json:"mobile"`
	Password string        `json:"password"`
	Role     entities.Role `json:"role"`
}

// BookingRequest is the body of a new appointment
type BookingRequest struct {
	PatientID      string `json:"patientId"`
	DoctorID       string `json:"doctorId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	PatientProblem string `json:"patientProblem"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type signinResponse struct {
	Message string                `json:"message"`
	User    *entities.SessionUser `json:"user"`
}

type appointmentResponse struct {
	Message     string                `json:"message"`
	Appointment *entities.Appointment `json:"appointment"`
}

// HTTPClient calls the API rooted at baseURL, e.g. http://localhost:5000/api
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with a 10 second timeout
func NewClient(baseURL string) *HTTPClient {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: 10 * time.Second})
}

// NewClientWithHTTP creates a client using hc for transport
func NewClientWithHTTP(baseURL string, hc *http.Client) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// Signup registers an account and returns the API's acknowledgment
func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (string, error) {
	var out messageResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/users/signup", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Signin authenticates by email or mobile and returns the session user
func (c *HTTPClient) Signin(ctx context.Context, identifier, password string) (*entities.SessionUser, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var out signinResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/users/signin", body, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("sign-in response carried no user")
	}
	return out.User, nil
}

// ListDoctors returns the doctors open for booking
func (c *HTTPClient) ListDoctors(ctx context.Context) ([]*entities.Doctor, error) {
	var out []*entities.Doctor
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/users/doctors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchDoctors filters the directory on the server
func (c *HTTPClient) SearchDoctors(ctx context.Context, query, specialty string) ([]*entities.Doctor, error) {
	parsed, err := url.Parse(c.baseURL + "/users/doctors/search")
	if err != nil {
		return nil, err
	}
	q := parsed.Query()
	if query != "" {
		q.Set("q", query)
	}
	if specialty != "" && specialty != directory.AllSpecialties {
		q.Set("specialty", specialty)
	}
	parsed.RawQuery = q.Encode()

	var out []*entities.Doctor
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDoctor returns one available doctor
func (c *HTTPClient) GetDoctor(ctx context.Context, id string) (*entities.Doctor, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("doctor id is required")
	}
	var out entities.Doctor
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/users/doctors/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CountPatients returns the number of registered patients
func (c *HTTPClient) CountPatients(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/users/patients/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// CreateAppointment books a slot
func (c *HTTPClient) CreateAppointment(ctx context.Context, req BookingRequest) (*entities.Appointment, error) {
	var out appointmentResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/appointments", req, &out); err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

// ListAppointments returns the appointments of the given user
func (c *HTTPClient) ListAppointments(ctx context.Context, userID string, role entities.Role) ([]*entities.AppointmentView, error) {
	parsed, err := url.Parse(c.baseURL + "/appointments")
	if err != nil {
		return nil, err
	}
	q := parsed.Query()
	q.Set("userId", userID)
	q.Set("role", string(role))
	parsed.RawQuery = q.Encode()

	var out []*entities.AppointmentView
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets an appointment's status
func (c *HTTPClient) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	body := map[string]entities.AppointmentStatus{"status": status}
	var out appointmentResponse
	if err := c.doJSON(ctx, http.MethodPut, c.baseURL+"/appointments/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("url", endpoint).Msg("API request failed")
		return ErrNetwork
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug().Err(err).Str("url", endpoint).Msg("Failed to read API response")
		return ErrNetwork
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg messageResponse
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
