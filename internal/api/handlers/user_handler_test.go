package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/ayucare/internal/api/handlers"
	"github.com/zatekoja/ayucare/internal/application/services"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func postJSON(path string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUserHandler_Signup(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		auth := new(MockAuthService)
		h := handlers.NewUserHandler(auth, new(MockDoctorService))
		auth.On("Register", mock.Anything, services.RegisterInput{
			Name: "Asha", Email: "asha@example.com", Mobile: "9000000001", Password: "pw", Role: entities.RolePatient,
		}).Return(nil)

		w := httptest.NewRecorder()
		h.Signup(w, postJSON("/api/users/signup", map[string]string{
			"name": "Asha", "email": "asha@example.com", "mobile": "9000000001", "password": "pw", "role": "patient",
		}))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, handlers.MsgSignupSuccessful, decodeMessage(t, w))
		auth.AssertExpectations(t)
	})

	t.Run("duplicate is a 400", func(t *testing.T) {
		auth := new(MockAuthService)
		h := handlers.NewUserHandler(auth, new(MockDoctorService))
		auth.On("Register", mock.Anything, mock.Anything).Return(apperrors.NewConflictError(services.MsgAlreadyRegistered))

		w := httptest.NewRecorder()
		h.Signup(w, postJSON("/api/users/signup", map[string]string{"name": "Asha"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, services.MsgAlreadyRegistered, decodeMessage(t, w))
	})

	t.Run("malformed body", func(t *testing.T) {
		h := handlers.NewUserHandler(new(MockAuthService), new(MockDoctorService))
		w := httptest.NewRecorder()
		h.Signup(w, httptest.NewRequest(http.MethodPost, "/api/users/signup", bytes.NewBufferString("{")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, handlers.MsgInvalidBody, decodeMessage(t, w))
	})

	t.Run("unexpected failure is a generic 500", func(t *testing.T) {
		auth := new(MockAuthService)
		h := handlers.NewUserHandler(auth, new(MockDoctorService))
		auth.On("Register", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		w := httptest.NewRecorder()
		h.Signup(w, postJSON("/api/users/signup", map[string]string{"name": "Asha"}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, handlers.MsgServerError, decodeMessage(t, w))
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestUserHandler_Signin(t *testing.T) {
	t.Run("returns flattened user", func(t *testing.T) {
		auth := new(MockAuthService)
		h := handlers.NewUserHandler(auth, new(MockDoctorService))
		auth.On("Authenticate", mock.Anything, "asha@example.com", "pw").Return(&entities.SessionUser{
			ID: "u1", ProfileID: "p1", Name: "Asha", Role: entities.RolePatient,
		}, nil)

		w := httptest.NewRecorder()
		h.Signin(w, postJSON("/api/users/signin", map[string]string{"identifier": "asha@example.com", "password": "pw"}))

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Message string                 `json:"message"`
			User    map[string]interface{} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, handlers.MsgSigninSuccessful, body.Message)
		assert.Equal(t, "p1", body.User["profileId"])
		assert.NotContains(t, body.User, "password")
		assert.NotContains(t, body.User, "passwordHash")
	})

	t.Run("bad credentials", func(t *testing.T) {
		auth := new(MockAuthService)
		h := handlers.NewUserHandler(auth, new(MockDoctorService))
		auth.On("Authenticate", mock.Anything, "x", "y").Return(nil, apperrors.NewUnauthorizedError(services.MsgInvalidCredentials))

		w := httptest.NewRecorder()
		h.Signin(w, postJSON("/api/users/signin", map[string]string{"identifier": "x", "password": "y"}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, services.MsgInvalidCredentials, decodeMessage(t, w))
	})
}

func TestUserHandler_Doctors(t *testing.T) {
	t.Run("empty listing encodes as array", func(t *testing.T) {
		doctors := new(MockDoctorService)
		h := handlers.NewUserHandler(new(MockAuthService), doctors)
		doctors.On("ListAvailableDoctors", mock.Anything).Return(nil, nil)

		w := httptest.NewRecorder()
		h.ListDoctors(w, httptest.NewRequest(http.MethodGet, "/api/users/doctors", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("listing hides internal fields", func(t *testing.T) {
		doctors := new(MockDoctorService)
		h := handlers.NewUserHandler(new(MockAuthService), doctors)
		doctors.On("ListAvailableDoctors", mock.Anything).Return([]*entities.Doctor{
			{ID: "d1", UserID: "u9", Name: "Dr. Rao", Services: []string{"ECG"}, AppointmentIDs: []string{"a1"}, Available: true},
		}, nil)

		w := httptest.NewRecorder()
		h.ListDoctors(w, httptest.NewRequest(http.MethodGet, "/api/users/doctors", nil))

		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.NotContains(t, body[0], "userId")
		assert.NotContains(t, body[0], "appointmentIds")
		assert.NotContains(t, body[0], "createdAt")
		assert.Equal(t, []interface{}{"ECG"}, body[0]["service"])
	})

	t.Run("search passes query", func(t *testing.T) {
		doctors := new(MockDoctorService)
		h := handlers.NewUserHandler(new(MockAuthService), doctors)
		doctors.On("SearchDoctors", mock.Anything, "rao", "Cardiology").Return([]*entities.Doctor{{ID: "d1"}}, nil)

		w := httptest.NewRecorder()
		h.SearchDoctors(w, httptest.NewRequest(http.MethodGet, "/api/users/doctors/search?q=rao&specialty=Cardiology", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		doctors.AssertExpectations(t)
	})

	t.Run("get doctor not found", func(t *testing.T) {
		doctors := new(MockDoctorService)
		h := handlers.NewUserHandler(new(MockAuthService), doctors)
		doctors.On("GetDoctor", mock.Anything, "d9").Return(nil, apperrors.NewNotFoundError(services.MsgDoctorNotFound))

		req := httptest.NewRequest(http.MethodGet, "/api/users/doctors/d9", nil)
		req.SetPathValue("id", "d9")
		w := httptest.NewRecorder()
		h.GetDoctor(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, services.MsgDoctorNotFound, decodeMessage(t, w))
	})

	t.Run("patient count", func(t *testing.T) {
		doctors := new(MockDoctorService)
		h := handlers.NewUserHandler(new(MockAuthService), doctors)
		doctors.On("CountPatients", mock.Anything).Return(17, nil)

		w := httptest.NewRecorder()
		h.CountPatients(w, httptest.NewRequest(http.MethodGet, "/api/users/patients/count", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count":17}`, w.Body.String())
	})
}
