package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/ayucare/internal/application/services"
	"github.com/zatekoja/ayucare/internal/domain/entities"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, identifier, password string) (*entities.SessionUser, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SessionUser), args.Error(1)
}

type MockDoctorService struct {
	mock.Mock
}

func (m *MockDoctorService) ListAvailableDoctors(ctx context.Context) ([]*entities.Doctor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Doctor), args.Error(1)
}

func (m *MockDoctorService) SearchDoctors(ctx context.Context, query, specialty string) ([]*entities.Doctor, error) {
	args := m.Called(ctx, query, specialty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Doctor), args.Error(1)
}

func (m *MockDoctorService) GetDoctor(ctx context.Context, id string) (*entities.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

func (m *MockDoctorService) CountPatients(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) CreateAppointment(ctx context.Context, in services.CreateAppointmentInput) (*entities.Appointment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) ListAppointments(ctx context.Context, userID string, role entities.Role) ([]*entities.AppointmentView, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AppointmentView), args.Error(1)
}

func (m *MockAppointmentService) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}
