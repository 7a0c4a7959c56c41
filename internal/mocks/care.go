package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/session"
)

// MockCareService is a mock implementation of the CareService interface
type MockCareService struct {
	mock.Mock
}

func (m *MockCareService) ShareWithDoctor(ctx context.Context, patientID, doctorID uuid.UUID) (*models.CareLink, error) {
	args := m.Called(ctx, patientID, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CareLink), args.Error(1)
}

func (m *MockCareService) ListPatients(ctx context.Context, doctorID uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, doctorID)
	return usersArg(args, 0), args.Error(1)
}

func (m *MockCareService) ListDoctors(ctx context.Context, patientID uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, patientID)
	return usersArg(args, 0), args.Error(1)
}

func (m *MockCareService) Directory(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return usersArg(args, 0), args.Error(1)
}

func (m *MockCareService) ResolveSubject(ctx context.Context, sess session.Session, requested string) (uuid.UUID, error) {
	args := m.Called(ctx, sess, requested)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCareService) CanView(ctx context.Context, sess session.Session, userID uuid.UUID) error {
	args := m.Called(ctx, sess, userID)
	return args.Error(0)
}

func usersArg(args mock.Arguments, i int) []models.User {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]models.User)
}
