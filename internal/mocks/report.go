package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dia-app/dia/backend/internal/report"
	"github.com/dia-app/dia/backend/internal/types"
)

// MockReportService is a mock implementation of the ReportService interface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Build(ctx context.Context, userID uuid.UUID, q types.ReportQuery) (*report.Artifact, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Artifact), args.Error(1)
}

func (m *MockReportService) Archive(ctx context.Context, userID uuid.UUID, q types.ReportQuery) (*types.ArchivedReportResponse, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ArchivedReportResponse), args.Error(1)
}
