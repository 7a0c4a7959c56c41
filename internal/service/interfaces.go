package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/report"
	"github.com/dia-app/dia/backend/internal/session"
	"github.com/dia-app/dia/backend/internal/types"
)

// IAuthService defines the interface for account and token operations
type IAuthService interface {
	SignupPatient(ctx context.Context, req types.SignupPatientRequest) (*types.AuthResponse, error)
	SignupDoctor(ctx context.Context, req types.SignupDoctorRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*types.AuthResponse, error)
	Logout(ctx context.Context, sess session.Session) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ICareService defines the interface for patient/doctor sharing
type ICareService interface {
	ShareWithDoctor(ctx context.Context, patientID, doctorID uuid.UUID) (*models.CareLink, error)
	ListPatients(ctx context.Context, doctorID uuid.UUID) ([]models.User, error)
	ListDoctors(ctx context.Context, patientID uuid.UUID) ([]models.User, error)
	Directory(ctx context.Context) ([]models.User, error)
	ResolveSubject(ctx context.Context, sess session.Session, requested string) (uuid.UUID, error)
	CanView(ctx context.Context, sess session.Session, userID uuid.UUID) error
}

// IRecordService defines the interface for clinical record operations
type IRecordService interface {
	CreateGlucose(ctx context.Context, userID uuid.UUID, req types.CreateGlucoseRequest) (*models.GlucoseMeasurement, error)
	CreateInsulin(ctx context.Context, userID uuid.UUID, req types.CreateInsulinRequest) (*models.InsulinDose, error)
	CreateMeal(ctx context.Context, userID uuid.UUID, req types.CreateMealRequest) (*models.Meal, error)
	CreateActivity(ctx context.Context, userID uuid.UUID, req types.CreateActivityRequest) (*models.Activity, error)
	ListGlucose(ctx context.Context, userID uuid.UUID, limit int) ([]models.GlucoseMeasurement, error)
	ListInsulin(ctx context.Context, userID uuid.UUID, limit int) ([]models.InsulinDose, error)
	ListMeals(ctx context.Context, userID uuid.UUID, limit int) ([]models.Meal, error)
	ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error)
}

type IDashboardService interface {
	Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

// IReportService defines the interface for data export
type IReportService interface {
	Build(ctx context.Context, userID uuid.UUID, q types.ReportQuery) (*report.Artifact, error)
	Archive(ctx context.Context, userID uuid.UUID, q types.ReportQuery) (*types.ArchivedReportResponse, error)
}

type IMessageService interface {
	List(ctx context.Context, userID, peerID uuid.UUID, limit int) ([]models.Message, error)
	Send(ctx context.Context, userID, peerID uuid.UUID, body string) (*models.Message, error)
}

var (
	_ IAuthService      = (*AuthService)(nil)
	_ ICareService      = (*CareService)(nil)
	_ IRecordService    = (*RecordService)(nil)
	_ IDashboardService = (*DashboardService)(nil)
	_ IReportService    = (*ReportService)(nil)
	_ IMessageService   = (*MessageService)(nil)
)
