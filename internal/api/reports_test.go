package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/report"
	"github.com/dia-app/dia/backend/internal/types"
)

func TestReportDownload(t *testing.T) {
	env := newTestEnv(t, Services{})
	userID := env.login("patient", models.RolePatient)

	env.care.On("ResolveSubject", mock.Anything, mock.Anything, "").Return(userID, nil)
	env.reports.On("Build", mock.Anything, userID, types.ReportQuery{Period: "7", Categories: "glucose", Format: "csv"}).
		Return(&report.Artifact{
			Filename: "relatorio_glucose_2025-03-03_a_2025-03-10.csv",
			MIMEType: "text/csv; charset=utf-8",
			Bytes:    []byte(`"categoria","valor","detalhe","dataHora"`),
			RowCount: 0,
		}, nil)

	rr := env.do(t, http.MethodGet, "/api/v1/reports?period=7&categories=glucose&format=csv", "patient", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="relatorio_glucose_2025-03-03_a_2025-03-10.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "0", rr.Header().Get("X-Report-Rows"))
	assert.Equal(t, `"categoria","valor","detalhe","dataHora"`, rr.Body.String())
}

func TestReportDownloadErrors(t *testing.T) {
	env := newTestEnv(t, Services{})
	doctorID := env.login("doctor", models.RoleDoctor)
	patientID := uuid.New()

	env.care.On("ResolveSubject", mock.Anything, mock.Anything, "").Return(doctorID, nil)
	env.care.On("ResolveSubject", mock.Anything, mock.Anything, patientID.String()).
		Return(uuid.Nil, apperrors.NewForbiddenError("Patient has not shared data with you"))
	env.reports.On("Build", mock.Anything, doctorID, mock.Anything).
		Return(nil, &apperrors.AppError{Type: apperrors.TypeValidation, Code: apperrors.CodeNoCategorySelected, Message: "Select at least one category"})

	rr := env.do(t, http.MethodGet, "/api/v1/reports?period=7", "doctor", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apperrors.CodeNoCategorySelected, errorCode(t, rr))
	assert.Empty(t, rr.Header().Get("Content-Disposition"))

	rr = env.do(t, http.MethodGet, "/api/v1/reports?period=7&categories=glucose&userId="+patientID.String(), "doctor", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestReportArchiveHandler(t *testing.T) {
	env := newTestEnv(t, Services{})
	userID := env.login("patient", models.RolePatient)
	expires := time.Date(2025, 3, 10, 15, 15, 0, 0, time.UTC)

	env.care.On("ResolveSubject", mock.Anything, mock.Anything, "").Return(userID, nil)
	env.reports.On("Archive", mock.Anything, userID, mock.Anything).Return(&types.ArchivedReportResponse{
		URL:       "https://bucket.example.com/reports/x.csv?sig=1",
		Key:       "reports/x.csv",
		Filename:  "x.csv",
		ExpiresAt: expires,
		Rows:      3,
	}, nil).Once()
	env.reports.On("Archive", mock.Anything, userID, mock.Anything).
		Return(nil, apperrors.NewUnavailableError("Report archive is not configured")).Once()

	rr := env.do(t, http.MethodPost, "/api/v1/reports/archive?period=30&categories=glucose", "patient", nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"url":"https://bucket.example.com/reports/x.csv?sig=1"`)
	assert.Contains(t, rr.Body.String(), `"rows":3`)

	rr = env.do(t, http.MethodPost, "/api/v1/reports/archive?period=30&categories=glucose", "patient", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, apperrors.CodeUnavailable, errorCode(t, rr))
}
