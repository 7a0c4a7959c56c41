package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia-app/dia/backend/internal/apperrors"
)

func newErrorRouter(t *testing.T, logs *bytes.Buffer, h gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	r := gin.New()
	r.Use(ErrorHandler(apperrors.NewHandler(logger)))
	r.GET("/", h)
	return r
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", apperrors.NewValidationError("value must be positive"), http.StatusBadRequest, apperrors.CodeValidation, "value must be positive"},
		{"forbidden", apperrors.NewForbiddenError("no access"), http.StatusForbidden, apperrors.CodeForbidden, "no access"},
		{"database hides details", apperrors.NewDatabaseError(errors.New("pq: relation missing")), http.StatusInternalServerError, apperrors.CodeDatabase, "Internal Server Error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal, "Internal Server Error"},
		{"unavailable keeps message", apperrors.NewUnavailableError("Report archive is not configured"), http.StatusServiceUnavailable, apperrors.CodeUnavailable, "Report archive is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			r := newErrorRouter(t, &logs, func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decodeError(t, rr)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.NotEmpty(t, logs.String())
		})
	}
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	var logs bytes.Buffer
	r := newErrorRouter(t, &logs, func(c *gin.Context) {
		panic("unexpected")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, apperrors.CodeInternal, decodeError(t, rr).Code)
	assert.Contains(t, logs.String(), "panic: unexpected")
}

func TestErrorHandlerKeepsWrittenResponse(t *testing.T) {
	var logs bytes.Buffer
	r := newErrorRouter(t, &logs, func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}
