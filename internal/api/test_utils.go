package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/middleware"
	"github.com/dia-app/dia/backend/internal/mocks"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/types"
)

// testEnv is a router wired to mock services.
type testEnv struct {
	router  *gin.Engine
	auth    *mocks.MockAuthService
	care    *mocks.MockCareService
	reports *mocks.MockReportService
}

func newTestEnv(t *testing.T, svc Services) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:    new(mocks.MockAuthService),
		care:    new(mocks.MockCareService),
		reports: new(mocks.MockReportService),
	}
	if svc.Auth == nil {
		svc.Auth = env.auth
	}
	if svc.Care == nil {
		svc.Care = env.care
	}
	if svc.Reports == nil {
		svc.Reports = env.reports
	}

	env.router = gin.New()
	env.router.Use(middleware.ErrorHandler(apperrors.NewHandler(nil)))
	RegisterRoutes(env.router, nil, svc, Limiters{})
	return env
}

// login makes token a valid bearer for a user with role and returns its ID.
func (e *testEnv) login(token string, role models.Role) uuid.UUID {
	id := uuid.New()
	e.auth.On("ValidateToken", mock.Anything, token).Return(&types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ID:        "jti-" + token,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: token + "@example.com",
		Role:  role,
	}, nil)
	return id
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Code
}
