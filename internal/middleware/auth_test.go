package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/session"
	"github.com/dia-app/dia/backend/internal/testhelpers"
	"github.com/dia-app/dia/backend/internal/types"
)

type stubValidator struct {
	claims map[string]*types.TokenClaims
}

func (s stubValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, apperrors.NewUnauthorizedError("Invalid or expired token")
}

func claimsFor(id uuid.UUID, role models.Role) *types.TokenClaims {
	return &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ID:        "jti-" + id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "user@example.com",
		Role:  role,
	}
}

func newAuthRouter(validator TokenValidator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(apperrors.NewHandler(nil)))
	handlers := append([]gin.HandlerFunc{AuthMiddleware(validator)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		sess, _ := session.FromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": sess.UserID, "role": sess.Role})
	})
	r.GET("/private", handlers...)
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware(t *testing.T) {
	patientID := uuid.New()
	validator := stubValidator{claims: map[string]*types.TokenClaims{
		"good": claimsFor(patientID, models.RolePatient),
	}}
	r := newAuthRouter(validator)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(r, tt.header)
			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, rr.Body.String(), patientID.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	patientID, doctorID := uuid.New(), uuid.New()
	validator := stubValidator{claims: map[string]*types.TokenClaims{
		"patient": claimsFor(patientID, models.RolePatient),
		"doctor":  claimsFor(doctorID, models.RoleDoctor),
	}}
	r := newAuthRouter(validator, RequireRole(models.RoleDoctor))

	assert.Equal(t, http.StatusOK, get(r, "Bearer doctor").Code)

	rr := get(r, "Bearer patient")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), apperrors.CodeForbidden)
}

func TestRequireAccount(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	patient := testhelpers.CreateTestPatient(t, db)
	validator := stubValidator{claims: map[string]*types.TokenClaims{
		"live":    claimsFor(patient.ID, models.RolePatient),
		"stale":   claimsFor(patient.ID, models.RoleDoctor),
		"deleted": claimsFor(uuid.New(), models.RolePatient),
	}}
	r := newAuthRouter(validator, RequireAccount(db))

	assert.Equal(t, http.StatusOK, get(r, "Bearer live").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer stale").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer deleted").Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewLoginRateLimiter(nil, 1, time.Minute)
	r := gin.New()
	r.Use(rl.RateLimitMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRateLimitWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	gin.SetMode(gin.TestMode)

	rl := NewLoginRateLimiter(client, 2, time.Minute)
	var logs bytes.Buffer
	r := newErrorRouter(t, &logs, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Use(rl.RateLimitMiddleware())
	r.GET("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
		codes[i] = rr.Code
		if i == 2 {
			assert.NotEmpty(t, rr.Header().Get("Retry-After"))
			assert.Contains(t, rr.Body.String(), apperrors.CodeRateLimit)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	remaining, reset, err := rl.GetRemainingRequests(context.Background(), "ip:192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))
}
