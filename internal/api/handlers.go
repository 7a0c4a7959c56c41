package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/database"
	"github.com/dia-app/dia/backend/internal/middleware"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/session"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth      service.IAuthService
	Care      service.ICareService
	Records   service.IRecordService
	Dashboard service.IDashboardService
	Reports   service.IReportService
	Messages  service.IMessageService
}

// Limiters holds the request limiters. Either may be nil.
type Limiters struct {
	Auth    *middleware.RateLimiter
	Reports *middleware.RateLimiter
}

// HealthCheck reports liveness and database reachability
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		dbStatus := "up"
		if db != nil {
			if err := database.HealthCheck(c.Request.Context(), db); err != nil {
				status, code, dbStatus = "degraded", http.StatusServiceUnavailable, "down"
			}
		}
		c.JSON(code, gin.H{
			"status":   status,
			"database": dbStatus,
			"message":  "dIA API is running",
			"time":     time.Now().UTC(),
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc Services, limiters Limiters) {
	router.GET("/health", HealthCheck(db))
	router.GET("/api/health", HealthCheck(db))

	v1 := router.Group("/api/v1")

	authHandler := NewAuthHandler(svc.Auth)
	authHandler.RegisterPublicRoutes(v1, limit(limiters.Auth))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	if db != nil {
		protected.Use(middleware.RequireAccount(db))
	}

	authHandler.RegisterRoutes(protected)
	NewUserHandler(svc.Auth, svc.Care).RegisterRoutes(protected)
	NewRecordHandler(svc.Records, svc.Care).RegisterRoutes(protected)
	NewDashboardHandler(svc.Dashboard, svc.Care).RegisterRoutes(protected)
	NewBolusHandler().RegisterRoutes(protected)
	NewReportHandler(svc.Reports, svc.Care).RegisterRoutes(protected, limit(limiters.Reports))
	NewCareHandler(svc.Care).RegisterRoutes(protected)
	NewMessageHandler(svc.Messages).RegisterRoutes(protected)

	if limiters.Reports != nil {
		RegisterRateLimitRoutes(protected, limiters.Reports)
	}
}

// RegisterRateLimitRoutes exposes the caller's remaining report quota
func RegisterRateLimitRoutes(router *gin.RouterGroup, reportLimiter *middleware.RateLimiter) {
	router.GET("/rate-limits/reports", func(c *gin.Context) {
		sess, ok := currentSession(c)
		if !ok {
			return
		}

		remaining, resetTime, err := reportLimiter.GetRemainingRequests(c.Request.Context(), "user:"+sess.UserID.String())
		if err != nil {
			respondError(c, apperrors.Wrap(err, apperrors.TypeUnavailable, apperrors.CodeUnavailable, "Failed to check rate limit"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"remaining": remaining,
			"resetTime": resetTime.Unix(),
		})
	})
}

func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.RateLimitMiddleware()
}

// currentSession returns the session or records a 401.
func currentSession(c *gin.Context) (session.Session, bool) {
	sess, ok := session.FromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError("Not authenticated"))
	}
	return sess, ok
}

// respondError hands err to middleware.ErrorHandler.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindJSON decodes the body and reports binding failures as validation
// errors.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.TypeValidation, apperrors.CodeInvalidInput, "Invalid request body"))
		return false
	}
	return true
}

// patientsOnly guards write routes.
var patientsOnly = middleware.RequireRole(models.RolePatient)

var doctorsOnly = middleware.RequireRole(models.RoleDoctor)
