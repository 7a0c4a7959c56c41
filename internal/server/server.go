package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/config"
	"github.com/dia-app/dia/backend/internal/api"
	"github.com/dia-app/dia/backend/internal/database"
	"github.com/dia-app/dia/backend/internal/middleware"
	"github.com/dia-app/dia/backend/internal/router"
	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/session"
)

// Deps are the external resources a Server runs on. Redis and Archive are
// optional.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Archive service.ArchiveStore
	Logger  *slog.Logger
}

var _ service.ArchiveStore = (*config.S3Config)(nil)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
	logger *slog.Logger
}

// New builds the services and routes on top of deps.
func New(cfg *config.Config, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	var revocations session.RevocationStore
	if deps.Redis != nil {
		revocations = session.NewRedisRevocations(deps.Redis)
	} else {
		log.Warn("Redis not configured, revoked tokens are kept in memory and rate limiting is off")
		revocations = session.NewMemoryRevocations()
	}

	records := service.NewRecordService(deps.DB)
	care := service.NewCareService(deps.DB)
	services := api.Services{
		Auth:      service.NewAuthService(deps.DB, cfg.JWTSecret, cfg.JWTTTL, revocations),
		Care:      care,
		Records:   records,
		Dashboard: service.NewDashboardService(records),
		Reports:   service.NewReportService(records, cfg.ReportLocation(), deps.Archive, cfg.ReportURLTTL, log),
		Messages:  service.NewMessageService(deps.DB, care),
	}

	var limiters api.Limiters
	if deps.Redis != nil {
		limiters.Auth = middleware.NewLoginRateLimiter(deps.Redis, cfg.LoginRateLimit, cfg.RateLimitWindow)
		limiters.Reports = middleware.NewReportRateLimiter(deps.Redis, cfg.ReportRateLimit, cfg.RateLimitWindow)
	}

	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(router.Options{
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
		DB:          deps.DB,
		Services:    services,
		Limiters:    limiters,
	})

	return &Server{
		cfg:    cfg,
		router: r,
		db:     deps.DB,
		redis:  deps.Redis,
		logger: log,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Open connects to the database, redis and S3 as configured, migrates the
// schema and returns a ready server. Resources opened before a failure are
// released.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, ""); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = database.Close(db)
		return nil, err
	}

	deps := Deps{DB: db, Redis: redisClient, Logger: log}
	if s3cfg != nil {
		deps.Archive = s3cfg
	}
	return New(cfg, deps), nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting server", "addr", s.http.Addr, "env", s.cfg.Env)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout, then
// closes redis and the database.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	return errors.Join(errs...)
}
