package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/api"
	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/logger"
	"github.com/dia-app/dia/backend/internal/middleware"
)

// Options configures SetupRouter.
type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
	DB          *gorm.DB
	Services    api.Services
	Limiters    api.Limiters
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	router := gin.New()

	// Error handling runs outermost so it also catches panics from the
	// middleware below it.
	router.Use(middleware.ErrorHandler(apperrors.NewHandler(log)))
	router.Use(logger.GinLogger(log))
	router.Use(middleware.CORS(opts.CORSOrigins))

	api.RegisterRoutes(router, opts.DB, opts.Services, opts.Limiters)

	return router
}
