package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/service"
)

// UserHandler serves account profiles. Password hashes never leave the
// model because of its json tag.
type UserHandler struct {
	authService service.IAuthService
	careService service.ICareService
}

func NewUserHandler(authService service.IAuthService, careService service.ICareService) *UserHandler {
	return &UserHandler{authService: authService, careService: careService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.GET("/:id", h.GetUser)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser returns another account when a care link joins it to the caller.
func (h *UserHandler) GetUser(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NewValidationError("id must be a UUID"))
		return
	}
	if err := h.careService.CanView(c.Request.Context(), sess, id); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
