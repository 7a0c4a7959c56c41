package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterPublicRoutes registers the routes that need no token. guard runs
// before each of them.
func (h *AuthHandler) RegisterPublicRoutes(router *gin.RouterGroup, guard gin.HandlerFunc) {
	auth := router.Group("/auth")
	auth.Use(guard)
	{
		auth.POST("/signup/patient", h.SignupPatient)
		auth.POST("/signup/doctor", h.SignupDoctor)
		auth.POST("/login", h.Login)
	}
}

// RegisterRoutes registers the routes that require a session.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) SignupPatient(c *gin.Context) {
	var req types.SignupPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.SignupPatient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) SignupDoctor(c *gin.Context) {
	var req types.SignupDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.SignupDoctor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
