package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/service"
)

// CareHandler manages patient/doctor sharing.
type CareHandler struct {
	careService service.ICareService
}

func NewCareHandler(careService service.ICareService) *CareHandler {
	return &CareHandler{careService: careService}
}

func (h *CareHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/doctors", h.Directory)

	care := router.Group("/care")
	{
		care.POST("/doctors/:doctorId", patientsOnly, h.ShareWithDoctor)
		care.GET("/doctors", patientsOnly, h.ListDoctors)
		care.GET("/patients", doctorsOnly, h.ListPatients)
	}
}

func (h *CareHandler) Directory(c *gin.Context) {
	doctors, err := h.careService.Directory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *CareHandler) ShareWithDoctor(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		respondError(c, apperrors.NewValidationError("doctorId must be a UUID"))
		return
	}

	link, err := h.careService.ShareWithDoctor(c.Request.Context(), sess.UserID, doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *CareHandler) ListDoctors(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	doctors, err := h.careService.ListDoctors(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *CareHandler) ListPatients(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	patients, err := h.careService.ListPatients(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}
