package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/types"
)

type ReportHandler struct {
	reportService service.IReportService
	careService   service.ICareService
}

func NewReportHandler(reportService service.IReportService, careService service.ICareService) *ReportHandler {
	return &ReportHandler{reportService: reportService, careService: careService}
}

// RegisterRoutes registers the export routes behind guard.
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup, guard gin.HandlerFunc) {
	reports := router.Group("/reports")
	reports.Use(guard)
	{
		reports.GET("", h.Download)
		reports.POST("/archive", h.Archive)
	}
}

// Download streams the export as an attachment.
func (h *ReportHandler) Download(c *gin.Context) {
	q, subject, ok := h.query(c)
	if !ok {
		return
	}

	artifact, err := h.reportService.Build(c.Request.Context(), subject, q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	c.Header("X-Report-Rows", strconv.Itoa(artifact.RowCount))
	c.Data(http.StatusOK, artifact.MIMEType, artifact.Bytes)
}

// Archive stores the export and returns a temporary link to it.
func (h *ReportHandler) Archive(c *gin.Context) {
	q, subject, ok := h.query(c)
	if !ok {
		return
	}

	resp, err := h.reportService.Archive(c.Request.Context(), subject, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReportHandler) query(c *gin.Context) (types.ReportQuery, uuid.UUID, bool) {
	var q types.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.TypeValidation, apperrors.CodeInvalidInput, "Invalid report query"))
		return q, uuid.Nil, false
	}

	sess, ok := currentSession(c)
	if !ok {
		return q, uuid.Nil, false
	}
	subject, err := h.careService.ResolveSubject(c.Request.Context(), sess, q.UserID)
	if err != nil {
		respondError(c, err)
		return q, uuid.Nil, false
	}
	return q, subject, true
}
