package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/types"
)

// RecordHandler exposes the four record categories. Patients write their own
// records; reads may target a linked patient through ?userId=.
type RecordHandler struct {
	recordService service.IRecordService
	careService   service.ICareService
}

func NewRecordHandler(recordService service.IRecordService, careService service.ICareService) *RecordHandler {
	return &RecordHandler{recordService: recordService, careService: careService}
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/glucose", patientsOnly, h.CreateGlucose)
	router.GET("/glucose", h.ListGlucose)
	router.POST("/insulin", patientsOnly, h.CreateInsulin)
	router.GET("/insulin", h.ListInsulin)
	router.POST("/meals", patientsOnly, h.CreateMeal)
	router.GET("/meals", h.ListMeals)
	router.POST("/activity", patientsOnly, h.CreateActivity)
	router.GET("/activity", h.ListActivities)
}

func (h *RecordHandler) CreateGlucose(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req types.CreateGlucoseRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.recordService.CreateGlucose(c.Request.Context(), sess.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) CreateInsulin(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req types.CreateInsulinRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.recordService.CreateInsulin(c.Request.Context(), sess.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) CreateMeal(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req types.CreateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.recordService.CreateMeal(c.Request.Context(), sess.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) CreateActivity(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req types.CreateActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.recordService.CreateActivity(c.Request.Context(), sess.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) ListGlucose(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}
	list, err := h.recordService.ListGlucose(c.Request.Context(), subject.userID, subject.limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RecordHandler) ListInsulin(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}
	list, err := h.recordService.ListInsulin(c.Request.Context(), subject.userID, subject.limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RecordHandler) ListMeals(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}
	list, err := h.recordService.ListMeals(c.Request.Context(), subject.userID, subject.limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RecordHandler) ListActivities(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}
	list, err := h.recordService.ListActivities(c.Request.Context(), subject.userID, subject.limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
