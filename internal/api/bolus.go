package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/bolus"
	"github.com/dia-app/dia/backend/internal/types"
)

// BolusHandler serves the carb calculator. It is stateless.
type BolusHandler struct {
	params bolus.Params
}

func NewBolusHandler() *BolusHandler {
	return &BolusHandler{params: bolus.DefaultParams}
}

func (h *BolusHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/bolus/estimate", h.Estimate)
}

func (h *BolusHandler) Estimate(c *gin.Context) {
	var req types.BolusRequest
	if !bindJSON(c, &req) {
		return
	}

	dose, err := h.params.DoseStrings(string(req.Carbs), string(req.Glucose))
	if err != nil {
		respondError(c, invalidBolusInput(err))
		return
	}

	c.JSON(http.StatusOK, types.BolusResponse{
		DoseUnits:      dose.Rounded(),
		RawDose:        dose.Units,
		MealDose:       dose.Meal,
		CorrectionDose: dose.Correction,
		Disclaimer:     bolus.Disclaimer,
	})
}

func invalidBolusInput(err error) error {
	return apperrors.Wrap(err, apperrors.TypeValidation, apperrors.CodeInvalidInput,
		"carbs and glucose must be positive numbers")
}
