package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/models"
)

// SignupPatientRequest is the patient signup form.
type SignupPatientRequest struct {
	FullName      string  `json:"fullName" binding:"required,max=150"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=6"`
	DateOfBirth   *string `json:"dateOfBirth"`
	DiabetesType  string  `json:"diabetesType" binding:"required,max=50"`
	DiagnosisDate *string `json:"diagnosisDate"`
	Treatment     string  `json:"treatment" binding:"required,max=100"`
	GlucoseChecks *string `json:"glucoseChecks"`
	BolusInsulin  *string `json:"bolusInsulin"`
	BasalInsulin  *string `json:"basalInsulin"`
}

// SignupDoctorRequest is the doctor signup form.
type SignupDoctorRequest struct {
	FullName    string  `json:"fullName" binding:"required,max=150"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=6"`
	DateOfBirth *string `json:"dateOfBirth"`
	Specialty   string  `json:"specialty" binding:"required,max=100"`
	CRM         string  `json:"crm" binding:"required,max=30"`
	Institution string  `json:"institution" binding:"required,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserSummary is the public part of a user returned with a token.
type UserSummary struct {
	ID       uuid.UUID   `json:"id"`
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        UserSummary `json:"user"`
}

type CreateGlucoseRequest struct {
	Value      int       `json:"value" binding:"required"`
	MeasuredAt time.Time `json:"measuredAt" binding:"required"`
	Period     string    `json:"period" binding:"required"`
	Notes      *string   `json:"notes"`
}

type CreateInsulinRequest struct {
	Units     int                `json:"units" binding:"required"`
	Type      models.InsulinType `json:"type" binding:"required"`
	AppliedAt time.Time          `json:"appliedAt" binding:"required"`
	Notes     *string            `json:"notes"`
}

type CreateMealRequest struct {
	MealType string    `json:"mealType" binding:"required"`
	Carbs    *float64  `json:"carbs" binding:"required"`
	Protein  *float64  `json:"protein"`
	Fat      *float64  `json:"fat"`
	Sugar    *float64  `json:"sugar"`
	EatenAt  time.Time `json:"eatenAt" binding:"required"`
	Notes    *string   `json:"notes"`
}

type CreateActivityRequest struct {
	ActivityType    string    `json:"activityType" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"required"`
	Intensity       *string   `json:"intensity"`
	Calories        *float64  `json:"calories"`
	PerformedAt     time.Time `json:"performedAt" binding:"required"`
	Notes           *string   `json:"notes"`
}

// NumberOrString accepts 12.5, "12.5" or "12,5" and keeps the raw text.
type NumberOrString string

func (n *NumberOrString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NumberOrString(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected number or string, got %s", string(data))
	}
	*n = NumberOrString(f.String())
	return nil
}

// BolusRequest is the carb calculator form.
type BolusRequest struct {
	Carbs   NumberOrString `json:"carbs"`
	Glucose NumberOrString `json:"glucose"`
}

type BolusResponse struct {
	DoseUnits      float64 `json:"doseUnits"`
	RawDose        float64 `json:"rawDose"`
	MealDose       float64 `json:"mealDose"`
	CorrectionDose float64 `json:"correctionDose"`
	Disclaimer     string  `json:"disclaimer"`
}

// ReportQuery holds the export filters as received from the client.
type ReportQuery struct {
	Period     string `form:"period"`
	Start      string `form:"start"`
	End        string `form:"end"`
	Categories string `form:"categories"`
	Format     string `form:"format"`
	UserID     string `form:"userId"`
}

type ArchivedReportResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
	Rows      int       `json:"rows"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

// ParseLimit reads a list limit; empty or invalid values yield def.
func ParseLimit(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
