package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/types"
)

const (
	// DefaultListLimit applies when the caller gives no limit.
	DefaultListLimit = 50
	// MaxListLimit caps any single list query.
	MaxListLimit = 500
	// maxRangeRecords caps per-category rows fetched for a report.
	maxRangeRecords = 10000
)

// RecordService stores and lists the four record categories. Records are
// append-only.
type RecordService struct {
	db *gorm.DB
}

func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{db: db}
}

func (s *RecordService) CreateGlucose(ctx context.Context, userID uuid.UUID, req types.CreateGlucoseRequest) (*models.GlucoseMeasurement, error) {
	period := strings.TrimSpace(req.Period)
	switch {
	case req.Value <= 0:
		return nil, apperrors.NewValidationError("value must be a positive mg/dL reading")
	case period == "" || len(period) > 50:
		return nil, apperrors.NewValidationError("period is required and must have at most 50 characters")
	case req.MeasuredAt.IsZero():
		return nil, apperrors.NewValidationError("measuredAt is required")
	}

	record := &models.GlucoseMeasurement{
		UserID:     userID,
		Value:      req.Value,
		MeasuredAt: req.MeasuredAt.UTC(),
		Period:     period,
		Notes:      trimmed(req.Notes),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return record, nil
}

func (s *RecordService) CreateInsulin(ctx context.Context, userID uuid.UUID, req types.CreateInsulinRequest) (*models.InsulinDose, error) {
	insulinType := models.InsulinType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	switch {
	case req.Units <= 0:
		return nil, apperrors.NewValidationError("units must be positive")
	case !insulinType.Valid():
		return nil, apperrors.NewValidationError("type must be BASAL or BOLUS")
	case req.AppliedAt.IsZero():
		return nil, apperrors.NewValidationError("appliedAt is required")
	}

	record := &models.InsulinDose{
		UserID:    userID,
		Units:     req.Units,
		Type:      insulinType,
		AppliedAt: req.AppliedAt.UTC(),
		Notes:     trimmed(req.Notes),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return record, nil
}

func (s *RecordService) CreateMeal(ctx context.Context, userID uuid.UUID, req types.CreateMealRequest) (*models.Meal, error) {
	mealType := strings.TrimSpace(req.MealType)
	switch {
	case mealType == "" || len(mealType) > 50:
		return nil, apperrors.NewValidationError("mealType is required and must have at most 50 characters")
	case req.Carbs == nil || !nonNegative(*req.Carbs):
		return nil, apperrors.NewValidationError("carbs must be zero or more grams")
	case !optionalNonNegative(req.Protein), !optionalNonNegative(req.Fat), !optionalNonNegative(req.Sugar):
		return nil, apperrors.NewValidationError("protein, fat and sugar must be zero or more grams")
	case req.EatenAt.IsZero():
		return nil, apperrors.NewValidationError("eatenAt is required")
	}

	record := &models.Meal{
		UserID:   userID,
		MealType: mealType,
		Carbs:    *req.Carbs,
		Protein:  req.Protein,
		Fat:      req.Fat,
		Sugar:    req.Sugar,
		EatenAt:  req.EatenAt.UTC(),
		Notes:    trimmed(req.Notes),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return record, nil
}

func (s *RecordService) CreateActivity(ctx context.Context, userID uuid.UUID, req types.CreateActivityRequest) (*models.Activity, error) {
	activityType := strings.TrimSpace(req.ActivityType)
	switch {
	case activityType == "" || len(activityType) > 50:
		return nil, apperrors.NewValidationError("activityType is required and must have at most 50 characters")
	case req.DurationMinutes < 1:
		return nil, apperrors.NewValidationError("durationMinutes must be at least 1")
	case !optionalNonNegative(req.Calories):
		return nil, apperrors.NewValidationError("calories must be zero or more")
	case req.PerformedAt.IsZero():
		return nil, apperrors.NewValidationError("performedAt is required")
	}

	var intensity *models.Intensity
	if req.Intensity != nil && strings.TrimSpace(*req.Intensity) != "" {
		v, ok := NormalizeIntensity(*req.Intensity)
		if !ok {
			return nil, apperrors.NewValidationError("intensity must be Leve, Moderada or Intensa")
		}
		intensity = &v
	}

	record := &models.Activity{
		UserID:          userID,
		ActivityType:    activityType,
		DurationMinutes: req.DurationMinutes,
		Intensity:       intensity,
		Calories:        req.Calories,
		PerformedAt:     req.PerformedAt.UTC(),
		Notes:           trimmed(req.Notes),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return record, nil
}

// NormalizeIntensity maps the accepted spellings to the stored value.
func NormalizeIntensity(raw string) (models.Intensity, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "leve", "baixa":
		return models.IntensityLight, true
	case "moderada", "média", "media":
		return models.IntensityModerate, true
	case "intensa", "alta":
		return models.IntensityIntense, true
	}
	return "", false
}

// List queries return the newest records first.

func (s *RecordService) ListGlucose(ctx context.Context, userID uuid.UUID, limit int) ([]models.GlucoseMeasurement, error) {
	var out []models.GlucoseMeasurement
	return out, s.list(ctx, &out, userID, "measured_at", limit)
}

func (s *RecordService) ListInsulin(ctx context.Context, userID uuid.UUID, limit int) ([]models.InsulinDose, error) {
	var out []models.InsulinDose
	return out, s.list(ctx, &out, userID, "applied_at", limit)
}

func (s *RecordService) ListMeals(ctx context.Context, userID uuid.UUID, limit int) ([]models.Meal, error) {
	var out []models.Meal
	return out, s.list(ctx, &out, userID, "eaten_at", limit)
}

func (s *RecordService) ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error) {
	var out []models.Activity
	return out, s.list(ctx, &out, userID, "performed_at", limit)
}

// GlucoseSince returns readings at or after start, including any dated
// after the current time.
func (s *RecordService) GlucoseSince(ctx context.Context, userID uuid.UUID, start time.Time) ([]models.GlucoseMeasurement, error) {
	var out []models.GlucoseMeasurement
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND measured_at >= ?", userID, start.UTC()).
		Order("measured_at DESC").
		Limit(maxRangeRecords).
		Find(&out).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return out, nil
}

// Between queries return records with start <= event time <= end.

func (s *RecordService) GlucoseBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.GlucoseMeasurement, error) {
	var out []models.GlucoseMeasurement
	return out, s.between(ctx, &out, userID, "measured_at", start, end)
}

func (s *RecordService) InsulinBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.InsulinDose, error) {
	var out []models.InsulinDose
	return out, s.between(ctx, &out, userID, "applied_at", start, end)
}

func (s *RecordService) MealsBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Meal, error) {
	var out []models.Meal
	return out, s.between(ctx, &out, userID, "eaten_at", start, end)
}

func (s *RecordService) ActivitiesBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Activity, error) {
	var out []models.Activity
	return out, s.between(ctx, &out, userID, "performed_at", start, end)
}

func (s *RecordService) list(ctx context.Context, dest interface{}, userID uuid.UUID, timeColumn string, limit int) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(timeColumn + " DESC").
		Limit(clampLimit(limit)).
		Find(dest).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *RecordService) between(ctx context.Context, dest interface{}, userID uuid.UUID, timeColumn string, start, end time.Time) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(timeColumn+" >= ? AND "+timeColumn+" <= ?", start.UTC(), end.UTC()).
		Order(timeColumn + " DESC").
		Limit(maxRangeRecords).
		Find(dest).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func optionalNonNegative(v *float64) bool {
	return v == nil || nonNegative(*v)
}
