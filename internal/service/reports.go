package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/report"
	"github.com/dia-app/dia/backend/internal/types"
)

// ArchiveStore persists generated reports and hands out temporary links.
type ArchiveStore interface {
	PutObject(ctx context.Context, objectKey, contentType, filename string, body []byte) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

type ReportService struct {
	records  *RecordService
	location *time.Location
	archive  ArchiveStore
	urlTTL   time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewReportService builds reports in loc. archive may be nil, which disables
// Archive.
func NewReportService(records *RecordService, loc *time.Location, archive ArchiveStore, urlTTL time.Duration, logger *slog.Logger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		records:  records,
		location: loc,
		archive:  archive,
		urlTTL:   urlTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Build validates the query, loads the selected categories and renders the
// export.
func (s *ReportService) Build(ctx context.Context, userID uuid.UUID, q types.ReportQuery) (*report.Artifact, error) {
	cats, err := report.ParseCategories(q.Categories)
	if err != nil {
		return nil, reportError(err)
	}
	format, err := report.ParseFormat(q.Format)
	if err != nil {
		return nil, reportError(err)
	}
	rng, err := report.ResolveRange(s.now().In(s.location), q.Period, q.Start, q.End)
	if err != nil {
		return nil, reportError(err)
	}

	data, err := s.load(ctx, userID, rng, cats)
	if err != nil {
		return nil, err
	}

	artifact, err := report.Build(data, rng, cats, format)
	if err != nil {
		return nil, reportError(err)
	}
	return artifact, nil
}

// Archive builds the report, stores it and returns a presigned link.
func (s *ReportService) Archive(ctx context.Context, userID uuid.UUID, q types.ReportQuery) (*types.ArchivedReportResponse, error) {
	if s.archive == nil {
		return nil, apperrors.NewUnavailableError("Report archive is not configured")
	}

	artifact, err := s.Build(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/%s/%s", userID, uuid.NewString(), artifact.Filename)
	if err := s.archive.PutObject(ctx, key, artifact.MIMEType, artifact.Filename, artifact.Bytes); err != nil {
		return nil, apperrors.Wrap(err, apperrors.TypeExternal, apperrors.CodeStorage, "Failed to store report")
	}
	url, err := s.archive.GeneratePresignedURL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.TypeExternal, apperrors.CodeStorage, "Failed to sign report link")
	}

	s.logger.InfoContext(ctx, "report archived",
		"user_id", userID.String(),
		"key", key,
		"rows", artifact.RowCount,
	)

	return &types.ArchivedReportResponse{
		URL:       url,
		Key:       key,
		Filename:  artifact.Filename,
		ExpiresAt: s.now().Add(s.urlTTL).UTC(),
		Rows:      artifact.RowCount,
	}, nil
}

// load fetches only the selected categories.
func (s *ReportService) load(ctx context.Context, userID uuid.UUID, rng report.Range, cats []report.Category) (report.Dataset, error) {
	var data report.Dataset
	for _, c := range cats {
		switch c {
		case report.CategoryGlucose:
			rows, err := s.records.GlucoseBetween(ctx, userID, rng.Start, rng.End)
			if err != nil {
				return data, err
			}
			data.Glucose = glucoseRecords(rows)
		case report.CategoryInsulin:
			rows, err := s.records.InsulinBetween(ctx, userID, rng.Start, rng.End)
			if err != nil {
				return data, err
			}
			data.Insulin = insulinRecords(rows)
		case report.CategoryFood:
			rows, err := s.records.MealsBetween(ctx, userID, rng.Start, rng.End)
			if err != nil {
				return data, err
			}
			data.Meals = mealRecords(rows)
		case report.CategoryActivity:
			rows, err := s.records.ActivitiesBetween(ctx, userID, rng.Start, rng.End)
			if err != nil {
				return data, err
			}
			data.Activities = activityRecords(rows)
		}
	}
	return data, nil
}

func glucoseRecords(in []models.GlucoseMeasurement) []report.Glucose {
	out := make([]report.Glucose, len(in))
	for i, g := range in {
		out[i] = report.Glucose{Value: g.Value, Period: g.Period, MeasuredAt: g.MeasuredAt}
	}
	return out
}

func insulinRecords(in []models.InsulinDose) []report.Insulin {
	out := make([]report.Insulin, len(in))
	for i, d := range in {
		out[i] = report.Insulin{Units: d.Units, Type: string(d.Type), AppliedAt: d.AppliedAt}
	}
	return out
}

func mealRecords(in []models.Meal) []report.Meal {
	out := make([]report.Meal, len(in))
	for i, m := range in {
		out[i] = report.Meal{Carbs: m.Carbs, MealType: m.MealType, EatenAt: m.EatenAt}
	}
	return out
}

func activityRecords(in []models.Activity) []report.Activity {
	out := make([]report.Activity, len(in))
	for i, a := range in {
		out[i] = report.Activity{DurationMinutes: a.DurationMinutes, ActivityType: a.ActivityType, PerformedAt: a.PerformedAt}
	}
	return out
}

func reportError(err error) error {
	var code, msg string
	switch {
	case errors.Is(err, report.ErrNoCategorySelected):
		code, msg = apperrors.CodeNoCategorySelected, "Select at least one category"
	case errors.Is(err, report.ErrInvalidCategory):
		code, msg = apperrors.CodeInvalidCategory, "Unknown category"
	case errors.Is(err, report.ErrInvalidRange):
		code, msg = apperrors.CodeInvalidRange, "Invalid report period"
	case errors.Is(err, report.ErrInvalidFormat):
		code, msg = apperrors.CodeInvalidFormat, "Format must be csv or pdf"
	default:
		return apperrors.NewInternalError(err)
	}
	return &apperrors.AppError{Type: apperrors.TypeValidation, Code: code, Message: msg, Internal: err}
}
