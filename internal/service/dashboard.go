package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/history"
	"github.com/dia-app/dia/backend/internal/models"
)

// recentPerCategory is how many latest records each dashboard list shows.
const recentPerCategory = 5

// dashboardFetchLimit bounds the glucose rows read for the 24h average.
const dashboardFetchLimit = 500

type RecentRecords struct {
	Glucose    []models.GlucoseMeasurement `json:"glucose"`
	Insulin    []models.InsulinDose        `json:"insulin"`
	Meals      []models.Meal               `json:"meals"`
	Activities []models.Activity           `json:"activities"`
}

// Dashboard is the home screen summary of one patient.
type Dashboard struct {
	AverageGlucose24h *float64      `json:"averageGlucose24h"`
	Series            []float64     `json:"series"`
	Chartable         bool          `json:"chartable"`
	Recent            RecentRecords `json:"recent"`
}

type DashboardService struct {
	records *RecordService
	now     func() time.Time
}

func NewDashboardService(records *RecordService) *DashboardService {
	return &DashboardService{records: records, now: time.Now}
}

func (s *DashboardService) Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	now := s.now()

	glucose, err := s.records.GlucoseSince(ctx, userID, now.Add(-history.DefaultWindow))
	if err != nil {
		return nil, err
	}
	if len(glucose) > dashboardFetchLimit {
		glucose = glucose[:dashboardFetchLimit]
	}
	values := make([]history.TimestampedValue, len(glucose))
	for i, g := range glucose {
		values[i] = history.TimestampedValue{At: g.MeasuredAt, Value: float64(g.Value)}
	}
	summary := history.AggregateRecent(now, values, history.DefaultWindow)

	latestGlucose, err := s.records.ListGlucose(ctx, userID, recentPerCategory)
	if err != nil {
		return nil, err
	}
	insulin, err := s.records.ListInsulin(ctx, userID, recentPerCategory)
	if err != nil {
		return nil, err
	}
	meals, err := s.records.ListMeals(ctx, userID, recentPerCategory)
	if err != nil {
		return nil, err
	}
	activities, err := s.records.ListActivities(ctx, userID, recentPerCategory)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		AverageGlucose24h: summary.Average,
		Series:            summary.Series,
		Chartable:         summary.Chartable(),
		Recent: RecentRecords{
			Glucose:    history.TopN(latestGlucose, recentPerCategory),
			Insulin:    history.TopN(insulin, recentPerCategory),
			Meals:      history.TopN(meals, recentPerCategory),
			Activities: history.TopN(activities, recentPerCategory),
		},
	}, nil
}
