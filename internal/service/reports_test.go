package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/testhelpers"
	"github.com/dia-app/dia/backend/internal/types"
)

type fakeArchive struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeArchive) PutObject(ctx context.Context, key, contentType, filename string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = body
	return nil
}

func (f *fakeArchive) GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://archive.example.com/" + key + "?ttl=" + expiration.String(), nil
}

func newTestReportService(t *testing.T, archive ArchiveStore) (*ReportService, *RecordService) {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	records := NewRecordService(db)
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	svc := NewReportService(records, loc, archive, 15*time.Minute, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC) }
	return svc, records
}

func TestReportBuildCSV(t *testing.T) {
	svc, records := newTestReportService(t, nil)
	user := testhelpers.CreateTestPatient(t, records.db)
	ctx := context.Background()

	testhelpers.CreateGlucose(t, records.db, user.ID, 120, time.Date(2025, 3, 9, 11, 30, 0, 0, time.UTC))
	testhelpers.CreateGlucose(t, records.db, user.ID, 90, time.Date(2025, 1, 1, 11, 30, 0, 0, time.UTC))
	_, err := records.CreateMeal(ctx, user.ID, types.CreateMealRequest{
		MealType: "Almoço", Carbs: floatPtr(45), EatenAt: time.Date(2025, 3, 8, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	artifact, err := svc.Build(ctx, user.ID, types.ReportQuery{Period: "7", Categories: "glucose,food", Format: "csv"})
	require.NoError(t, err)

	assert.Equal(t, "relatorio_glucose-food_2025-03-03_a_2025-03-10.csv", artifact.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", artifact.MIMEType)
	assert.Equal(t, 2, artifact.RowCount)

	lines := strings.Split(string(artifact.Bytes), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"categoria","valor","detalhe","dataHora"`, lines[0])
	assert.Contains(t, lines[1], `"09/03/2025 08:30"`)
	assert.Contains(t, lines[2], `"Almoço"`)
}

func TestReportBuildPrint(t *testing.T) {
	svc, records := newTestReportService(t, nil)
	user := testhelpers.CreateTestPatient(t, records.db)

	artifact, err := svc.Build(context.Background(), user.ID, types.ReportQuery{
		Period: "custom", Start: "2025-03-01", End: "2025-03-05", Categories: "glucose,insulin,food,activity", Format: "pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "relatorio_todas_2025-03-01_a_2025-03-05.html", artifact.Filename)
	assert.Contains(t, string(artifact.Bytes), "Sem dados no período")
	assert.Contains(t, string(artifact.Bytes), "window.print()")
}

func TestReportBuildErrors(t *testing.T) {
	svc, records := newTestReportService(t, nil)
	user := testhelpers.CreateTestPatient(t, records.db)

	tests := []struct {
		name string
		q    types.ReportQuery
		code string
	}{
		{"no category wins over bad format", types.ReportQuery{Period: "7", Format: "xlsx"}, apperrors.CodeNoCategorySelected},
		{"unknown category", types.ReportQuery{Period: "7", Categories: "sleep"}, apperrors.CodeInvalidCategory},
		{"bad format", types.ReportQuery{Period: "7", Categories: "glucose", Format: "xlsx"}, apperrors.CodeInvalidFormat},
		{"bad period", types.ReportQuery{Period: "14", Categories: "glucose"}, apperrors.CodeInvalidRange},
		{"start after end", types.ReportQuery{Period: "custom", Start: "2025-03-05", End: "2025-03-01", Categories: "glucose"}, apperrors.CodeInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Build(context.Background(), user.ID, tt.q)
			appErr, ok := apperrors.As(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, 400, appErr.HTTPStatus())
		})
	}
}

func TestReportArchive(t *testing.T) {
	archive := &fakeArchive{}
	svc, records := newTestReportService(t, archive)
	user := testhelpers.CreateTestPatient(t, records.db)

	resp, err := svc.Archive(context.Background(), user.ID, types.ReportQuery{Period: "30", Categories: "glucose"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "reports/"+user.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(resp.Key, resp.Filename))
	assert.Contains(t, resp.URL, resp.Key)
	assert.Equal(t, svc.now().Add(15*time.Minute).UTC(), resp.ExpiresAt)
	assert.Contains(t, archive.objects, resp.Key)

	archive.putErr = errors.New("bucket gone")
	_, err = svc.Archive(context.Background(), user.ID, types.ReportQuery{Period: "30", Categories: "glucose"})
	assert.True(t, apperrors.IsType(err, apperrors.TypeExternal))
}

func TestReportArchiveDisabled(t *testing.T) {
	svc, records := newTestReportService(t, nil)
	user := testhelpers.CreateTestPatient(t, records.db)

	_, err := svc.Archive(context.Background(), user.ID, types.ReportQuery{Period: "7", Categories: "glucose"})
	assert.True(t, apperrors.IsType(err, apperrors.TypeUnavailable))
}

func floatPtr(f float64) *float64 { return &f }
