package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAggregateRecentEmpty(t *testing.T) {
	summary := AggregateRecent(now, nil, DefaultWindow)

	assert.Nil(t, summary.Average)
	assert.NotNil(t, summary.Series)
	assert.Empty(t, summary.Series)
	assert.False(t, summary.Chartable())
}

func TestAggregateRecentAveragesInChronologicalOrder(t *testing.T) {
	records := []TimestampedValue{
		{At: now.Add(-1 * time.Hour), Value: 200},
		{At: now.Add(-5 * time.Hour), Value: 100},
	}

	summary := AggregateRecent(now, records, DefaultWindow)

	require.NotNil(t, summary.Average)
	assert.Equal(t, 150.0, *summary.Average)
	assert.Equal(t, []float64{100, 200}, summary.Series)
	assert.True(t, summary.Chartable())
}

func TestAggregateRecentWindowBoundary(t *testing.T) {
	window := 24 * time.Hour
	records := []TimestampedValue{
		{At: now.Add(-window - time.Second), Value: 300},
		{At: now.Add(-window + time.Second), Value: 90},
		{At: now.Add(-window), Value: 110},
	}

	summary := AggregateRecent(now, records, window)

	assert.Equal(t, []float64{110, 90}, summary.Series)
	require.NotNil(t, summary.Average)
	assert.Equal(t, 100.0, *summary.Average)
}

func TestAggregateRecentSingleReadingIsNotChartable(t *testing.T) {
	summary := AggregateRecent(now, []TimestampedValue{{At: now, Value: 0}}, DefaultWindow)

	require.NotNil(t, summary.Average)
	assert.Equal(t, 0.0, *summary.Average)
	assert.False(t, summary.Chartable())
}

type entry struct {
	name string
	at   time.Time
}

func (e entry) EventTime() time.Time { return e.at }

func TestTopN(t *testing.T) {
	records := []entry{
		{"old", now.Add(-3 * time.Hour)},
		{"tie-a", now.Add(-1 * time.Hour)},
		{"newest", now},
		{"tie-b", now.Add(-1 * time.Hour)},
	}

	top := TopN(records, 3)
	names := make([]string, len(top))
	for i, e := range top {
		names[i] = e.name
	}
	assert.Equal(t, []string{"newest", "tie-a", "tie-b"}, names)

	// input must not be reordered
	assert.Equal(t, "old", records[0].name)
}

func TestTopNBounds(t *testing.T) {
	records := []entry{{"a", now}, {"b", now.Add(-time.Minute)}}

	assert.Len(t, TopN(records, 10), 2)
	assert.Empty(t, TopN(records, 0))
	assert.Empty(t, TopN(records, -1))
	assert.Empty(t, TopN([]entry{}, 3))
}
