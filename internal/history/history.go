// Package history summarizes recent records for dashboards.
package history

import (
	"sort"
	"time"
)

// DefaultWindow is the glucose dashboard window.
const DefaultWindow = 24 * time.Hour

// TimestampedValue is a single numeric reading.
type TimestampedValue struct {
	At    time.Time
	Value float64
}

// Timestamped is implemented by every record category.
type Timestamped interface {
	EventTime() time.Time
}

// Summary is the trailing-window aggregate of a series.
type Summary struct {
	// Average is nil when no record falls inside the window
	Average *float64  `json:"average"`
	Series  []float64 `json:"series"`
}

// Chartable reports whether the series has enough points for a trend line.
func (s Summary) Chartable() bool {
	return len(s.Series) >= 2
}

// AggregateRecent keeps records with now-At <= window, orders them oldest
// first and averages them.
func AggregateRecent(now time.Time, records []TimestampedValue, window time.Duration) Summary {
	kept := make([]TimestampedValue, 0, len(records))
	for _, r := range records {
		if now.Sub(r.At) <= window {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].At.Before(kept[j].At)
	})

	series := make([]float64, len(kept))
	var sum float64
	for i, r := range kept {
		series[i] = r.Value
		sum += r.Value
	}

	summary := Summary{Series: series}
	if len(series) > 0 {
		avg := sum / float64(len(series))
		summary.Average = &avg
	}
	return summary
}

// TopN returns the n most recent records, keeping input order on ties.
func TopN[T Timestamped](records []T, n int) []T {
	if n <= 0 || len(records) == 0 {
		return []T{}
	}

	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EventTime().After(sorted[j].EventTime())
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
