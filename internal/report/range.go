package report

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidRange is returned for unknown periods and bad custom ranges.
var ErrInvalidRange = errors.New("invalid report range")

// Period names accepted by ResolveRange.
const (
	Period7      = "7"
	Period30     = "30"
	Period90     = "90"
	PeriodCustom = "custom"
)

const dateLayout = "2006-01-02"

var periodDays = map[string]int{
	Period7:  7,
	Period30: 30,
	Period90: 90,
}

// Range is an inclusive time interval. Its location is used for display.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies in [Start, End].
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Location returns the zone timestamps are rendered in.
func (r Range) Location() *time.Location {
	return r.End.Location()
}

// ResolveRange turns a named window or a custom date pair into a Range.
// Named windows end at now. A custom range covers whole days, start date at
// midnight through the last millisecond of the end date, in now's location.
func ResolveRange(now time.Time, period, customStart, customEnd string) (Range, error) {
	period = strings.TrimSpace(period)

	if period == PeriodCustom {
		start, err := parseDate(customStart, now.Location())
		if err != nil {
			return Range{}, err
		}
		endDay, err := parseDate(customEnd, now.Location())
		if err != nil {
			return Range{}, err
		}
		end := endDay.AddDate(0, 0, 1).Add(-time.Millisecond)
		if start.After(end) {
			return Range{}, ErrInvalidRange
		}
		return Range{Start: start, End: end}, nil
	}

	days, ok := periodDays[period]
	if !ok {
		return Range{}, ErrInvalidRange
	}
	return Range{
		Start: now.Add(-time.Duration(days) * 24 * time.Hour),
		End:   now,
	}, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidRange
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidRange
	}
	return t, nil
}
