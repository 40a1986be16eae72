// Package dates parses and formats the due dates exchanged between client and server.
package dates

import (
	"errors"
	"strings"
	"time"
)

// DayLayout is the calendar-day form used for date inputs and comparisons.
const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DayLayout,
}

// Parse accepts RFC 3339 timestamps and bare YYYY-MM-DD days. Values without a
// zone are interpreted as UTC.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Normalize renders t as a UTC RFC 3339 string.
func Normalize(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Day returns the YYYY-MM-DD key of t in loc.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}
