package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar day format used on the wire and in storage.
// Range filters compare these strings lexically.
const DateLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// IsDay reports whether value is a valid YYYY-MM-DD string.
func IsDay(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// FormatDay renders t as YYYY-MM-DD in t's location.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthRange returns the first and last calendar day of the month.
func MonthRange(month, year int) (string, string, error) {
	if month < 1 || month > 12 {
		return "", "", NewValidationError("month must be between 1 and 12")
	}
	if year < 1 {
		return "", "", NewValidationError("invalid year %d", year)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return FormatDay(first), FormatDay(last), nil
}

// MondayStart returns midnight of the Monday of t's week, in t's location.
func MondayStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}

// MonthLabel renders "March 2025".
func MonthLabel(month, year int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}
