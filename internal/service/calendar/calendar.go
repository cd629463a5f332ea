// Package calendar answers "what day and shift is it" in the business timezone.
package calendar

import (
	"time"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// Calendar pins "now" to a location. The zero value uses time.Now in UTC.
type Calendar struct {
	now func() time.Time
	loc *time.Location
}

// New builds a Calendar. A nil loc means UTC and a nil now means time.Now.
func New(loc *time.Location, now func() time.Time) Calendar {
	return Calendar{now: now, loc: loc}
}

// Location returns the business timezone.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Now returns the current time in the business timezone.
func (c Calendar) Now() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	return now().In(c.Location())
}

// Today returns the current calendar day as YYYY-MM-DD.
func (c Calendar) Today() string {
	return models.FormatDay(c.Now())
}

// Yesterday returns the previous calendar day as YYYY-MM-DD.
func (c Calendar) Yesterday() string {
	return models.FormatDay(c.Now().AddDate(0, 0, -1))
}

// CurrentShift derives the shift from the local hour.
func (c Calendar) CurrentShift() models.Shift {
	return models.ShiftAt(c.Now())
}

// Period returns month and year, falling back to the current ones when zero.
func (c Calendar) Period(month, year int) (int, int) {
	now := c.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

// PreviousMonth returns the month before the current one.
func (c Calendar) PreviousMonth() (int, int) {
	now := c.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, c.Location())
	prev := first.AddDate(0, -1, 0)
	return int(prev.Month()), prev.Year()
}
