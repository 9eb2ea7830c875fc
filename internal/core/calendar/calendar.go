// Package calendar owns every piece of civil date and time arithmetic.
//
// All functions are evaluated in a single configured location, never the
// host's local zone, and take the current instant as an argument. Other
// packages treat the YYYY-MM-DD keys it produces as opaque.
//
// Weeks run Sunday through Saturday.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/vncsmyrnk/lunchorder/internal/clock"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

const (
	DateLayout = "2006-01-02"

	// RangeSeparator splits the two dates of an explicit range.
	RangeSeparator = "~"

	DefaultTimezone  = "Asia/Seoul"
	DefaultOpenHour  = 12
	DefaultCloseHour = 14
)

type Calendar struct {
	loc       *time.Location
	openHour  int
	closeHour int
}

// New returns a Calendar for loc whose ordering window is
// [openHour:00, closeHour:00).
func New(loc *time.Location, openHour, closeHour int) (*Calendar, error) {
	if loc == nil {
		return nil, fmt.Errorf("calendar: location is required")
	}
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return nil, fmt.Errorf("calendar: invalid ordering window %d-%d", openHour, closeHour)
	}
	return &Calendar{loc: loc, openHour: openHour, closeHour: closeHour}, nil
}

func (c *Calendar) Location() *time.Location { return c.loc }
func (c *Calendar) OpenHour() int            { return c.openHour }
func (c *Calendar) CloseHour() int           { return c.closeHour }

// Now reads clk and converts the instant to the calendar's location.
func (c *Calendar) Now(clk clock.Clock) time.Time {
	return clk.Now().In(c.loc)
}

func (c *Calendar) DateKey(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

func (c *Calendar) IsWeekday(t time.Time) bool {
	switch t.In(c.loc).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

func (c *Calendar) IsOrderingWindow(now time.Time) bool {
	if !c.IsWeekday(now) {
		return false
	}
	hour := now.In(c.loc).Hour()
	return hour >= c.openHour && hour < c.closeHour
}

// IsPastDeadline is always true on weekends.
func (c *Calendar) IsPastDeadline(now time.Time) bool {
	if !c.IsWeekday(now) {
		return true
	}
	return now.In(c.loc).Hour() >= c.closeHour
}

func (c *Calendar) ThisWeekRange(now time.Time) domain.DateRange {
	local := now.In(c.loc)
	start := c.midnight(local).AddDate(0, 0, -int(local.Weekday()))
	end := start.AddDate(0, 0, 6)
	return domain.DateRange{Start: start.Format(DateLayout), End: end.Format(DateLayout)}
}

func (c *Calendar) ThisMonthRange(now time.Time) domain.DateRange {
	local := now.In(c.loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, c.loc)
	end := start.AddDate(0, 1, -1)
	return domain.DateRange{Start: start.Format(DateLayout), End: end.Format(DateLayout)}
}

// ParseDate validates a strict YYYY-MM-DD string. Impossible dates such
// as 2025-02-30 are rejected.
func (c *Calendar) ParseDate(s string) (string, error) {
	t, err := time.ParseInLocation(DateLayout, s, c.loc)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

// ParseRange parses "start~end". The bounds are never swapped: a start
// after end fails with domain.ErrRangeReversed.
func (c *Calendar) ParseRange(s string) (domain.DateRange, error) {
	parts := strings.Split(s, RangeSeparator)
	if len(parts) != 2 {
		return domain.DateRange{}, fmt.Errorf("%w: %q", domain.ErrInvalidRange, s)
	}

	start, err := c.ParseDate(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %w", domain.ErrInvalidRange, err)
	}
	end, err := c.ParseDate(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %w", domain.ErrInvalidRange, err)
	}

	// YYYY-MM-DD keys order lexicographically.
	if start > end {
		return domain.DateRange{}, fmt.Errorf("%w: %s~%s", domain.ErrRangeReversed, start, end)
	}
	return domain.DateRange{Start: start, End: end}, nil
}

func (c *Calendar) midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}
