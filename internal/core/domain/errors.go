package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDeadlinePassed = errors.New("ordering deadline has passed")
	ErrSessionClosed  = errors.New("orders for this day are closed")
	ErrNotAWeekday    = errors.New("orders are only taken on weekdays")
	ErrAlreadySent    = errors.New("order announcement already sent today")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidRange   = errors.New("invalid date range, expected YYYY-MM-DD~YYYY-MM-DD")
	ErrRangeReversed  = fmt.Errorf("%w: start date is after end date", ErrInvalidRange)
	ErrInvalidMenu    = errors.New("invalid menu")
	ErrInvalidInput   = errors.New("invalid input")
	ErrStorage        = errors.New("order store unavailable")

	ErrAnnouncementFailed = errors.New("failed to deliver announcement")
)

// Reason returns the stable wire code for err, or "internal" when err is
// not part of the taxonomy. Range errors are checked before
// ErrInvalidDate since a malformed bound wraps both.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDeadlinePassed):
		return "deadline_passed"
	case errors.Is(err, ErrSessionClosed):
		return "session_closed"
	case errors.Is(err, ErrNotAWeekday):
		return "not_a_weekday"
	case errors.Is(err, ErrAlreadySent):
		return "already_sent"
	case errors.Is(err, ErrRangeReversed):
		return "range_reversed"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidMenu):
		return "invalid_menu"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	case errors.Is(err, ErrAnnouncementFailed):
		return "announcement_failed"
	default:
		return "internal"
	}
}
