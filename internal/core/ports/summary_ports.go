package ports

import (
	"context"

	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

type QueryResult struct {
	Period    calendar.Period
	Aggregate *domain.PeriodAggregate
	// Session is only set for single-day periods.
	Session *domain.Session
}

type SummaryService interface {
	// Summarize never fails: an unreadable store yields an empty aggregate
	// flagged as degraded.
	Summarize(ctx context.Context, r domain.DateRange) *domain.PeriodAggregate
	Query(ctx context.Context, token string) (*QueryResult, error)
}
