package services

import (
	"context"
	"sync"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type summaryService struct {
	rt       Runtime
	votes    ports.VoteRepository
	sessions ports.SessionRepository
}

func NewSummaryService(rt Runtime, votes ports.VoteRepository, sessions ports.SessionRepository) ports.SummaryService {
	return &summaryService{
		rt:       rt.withDefaults(),
		votes:    votes,
		sessions: sessions,
	}
}

func (s *summaryService) Summarize(ctx context.Context, r domain.DateRange) *domain.PeriodAggregate {
	agg := domain.NewPeriodAggregate(r)

	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	votes, err := s.votes.ListVotesInRange(storeCtx, r)
	if err != nil {
		s.rt.Logger.Error("failed to read votes, returning empty summary",
			"start", r.Start, "end", r.End, "error", err)
		agg.Degraded = true
		return agg
	}

	for _, v := range votes {
		agg.Add(v)
	}
	return agg
}

// Query resolves token against today and summarizes the period. For a
// single day the session is read alongside the votes.
func (s *summaryService) Query(ctx context.Context, token string) (*ports.QueryResult, error) {
	period, err := s.rt.Calendar.ResolvePeriod(token, s.rt.now())
	if err != nil {
		return nil, err
	}

	result := &ports.QueryResult{Period: period}

	var wg sync.WaitGroup
	if period.Range.SingleDay() {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()
			result.Session = s.session(ctx, date)
		}(period.Range.Start)
	}

	result.Aggregate = s.Summarize(ctx, period.Range)
	wg.Wait()

	return result, nil
}

func (s *summaryService) session(ctx context.Context, date string) *domain.Session {
	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	session, err := s.sessions.GetSession(storeCtx, date)
	if err != nil {
		s.rt.Logger.Error("failed to read session", "date", date, "error", err)
	}
	if session == nil {
		def := domain.DefaultSession(date)
		return &def
	}
	return session
}
