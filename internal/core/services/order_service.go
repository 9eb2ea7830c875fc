package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

const unknownUserName = "unknown"

type orderService struct {
	rt       Runtime
	votes    ports.VoteRepository
	sessions ports.SessionRepository
}

func NewOrderService(rt Runtime, votes ports.VoteRepository, sessions ports.SessionRepository) ports.OrderService {
	return &orderService{
		rt:       rt.withDefaults(),
		votes:    votes,
		sessions: sessions,
	}
}

// Submit records the user's vote for today, replacing any earlier vote of
// theirs. The closed check and the upsert are separate round trips, so a
// close that lands in between does not stop this vote.
func (s *orderService) Submit(ctx context.Context, input ports.SubmitVoteInput) (*ports.SubmitResult, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if !input.Menu.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMenu, input.Menu)
	}
	userName := strings.TrimSpace(input.UserName)
	if userName == "" {
		userName = unknownUserName
	}

	now := s.rt.now()
	date := s.rt.Calendar.DateKey(now)

	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	if err := acceptVote(storeCtx, s.rt, s.sessions, date, now); err != nil {
		return nil, err
	}

	existing, err := s.votes.GetVote(storeCtx, date, userID)
	if err != nil {
		return nil, storageError(err)
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		Date:      date,
		UserID:    userID,
		UserName:  userName,
		Menu:      input.Menu,
		OrderedAt: now,
	}
	if err := s.votes.UpsertVote(storeCtx, vote); err != nil {
		s.rt.Logger.Error("failed to save vote", "date", date, "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	result := &ports.SubmitResult{Vote: *vote}
	if existing != nil {
		result.Updated = true
		result.PreviousMenu = existing.Menu
	}

	s.rt.Logger.Info("vote recorded",
		"date", date,
		"user_id", userID,
		"user_name", userName,
		"menu", vote.Menu,
		"updated", result.Updated,
	)
	return result, nil
}
