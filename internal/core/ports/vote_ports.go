package ports

import (
	"context"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

type VoteRepository interface {
	// UpsertVote inserts the vote or atomically replaces the existing row
	// for (Date, UserID). vote.ID is set to the persisted id, which is
	// kept across replaces.
	UpsertVote(ctx context.Context, vote *domain.Vote) error
	// GetVote returns nil, nil when the user has not voted on date.
	GetVote(ctx context.Context, date, userID string) (*domain.Vote, error)
	ListVotesByDate(ctx context.Context, date string) ([]domain.Vote, error)
	// ListVotesInRange returns votes ordered by date, then submission time.
	ListVotesInRange(ctx context.Context, r domain.DateRange) ([]domain.Vote, error)
}

type SubmitVoteInput struct {
	UserID   string
	UserName string
	Menu     domain.Menu
}

type SubmitResult struct {
	Vote         domain.Vote
	Updated      bool
	PreviousMenu domain.Menu
}

type OrderService interface {
	Submit(ctx context.Context, input SubmitVoteInput) (*SubmitResult, error)
}
