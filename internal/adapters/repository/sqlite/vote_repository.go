package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{db: db}
}

const voteColumns = `id, order_date, user_id, user_name, menu_type, ordered_at`

func (r *voteRepository) UpsertVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO orders (id, order_date, user_id, user_name, menu_type, ordered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (order_date, user_id) DO UPDATE
		SET user_name = excluded.user_name,
		    menu_type = excluded.menu_type,
		    ordered_at = excluded.ordered_at
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		vote.ID.String(), vote.Date, vote.UserID, vote.UserName, string(vote.Menu), formatTime(vote.OrderedAt),
	).Scan(&vote.ID)
	if err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *voteRepository) GetVote(ctx context.Context, date, userID string) (*domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM orders WHERE order_date = ? AND user_id = ?`

	vote, err := scanVote(r.db.QueryRowContext(ctx, query, date, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return vote, nil
}

func (r *voteRepository) ListVotesByDate(ctx context.Context, date string) ([]domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM orders WHERE order_date = ? ORDER BY ordered_at, user_id`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

func (r *voteRepository) ListVotesInRange(ctx context.Context, dateRange domain.DateRange) ([]domain.Vote, error) {
	query := `
		SELECT ` + voteColumns + `
		FROM orders
		WHERE order_date BETWEEN ? AND ?
		ORDER BY order_date, ordered_at, user_id
	`
	rows, err := r.db.QueryContext(ctx, query, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes in range: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVote(row rowScanner) (*domain.Vote, error) {
	var vote domain.Vote
	var menu, orderedAt string
	if err := row.Scan(&vote.ID, &vote.Date, &vote.UserID, &vote.UserName, &menu, &orderedAt); err != nil {
		return nil, err
	}

	t, err := parseTime(orderedAt)
	if err != nil {
		return nil, err
	}
	vote.Menu = domain.Menu(menu)
	vote.OrderedAt = t
	return &vote, nil
}

func scanVotes(rows *sql.Rows) ([]domain.Vote, error) {
	var votes []domain.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, *vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}
