package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{
		db: db,
	}
}

func (r *sessionRepository) GetSession(ctx context.Context, date string) (*domain.Session, error) {
	query := `
		SELECT to_char(order_date, 'YYYY-MM-DD'), closed, message_ts, message_sent, created_at, updated_at
		FROM order_sessions
		WHERE order_date = $1
	`
	var session domain.Session
	var messageRef sql.NullString
	err := r.db.QueryRowContext(ctx, query, date).Scan(
		&session.Date, &session.Closed, &messageRef, &session.MessageSent, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.MessageRef = messageRef.String
	return &session, nil
}

func (r *sessionRepository) CloseSession(ctx context.Context, date string) error {
	query := `
		INSERT INTO order_sessions (order_date, closed)
		VALUES ($1, TRUE)
		ON CONFLICT (order_date) DO UPDATE
		SET closed = TRUE,
		    updated_at = NOW()
		WHERE order_sessions.closed = FALSE
	`
	if _, err := r.db.ExecContext(ctx, query, date); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

func (r *sessionRepository) MarkAnnounced(ctx context.Context, date, messageRef string) (bool, error) {
	query := `
		INSERT INTO order_sessions (order_date, message_ts, message_sent)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (order_date) DO UPDATE
		SET message_ts = EXCLUDED.message_ts,
		    message_sent = TRUE,
		    updated_at = NOW()
		WHERE order_sessions.message_sent = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, date, messageRef)
	if err != nil {
		return false, fmt.Errorf("failed to mark session announced: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *sessionRepository) SetMessageRef(ctx context.Context, date, messageRef string) error {
	query := `
		INSERT INTO order_sessions (order_date, message_ts)
		VALUES ($1, $2)
		ON CONFLICT (order_date) DO UPDATE
		SET message_ts = EXCLUDED.message_ts,
		    updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, date, messageRef); err != nil {
		return fmt.Errorf("failed to save message ref: %w", err)
	}
	return nil
}
