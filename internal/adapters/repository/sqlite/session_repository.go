package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type sessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db, now: time.Now}
}

func (r *sessionRepository) GetSession(ctx context.Context, date string) (*domain.Session, error) {
	query := `
		SELECT order_date, closed, message_ts, message_sent, created_at, updated_at
		FROM order_sessions
		WHERE order_date = ?
	`
	var session domain.Session
	var messageRef sql.NullString
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, date).Scan(
		&session.Date, &session.Closed, &messageRef, &session.MessageSent, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	session.MessageRef = messageRef.String
	return &session, nil
}

func (r *sessionRepository) CloseSession(ctx context.Context, date string) error {
	now := formatTime(r.now())
	query := `
		INSERT INTO order_sessions (order_date, closed, created_at, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT (order_date) DO UPDATE
		SET closed = 1,
		    updated_at = excluded.updated_at
		WHERE order_sessions.closed = 0
	`
	if _, err := r.db.ExecContext(ctx, query, date, now, now); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

func (r *sessionRepository) MarkAnnounced(ctx context.Context, date, messageRef string) (bool, error) {
	now := formatTime(r.now())
	query := `
		INSERT INTO order_sessions (order_date, message_ts, message_sent, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT (order_date) DO UPDATE
		SET message_ts = excluded.message_ts,
		    message_sent = 1,
		    updated_at = excluded.updated_at
		WHERE order_sessions.message_sent = 0
	`
	res, err := r.db.ExecContext(ctx, query, date, messageRef, now, now)
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
	now := formatTime(r.now())
	query := `
		INSERT INTO order_sessions (order_date, message_ts, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (order_date) DO UPDATE
		SET message_ts = excluded.message_ts,
		    updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, date, messageRef, now, now); err != nil {
		return fmt.Errorf("failed to save message ref: %w", err)
	}
	return nil
}
