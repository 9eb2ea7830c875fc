package ports

import (
	"context"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

type SessionRepository interface {
	// GetSession returns nil, nil when nothing has touched date yet.
	GetSession(ctx context.Context, date string) (*domain.Session, error)
	// CloseSession creates the session if needed and sets closed. Closing a
	// closed session is a no-op.
	CloseSession(ctx context.Context, date string) error
	// MarkAnnounced sets message_sent and the message ref unless the
	// session was already marked. Reports whether this call marked it.
	MarkAnnounced(ctx context.Context, date, messageRef string) (bool, error)
	// SetMessageRef records a ref without touching message_sent.
	SetMessageRef(ctx context.Context, date, messageRef string) error
}

type SessionService interface {
	StartAnnouncement(ctx context.Context) (*domain.Session, error)
	RefreshAnnouncement(ctx context.Context, date string) error
	Close(ctx context.Context, date string) error
	CloseAndAnnounceFinal(ctx context.Context) error
	AnnounceDelivery(ctx context.Context) error
	Status(ctx context.Context, date string) (*domain.SessionStatus, error)
}
