package ports

import (
	"context"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

// Announcer publishes announcements to the chat platform. Post returns an
// opaque reference that Update uses to rewrite the same message.
type Announcer interface {
	Post(ctx context.Context, a domain.Announcement) (string, error)
	Update(ctx context.Context, messageRef string, a domain.Announcement) error
}
