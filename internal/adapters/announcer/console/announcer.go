// Package console is the announcer used when no chat platform is
// configured. Announcements are written to the log.
package console

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type announcer struct {
	logger *slog.Logger
}

func NewAnnouncer(logger *slog.Logger) ports.Announcer {
	return &announcer{logger: logger}
}

func (a *announcer) Post(ctx context.Context, announcement domain.Announcement) (string, error) {
	ref := uuid.NewString()
	a.log(ctx, "announcement posted", ref, announcement)
	return ref, nil
}

func (a *announcer) Update(ctx context.Context, messageRef string, announcement domain.Announcement) error {
	a.log(ctx, "announcement updated", messageRef, announcement)
	return nil
}

func (a *announcer) log(ctx context.Context, msg, ref string, announcement domain.Announcement) {
	attrs := []any{
		"message_ref", ref,
		"kind", announcement.Kind,
		"date", announcement.Date,
		"voters", announcement.Voters,
	}
	for _, m := range domain.Menus {
		attrs = append(attrs, string(m), announcement.MenuTotals[m])
	}
	a.logger.InfoContext(ctx, msg, attrs...)
}
