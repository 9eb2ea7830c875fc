package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/lunchorder/internal/clock"
	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

const DefaultStoreTimeout = 5 * time.Second

// Runtime carries what every service needs besides its repositories.
type Runtime struct {
	Calendar     *calendar.Calendar
	Clock        clock.Clock
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

func (rt Runtime) withDefaults() Runtime {
	if rt.Clock == nil {
		rt.Clock = clock.Real()
	}
	if rt.StoreTimeout <= 0 {
		rt.StoreTimeout = DefaultStoreTimeout
	}
	if rt.Logger == nil {
		rt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return rt
}

func (rt Runtime) now() time.Time {
	return rt.Calendar.Now(rt.Clock)
}

// storeContext bounds a group of store calls so none can hang.
func (rt Runtime) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, rt.StoreTimeout)
}

// resolveDate maps "" to today and validates anything else.
func (rt Runtime) resolveDate(date string) (string, error) {
	if date == "" {
		return rt.Calendar.DateKey(rt.now()), nil
	}
	return rt.Calendar.ParseDate(date)
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
