// Package legacyimport loads the JSON orders file written by the first
// version of the bot into the order store.
//
// The file maps each YYYY-MM-DD date to its orders and session flags:
//
//	{"2025-10-14": {"orders": [{"userId": "U1", "userName": "Kim",
//	  "menu": "가정식", "timestamp": "2025-10-14T03:05:00.000Z"}],
//	  "closed": true, "messageTs": "1760400000.000100", "messageSent": true}}
//
// Importing is idempotent: orders are upserted and session flags only
// ever move from false to true.
package legacyimport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type Order struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Menu      string `json:"menu"`
	Timestamp string `json:"timestamp"`
}

type DayOrders struct {
	Orders      []Order `json:"orders"`
	Closed      bool    `json:"closed"`
	MessageTs   string  `json:"messageTs"`
	MessageSent bool    `json:"messageSent"`
}

type File map[string]DayOrders

func Read(r io.Reader) (File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode orders file: %w", err)
	}
	return f, nil
}

type Result struct {
	Days    int
	Orders  int
	Skipped int
}

type Importer struct {
	calendar *calendar.Calendar
	votes    ports.VoteRepository
	sessions ports.SessionRepository
	logger   *slog.Logger
}

func NewImporter(cal *calendar.Calendar, votes ports.VoteRepository, sessions ports.SessionRepository, logger *slog.Logger) *Importer {
	return &Importer{
		calendar: cal,
		votes:    votes,
		sessions: sessions,
		logger:   logger,
	}
}

// Import writes f day by day in date order. A malformed date key aborts
// the import; a malformed order is skipped and logged.
func (i *Importer) Import(ctx context.Context, f File) (Result, error) {
	var res Result

	dates := make([]string, 0, len(f))
	for date := range f {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, key := range dates {
		date, err := i.calendar.ParseDate(key)
		if err != nil {
			return res, err
		}
		day := f[key]

		for _, o := range day.Orders {
			vote, err := i.vote(date, o)
			if err != nil {
				i.logger.Warn("skipping legacy order", "date", date, "user_id", o.UserID, "error", err)
				res.Skipped++
				continue
			}
			if err := i.votes.UpsertVote(ctx, vote); err != nil {
				return res, fmt.Errorf("%w: %w", domain.ErrStorage, err)
			}
			res.Orders++
		}

		if err := i.session(ctx, date, day); err != nil {
			return res, fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}

		res.Days++
		i.logger.Info("imported legacy day", "date", date, "orders", len(day.Orders), "closed", day.Closed)
	}
	return res, nil
}

func (i *Importer) vote(date string, o Order) (*domain.Vote, error) {
	if o.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	}
	menu, err := domain.ParseMenu(o.Menu)
	if err != nil {
		return nil, err
	}
	orderedAt, err := time.Parse(time.RFC3339Nano, o.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %q", domain.ErrInvalidInput, o.Timestamp)
	}

	name := o.UserName
	if name == "" {
		name = "unknown"
	}
	return &domain.Vote{
		ID:        uuid.New(),
		Date:      date,
		UserID:    o.UserID,
		UserName:  name,
		Menu:      menu,
		OrderedAt: orderedAt,
	}, nil
}

func (i *Importer) session(ctx context.Context, date string, day DayOrders) error {
	switch {
	case day.MessageSent:
		if _, err := i.sessions.MarkAnnounced(ctx, date, day.MessageTs); err != nil {
			return err
		}
	case day.MessageTs != "":
		if err := i.sessions.SetMessageRef(ctx, date, day.MessageTs); err != nil {
			return err
		}
	}

	if day.Closed {
		return i.sessions.CloseSession(ctx, date)
	}
	return nil
}
