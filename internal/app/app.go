// Package app wires configuration into stores, services and the
// announcer. Every binary builds its dependencies through it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/lunchorder/internal/adapters/announcer/console"
	"github.com/vncsmyrnk/lunchorder/internal/adapters/announcer/slack"
	"github.com/vncsmyrnk/lunchorder/internal/adapters/repository"
	"github.com/vncsmyrnk/lunchorder/internal/clock"
	"github.com/vncsmyrnk/lunchorder/internal/config"
	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
	"github.com/vncsmyrnk/lunchorder/internal/core/services"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Calendar  *calendar.Calendar
	Store     *repository.Store
	Announcer ports.Announcer

	Orders   ports.OrderService
	Sessions ports.SessionService
	Summary  ports.SummaryService
}

type Option func(*options)

type options struct {
	clock     clock.Clock
	announcer ports.Announcer
}

// WithClock replaces the wall clock, for tests.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithAnnouncer replaces the announcer chosen from the configuration.
func WithAnnouncer(a ports.Announcer) Option {
	return func(o *options) { o.announcer = a }
}

func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{clock: clock.Real()}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	cal, err := calendar.New(loc, cfg.Ordering.OpenHour, cfg.Ordering.CloseHour)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar: %w", err)
	}

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	announcer := o.announcer
	if announcer == nil {
		announcer = newAnnouncer(cfg, logger)
	}

	rt := services.Runtime{
		Calendar:     cal,
		Clock:        o.clock,
		StoreTimeout: cfg.StoreTimeout(),
		Logger:       logger,
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Calendar:  cal,
		Store:     store,
		Announcer: announcer,
		Orders:    services.NewOrderService(rt, store.Votes, store.Sessions),
		Sessions:  services.NewSessionService(rt, store.Sessions, store.Votes, announcer),
		Summary:   services.NewSummaryService(rt, store.Votes, store.Sessions),
	}, nil
}

func newAnnouncer(cfg *config.Config, logger *slog.Logger) ports.Announcer {
	if cfg.Slack.BotToken == "" {
		logger.Warn("no slack bot token configured, announcements are only logged")
		return console.NewAnnouncer(logger)
	}
	return slack.NewAnnouncer(cfg.Slack.BotToken, cfg.Slack.ChannelID)
}

func (a *App) Close() error {
	return a.Store.Close()
}
