// Package scheduler runs the daily ordering jobs on cron schedules
// evaluated in the ordering time zone.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

const DefaultJobTimeout = 2 * time.Minute

type Config struct {
	Location         *time.Location
	AnnounceSchedule string
	CloseSchedule    string
	// JobTimeout bounds a single run. Defaults to DefaultJobTimeout.
	JobTimeout time.Duration
}

type Scheduler struct {
	cron     *cron.Cron
	sessions ports.SessionService
	logger   *slog.Logger
	timeout  time.Duration

	announce cron.Schedule
	close    cron.Schedule
}

func New(cfg Config, sessions ports.SessionService, logger *slog.Logger) (*Scheduler, error) {
	announce, err := cron.ParseStandard(cfg.AnnounceSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid announce schedule %q: %w", cfg.AnnounceSchedule, err)
	}
	closeSchedule, err := cron.ParseStandard(cfg.CloseSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid close schedule %q: %w", cfg.CloseSchedule, err)
	}

	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	cronLog := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		sessions: sessions,
		logger:   logger,
		timeout:  cfg.JobTimeout,
		announce: announce,
		close:    closeSchedule,
	}

	s.cron.Schedule(announce, cron.FuncJob(func() { _ = s.RunAnnounce(context.Background()) }))
	s.cron.Schedule(closeSchedule, cron.FuncJob(func() { _ = s.RunClose(context.Background()) }))
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextAnnounce and NextClose report the first run strictly after t.
func (s *Scheduler) NextAnnounce(t time.Time) time.Time {
	return s.announce.Next(t.In(s.cron.Location()))
}

func (s *Scheduler) NextClose(t time.Time) time.Time {
	return s.close.Next(t.In(s.cron.Location()))
}

// RunAnnounce posts the opening announcement. A day that was already
// announced, or a weekend, is not a failure.
func (s *Scheduler) RunAnnounce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.sessions.StartAnnouncement(ctx)
	switch {
	case errors.Is(err, domain.ErrAlreadySent), errors.Is(err, domain.ErrNotAWeekday):
		s.logger.Info("announce job skipped", "reason", domain.Reason(err))
		return nil
	case err != nil:
		s.logger.Error("announce job failed", "error", err)
		return err
	}

	s.logger.Info("announce job done", "date", session.Date, "message_ref", session.MessageRef)
	return nil
}

func (s *Scheduler) RunClose(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.sessions.CloseAndAnnounceFinal(ctx)
	switch {
	case errors.Is(err, domain.ErrNotAWeekday):
		s.logger.Info("close job skipped", "reason", domain.Reason(err))
		return nil
	case err != nil:
		s.logger.Error("close job failed", "error", err)
		return err
	}

	s.logger.Info("close job done")
	return nil
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
