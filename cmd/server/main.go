package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/lunchorder/internal/adapters/handler/http"
	"github.com/vncsmyrnk/lunchorder/internal/adapters/scheduler"
	"github.com/vncsmyrnk/lunchorder/internal/app"
	"github.com/vncsmyrnk/lunchorder/internal/config"
	"github.com/vncsmyrnk/lunchorder/internal/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	flags := config.AddFlags(fs)
	noScheduler := fs.Bool("no-scheduler", false, "do not run the announce and close jobs in this process")
	fs.Parse(os.Args[1:])

	cfg, err := flags.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var sched *scheduler.Scheduler
	if !*noScheduler {
		sched, err = scheduler.New(scheduler.Config{
			Location:         a.Calendar.Location(),
			AnnounceSchedule: cfg.Ordering.AnnounceSchedule,
			CloseSchedule:    cfg.Ordering.CloseSchedule,
		}, a.Sessions, logger)
		if err != nil {
			return err
		}
		sched.Start()
	}

	handler := http.NewHandler(
		http.RouterConfig{ChannelID: cfg.Slack.ChannelID, Logger: logger},
		http.NewVoteHandler(a.Orders, a.Sessions, logger),
		http.NewOrderHandler(a.Summary, logger),
		http.NewSessionHandler(a.Sessions, logger),
	)
	server := &stdhttp.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTP.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			logger.Warn("scheduled jobs did not finish", "error", err)
		}
	}
	return server.Shutdown(shutdownCtx)
}
