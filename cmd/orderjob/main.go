// Command orderjob runs one ordering job and exits, for deployments that
// trigger jobs from an external scheduler instead of the server's
// in-process one.
//
// Usage: orderjob [flags] announce|close|close-final|delivery|report [period]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/lunchorder/internal/app"
	"github.com/vncsmyrnk/lunchorder/internal/config"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/logging"
)

func main() {
	fs := pflag.NewFlagSet("orderjob", pflag.ExitOnError)
	flags := config.AddFlags(fs)
	timeout := fs.Duration("timeout", 5*time.Minute, "maximum run time of the job")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: orderjob [flags] announce|close|close-final|delivery|report [period]")
		os.Exit(2)
	}

	cfg, err := flags.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg, os.Stderr)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	job := fs.Arg(0)
	logger.Info("starting job", "job", job)
	if err := runJob(ctx, a, job, fs.Arg(1)); err != nil {
		logger.Error("job failed", "job", job, "reason", domain.Reason(err), "error", err)
		a.Close()
		os.Exit(1)
	}
	logger.Info("job completed", "job", job)
}

func runJob(ctx context.Context, a *app.App, job, arg string) error {
	switch job {
	case "announce":
		_, err := a.Sessions.StartAnnouncement(ctx)
		if errors.Is(err, domain.ErrAlreadySent) || errors.Is(err, domain.ErrNotAWeekday) {
			a.Logger.Info("nothing to announce", "reason", domain.Reason(err))
			return nil
		}
		return err
	case "close":
		return a.Sessions.Close(ctx, arg)
	case "close-final":
		err := a.Sessions.CloseAndAnnounceFinal(ctx)
		if errors.Is(err, domain.ErrNotAWeekday) {
			a.Logger.Info("nothing to close", "reason", domain.Reason(err))
			return nil
		}
		return err
	case "delivery":
		return a.Sessions.AnnounceDelivery(ctx)
	case "report":
		result, err := a.Summary.Query(ctx, arg)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"period":          result.Period,
			"total_votes":     result.Aggregate.TotalVotes,
			"distinct_voters": result.Aggregate.DistinctVoters,
			"menu_totals":     result.Aggregate.MenuTotals,
			"users":           result.Aggregate.SortedUsers(),
			"days":            result.Aggregate.SortedDays(),
			"degraded":        result.Aggregate.Degraded,
		})
	}
	return fmt.Errorf("unknown job %q", job)
}
