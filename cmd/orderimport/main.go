// Command orderimport loads the legacy orders.json file into the
// configured order store.
//
// Usage: orderimport [flags] path/to/orders.json
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/lunchorder/internal/app"
	"github.com/vncsmyrnk/lunchorder/internal/config"
	"github.com/vncsmyrnk/lunchorder/internal/legacyimport"
	"github.com/vncsmyrnk/lunchorder/internal/logging"
)

func main() {
	fs := pflag.NewFlagSet("orderimport", pflag.ExitOnError)
	flags := config.AddFlags(fs)
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: orderimport [flags] path/to/orders.json")
		os.Exit(2)
	}

	cfg, err := flags.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg, os.Stderr)

	if err := run(cfg, logger, fs.Arg(0)); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	orders, err := legacyimport.Read(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	importer := legacyimport.NewImporter(a.Calendar, a.Store.Votes, a.Store.Sessions, logger)
	res, err := importer.Import(ctx, orders)
	if err != nil {
		return err
	}

	logger.Info("import completed", "days", res.Days, "orders", res.Orders, "skipped", res.Skipped)
	return nil
}
