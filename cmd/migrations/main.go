package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/lunchorder/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/lunchorder/internal/config"
	"github.com/vncsmyrnk/lunchorder/internal/logging"
)

// Usage: migrations [flags] [migration-name]
//
// Without a name every up migration is applied. A name such as
// "create_orders.down" applies the single matching file.
func main() {
	fs := pflag.NewFlagSet("migrations", pflag.ExitOnError)
	flags := config.AddFlags(fs)
	fs.Parse(os.Args[1:])

	cfg, err := flags.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg, os.Stderr)

	if cfg.Database.Driver != config.DriverPostgres {
		logger.Error("migrations only apply to postgres; the sqlite store creates its schema on open", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	if err := migrate(cfg, fs.Arg(0)); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migration executed successfully", "name", fs.Arg(0))
}

func migrate(cfg *config.Config, name string) error {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open postgres: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if name == "" {
		return postgres.Migrate(ctx, db)
	}
	return postgres.ApplyMigration(ctx, db, name)
}
