// Package repository opens the configured order store.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/lunchorder/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/lunchorder/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/lunchorder/internal/config"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type Store struct {
	DB       *sql.DB
	Votes    ports.VoteRepository
	Sessions ports.SessionRepository
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Open connects to the configured database and makes sure its schema
// exists.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			DB:       db,
			Votes:    postgres.NewVoteRepository(db),
			Sessions: postgres.NewSessionRepository(db),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return &Store{
			DB:       db,
			Votes:    sqlite.NewVoteRepository(db),
			Sessions: sqlite.NewSessionRepository(db),
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
