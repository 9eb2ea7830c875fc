// Package pgtest starts a throwaway postgres for tests that need the real
// order store.
package pgtest

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const Image = "postgres:15-alpine"

// StartContainer runs a postgres container and returns it with a
// connection string that disables TLS. The caller terminates it.
func StartContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, Image,
		postgres.WithDatabase("lunchorder"),
		postgres.WithUsername("lunchorder"),
		postgres.WithPassword("lunchorder"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to read connection string: %w", err)
	}
	return pgContainer, connStr, nil
}
