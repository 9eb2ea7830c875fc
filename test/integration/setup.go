// Package integration runs the HTTP surface end to end against a real
// postgres started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	handler "github.com/vncsmyrnk/lunchorder/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/lunchorder/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/lunchorder/internal/adapters/repository/postgres/pgtest"
	"github.com/vncsmyrnk/lunchorder/internal/clock"
	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/services"
)

// applyMigrations runs the migration files from disk, the way an operator
// would with cmd/migrations.
func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type recordingAnnouncer struct {
	mu      sync.Mutex
	posts   int
	updates int
}

func (a *recordingAnnouncer) Post(context.Context, domain.Announcement) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posts++
	return fmt.Sprintf("1760400000.%06d", a.posts), nil
}

func (a *recordingAnnouncer) Update(context.Context, string, domain.Announcement) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updates++
	return nil
}

func (a *recordingAnnouncer) counts() (posts, updates int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.posts, a.updates
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Clock       *clock.FakeClock
	Announcer   *recordingAnnouncer
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T, now time.Time) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := pgtest.StartContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	cal, err := calendar.New(now.Location(), calendar.DefaultOpenHour, calendar.DefaultCloseHour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.Fake(now)
	announcer := &recordingAnnouncer{}
	rt := services.Runtime{Calendar: cal, Clock: clk, StoreTimeout: 5 * time.Second, Logger: logger}

	voteRepo := repo.NewVoteRepository(db)
	sessionRepo := repo.NewSessionRepository(db)

	orderSvc := services.NewOrderService(rt, voteRepo, sessionRepo)
	sessionSvc := services.NewSessionService(rt, sessionRepo, voteRepo, announcer)
	summarySvc := services.NewSummaryService(rt, voteRepo, sessionRepo)

	router := handler.NewHandler(
		handler.RouterConfig{Logger: logger},
		handler.NewVoteHandler(orderSvc, sessionSvc, logger),
		handler.NewOrderHandler(summarySvc, logger),
		handler.NewSessionHandler(sessionSvc, logger),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Clock:       clk,
		Announcer:   announcer,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
