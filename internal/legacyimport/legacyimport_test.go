package legacyimport

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/lunchorder/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

const legacyFile = `{
  "2025-10-14": {
    "orders": [
      {"userId": "U1", "userName": "Kim", "menu": "가정식", "timestamp": "2025-10-14T03:05:00.000Z"},
      {"userId": "U2", "userName": "Lee", "menu": "프레시밀", "timestamp": "2025-10-14T03:06:00.000Z"},
      {"userId": "U3", "userName": "Park", "menu": "pizza", "timestamp": "2025-10-14T03:07:00.000Z"}
    ],
    "closed": true,
    "messageTs": "1760400000.000100",
    "messageSent": true
  },
  "2025-10-13": {
    "orders": [
      {"userId": "U1", "userName": "Kim", "menu": "프레시밀", "timestamp": "2025-10-13T03:00:00.000Z"}
    ],
    "closed": false,
    "messageTs": "1760300000.000100"
  }
}`

func TestImport(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	defer db.Close()

	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	cal, err := calendar.New(loc, calendar.DefaultOpenHour, calendar.DefaultCloseHour)
	require.NoError(t, err)

	votes := sqlite.NewVoteRepository(db)
	sessions := sqlite.NewSessionRepository(db)
	importer := NewImporter(cal, votes, sessions, slog.New(slog.NewTextHandler(io.Discard, nil)))

	f, err := Read(strings.NewReader(legacyFile))
	require.NoError(t, err)

	res, err := importer.Import(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Days: 2, Orders: 3, Skipped: 1}, res)

	day, err := votes.ListVotesByDate(ctx, "2025-10-14")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, domain.MenuHomestyle, day[0].Menu)
	assert.Equal(t, domain.MenuFreshMeal, day[1].Menu)

	closed, err := sessions.GetSession(ctx, "2025-10-14")
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.True(t, closed.Closed)
	assert.True(t, closed.MessageSent)
	assert.Equal(t, "1760400000.000100", closed.MessageRef)

	open, err := sessions.GetSession(ctx, "2025-10-13")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.False(t, open.Closed)
	assert.False(t, open.MessageSent)
	assert.Equal(t, "1760300000.000100", open.MessageRef)

	// A second run changes nothing.
	_, err = importer.Import(ctx, f)
	require.NoError(t, err)
	all, err := votes.ListVotesInRange(ctx, domain.DateRange{Start: "2025-10-01", End: "2025-10-31"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImport_BadDate(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	defer db.Close()

	cal, err := calendar.New(time.UTC, calendar.DefaultOpenHour, calendar.DefaultCloseHour)
	require.NoError(t, err)
	importer := NewImporter(cal, sqlite.NewVoteRepository(db), sqlite.NewSessionRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err = importer.Import(ctx, File{"14/10/2025": {}})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader("[1, 2]"))
	assert.Error(t, err)
}
