package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/lunchorder/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/lunchorder/internal/clock"
	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

var errBoom = errors.New("boom")

func seoulTime(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func newRuntime(t *testing.T, clk clock.Clock) Runtime {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	cal, err := calendar.New(loc, calendar.DefaultOpenHour, calendar.DefaultCloseHour)
	require.NoError(t, err)
	return Runtime{Calendar: cal, Clock: clk, StoreTimeout: time.Second}
}

type fixture struct {
	clock     *clock.FakeClock
	rt        Runtime
	db        *sql.DB
	votes     ports.VoteRepository
	sessions  ports.SessionRepository
	announcer *fakeAnnouncer

	orders  ports.OrderService
	session ports.SessionService
	summary ports.SummaryService
}

// newFixture wires every service against an in-memory store with the
// clock frozen at now.
func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		clock:     clock.Fake(now),
		db:        db,
		votes:     sqlite.NewVoteRepository(db),
		sessions:  sqlite.NewSessionRepository(db),
		announcer: &fakeAnnouncer{},
	}
	f.rt = newRuntime(t, f.clock)
	f.orders = NewOrderService(f.rt, f.votes, f.sessions)
	f.session = NewSessionService(f.rt, f.sessions, f.votes, f.announcer)
	f.summary = NewSummaryService(f.rt, f.votes, f.sessions)
	return f
}

func (f *fixture) submit(t *testing.T, userID string, menu domain.Menu) *ports.SubmitResult {
	t.Helper()
	res, err := f.orders.Submit(context.Background(), ports.SubmitVoteInput{UserID: userID, UserName: "name-" + userID, Menu: menu})
	require.NoError(t, err)
	return res
}

type announcerCall struct {
	method       string
	ref          string
	announcement domain.Announcement
}

// fakeAnnouncer records calls and hands out sequential refs.
type fakeAnnouncer struct {
	mu    sync.Mutex
	calls []announcerCall
	err   error
}

func (a *fakeAnnouncer) Post(_ context.Context, announcement domain.Announcement) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	ref := fmt.Sprintf("ref-%d", len(a.calls)+1)
	a.calls = append(a.calls, announcerCall{method: "post", ref: ref, announcement: announcement})
	return ref, nil
}

func (a *fakeAnnouncer) Update(_ context.Context, ref string, announcement domain.Announcement) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.calls = append(a.calls, announcerCall{method: "update", ref: ref, announcement: announcement})
	return nil
}

func (a *fakeAnnouncer) Calls() []announcerCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]announcerCall(nil), a.calls...)
}

type mockVoteRepository struct {
	mock.Mock
}

func (m *mockVoteRepository) UpsertVote(ctx context.Context, vote *domain.Vote) error {
	return m.Called(ctx, vote).Error(0)
}

func (m *mockVoteRepository) GetVote(ctx context.Context, date, userID string) (*domain.Vote, error) {
	args := m.Called(ctx, date, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vote), args.Error(1)
}

func (m *mockVoteRepository) ListVotesByDate(ctx context.Context, date string) ([]domain.Vote, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vote), args.Error(1)
}

func (m *mockVoteRepository) ListVotesInRange(ctx context.Context, r domain.DateRange) ([]domain.Vote, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vote), args.Error(1)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) GetSession(ctx context.Context, date string) (*domain.Session, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionRepository) CloseSession(ctx context.Context, date string) error {
	return m.Called(ctx, date).Error(0)
}

func (m *mockSessionRepository) MarkAnnounced(ctx context.Context, date, ref string) (bool, error) {
	args := m.Called(ctx, date, ref)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepository) SetMessageRef(ctx context.Context, date, ref string) error {
	return m.Called(ctx, date, ref).Error(0)
}
