package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) StartAnnouncement(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionService) RefreshAnnouncement(ctx context.Context, date string) error {
	return m.Called(ctx, date).Error(0)
}

func (m *mockSessionService) Close(ctx context.Context, date string) error {
	return m.Called(ctx, date).Error(0)
}

func (m *mockSessionService) CloseAndAnnounceFinal(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockSessionService) AnnounceDelivery(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockSessionService) Status(ctx context.Context, date string) (*domain.SessionStatus, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionStatus), args.Error(1)
}

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func newScheduler(t *testing.T, svc *mockSessionService) *Scheduler {
	t.Helper()
	s, err := New(Config{
		Location:         seoul(t),
		AnnounceSchedule: "0 12 * * 1-5",
		CloseSchedule:    "0 14 * * 1-5",
	}, svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(Config{AnnounceSchedule: "noon", CloseSchedule: "0 14 * * 1-5"}, &mockSessionService{}, slog.Default())
	assert.Error(t, err)
}

func TestNextRuns(t *testing.T) {
	loc := seoul(t)
	s := newScheduler(t, &mockSessionService{})

	tuesdayMorning := time.Date(2025, 10, 14, 11, 0, 0, 0, loc)
	assert.True(t, time.Date(2025, 10, 14, 12, 0, 0, 0, loc).Equal(s.NextAnnounce(tuesdayMorning)))
	assert.True(t, time.Date(2025, 10, 14, 14, 0, 0, 0, loc).Equal(s.NextClose(tuesdayMorning)))

	// Schedules are evaluated in Seoul time even when asked in UTC.
	fridayAfternoonUTC := time.Date(2025, 10, 17, 6, 0, 0, 0, time.UTC) // 15:00 KST
	assert.True(t, time.Date(2025, 10, 20, 12, 0, 0, 0, loc).Equal(s.NextAnnounce(fridayAfternoonUTC)))
}

func TestRunAnnounce(t *testing.T) {
	tests := []struct {
		name    string
		session *domain.Session
		err     error
		wantErr bool
	}{
		{name: "announced", session: &domain.Session{Date: "2025-10-14", MessageSent: true, MessageRef: "ts"}},
		{name: "already sent", err: domain.ErrAlreadySent},
		{name: "weekend", err: domain.ErrNotAWeekday},
		{name: "storage", err: fmt.Errorf("%w: boom", domain.ErrStorage), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{}
			if tt.session != nil {
				svc.On("StartAnnouncement", mock.Anything).Return(tt.session, nil)
			} else {
				svc.On("StartAnnouncement", mock.Anything).Return(nil, tt.err)
			}

			err := newScheduler(t, svc).RunAnnounce(context.Background())
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrStorage))
			} else {
				assert.NoError(t, err)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRunClose(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("CloseAndAnnounceFinal", mock.Anything).Return(domain.ErrNotAWeekday).Once()
	svc.On("CloseAndAnnounceFinal", mock.Anything).Return(domain.ErrAnnouncementFailed).Once()
	s := newScheduler(t, svc)

	assert.NoError(t, s.RunClose(context.Background()))
	assert.ErrorIs(t, s.RunClose(context.Background()), domain.ErrAnnouncementFailed)
	svc.AssertExpectations(t)
}

func TestRunAnnounce_HasDeadline(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("StartAnnouncement", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(nil, domain.ErrAlreadySent)

	require.NoError(t, newScheduler(t, svc).RunAnnounce(context.Background()))
	svc.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	s := newScheduler(t, &mockSessionService{})
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
