package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/lunchorder/internal/clock"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

func TestSubmit_LastWriteWins(t *testing.T) {
	f := newFixture(t, seoulTime(t, 2025, 10, 14, 12, 30))
	ctx := context.Background()

	first := f.submit(t, "U1", domain.MenuHomestyle)
	assert.False(t, first.Updated)
	assert.Equal(t, "2025-10-14", first.Vote.Date)

	f.clock.Advance(10 * time.Minute)
	second := f.submit(t, "U1", domain.MenuFreshMeal)
	assert.True(t, second.Updated)
	assert.Equal(t, domain.MenuHomestyle, second.PreviousMenu)
	assert.Equal(t, first.Vote.ID, second.Vote.ID)

	votes, err := f.votes.ListVotesByDate(ctx, "2025-10-14")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, domain.MenuFreshMeal, votes[0].Menu)
	assert.True(t, votes[0].OrderedAt.Equal(seoulTime(t, 2025, 10, 14, 12, 40)))

	agg := f.summary.Summarize(ctx, domain.DateRange{Start: "2025-10-14", End: "2025-10-14"})
	assert.Equal(t, 1, agg.TotalVotes)
	assert.Equal(t, 0, agg.MenuTotals[domain.MenuHomestyle])
	assert.Equal(t, 1, agg.MenuTotals[domain.MenuFreshMeal])
	assert.Equal(t, 1, agg.DistinctVoters)
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		now     func(t *testing.T) time.Time
		prepare func(t *testing.T, f *fixture)
		input   ports.SubmitVoteInput
		want    error
	}{
		{
			name:  "closed session",
			now:   func(t *testing.T) time.Time { return seoulTime(t, 2025, 10, 14, 13, 0) },
			input: ports.SubmitVoteInput{UserID: "U1", Menu: domain.MenuHomestyle},
			prepare: func(t *testing.T, f *fixture) {
				require.NoError(t, f.session.Close(context.Background(), ""))
			},
			want: domain.ErrSessionClosed,
		},
		{
			name:  "at the deadline",
			now:   func(t *testing.T) time.Time { return seoulTime(t, 2025, 10, 14, 14, 0) },
			input: ports.SubmitVoteInput{UserID: "U1", Menu: domain.MenuHomestyle},
			want:  domain.ErrDeadlinePassed,
		},
		{
			name:  "saturday",
			now:   func(t *testing.T) time.Time { return seoulTime(t, 2025, 10, 18, 12, 30) },
			input: ports.SubmitVoteInput{UserID: "U1", Menu: domain.MenuHomestyle},
			want:  domain.ErrDeadlinePassed,
		},
		{
			name:  "unknown menu",
			now:   func(t *testing.T) time.Time { return seoulTime(t, 2025, 10, 14, 12, 30) },
			input: ports.SubmitVoteInput{UserID: "U1", Menu: "pizza"},
			want:  domain.ErrInvalidMenu,
		},
		{
			name:  "missing user",
			now:   func(t *testing.T) time.Time { return seoulTime(t, 2025, 10, 14, 12, 30) },
			input: ports.SubmitVoteInput{UserID: "  ", Menu: domain.MenuFreshMeal},
			want:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now(t))
			if tt.prepare != nil {
				tt.prepare(t, f)
			}

			res, err := f.orders.Submit(context.Background(), tt.input)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)

			votes, err := f.votes.ListVotesByDate(context.Background(), f.rt.Calendar.DateKey(tt.now(t)))
			require.NoError(t, err)
			assert.Empty(t, votes, "a rejected vote leaves no row")
		})
	}
}

func TestSubmit_BeforeWindowIsAccepted(t *testing.T) {
	f := newFixture(t, seoulTime(t, 2025, 10, 14, 9, 15))

	res := f.submit(t, "U1", domain.MenuHomestyle)
	assert.False(t, res.Updated)
}

func TestSubmit_DefaultUserName(t *testing.T) {
	f := newFixture(t, seoulTime(t, 2025, 10, 14, 12, 30))

	res, err := f.orders.Submit(context.Background(), ports.SubmitVoteInput{UserID: "U1", Menu: domain.MenuHomestyle})
	require.NoError(t, err)
	assert.Equal(t, "unknown", res.Vote.UserName)
}

func TestSubmit_StorageError(t *testing.T) {
	rt := newRuntime(t, clock.Fake(seoulTime(t, 2025, 10, 14, 12, 30)))

	votes := &mockVoteRepository{}
	sessions := &mockSessionRepository{}
	sessions.On("GetSession", mock.Anything, "2025-10-14").Return(nil, nil)
	votes.On("GetVote", mock.Anything, "2025-10-14", "U1").Return(nil, nil)
	votes.On("UpsertVote", mock.Anything, mock.AnythingOfType("*domain.Vote")).Return(errBoom)

	svc := NewOrderService(rt, votes, sessions)
	_, err := svc.Submit(context.Background(), ports.SubmitVoteInput{UserID: "U1", Menu: domain.MenuFreshMeal})

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, errBoom)
	votes.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestSubmit_SessionReadFailure(t *testing.T) {
	rt := newRuntime(t, clock.Fake(seoulTime(t, 2025, 10, 14, 12, 30)))

	votes := &mockVoteRepository{}
	sessions := &mockSessionRepository{}
	sessions.On("GetSession", mock.Anything, "2025-10-14").Return(nil, errBoom)

	_, err := NewOrderService(rt, votes, sessions).Submit(context.Background(), ports.SubmitVoteInput{UserID: "U1", Menu: domain.MenuFreshMeal})

	assert.ErrorIs(t, err, domain.ErrStorage)
	votes.AssertNotCalled(t, "UpsertVote", mock.Anything, mock.Anything)
}

func TestSubmit_ConcurrentUsers(t *testing.T) {
	f := newFixture(t, seoulTime(t, 2025, 10, 14, 12, 30))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.orders.Submit(context.Background(), ports.SubmitVoteInput{
				UserID: fmt.Sprintf("U%d", i),
				Menu:   domain.Menus[i%len(domain.Menus)],
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	agg := f.summary.Summarize(context.Background(), domain.DateRange{Start: "2025-10-14", End: "2025-10-14"})
	assert.Equal(t, 10, agg.TotalVotes)
	assert.Equal(t, 10, agg.DistinctVoters)
	assert.Equal(t, 5, agg.MenuTotals[domain.MenuHomestyle])
}
