package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

type fakeLeaderboard struct {
	entries []domain.LeaderboardEntry
	calls   int
}

func (f *fakeLeaderboard) Leaderboard(context.Context, string, int, string) ([]domain.LeaderboardEntry, error) {
	f.calls++
	return f.entries, nil
}

func TestLeaderboardCachesAndRanks(t *testing.T) {
	api := &fakeLeaderboard{entries: []domain.LeaderboardEntry{
		{Address: "0x1", Profit: 900},
		{Address: "0x2", Profit: 500},
	}}
	svc := NewLeaderboardService(api, newMemCache(), 5*time.Minute, testLogger())

	entries, err := svc.Top(context.Background(), "week", 20, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)

	// Second read hits the cache.
	_, err = svc.Top(context.Background(), "week", 20, "")
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)

	// Different period misses.
	_, err = svc.Top(context.Background(), "month", 20, "")
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)
}

func TestLeaderboardRejectsUnknownPeriod(t *testing.T) {
	svc := NewLeaderboardService(&fakeLeaderboard{}, newMemCache(), time.Minute, testLogger())

	_, err := svc.Top(context.Background(), "decade", 20, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
