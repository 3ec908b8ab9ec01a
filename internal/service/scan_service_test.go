package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

type fakeEngine struct {
	scan domain.Scan
	err  error
}

func (f *fakeEngine) Scan(_ context.Context, mode domain.Mode) (domain.Scan, error) {
	if f.err != nil {
		return domain.Scan{}, f.err
	}
	scan := f.scan
	scan.Mode = mode
	return scan, nil
}

func TestRunOncePersistsAndBroadcasts(t *testing.T) {
	engine := &fakeEngine{scan: domain.Scan{
		ID:        "scan-1",
		StartedAt: time.Now(),
		Opportunities: []domain.ArbitrageOpportunity{
			{Event: "Event A", Spread: 12.5},
		},
	}}
	store := &memScanStore{}
	bus := &recordingBus{}
	svc := NewScanService(engine, store, bus, domain.ModeStrict, testLogger())

	scan, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeStrict, scan.Mode)

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "scan-1", history[0].ID)

	assert.Equal(t, []string{"scan"}, bus.events)
}

func TestLiveDoesNotPersist(t *testing.T) {
	engine := &fakeEngine{scan: domain.Scan{ID: "scan-live", StartedAt: time.Now()}}
	store := &memScanStore{}
	svc := NewScanService(engine, store, nil, domain.ModeStrict, testLogger())

	scan, err := svc.Live(context.Background(), domain.ModeLoose)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLoose, scan.Mode)

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRunOncePropagatesScanFailure(t *testing.T) {
	engine := &fakeEngine{err: domain.ErrNoSourcesAvailable}
	svc := NewScanService(engine, &memScanStore{}, nil, domain.ModeStrict, testLogger())

	_, err := svc.RunOnce(context.Background())
	require.ErrorIs(t, err, domain.ErrNoSourcesAvailable)
}

func TestHistoryWithoutStore(t *testing.T) {
	svc := NewScanService(&fakeEngine{}, nil, nil, domain.ModeStrict, testLogger())

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestRunStopsOnCancel(t *testing.T) {
	engine := &fakeEngine{err: errors.New("down")}
	svc := NewScanService(engine, nil, nil, domain.ModeStrict, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
