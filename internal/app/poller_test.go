package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/vnamon/internal/series"
	"github.com/five82/vnamon/internal/state"
)

type fakeDeriver struct {
	mu     sync.Mutex
	widths []int
	err    error
	calls  chan struct{}
}

func newFakeDeriver() *fakeDeriver {
	return &fakeDeriver{calls: make(chan struct{}, 16)}
}

func (d *fakeDeriver) Derive(w int) (series.Update, error) {
	d.mu.Lock()
	d.widths = append(d.widths, w)
	err := d.err
	d.mu.Unlock()
	defer func() {
		select {
		case d.calls <- struct{}{}:
		default:
		}
	}()

	if err != nil {
		return series.Update{}, err
	}
	return series.Update{Trend: series.Trend{Samples: w, Smoothing: w}}, nil
}

func (d *fakeDeriver) wait(t *testing.T) {
	t.Helper()
	select {
	case <-d.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for derive")
	}
}

func TestStartPoller_RefreshesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	store.SetSmoothing(3)
	d := newFakeDeriver()

	StartPoller(ctx, store, d, time.Hour, nil)
	d.wait(t)

	// UpdateSeries runs right after Derive returns.
	deadline := time.Now().Add(2 * time.Second)
	for !store.Snapshot().HasTrend {
		if time.Now().After(deadline) {
			t.Fatal("store never received the derived trend")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := store.Snapshot().Trend.Smoothing; got != 3 {
		t.Fatalf("Trend.Smoothing = %d, want 3", got)
	}
}

func TestStartPoller_NudgeTriggersRefresh(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nudge := make(chan struct{}, 1)
	d := newFakeDeriver()
	StartPoller(ctx, &state.Store{}, d, time.Hour, nudge)
	d.wait(t)

	nudge <- struct{}{}
	d.wait(t)
}

func TestStartPoller_ClosedNudgeFallsBackToTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nudge := make(chan struct{})
	close(nudge)
	d := newFakeDeriver()
	StartPoller(ctx, &state.Store{}, d, 20*time.Millisecond, nudge)

	for i := 0; i < 3; i++ {
		d.wait(t)
	}
}

func TestRefresh_ErrorKeepsPreviousSeries(t *testing.T) {
	store := &state.Store{}
	d := newFakeDeriver()

	refresh(store, d)
	if !store.Snapshot().HasTrend {
		t.Fatal("first refresh did not store a trend")
	}

	d.err = errors.New("bad row")
	refresh(store, d)

	snap := store.Snapshot()
	if !snap.HasTrend || snap.Trend.Samples != 1 {
		t.Fatalf("trend = %+v, want previous trend kept", snap.Trend)
	}
	if snap.LastError == nil {
		t.Fatal("LastError = nil, want derive error")
	}
}
