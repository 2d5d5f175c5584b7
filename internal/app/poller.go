package app

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/five82/vnamon/internal/series"
	"github.com/five82/vnamon/internal/state"
)

const defaultRedrawInterval = 2 * time.Second

// Deriver rebuilds the display series from the cache.
type Deriver interface {
	Derive(w int) (series.Update, error)
}

// StartPoller launches a background goroutine that re-derives the series at
// a fixed cadence and whenever nudge fires. A nil nudge channel only uses
// the ticker. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, d Deriver, interval time.Duration, nudge <-chan struct{}) {
	if interval <= 0 {
		interval = defaultRedrawInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(store, d)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case _, ok := <-nudge:
				if !ok {
					nudge = nil
				}
			}
		}
	}()
}

func refresh(store *state.Store, d Deriver) {
	update, err := d.Derive(store.Smoothing())
	store.UpdateSeries(update, err)
	// A missing cache only means nothing has been synced yet.
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("derive failed: %v", err)
	}
}
