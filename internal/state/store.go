package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/vnamon/internal/series"
	"github.com/five82/vnamon/internal/syncer"
)

// DefaultSmoothing is the rolling-mean width used until the user picks one.
const DefaultSmoothing = 1

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Trend       series.Trend
	HasTrend    bool
	Spectrum    series.Spectrum
	HasSpectrum bool
	LastDerived time.Time
	LastError   error
	// ConsecutiveFailures counts derivation cycles in a row that could not
	// read the cache.
	ConsecutiveFailures int

	Smoothing int

	LastOutcome  syncer.Outcome
	LastAttempt  time.Time
	LastSynced   time.Time
	SyncFailures int // consecutive cycles that did not reach the server
}

// IsStale reports whether the cache has been unreadable for multiple cycles.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// IsOffline reports whether the server has been unreachable for multiple
// sync cycles.
func (s Snapshot) IsOffline() bool {
	return s.SyncFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateSeries records the result of a derivation cycle. When err is non-nil
// the previous series are kept and the error is recorded for visibility. A
// nil Spectrum keeps the previous sweep.
func (s *Store) UpdateSeries(update series.Update, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastDerived = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Trend = cloneTrend(update.Trend)
	s.snapshot.HasTrend = true
	if update.Spectrum != nil {
		s.snapshot.Spectrum = cloneSpectrum(*update.Spectrum)
		s.snapshot.HasSpectrum = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// RecordOutcome records the result of a sync cycle. Idle cycles only bump
// the attempt time.
func (s *Store) RecordOutcome(outcome syncer.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastOutcome = outcome
	s.snapshot.LastAttempt = now
	switch outcome {
	case syncer.OutcomeSynced:
		s.snapshot.LastSynced = now
		s.snapshot.SyncFailures = 0
	case syncer.OutcomeConnectFailed, syncer.OutcomeTransferFailed:
		s.snapshot.SyncFailures++
	case syncer.OutcomeIdle, syncer.OutcomeBadFolder:
		s.snapshot.SyncFailures = 0
	}
}

// SetSmoothing stores the rolling-mean width. Widths below one are ignored.
func (s *Store) SetSmoothing(w int) bool {
	if w < 1 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Smoothing = w
	return true
}

// Smoothing returns the current rolling-mean width.
func (s *Store) Smoothing() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Smoothing < 1 {
		return DefaultSmoothing
	}
	return s.snapshot.Smoothing
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Trend = cloneTrend(s.snapshot.Trend)
	snap.Spectrum = cloneSpectrum(s.snapshot.Spectrum)
	if snap.Smoothing < 1 {
		snap.Smoothing = DefaultSmoothing
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneTrend(t series.Trend) series.Trend {
	t.InflectionFrequency = clonePoints(t.InflectionFrequency)
	t.MinS11 = clonePoints(t.MinS11)
	t.InflectionImpedance = clonePoints(t.InflectionImpedance)
	return t
}

func cloneSpectrum(s series.Spectrum) series.Spectrum {
	s.S11 = clonePoints(s.S11)
	return s
}

func clonePoints(points []series.Point) []series.Point {
	if len(points) == 0 {
		return nil
	}
	dup := make([]series.Point, len(points))
	copy(dup, points)
	return dup
}
