// Package state provides thread-safe state management for vnamon.
//
// # Overview
//
// The Store is where the three concurrent activities meet:
//
//	Sync scheduler:          Derivation poller:        UI:
//	┌────────────────┐      ┌──────────────────┐      ┌──────────────────┐
//	│ RunCycle()     │      │ Processor.Derive │      │ SetSmoothing()   │
//	│      ↓         │      │      ↓           │      │ Snapshot()       │
//	│ RecordOutcome()│─────→│ UpdateSeries()   │─────→│ render charts    │
//	└────────────────┘      └──────────────────┘      └──────────────────┘
//
// The sync worker and the poller never share data in memory; the poller
// reads the cache files the worker writes. The Store only carries what the
// UI needs to show: the latest good series, the outcome of the last sync
// cycle and the smoothing width chosen by the user.
//
// # Update Semantics
//
// UpdateSeries keeps the previous series when the cache could not be read,
// recording the error and counting consecutive failures:
//
//	store.UpdateSeries(update, nil)
//	→ Trend replaced, Spectrum replaced when update.Spectrum != nil
//	→ LastError = nil, ConsecutiveFailures = 0
//
//	store.UpdateSeries(series.Update{}, err)
//	→ Trend, Spectrum unchanged
//	→ LastError = err, ConsecutiveFailures++
//
// # Concurrency Model
//
// A sync.RWMutex guards the snapshot. Snapshot returns deep copies of the
// point slices so the UI can hold on to them while the poller writes.
//
// The zero Store is ready to use.
package state
