// Package app provides the orchestration layer for vnamon.
//
// # Overview
//
// This package wires configuration, the sync worker, the derivation poller,
// state management and the UI together. It is the composition root where
// all dependencies are initialized and connected.
//
// # Architecture
//
//  1. Load ~/.config/vnamon/config.toml and refuse to start without a host and user
//  2. Load preferences (theme, smoothing, ranges, last folder)
//  3. Build the SFTP dialer, cache paths and measurement target
//  4. Create the sync worker and its scheduler
//  5. Redirect logging to the log file and start the scheduler
//  6. Start the derivation poller, nudged by cache file changes
//  7. Start the TUI and block until the user exits or the context ends
//
// # Data Flow
//
//	Scheduler (sync interval)          Poller (redraw interval + fsnotify)
//	┌──────────────────────────┐       ┌──────────────────────────────┐
//	│ Worker.RunCycle()        │       │ Processor.Derive(smoothing)  │
//	│  ├─> Dial / Chdir        │       │  └─> store.UpdateSeries()    │
//	│  ├─> Get -> cache files ─┼──────>│                              │
//	│  └─> store.RecordOutcome │       └──────────────────────────────┘
//	└──────────────────────────┘                      │
//	          │ BadFolder events                      ▼
//	          └──────────────────────────────>  ui.Run (Snapshot)
//
// The two loops never share memory; the poller only reads the cache files
// the worker replaces atomically.
//
// # Headless Commands
//
// Sync runs the scheduler without a UI, or a single cycle with once set.
// Render derives the series from the current cache and writes PNG charts.
//
// # Error Handling
//
// Fatal errors (returned from Run, Sync and Render):
//   - Configuration file unreadable or invalid TOML
//   - Missing host or user
//   - Cache or log directory cannot be created
//
// Recoverable errors (logged, loops continue):
//   - Connection, directory and transfer failures in sync cycles
//   - Parse failures in the cache files
package app
