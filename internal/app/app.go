package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/five82/vnamon/internal/axis"
	"github.com/five82/vnamon/internal/cache"
	"github.com/five82/vnamon/internal/config"
	"github.com/five82/vnamon/internal/prefs"
	"github.com/five82/vnamon/internal/remote"
	"github.com/five82/vnamon/internal/render"
	"github.com/five82/vnamon/internal/series"
	"github.com/five82/vnamon/internal/state"
	"github.com/five82/vnamon/internal/syncer"
	"github.com/five82/vnamon/internal/ui"
)

// Options configure the vnamon application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/vnamon/prefs.toml
	Folder     string // measurement folder to start with; empty uses the last one
}

const eventBuffer = 8

// Runtime holds the wired components shared by the TUI and the headless
// commands.
type Runtime struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string

	Paths     cache.Paths
	Target    *syncer.Target
	Worker    *syncer.Worker
	Scheduler *syncer.Scheduler
	Store     *state.Store
	Axes      *axis.Controller
	Processor *series.Processor

	events chan syncer.Event
}

// Open loads configuration and preferences and wires the sync and display
// components. It does not start any goroutines.
func Open(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	dialer, err := remote.NewSFTPDialer(cfg.Credentials(), cfg.KnownHosts, cfg.RemoteTimeout)
	if err != nil {
		return nil, fmt.Errorf("init sftp dialer: %w", err)
	}
	return newRuntime(cfg, userPrefs, opts, dialer)
}

func newRuntime(cfg config.Config, userPrefs prefs.Prefs, opts Options, dialer remote.Dialer) (*Runtime, error) {
	paths := cache.Paths{Dir: cfg.CacheDir}
	if err := paths.Ensure(); err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Paths:     paths,
		Target:    &syncer.Target{},
		Store:     &state.Store{},
		Axes:      axis.NewController(),
		Processor: series.NewProcessor(paths.DataLog(), paths.LatestSParams()),
		events:    make(chan syncer.Event, eventBuffer),
	}

	folder := opts.Folder
	if folder == "" {
		folder = userPrefs.LastFolder
	}
	rt.Target.Set(folder)
	rt.Store.SetSmoothing(userPrefs.Smoothing)
	rt.Axes.Restore(userPrefs.Ranges)

	rt.Worker = syncer.NewWorker(syncer.WorkerOptions{
		Dialer:      dialer,
		Credentials: cfg.Credentials(),
		Paths:       paths,
		Target:      rt.Target,
		Emit:        rt.emit,
	})
	rt.Scheduler = syncer.NewScheduler(rt.Worker, cfg.SyncInterval, rt.Store.RecordOutcome)
	return rt, nil
}

// emit forwards worker events without blocking the sync cycle.
func (rt *Runtime) emit(ev syncer.Event) {
	select {
	case rt.events <- ev:
	default:
		log.Printf("event dropped: %v", ev)
	}
}

// Events delivers user-facing sync events.
func (rt *Runtime) Events() <-chan syncer.Event {
	return rt.events
}

// Refresh derives the series from the cache once.
func (rt *Runtime) Refresh() {
	refresh(rt.Store, rt.Processor)
}

// SavePrefs persists the current theme, smoothing, ranges and folder.
func (rt *Runtime) SavePrefs(theme string) error {
	p := rt.Prefs
	if theme != "" {
		p.Theme = theme
	}
	p.Smoothing = rt.Store.Smoothing()
	p.Ranges = rt.Axes.Ranges()
	if dir, ok := rt.Target.Get(); ok {
		p.LastFolder = dir
	}
	if err := prefs.Save(rt.PrefsPath, p); err != nil {
		return err
	}
	rt.Prefs = p
	return nil
}

// Close drops the remote session. Call it once the scheduler has stopped.
func (rt *Runtime) Close() error {
	return rt.Worker.Close()
}

// Run boots the vnamon TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	rt, err := Open(opts)
	if err != nil {
		return err
	}

	restore, err := redirectLog(rt.Config.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		rt.Scheduler.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
		if err := rt.Close(); err != nil {
			log.Printf("close session: %v", err)
		}
	}()

	nudges, err := cache.Watch(ctx, rt.Paths)
	if err != nil {
		log.Printf("cache watch unavailable: %v", err)
	}
	StartPoller(ctx, rt.Store, rt.Processor, rt.Config.RedrawInterval, nudges)

	return ui.Run(ui.Options{
		Context:    ctx,
		Store:      rt.Store,
		Target:     rt.Target,
		Axes:       rt.Axes,
		Events:     rt.Events(),
		Refresh:    rt.Refresh,
		SavePrefs:  rt.SavePrefs,
		ThemeName:  rt.Prefs.Theme,
		LogPath:    rt.Config.LogFile,
		ExportDir:  filepath.Join(rt.Config.CacheDir, "charts"),
		RedrawTick: rt.Config.RedrawInterval,
	})
}

// ErrNotSynced is returned by Sync in single-cycle mode when the cycle did
// not fetch both files.
var ErrNotSynced = errors.New("sync did not complete")

// Sync runs the scheduler without a UI, logging outcomes. With once set it
// runs a single cycle and reports whether it synced.
func Sync(ctx context.Context, opts Options, once bool) error {
	rt, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Printf("close session: %v", err)
		}
	}()

	if _, ok := rt.Target.Get(); !ok {
		return fmt.Errorf("no measurement folder selected")
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-rt.events:
				log.Printf("event: %v", ev)
			}
		}
	}()

	if once {
		outcome := rt.Worker.RunCycle(ctx)
		rt.Store.RecordOutcome(outcome)
		log.Printf("sync outcome: %s", outcome)
		if outcome != syncer.OutcomeSynced {
			return fmt.Errorf("%w: %s", ErrNotSynced, outcome)
		}
		return nil
	}

	rt.Scheduler.Run(ctx)
	return nil
}

// Render derives the series from the cache and writes the charts into dir.
func Render(opts Options, dir string, smoothing int) ([]string, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)
	if smoothing <= 0 {
		smoothing = userPrefs.Smoothing
	}
	return renderCache(cache.Paths{Dir: cfg.CacheDir}, userPrefs.Ranges, dir, smoothing)
}

func renderCache(paths cache.Paths, ranges axis.Ranges, dir string, smoothing int) ([]string, error) {
	proc := series.NewProcessor(paths.DataLog(), paths.LatestSParams())
	update, err := proc.Derive(smoothing)
	if err != nil {
		return nil, fmt.Errorf("derive series: %w", err)
	}

	axes := axis.NewController()
	axes.Restore(ranges)

	return render.WriteAll(dir, render.Data{
		Trend:    update.Trend,
		Spectrum: update.Spectrum,
		Ranges:   axes.Ranges(),
	}, render.Size{})
}

// redirectLog sends the standard logger to path so the alternate screen is
// not corrupted. The returned func restores stderr.
func redirectLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
