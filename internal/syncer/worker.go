package syncer

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/five82/vnamon/internal/cache"
	"github.com/five82/vnamon/internal/remote"
)

// Remote file names inside a measurement directory.
const (
	RemoteDataLog       = "0_data_log.txt"
	RemoteLatestSParams = "Latest_Sparams.txt"
)

// ConnState is the worker's view of its remote session.
type ConnState int

const (
	Disconnected ConnState = iota
	Connected
)

func (s ConnState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

type fetch struct {
	name string
	role cache.Role
}

var fetches = []fetch{
	{name: RemoteDataLog, role: cache.DataLog},
	{name: RemoteLatestSParams, role: cache.LatestSParams},
}

// WorkerOptions configure a Worker.
type WorkerOptions struct {
	Dialer      remote.Dialer
	Credentials remote.Credentials
	Paths       cache.Paths
	Target      *Target
	// Emit receives user-facing events. It may be nil.
	Emit func(Event)
}

// Worker runs sync cycles. The connection state and session belong to
// whichever goroutine is running RunCycle; callers must not run two cycles
// at once (Scheduler guarantees this).
type Worker struct {
	dialer remote.Dialer
	creds  remote.Credentials
	paths  cache.Paths
	target *Target
	emit   func(Event)

	state   ConnState
	session remote.Session

	connectLog rate.Sometimes
}

// NewWorker returns a disconnected worker.
func NewWorker(opts WorkerOptions) *Worker {
	target := opts.Target
	if target == nil {
		target = &Target{}
	}
	return &Worker{
		dialer:     opts.Dialer,
		creds:      opts.Credentials,
		paths:      opts.Paths,
		target:     target,
		emit:       opts.Emit,
		state:      Disconnected,
		connectLog: rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

// RunCycle performs one sync attempt for the current target.
func (w *Worker) RunCycle(ctx context.Context) Outcome {
	dir, ok := w.target.Get()
	if !ok {
		return OutcomeIdle
	}

	id := uuid.NewString()[:8]
	start := time.Now()

	if w.state == Disconnected {
		session, err := w.dialer.Dial(ctx)
		if err != nil {
			w.connectLog.Do(func() {
				log.Printf("sync %s: disconnected and cannot connect: %v", id, err)
			})
			return OutcomeConnectFailed
		}
		w.session = session
		w.state = Connected
		log.Printf("sync %s: session established", id)
	}

	remoteDir := w.creds.Dir(dir)
	if err := w.session.Chdir(ctx, remoteDir); err != nil {
		if errors.Is(err, remote.ErrDirectoryNotFound) {
			log.Printf("sync %s: %v", id, err)
			w.target.ClearIf(dir)
			if w.emit != nil {
				w.emit(BadFolder{Directory: dir, Err: err})
			}
			return OutcomeBadFolder
		}
		log.Printf("sync %s: %v", id, err)
		w.disconnect()
		return OutcomeTransferFailed
	}

	for _, f := range fetches {
		err := cache.Replace(w.paths.Path(f.role), func(out io.Writer) error {
			return w.session.Get(ctx, f.name, out)
		})
		if err != nil {
			log.Printf("sync %s: fetch %s: %v", id, f.name, err)
			w.disconnect()
			return OutcomeTransferFailed
		}
	}

	log.Printf("sync %s: fetched %s in %s", id, remoteDir, time.Since(start).Round(time.Millisecond))
	return OutcomeSynced
}

// Close drops the session. Call it only once no cycle is running.
func (w *Worker) Close() error {
	if w.session == nil {
		return nil
	}
	err := w.session.Close()
	w.session = nil
	w.state = Disconnected
	return err
}

func (w *Worker) disconnect() {
	if err := w.Close(); err != nil {
		log.Printf("sync: close session: %v", err)
	}
}
