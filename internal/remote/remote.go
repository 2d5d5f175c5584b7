package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Failure classes reported by sessions. Callers match them with errors.Is.
var (
	// ErrConnect means the session could not be established.
	ErrConnect = errors.New("remote connect failed")
	// ErrDirectoryNotFound means the measurement directory is missing or
	// not accessible.
	ErrDirectoryNotFound = errors.New("remote directory not found")
	// ErrTransfer means a call on an established session failed or timed
	// out. The session should be discarded.
	ErrTransfer = errors.New("remote transfer failed")
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 20 * time.Second

// Credentials identify the measurement server. They do not change while
// the process runs.
type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	RootPath string
}

// Dir returns the remote path of a measurement directory below RootPath.
func (c Credentials) Dir(name string) string {
	if c.RootPath == "" {
		return name
	}
	if strings.HasSuffix(c.RootPath, "/") {
		return c.RootPath + name
	}
	return path.Join(c.RootPath, name)
}

// Session is an established file-transfer session.
type Session interface {
	// Chdir makes dir the directory that Get reads from.
	Chdir(ctx context.Context, dir string) error
	// Get streams the named file from the current directory into w.
	Get(ctx context.Context, name string, w io.Writer) error
	Close() error
}

// Dialer establishes sessions.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// withDeadline runs fn and gives up once timeout elapses or ctx ends. The
// abandoned call keeps running until the caller closes the session.
func withDeadline(ctx context.Context, timeout time.Duration, op string, fn func() error) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%s: %w: %w", op, ErrTransfer, ctx.Err())
	}
}
