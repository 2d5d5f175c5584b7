package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const defaultSSHPort = 22

// SFTPDialer opens SFTP sessions over SSH with password authentication.
type SFTPDialer struct {
	creds    Credentials
	timeout  time.Duration
	hostKeys ssh.HostKeyCallback
}

// NewSFTPDialer builds a dialer. When knownHostsPath is empty any host key
// is accepted.
func NewSFTPDialer(creds Credentials, knownHostsPath string, timeout time.Duration) (*SFTPDialer, error) {
	if creds.Host == "" {
		return nil, fmt.Errorf("remote host is empty")
	}
	if creds.Port <= 0 {
		creds.Port = defaultSSHPort
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hostKeys := ssh.InsecureIgnoreHostKey()
	if knownHostsPath != "" {
		cb, err := knownhosts.New(knownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
		hostKeys = cb
	}

	return &SFTPDialer{creds: creds, timeout: timeout, hostKeys: hostKeys}, nil
}

// Address returns host:port.
func (d *SFTPDialer) Address() string {
	return net.JoinHostPort(d.creds.Host, strconv.Itoa(d.creds.Port))
}

// Dial connects, authenticates and starts the SFTP subsystem.
func (d *SFTPDialer) Dial(ctx context.Context) (Session, error) {
	addr := d.Address()
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrConnect, addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	cfg := &ssh.ClientConfig{
		User:            d.creds.User,
		Auth:            []ssh.AuthMethod{ssh.Password(d.creds.Password)},
		HostKeyCallback: d.hostKeys,
		Timeout:         d.timeout,
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: ssh handshake with %s: %w", ErrConnect, addr, err)
	}

	client := ssh.NewClient(c, chans, reqs)
	sc, err := startSFTP(ctx, client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: start sftp on %s: %w", ErrConnect, addr, err)
	}
	_ = conn.SetDeadline(time.Time{})
	return NewSFTPSession(sc, client, d.timeout), nil
}

// startSFTP requests the sftp subsystem and gives up when ctx ends. The
// caller closes client on error, which unblocks the abandoned request.
func startSFTP(ctx context.Context, client *ssh.Client) (*sftp.Client, error) {
	type result struct {
		sc  *sftp.Client
		err error
	}
	done := make(chan result, 1)
	go func() {
		sc, err := sftp.NewClient(client)
		done <- result{sc: sc, err: err}
	}()

	select {
	case r := <-done:
		return r.sc, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.sc != nil {
				_ = r.sc.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// SFTPSession implements Session on top of an SFTP client.
type SFTPSession struct {
	client  *sftp.Client
	conn    io.Closer
	timeout time.Duration
	cwd     string
}

// NewSFTPSession wraps an SFTP client. conn, when non-nil, is closed
// together with the client.
func NewSFTPSession(client *sftp.Client, conn io.Closer, timeout time.Duration) *SFTPSession {
	return &SFTPSession{client: client, conn: conn, timeout: timeout}
}

// Chdir checks that dir exists and is a directory.
func (s *SFTPSession) Chdir(ctx context.Context, dir string) error {
	err := withDeadline(ctx, s.timeout, "chdir "+dir, func() error {
		info, err := s.client.Stat(dir)
		if err != nil {
			if isMissing(err) {
				return fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, dir, err)
			}
			return fmt.Errorf("%w: stat %s: %w", ErrTransfer, dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cwd = dir
	return nil
}

// Get copies name from the current directory into w.
func (s *SFTPSession) Get(ctx context.Context, name string, w io.Writer) error {
	remotePath := name
	if s.cwd != "" {
		remotePath = path.Join(s.cwd, name)
	}
	return withDeadline(ctx, s.timeout, "get "+remotePath, func() error {
		f, err := s.client.Open(remotePath)
		if err != nil {
			return fmt.Errorf("%w: open %s: %w", ErrTransfer, remotePath, err)
		}
		defer f.Close()
		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("%w: read %s: %w", ErrTransfer, remotePath, err)
		}
		return nil
	})
}

// Close ends the SFTP subsystem and the underlying connection.
func (s *SFTPSession) Close() error {
	err := s.client.Close()
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// isMissing reports errors the server returns for absent or forbidden paths
// as opposed to a broken session.
func isMissing(err error) bool {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return true
	}
	var status *sftp.StatusError
	return errors.As(err, &status)
}
