// Package cache manages the local copies of the analyzer's log files.
package cache

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local file names inside the cache directory.
const (
	DataLogName       = "Datalog.txt"
	LatestSParamsName = "Latest_Sparams.txt"
)

// Role names one of the two cached files.
type Role int

const (
	DataLog Role = iota
	LatestSParams
)

func (r Role) String() string {
	if r == LatestSParams {
		return "latest s-parameters"
	}
	return "data log"
}

// Paths locates the cached files.
type Paths struct {
	Dir string
}

// Path returns the local path for role.
func (p Paths) Path(role Role) string {
	if role == LatestSParams {
		return filepath.Join(p.Dir, LatestSParamsName)
	}
	return filepath.Join(p.Dir, DataLogName)
}

// DataLog returns the local data log path.
func (p Paths) DataLog() string { return p.Path(DataLog) }

// LatestSParams returns the local sweep path.
func (p Paths) LatestSParams() string { return p.Path(LatestSParams) }

// Ensure creates the cache directory.
func (p Paths) Ensure() error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	return nil
}

// Replace writes the output of fill to a temporary file next to path and
// renames it over path once fill succeeds. Readers see either the old file
// or the complete new one.
func Replace(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Tail returns at most maxLines from the end of the text file at path, such
// as the application log. A missing file yields no lines and no error.
func Tail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
