package syncer

import (
	"strings"
	"sync"
)

// Target is the measurement directory the user asked to follow. It is
// written by the UI and read by sync cycles; an unset target makes every
// cycle a no-op.
type Target struct {
	mu  sync.Mutex
	dir string
	set bool
}

// Set points the target at dir. Blank names are ignored and reported as
// false.
func (t *Target) Set(dir string) bool {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dir = dir
	t.set = true
	return true
}

// Get returns the directory and whether one is set.
func (t *Target) Get() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir, t.set
}

// Clear unsets the target.
func (t *Target) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dir = ""
	t.set = false
}

// ClearIf unsets the target only while it still names dir, so a directory
// chosen during a failing cycle survives that cycle.
func (t *Target) ClearIf(dir string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.set || t.dir != dir {
		return false
	}
	t.dir = ""
	t.set = false
	return true
}
