package cache

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reports replacements of the cached files on the returned channel.
// Notifications are coalesced: at most one is pending at a time. The
// channel is closed when ctx ends.
func Watch(ctx context.Context, p Paths) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Renames land on the directory, not on the old file inode.
	if err := watcher.Add(p.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", p.Dir, err)
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer close(changed)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevant(p, ev) {
					continue
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("cache watch: %v", err)
			}
		}
	}()
	return changed, nil
}

func relevant(p Paths, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == filepath.Clean(p.DataLog()) || name == filepath.Clean(p.LatestSParams())
}
