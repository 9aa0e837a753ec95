package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// staleWatcher reports when the content root changes after the navigation
// was built. It never rebuilds anything: the sidebar stays as built at
// startup and a restart picks up the changes.
type staleWatcher struct {
	mu      sync.Mutex
	current *fsnotify.Watcher
	cancel  context.CancelFunc
	stale   atomic.Bool
	changed chan struct{} // closed on the first change, for tests
	once    sync.Once
}

func newStaleWatcher() *staleWatcher {
	return &staleWatcher{changed: make(chan struct{})}
}

// Stale reports whether the tree on disk no longer matches the navigation.
// A nil watcher is never stale.
func (m *staleWatcher) Stale() bool {
	if m == nil {
		return false
	}
	return m.stale.Load()
}

func (m *staleWatcher) watchDirectory(rootDir string) error {
	dirsToWatch, err := collectDirectories(rootDir)
	if err != nil {
		return fmt.Errorf("directory walk failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range dirsToWatch {
		if err := watcher.Add(dir); err != nil {
			if dir == rootDir {
				if closeErr := watcher.Close(); closeErr != nil {
					log.Printf("Failed to close watcher after add error: %v", closeErr)
				}
				return err
			}
			log.Printf("Warning: Cannot watch directory %s: %v", dir, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.current = watcher
	m.cancel = cancel
	m.mu.Unlock()

	go m.watchWithContext(ctx, watcher)
	return nil
}

// collectDirectories returns rootDir and every directory below it
func collectDirectories(rootDir string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

func (m *staleWatcher) watchWithContext(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			isDir := false
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				isDir = true
				if event.Has(fsnotify.Create) {
					if err := watcher.Add(event.Name); err != nil {
						log.Printf("Warning: Cannot watch new directory %s: %v", event.Name, err)
					}
				}
			}

			// Removed directories can no longer be stat'd, so any removal without
			// an extension is treated as one
			if isDir || strings.HasSuffix(event.Name, htmlExt) || filepath.Ext(event.Name) == "" {
				m.markStale(event)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Directory watcher error: %v", err)
		}
	}
}

func (m *staleWatcher) markStale(event fsnotify.Event) {
	if m.stale.CompareAndSwap(false, true) {
		log.Printf("Navigation is out of date (%s %s); restart to rebuild the sidebar", event.Op, event.Name)
	}
	m.once.Do(func() { close(m.changed) })
}

func (m *staleWatcher) close() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}
	if m.current != nil {
		m.current.Close()
	}
}
