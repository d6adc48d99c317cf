package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events a single save produces.
const watchDebounce = 100 * time.Millisecond

// watchFiles calls onChange with the path of a watched file after it was
// written, until ctx is cancelled. Parent directories are watched rather
// than the files so that editors replacing files on save are seen too.
func watchFiles(ctx context.Context, paths []string, logger *slog.Logger, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]string, len(paths)) // absolute -> as given
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	var (
		mu       sync.Mutex // serializes onChange
		timers   = make(map[string]*time.Timer)
		timersMu sync.Mutex
	)
	defer func() {
		timersMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timersMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, ok := watched[filepath.Clean(event.Name)]
			if !ok {
				continue
			}

			// Debounce per file
			timersMu.Lock()
			if t := timers[path]; t != nil {
				t.Stop()
			}
			timers[path] = time.AfterFunc(watchDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				onChange(path)
			})
			timersMu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
