package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"gdpdash/internal/logger"
)

// Watcher refreshes the state when local source documents change.
// Bursts of events within the debounce interval trigger one refresh.
type Watcher struct {
	state    *State
	log      *logger.Logger
	dirs     []string
	debounce time.Duration
}

// NewWatcher creates a watcher over dirs.
func NewWatcher(state *State, dirs []string, debounce time.Duration, log *logger.Logger) *Watcher {
	if log == nil {
		log = logger.Discard()
	}

	return &Watcher{state: state, dirs: dirs, debounce: debounce, log: log}
}

// Run blocks until ctx is done, refreshing after each debounced burst of changes.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}

		w.log.Info("watching source directory", "dir", dir)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			// Ignore chmod
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.log.Debug("source changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.log.Error("file watcher error", "error", err)

		case <-timer.C:
			snap, err := w.state.Refresh(ctx)
			if err != nil {
				w.log.Error("refresh after change failed", "error", err)

				continue
			}

			w.log.Info("refreshed after change", "load_id", snap.LoadID, "fingerprint", snap.Fingerprint)
		}
	}
}
