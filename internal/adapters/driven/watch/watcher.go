// Package watch observes an opened session file on disk and reports
// when an external program rewrites it, so the application can offer a
// reload. The parent directory is watched, not the file itself, because
// most editors save via rename and replace the inode.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

// debounce coalesces the burst of events a single editor save produces.
const debounce = 200 * time.Millisecond

// Watcher reports external modifications of one session file.
type Watcher struct {
	fsw     *fsnotify.Watcher
	path    string
	changed chan string
}

// NewWatcher creates a watcher for the given file path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		fsw:     fsw,
		path:    abs,
		changed: make(chan string, 1),
	}, nil
}

// Changed delivers the file path once per detected save. The channel
// has capacity one; a pending notification absorbs later ones until it
// is consumed.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Run processes filesystem events until the context is cancelled or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.matches(ev) {
				continue
			}
			logger.Debug("session file event: %s", ev)
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.changed <- w.path:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// matches reports whether the event concerns the watched file and is a
// content change.
func (w *Watcher) matches(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}
