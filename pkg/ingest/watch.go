package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ssargent/xhfile/pkg/logging"
)

// DefaultQuiet is how long a file must go without writes before it is ingested.
const DefaultQuiet = 500 * time.Millisecond

// Watcher ingests files in a directory as they are written and drops the
// entries of files that are removed or renamed away.
type Watcher struct {
	ing     *Ingester
	watcher *fsnotify.Watcher
	dir     string
	quiet   time.Duration
	logger  *slog.Logger
	pending map[string]time.Time
}

// Watch starts watching dir. Events are only handled once Run is called.
func Watch(ing *Ingester, dir string, quiet time.Duration, logger *slog.Logger) (*Watcher, error) {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}
	return &Watcher{
		ing:     ing,
		watcher: w,
		dir:     dir,
		quiet:   quiet,
		logger:  logging.Default(logger).With("component", "watch", "dir", dir),
		pending: make(map[string]time.Time),
	}, nil
}

// Run handles events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	tick := time.NewTicker(w.quiet / 2)
	defer tick.Stop()

	w.logger.Info("watching")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		case now := <-tick.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		w.pending[ev.Name] = time.Now()
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		delete(w.pending, ev.Name)
		if _, err := w.ing.Remove(ev.Name); err != nil {
			w.logger.Warn("remove failed", "path", ev.Name, "error", err)
		}
	}
}

func (w *Watcher) flush(ctx context.Context, now time.Time) {
	for path, last := range w.pending {
		if now.Sub(last) < w.quiet {
			continue
		}
		delete(w.pending, path)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		// errors are logged by IngestFile
		_, _ = w.ing.IngestFile(ctx, filepath.Clean(path))
	}
}

// Close stops watching without waiting for Run to return.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
