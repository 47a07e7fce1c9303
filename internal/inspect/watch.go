package inspect

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay batches bursts of filesystem events into one re-inspection.
const debounceDelay = 100 * time.Millisecond

// Watcher re-inspects a directory tree whenever its Go files change.
type Watcher struct {
	Dir       string
	Inspector *Inspector
	// OnReport receives each new report, including the initial one.
	OnReport func(*Report)
	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// Run watches until the context is canceled. The initial report is
// delivered before the first filesystem event.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.watchTree(watcher, w.Dir); err != nil {
		return err
	}

	w.inspect(ctx, logger)

	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("source changed", "file", event.Name, "op", event.Op.String())
			// New directories need their own watch before their files
			// produce events.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watchTree(watcher, event.Name)
				}
			}
			debounce.Reset(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-debounce.C:
			w.inspect(ctx, logger)
		}
	}
}

// inspect runs one inspection pass and delivers the report.
func (w *Watcher) inspect(ctx context.Context, logger *slog.Logger) {
	report, err := w.Inspector.InspectDir(ctx, w.Dir)
	if err != nil {
		logger.Warn("inspection failed", "error", err)
		return
	}
	if w.OnReport != nil {
		w.OnReport(report)
	}
}

// watchTree registers dir and its subdirectories, skipping the same
// entries inspection skips.
func (w *Watcher) watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped, not fatal
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
			name == "vendor" || name == "testdata") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant reports whether an event concerns a Go source file or a
// directory change worth rescanning.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return false
	}
	// Directory events carry no extension; rescan for those too.
	return strings.HasSuffix(event.Name, ".go") || filepath.Ext(event.Name) == ""
}
