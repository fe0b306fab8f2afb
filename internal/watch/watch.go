// Package watch triggers pipeline rebuilds when source files change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the given roots and invokes onChange,
// debounced, until ctx is cancelled. Every rebuild is a clean batch run; the
// watcher carries no state between events. New directories created at
// runtime are added to the watch list.
func Watch(ctx context.Context, roots []string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	return watchWithIgnore(ctx, roots, nil, debounce, logger, onChange)
}

// WatchIgnoring is Watch with path prefixes whose events are discarded, so
// artifact writes into the output directory do not retrigger a rebuild.
func WatchIgnoring(ctx context.Context, roots, ignore []string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	return watchWithIgnore(ctx, roots, ignore, debounce, logger, onChange)
}

func watchWithIgnore(ctx context.Context, roots, ignore []string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	ignoreAbs := make([]string, 0, len(ignore))
	for _, p := range ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignoreAbs = append(ignoreAbs, abs)
		}
	}

	for _, root := range roots {
		if err := addDirsRecursive(w, root, ignoreAbs); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.Any("roots", roots))

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	// Debounce timer: editors fire bursts of events per save.
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(ev.Name, ignoreAbs) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, ignoreAbs); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}

			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}

// addDirsRecursive registers root and every non-hidden subdirectory.
func addDirsRecursive(w *fsnotify.Watcher, root string, ignore []string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if ignored(p, ignore) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func ignored(path string, ignore []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, pre := range ignore {
		if abs == pre || strings.HasPrefix(abs, pre+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
