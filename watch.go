package aio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchPreset re-applies the preset at path to dev whenever the file is
// written, until ctx is canceled. The parent directory is watched so the
// write-rename dance done by most editors and config tools is caught too.
// A preset that fails to load or apply is logged and skipped; the watch
// keeps running.
func WatchPreset(ctx context.Context, path string, dev *Device, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	base := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}

			if filepath.Base(event.Name) != base {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			preset, err := LoadPreset(path)
			if err != nil {
				logger.Warn("failed to load preset", "path", path, "error", err)

				continue
			}

			if err := preset.Apply(dev); err != nil {
				logger.Warn("failed to apply preset", "path", path, "error", err)

				continue
			}

			logger.Info("preset applied", "path", path, "name", preset.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}

			logger.Warn("watch error", "path", dir, "error", err)
		}
	}
}
