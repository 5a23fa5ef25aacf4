package index

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets writers finish before the file is read back.
const reloadDelay = 100 * time.Millisecond

// Watch calls onChange whenever the local index file at path is written,
// created or renamed into place. The parent directory is watched so editors
// that replace the file atomically are noticed. Watch blocks until ctx is
// done.
func Watch(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(LocalPath(path))
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close watcher: %v", err)
		}
	}()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Infof("watching %s for changes", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debugf("index changed: %s", event)
				drain(ctx, watcher.Events, abs)
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher error: %v", err)
		}
	}
}

// drain swallows the burst of events a single save produces.
func drain(ctx context.Context, events <-chan fsnotify.Event, abs string) {
	timer := time.NewTimer(reloadDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == abs {
				timer.Reset(reloadDelay)
			}
		}
	}
}
