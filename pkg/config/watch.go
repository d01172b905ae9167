package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file changes.
// It blocks until ctx is done. onReload, if non-nil, runs after every
// successful reload.
func Watch(ctx context.Context, onReload func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	path := Get().ConfigFilePath()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", path, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if err := Reload(); err != nil {
					continue
				}
				if onReload != nil {
					onReload(Get())
				}
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
