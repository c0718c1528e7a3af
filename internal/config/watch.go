package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor produces when it
// saves a file.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the file at path whenever it changes and passes the new
// configuration to onChange. Reload failures go to onError and the
// previous configuration stays in effect. Watch blocks until ctx is
// cancelled.
//
// The containing directory is watched rather than the file, so atomic
// saves that replace the file are seen.
func Watch(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(reloadDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(fmt.Errorf("watch %s: %w", path, err))
			}

		case <-timer.C:
			cfg, err := Load(abs)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(cfg)
		}
	}
}
