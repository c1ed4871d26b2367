package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce absorbs the burst of events editors emit for a single save.
const watchDebounce = 100 * time.Millisecond

// LoadFile reads a payload file; the format follows the extension.
func LoadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, err
	}
	defer f.Close()

	p, err := DecodePayload(f, FormatFromPath(path))
	if err != nil {
		return Payload{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WatchFile calls fn with the reloaded payload each time path changes, until
// ctx is done. The parent directory is watched so atomic renames by editors
// are seen. Files that fail to load are logged and skipped.
func WatchFile(ctx context.Context, path string, fn func(Payload)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	logger := slog.With("file", abs)
	logger.Info("watching source file")

	// The debounce timer only signals; reloads run on this goroutine so fn
	// is never called after WatchFile returns.
	reload := make(chan struct{}, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if ctx.Err() != nil {
				return nil
			}
			p, err := LoadFile(abs)
			if err != nil {
				logger.Warn("reload failed", "error", err)
				continue
			}
			logger.Debug("source file changed")
			fn(p)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
