package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/plexsync/poster-sync/internal/scanner"
)

// Watch runs an initial sync pass, then keeps the process alive and
// re-runs a full pass after the poster directory settles following a
// change. Events are debounced so a batch copy of many posters triggers
// one pass, not one per file. Blocks until the context is cancelled.
func (r *Runner) Watch(ctx context.Context, debounce time.Duration) error {
	if _, err := r.Run(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.opts.PosterDir); err != nil {
		return fmt.Errorf("watching poster folder: %w", err)
	}

	r.logger.Info("watching poster folder",
		slog.String("dir", r.opts.PosterDir),
		slog.Duration("debounce", debounce),
	)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed")
			}

			if !relevantEvent(event) {
				continue
			}

			r.logger.Debug("poster folder changed",
				slog.String("file", filepath.Base(event.Name)),
				slog.String("op", event.Op.String()),
			)

			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}

				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed")
			}

			r.logger.Warn("watcher error", slog.Any("error", err))

		case <-timerC:
			timer = nil
			timerC = nil

			if _, err := r.Run(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				r.logger.Error("sync pass failed", slog.Any("error", err))
			}
		}
	}
}

// relevantEvent reports whether a filesystem event should trigger a
// re-sync: changes to eligible image files or to the alias file.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}

	base := filepath.Base(event.Name)

	return scanner.Eligible(base) || base == scanner.AliasFileName
}
