package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	apperrors "github.com/plexsync/poster-sync/internal/errors"
	"github.com/plexsync/poster-sync/internal/plex"
)

// upload submits the file at path as the new poster for a collection,
// retrying transient failures with exponential backoff (base delay
// doubling per attempt). Permanent errors, a rejected token or a bad
// rating key for instance, fail immediately. The file's existence is
// re-checked immediately before uploading in case it vanished since
// the scan.
func (r *Runner) upload(ctx context.Context, api API, ratingKey, title, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("image file missing before upload: %w", err)
	}

	var lastErr error

	for attempt := 0; attempt < r.opts.MaxRetries; attempt++ {
		r.logger.Debug("uploading poster",
			slog.String("collection", title),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", r.opts.MaxRetries),
		)

		lastErr = r.uploadOnce(ctx, api, ratingKey, path)
		if lastErr == nil {
			r.logger.Info("uploaded poster", slog.String("collection", title))
			return nil
		}

		if !plex.IsTransient(lastErr) {
			return fmt.Errorf("uploading poster for collection %q: %w", title, lastErr)
		}

		if attempt < r.opts.MaxRetries-1 {
			delay := r.opts.RetryBaseDelay << attempt

			r.logger.Warn("upload attempt failed, retrying",
				slog.String("collection", title),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", delay),
				slog.Any("error", lastErr),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("%w: %d attempt(s) for collection %q: %v",
		apperrors.ErrUploadRetriesExhausted, r.opts.MaxRetries, title, lastErr)
}

// uploadOnce performs a single upload attempt, opening the file fresh so
// each retry streams from the start.
func (r *Runner) uploadOnce(ctx context.Context, api API, ratingKey, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening image file: %w", err)
	}
	defer f.Close()

	return api.UploadPoster(ctx, ratingKey, f)
}
