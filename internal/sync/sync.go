// Package sync implements one pass of the poster sync: build the remote
// collection index, scan the poster directory, decide per file whether
// the collection's poster must be replaced, and upload where needed.
package sync

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plexsync/poster-sync/internal/cache"
	"github.com/plexsync/poster-sync/internal/naming"
	"github.com/plexsync/poster-sync/internal/scanner"
)

// defaultRetryBaseDelay is the first upload retry backoff; it doubles
// per attempt.
const defaultRetryBaseDelay = time.Second

// Item processing statuses.
const (
	statusUpdated  = "updated"
	statusSkipped  = "skipped"
	statusNotFound = "not_found"
)

// Options configures a sync Runner.
type Options struct {
	// PosterDir is the directory of poster images.
	PosterDir string

	// CachePath is the poster state cache database location.
	CachePath string

	// ReapplyPosters forces every poster to upload, skipping all hash
	// comparison.
	ReapplyPosters bool

	// NormalizeHyphens treats hyphens and spaces as interchangeable
	// when matching names.
	NormalizeHyphens bool

	// MaxRetries is the maximum upload attempts per item.
	MaxRetries int

	// Workers is the worker pool size. 1 processes items strictly
	// sequentially, one to completion before the next.
	Workers int

	// RetryBaseDelay is the first upload retry backoff. Zero means one
	// second.
	RetryBaseDelay time.Duration

	// NewWorkerAPI, when set, builds an independent API instance per
	// worker so parallel workers do not share a transport. Nil means
	// all workers use the Runner's API.
	NewWorkerAPI func() API
}

// Summary holds the aggregate counts for one sync pass. Skipped covers
// both already-in-sync items and per-item failures.
type Summary struct {
	Updated  int
	Skipped  int
	NotFound int
}

// Runner executes sync passes against one Plex server.
type Runner struct {
	api    API
	opts   Options
	logger *slog.Logger
}

// New creates a Runner. Zero or negative Workers and MaxRetries are
// raised to 1.
func New(api API, opts Options, logger *slog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = defaultRetryBaseDelay
	}

	return &Runner{
		api:    api,
		opts:   opts,
		logger: logger,
	}
}

// tally accumulates per-item outcomes across workers.
type tally struct {
	updated  atomic.Int64
	skipped  atomic.Int64
	notFound atomic.Int64
}

func (t *tally) add(status string) {
	switch status {
	case statusUpdated:
		t.updated.Add(1)
	case statusNotFound:
		t.notFound.Add(1)
	default:
		t.skipped.Add(1)
	}
}

func (t *tally) summary() Summary {
	return Summary{
		Updated:  int(t.updated.Load()),
		Skipped:  int(t.skipped.Load()),
		NotFound: int(t.notFound.Load()),
	}
}

// Run performs one full sync pass: index, scan, process every file,
// persist the cache, and log a summary. Per-item failures are counted
// and never abort the pass; the returned error is non-nil only when the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	r.logger.Info("starting poster sync",
		slog.String("poster_dir", r.opts.PosterDir),
		slog.Bool("reapply", r.opts.ReapplyPosters),
		slog.Bool("normalize_hyphens", r.opts.NormalizeHyphens),
		slog.Int("workers", r.opts.Workers),
	)

	index := BuildIndex(ctx, r.api, r.opts.NormalizeHyphens, r.logger)

	c := cache.Open(r.opts.CachePath, r.logger)
	defer func() {
		if err := c.Close(); err != nil {
			r.logger.Warn("closing cache", slog.Any("error", err))
		}
	}()

	aliases := scanner.LoadAliases(r.opts.PosterDir, r.logger)
	files := scanner.Scan(r.opts.PosterDir, aliases, r.logger)

	if len(files) == 0 {
		r.logger.Warn("no image files found in poster folder")
		return Summary{}, ctx.Err()
	}

	r.logger.Info("found image files", slog.Int("count", len(files)))

	var counts tally

	items := make(chan scanner.ImageFile)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < r.opts.Workers; i++ {
		g.Go(func() error {
			api := r.api
			if r.opts.NewWorkerAPI != nil {
				api = r.opts.NewWorkerAPI()
			}

			for item := range items {
				counts.add(r.processItem(gctx, api, c, index, item))
			}

			return nil
		})
	}

feed:
	for _, item := range files {
		select {
		case items <- item:
		case <-gctx.Done():
			break feed
		}
	}

	close(items)
	_ = g.Wait()

	summary := counts.summary()

	r.logger.Info("poster sync completed",
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("not_found", summary.NotFound),
	)

	return summary, ctx.Err()
}

// processItem handles one image file to completion and returns its
// status. A panic while processing is isolated to the item: it is
// logged and counted as skipped, matching the policy for unexpected
// per-item errors.
func (r *Runner) processItem(ctx context.Context, api API, c *cache.Cache, index Index, item scanner.ImageFile) (status string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("unexpected failure processing file",
				slog.String("file", item.Name),
				slog.Any("panic", rec),
			)

			status = statusSkipped
		}
	}()

	r.logger.Info("processing file",
		slog.String("file", item.Name),
		slog.String("collection", item.Collection),
	)

	entry, ok := index[naming.Normalize(item.Collection, r.opts.NormalizeHyphens)]
	if !ok {
		r.logger.Warn("collection not found for image", slog.String("file", item.Name))
		return statusNotFound
	}

	r.logger.Info("matched collection",
		slog.String("collection", entry.Title),
		slog.String("rating_key", entry.RatingKey),
		slog.String("library", entry.LibraryTitle),
		slog.String("section", entry.LibraryKey),
	)

	dec := r.decide(ctx, api, c, entry.RatingKey, entry.Title, item.Path)

	if !dec.upload {
		if dec.refresh != nil {
			c.Set(entry.RatingKey, *dec.refresh)
		}

		return statusSkipped
	}

	if err := r.upload(ctx, api, entry.RatingKey, entry.Title, item.Path); err != nil {
		r.logger.Error("uploading poster",
			slog.String("collection", entry.Title),
			slog.Any("error", err),
		)

		return statusSkipped
	}

	// Record what the server selected for the freshly uploaded image so
	// the next run can cache-hit without a download. An entry without a
	// poster key is useless to the detector, so when the key cannot be
	// fetched the cache is left alone and the next run re-verifies.
	if dec.localHash != "" {
		newKey, err := api.SelectedPosterKey(ctx, entry.RatingKey)
		if err != nil {
			r.logger.Warn("getting poster key after upload",
				slog.String("collection", entry.Title),
				slog.Any("error", err),
			)
		}

		if newKey != "" {
			c.Set(entry.RatingKey, cache.Entry{LocalHash: dec.localHash, PosterKey: newKey})
		}
	}

	return statusUpdated
}
