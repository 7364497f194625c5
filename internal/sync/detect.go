package sync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/plexsync/poster-sync/internal/cache"
)

// decision is the outcome of change detection for one poster file.
type decision struct {
	// upload is true when the remote poster must be replaced.
	upload bool

	// localHash is the hex SHA-256 of the local file, when it could be
	// computed. Empty on hash failure or when force-reapply skipped
	// hashing entirely.
	localHash string

	// refresh, when set on a skip decision, is a cache entry to store:
	// the remote poster was verified equal by content but its identity
	// key changed, or the entry was missing.
	refresh *cache.Entry
}

// hashFile returns the hex SHA-256 of a file's contents.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashBytes returns the hex SHA-256 of b.
func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// remotePosterHash downloads a poster and hashes its bytes. Any failure
// is logged and returns "", which never compares equal to a real hash,
// so download failures fail open toward re-uploading.
func (r *Runner) remotePosterHash(ctx context.Context, api API, posterKey, title string) string {
	data, err := api.DownloadPoster(ctx, posterKey)
	if err != nil {
		r.logger.Warn("downloading current poster",
			slog.String("collection", title),
			slog.Any("error", err),
		)

		return ""
	}

	return hashBytes(data)
}

// decide determines whether the local file must be uploaded as the
// collection's poster. The cache only ever short-circuits the remote
// download-and-hash check; whenever the cached state disagrees with the
// server, the server's actual poster bytes are the authority.
func (r *Runner) decide(ctx context.Context, api API, c *cache.Cache, ratingKey, title, filePath string) decision {
	if r.opts.ReapplyPosters {
		r.logger.Debug("reapply enabled, forcing upload", slog.String("collection", title))
		return decision{upload: true}
	}

	localHash, err := hashFile(filePath)
	if err != nil {
		// Fail open: better to re-upload than to silently skip a file
		// we could not read.
		r.logger.Warn("hashing local file", slog.String("file", filePath), slog.Any("error", err))
		return decision{upload: true}
	}

	d := decision{localHash: localHash}

	currentKey, err := api.SelectedPosterKey(ctx, ratingKey)
	if err != nil {
		r.logger.Warn("getting current poster",
			slog.String("collection", title),
			slog.Any("error", err),
		)

		currentKey = ""
	}

	cached := c.Get(ratingKey)

	if cached != nil && cached.LocalHash == localHash {
		// A missing remote poster always means upload, no matter what the
		// cache claims, so the skip needs a real key on both sides.
		if currentKey != "" && currentKey == cached.PosterKey {
			r.logger.Info("poster already in sync (cache hit)", slog.String("collection", title))
			return d
		}

		// The poster identity changed without the local file changing:
		// either the server re-keyed the same image or someone set a
		// different poster. Only the bytes can tell.
		if currentKey != "" && r.remotePosterHash(ctx, api, currentKey, title) == localHash {
			r.logger.Info("poster matches, identity re-keyed", slog.String("collection", title))

			d.refresh = &cache.Entry{LocalHash: localHash, PosterKey: currentKey}

			return d
		}

		r.logger.Debug("poster differs from cache, upload needed", slog.String("collection", title))

		d.upload = true

		return d
	}

	if currentKey != "" {
		// Cache miss, or the local file changed since the cache was
		// written. Compare against the server's actual poster.
		if r.remotePosterHash(ctx, api, currentKey, title) == localHash {
			r.logger.Info("poster already in sync", slog.String("collection", title))

			d.refresh = &cache.Entry{LocalHash: localHash, PosterKey: currentKey}

			return d
		}

		r.logger.Debug("poster hash differs, upload needed", slog.String("collection", title))

		d.upload = true

		return d
	}

	r.logger.Debug("no current poster, upload needed", slog.String("collection", title))

	d.upload = true

	return d
}
