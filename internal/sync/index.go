package sync

import (
	"context"
	"log/slog"

	"github.com/plexsync/poster-sync/internal/naming"
)

// Entry is one indexed collection: the remote handle plus the library
// it belongs to, kept for log output.
type Entry struct {
	RatingKey    string
	Title        string
	LibraryTitle string
	LibraryKey   string
}

// Index maps normalized collection names to their remote entries. It is
// built once per run and read-only afterwards, so concurrent lookups
// from workers need no synchronization.
type Index map[string]Entry

// BuildIndex enumerates every library and its collections into a
// lookup index keyed by normalized title. When two collections
// normalize to the same key, the later one wins. A failure enumerating
// one library's collections skips that library and continues; a failure
// listing libraries at all yields an empty index. Neither aborts the
// run: files simply count as not found.
func BuildIndex(ctx context.Context, api API, hyphensAsSpaces bool, logger *slog.Logger) Index {
	logger.Info("building collection index")

	index := make(Index)

	libraries, err := api.Libraries(ctx)
	if err != nil {
		logger.Error("listing libraries", slog.Any("error", err))
		return index
	}

	total := 0

	for _, lib := range libraries {
		collections, err := api.Collections(ctx, lib.Key)
		if err != nil {
			logger.Warn("listing collections, skipping library",
				slog.String("library", lib.Title),
				slog.Any("error", err),
			)

			continue
		}

		for _, col := range collections {
			index[naming.Normalize(col.Title, hyphensAsSpaces)] = Entry{
				RatingKey:    col.RatingKey,
				Title:        col.Title,
				LibraryTitle: lib.Title,
				LibraryKey:   lib.Key,
			}
			total++
		}
	}

	logger.Info("indexed collections",
		slog.Int("collections", total),
		slog.Int("libraries", len(libraries)),
	)

	return index
}
