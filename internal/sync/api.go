package sync

import (
	"context"
	"io"

	"github.com/plexsync/poster-sync/internal/plex"
)

//go:generate mockgen -source=api.go -destination=mock_api_test.go -package=sync

// API is the surface of the Plex client the sync engine consumes.
// *plex.Client satisfies this interface.
type API interface {
	Libraries(ctx context.Context) ([]plex.Library, error)
	Collections(ctx context.Context, libraryKey string) ([]plex.Collection, error)
	SelectedPosterKey(ctx context.Context, ratingKey string) (string, error)
	DownloadPoster(ctx context.Context, posterKey string) ([]byte, error)
	UploadPoster(ctx context.Context, ratingKey string, r io.Reader) error
}
