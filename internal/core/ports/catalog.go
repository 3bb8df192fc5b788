package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

// ErrRetriesExceeded is returned by catalog adapters when an operation keeps
// failing past its retry budget. Callers treat it as fatal for the run.
var ErrRetriesExceeded = errors.New("catalog: retries exceeded")

// Catalog is the external music-catalog API. Batch lookups take at most the
// provider's batch limit of track URIs and return results positionally;
// entries the provider has no data for come back nil and are skipped by the
// caller, not errors.
type Catalog interface {
	Tracks(ctx context.Context, uris []string) ([]*domain.CatalogTrack, error)
	AudioFeatures(ctx context.Context, uris []string) ([]*domain.TrackFeatures, error)
	Album(ctx context.Context, id string) (domain.Album, error)
	Artist(ctx context.Context, id string) (domain.Artist, error)
}

// ImageFetcher downloads one image URL to a local file.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string, dest string) error
}
