package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/replay/internal/core/domain"
	"github.com/ewilliams-labs/replay/internal/core/ports"
)

const defaultBatchSize = 50

// Enricher walks the distinct track URIs of the listening history in fixed
// batches and fills the catalog tables from the API. Already complete batches
// are detected up front so reruns spend no API calls on them.
type Enricher struct {
	catalog   ports.Catalog
	library   ports.LibraryRepository
	history   ports.HistoryRepository
	logger    *zap.Logger
	batchSize int
}

// NewEnricher constructs an Enricher. A batchSize of zero or less falls back
// to the API batch limit of 50.
func NewEnricher(catalog ports.Catalog, library ports.LibraryRepository, history ports.HistoryRepository, logger *zap.Logger, batchSize int) *Enricher {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		catalog:   catalog,
		library:   library,
		history:   history,
		logger:    logger,
		batchSize: batchSize,
	}
}

// EnrichStats summarizes one enrichment run.
type EnrichStats struct {
	Batches       int
	TracksAdded   int
	FeaturesAdded int
	AlbumsAdded   int
	ArtistsAdded  int
	Skipped       int
}

// Run enriches every batch that still has missing catalog data. It aborts on
// exhausted retries or context cancellation and otherwise skips over tracks
// the catalog cannot resolve.
func (e *Enricher) Run(ctx context.Context) (EnrichStats, error) {
	var stats EnrichStats

	uris, err := e.history.DistinctTrackURIs(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to load track uris: %w", err)
	}

	for start := 0; start < len(uris); start += e.batchSize {
		end := min(start+e.batchSize, len(uris))
		batch := uris[start:end]

		needsWork, err := e.batchNeedsWork(ctx, batch)
		if err != nil {
			return stats, err
		}
		if !needsWork {
			continue
		}

		if err := e.processBatch(ctx, batch, &stats); err != nil {
			return stats, err
		}
		stats.Batches++
	}

	return stats, nil
}

// batchNeedsWork reports whether any track in the batch is missing its base
// row, its audio features, or its artist associations.
func (e *Enricher) batchNeedsWork(ctx context.Context, batch []string) (bool, error) {
	for _, uri := range batch {
		exists, hasFeatures, err := e.library.TrackKnown(ctx, uri)
		if err != nil {
			return false, fmt.Errorf("service: failed to check track %s: %w", uri, err)
		}
		if !exists || !hasFeatures {
			return true, nil
		}
		hasAssocs, err := e.library.HasTrackArtists(ctx, uri)
		if err != nil {
			return false, fmt.Errorf("service: failed to check track artists %s: %w", uri, err)
		}
		if !hasAssocs {
			return true, nil
		}
	}
	return false, nil
}

func (e *Enricher) processBatch(ctx context.Context, batch []string, stats *EnrichStats) error {
	tracks, err := e.catalog.Tracks(ctx, batch)
	if err != nil {
		return fmt.Errorf("service: failed to fetch tracks: %w", err)
	}
	features, err := e.catalog.AudioFeatures(ctx, batch)
	if err != nil {
		return fmt.Errorf("service: failed to fetch audio features: %w", err)
	}

	for i, uri := range batch {
		track := tracks[i]
		if track == nil {
			e.logger.Warn("track not in catalog", zap.String("uri", uri))
			stats.Skipped++
			continue
		}

		exists, hasFeatures, err := e.library.TrackKnown(ctx, uri)
		if err != nil {
			return fmt.Errorf("service: failed to check track %s: %w", uri, err)
		}

		if !exists {
			if err := e.library.InsertTrack(ctx, track.Track); err != nil {
				return fmt.Errorf("service: failed to store track %s: %w", uri, err)
			}
			stats.TracksAdded++
		}

		if err := e.ensureTrackArtists(ctx, uri, track); err != nil {
			return err
		}

		if !hasFeatures {
			if i < len(features) && features[i] != nil {
				f := *features[i]
				f.URI = uri
				if err := e.library.UpdateTrackFeatures(ctx, f); err != nil {
					return fmt.Errorf("service: failed to store audio features %s: %w", uri, err)
				}
				stats.FeaturesAdded++
			} else {
				e.logger.Warn("no audio features in catalog", zap.String("uri", uri))
			}
		}

		if err := e.ensureAlbum(ctx, track, stats); err != nil {
			return err
		}
		if err := e.ensureArtists(ctx, track, stats); err != nil {
			return err
		}
	}

	return nil
}

func (e *Enricher) ensureTrackArtists(ctx context.Context, uri string, track *domain.CatalogTrack) error {
	hasAssocs, err := e.library.HasTrackArtists(ctx, uri)
	if err != nil {
		return fmt.Errorf("service: failed to check track artists %s: %w", uri, err)
	}
	if hasAssocs {
		return nil
	}

	for _, ref := range track.Artists {
		assoc := domain.TrackArtist{TrackURI: uri, TrackID: track.ID, ArtistID: ref.ID}
		if err := e.library.InsertTrackArtist(ctx, assoc); err != nil {
			return fmt.Errorf("service: failed to store track artist %s: %w", uri, err)
		}
	}
	return nil
}

func (e *Enricher) ensureAlbum(ctx context.Context, track *domain.CatalogTrack, stats *EnrichStats) error {
	if track.AlbumID == "" {
		e.logger.Warn("track has no album", zap.String("uri", track.URI))
		return nil
	}

	exists, err := e.library.AlbumExists(ctx, track.AlbumID, track.ArtistID)
	if err != nil {
		return fmt.Errorf("service: failed to check album %s: %w", track.AlbumID, err)
	}
	if exists {
		return nil
	}

	album, err := e.catalog.Album(ctx, track.AlbumID)
	if err != nil {
		if abortErr := abortOn(err); abortErr != nil {
			return abortErr
		}
		e.logger.Warn("skipping album", zap.String("album_id", track.AlbumID), zap.Error(err))
		stats.Skipped++
		return nil
	}

	if err := e.library.InsertAlbum(ctx, album); err != nil {
		return fmt.Errorf("service: failed to store album %s: %w", album.ID, err)
	}
	stats.AlbumsAdded++
	return nil
}

func (e *Enricher) ensureArtists(ctx context.Context, track *domain.CatalogTrack, stats *EnrichStats) error {
	for _, ref := range track.Artists {
		exists, err := e.library.ArtistExists(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("service: failed to check artist %s: %w", ref.ID, err)
		}
		if exists {
			continue
		}

		artist, err := e.catalog.Artist(ctx, ref.ID)
		if err != nil {
			if abortErr := abortOn(err); abortErr != nil {
				return abortErr
			}
			e.logger.Warn("skipping artist", zap.String("artist_id", ref.ID), zap.Error(err))
			stats.Skipped++
			continue
		}

		if err := e.library.InsertArtist(ctx, artist); err != nil {
			return fmt.Errorf("service: failed to store artist %s: %w", artist.ID, err)
		}
		stats.ArtistsAdded++
	}
	return nil
}

// abortOn returns a non-nil error for failures that must end the run instead
// of being skipped over.
func abortOn(err error) error {
	if errors.Is(err, ports.ErrRetriesExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("service: catalog lookup failed: %w", err)
	}
	return nil
}
