package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/replay/internal/core/domain"
	"github.com/ewilliams-labs/replay/internal/core/ports"
)

// Consolidator runs the full dedupe pass: backfill catalog IDs into the
// history, disambiguate artist names, rebuild the track mapping and the
// consolidated track table, then refresh the aggregated genre column.
type Consolidator struct {
	library ports.LibraryRepository
	history ports.HistoryRepository
	rebuild ports.ConsolidationRepository
	logger  *zap.Logger
}

// NewConsolidator constructs a Consolidator.
func NewConsolidator(library ports.LibraryRepository, history ports.HistoryRepository, rebuild ports.ConsolidationRepository, logger *zap.Logger) *Consolidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consolidator{
		library: library,
		history: history,
		rebuild: rebuild,
		logger:  logger,
	}
}

// ConsolidateStats summarizes one consolidation run.
type ConsolidateStats struct {
	BackfilledEvents int64
	ArtistsRenamed   int
	Mappings         int
	CanonicalTracks  int
	GenresRefreshed  int64
}

// Run executes the consolidation pass. Rerunning it on unchanged data
// produces the same tables.
func (c *Consolidator) Run(ctx context.Context) (ConsolidateStats, error) {
	var stats ConsolidateStats

	backfilled, err := c.history.BackfillCatalogIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to backfill catalog ids: %w", err)
	}
	stats.BackfilledEvents = backfilled

	artists, err := c.library.Artists(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to load artists: %w", err)
	}
	renames := domain.BuildArtistRenames(artists)
	if err := c.rebuild.ApplyArtistRenames(ctx, renames); err != nil {
		return stats, fmt.Errorf("service: failed to apply artist renames: %w", err)
	}
	stats.ArtistsRenamed = len(renames)

	tracks, err := c.library.Tracks(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to load tracks: %w", err)
	}
	albums, err := c.library.Albums(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to load albums: %w", err)
	}
	mappings := domain.BuildTrackMapping(tracks, albums)
	if err := c.rebuild.ReplaceTrackMapping(ctx, mappings); err != nil {
		return stats, fmt.Errorf("service: failed to replace track mapping: %w", err)
	}
	stats.Mappings = len(mappings)

	// Re-read so the consolidated rows carry the disambiguated names.
	artists, err = c.library.Artists(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to reload artists: %w", err)
	}
	assocs, err := c.library.TrackArtists(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to load track artists: %w", err)
	}
	consolidated := domain.BuildConsolidatedTracks(tracks, mappings, assocs, artists)
	if err := c.rebuild.ReplaceConsolidatedTracks(ctx, consolidated); err != nil {
		return stats, fmt.Errorf("service: failed to replace consolidated tracks: %w", err)
	}
	stats.CanonicalTracks = len(consolidated)

	refreshed, err := c.rebuild.RefreshArtistGenres(ctx)
	if err != nil {
		return stats, fmt.Errorf("service: failed to refresh artist genres: %w", err)
	}
	stats.GenresRefreshed = refreshed

	c.logger.Info("consolidation finished",
		zap.Int64("backfilled_events", stats.BackfilledEvents),
		zap.Int("artists_renamed", stats.ArtistsRenamed),
		zap.Int("track_mappings", stats.Mappings),
		zap.Int("canonical_tracks", stats.CanonicalTracks),
		zap.Int64("genres_refreshed", stats.GenresRefreshed),
	)
	return stats, nil
}
