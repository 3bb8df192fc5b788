package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/replay/internal/core/ports"
)

// ArtworkDownloader saves cover images for the artists and albums played
// often enough to show up in a dashboard.
type ArtworkDownloader struct {
	catalog ports.Catalog
	history ports.HistoryRepository
	fetcher ports.ImageFetcher
	logger  *zap.Logger
}

// NewArtworkDownloader constructs an ArtworkDownloader.
func NewArtworkDownloader(catalog ports.Catalog, history ports.HistoryRepository, fetcher ports.ImageFetcher, logger *zap.Logger) *ArtworkDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtworkDownloader{
		catalog: catalog,
		history: history,
		fetcher: fetcher,
		logger:  logger,
	}
}

// ArtworkStats summarizes one artwork run.
type ArtworkStats struct {
	Artists int
	Albums  int
	Skipped int
}

// Run downloads artist images into <outDir>/artists and album covers into
// <outDir>/albums for every entity at or above the play-count threshold.
func (d *ArtworkDownloader) Run(ctx context.Context, outDir string, minArtistPlays, minAlbumPlays int) (ArtworkStats, error) {
	var stats ArtworkStats

	artistsDir := filepath.Join(outDir, "artists")
	albumsDir := filepath.Join(outDir, "albums")
	for _, dir := range []string{artistsDir, albumsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, fmt.Errorf("service: failed to create artwork dir: %w", err)
		}
	}

	artistRefs, err := d.history.FrequentArtists(ctx, minArtistPlays)
	if err != nil {
		return stats, fmt.Errorf("service: failed to load frequent artists: %w", err)
	}
	for _, ref := range artistRefs {
		artist, err := d.catalog.Artist(ctx, ref.ID)
		if err != nil {
			if abortErr := abortOn(err); abortErr != nil {
				return stats, abortErr
			}
			d.logger.Warn("skipping artist artwork", zap.String("artist_id", ref.ID), zap.Error(err))
			stats.Skipped++
			continue
		}
		if d.saveImage(ctx, artist.ImageURL, artistsDir, artist.Name, &stats) {
			stats.Artists++
		}
	}

	albumRefs, err := d.history.FrequentAlbums(ctx, minAlbumPlays)
	if err != nil {
		return stats, fmt.Errorf("service: failed to load frequent albums: %w", err)
	}
	for _, ref := range albumRefs {
		album, err := d.catalog.Album(ctx, ref.ID)
		if err != nil {
			if abortErr := abortOn(err); abortErr != nil {
				return stats, abortErr
			}
			d.logger.Warn("skipping album artwork", zap.String("album_id", ref.ID), zap.Error(err))
			stats.Skipped++
			continue
		}
		name := ref.ArtistName + " - " + album.Name
		if d.saveImage(ctx, album.ImageURL, albumsDir, name, &stats) {
			stats.Albums++
		}
	}

	return stats, nil
}

func (d *ArtworkDownloader) saveImage(ctx context.Context, url, dir, name string, stats *ArtworkStats) bool {
	if url == "" {
		d.logger.Warn("no image available", zap.String("name", name))
		stats.Skipped++
		return false
	}

	dest := filepath.Join(dir, sanitizeName(name)+".jpg")
	if err := d.fetcher.Fetch(ctx, url, dest); err != nil {
		d.logger.Warn("image download failed", zap.String("name", name), zap.Error(err))
		stats.Skipped++
		return false
	}
	return true
}

var nameSanitizer = strings.NewReplacer(`"`, "", ":", "", "/", "", `\`, "", "?", "")

// sanitizeName strips the characters that are unsafe in file names.
func sanitizeName(name string) string {
	return nameSanitizer.Replace(name)
}
