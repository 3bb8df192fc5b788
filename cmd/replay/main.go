package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/replay/internal/adapters/images"
	"github.com/ewilliams-labs/replay/internal/adapters/spotify"
	"github.com/ewilliams-labs/replay/internal/adapters/sqlite"
	"github.com/ewilliams-labs/replay/internal/config"
	"github.com/ewilliams-labs/replay/internal/core/services"
	"github.com/ewilliams-labs/replay/internal/ingest"
)

var version = "dev"

func main() {
	cfg := config.New(version)

	logger, err := newLogger(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.NewAdapter(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer db.Close()

	if err := run(ctx, cfg, db, logger); err != nil {
		logger.Fatal("command failed",
			zap.String("command", cfg.KongContext.Command()),
			zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, db *sqlite.Adapter, logger *zap.Logger) error {
	switch cfg.KongContext.Command() {
	case "ingest":
		stats, err := ingest.NewLoader(db, logger).Run(ctx, cfg.Ingest.DataDir, cfg.Ingest.MasterCSV)
		if err != nil {
			return err
		}
		logger.Info("ingest finished",
			zap.Int("files", stats.Files),
			zap.Int("events_read", stats.Read),
			zap.Int("episodes_filtered", stats.Episodes),
			zap.Int("no_track_uri", stats.NoTrackURI),
			zap.Int("duplicates", stats.Duplicates),
			zap.Int64("events_loaded", stats.Loaded))

	case "enrich":
		catalog, err := newCatalog(cfg, spotify.RetryPolicy{
			MaxAttempts: cfg.Enrich.MaxRetries,
			Delay:       cfg.Enrich.RetryDelay,
		}, cfg.Enrich.CallPause, logger)
		if err != nil {
			return err
		}
		stats, err := services.NewEnricher(catalog, db, db, logger, cfg.Enrich.BatchSize).Run(ctx)
		if err != nil {
			return err
		}
		logger.Info("enrichment finished",
			zap.Int("batches", stats.Batches),
			zap.Int("tracks_added", stats.TracksAdded),
			zap.Int("features_added", stats.FeaturesAdded),
			zap.Int("albums_added", stats.AlbumsAdded),
			zap.Int("artists_added", stats.ArtistsAdded),
			zap.Int("skipped", stats.Skipped))

	case "consolidate":
		if _, err := services.NewConsolidator(db, db, db, logger).Run(ctx); err != nil {
			return err
		}

	case "export":
		paths, err := services.NewExporter(db, logger).Run(ctx, cfg.Export.OutDir)
		if err != nil {
			return err
		}
		logger.Info("export finished", zap.Int("files", len(paths)))

	case "artwork":
		catalog, err := newCatalog(cfg, spotify.RetryPolicy{
			MaxAttempts: cfg.Artwork.MaxRetries,
			Delay:       cfg.Artwork.RetryDelay,
		}, 0, logger)
		if err != nil {
			return err
		}
		downloader := services.NewArtworkDownloader(catalog, db, images.NewFetcher(nil), logger)
		stats, err := downloader.Run(ctx, cfg.Artwork.OutDir, cfg.Artwork.MinArtistPlays, cfg.Artwork.MinAlbumPlays)
		if err != nil {
			return err
		}
		logger.Info("artwork finished",
			zap.Int("artist_images", stats.Artists),
			zap.Int("album_images", stats.Albums),
			zap.Int("skipped", stats.Skipped))

	default:
		return fmt.Errorf("unknown command %q", cfg.KongContext.Command())
	}
	return nil
}

func newLogger(logConfig string) (*zap.Logger, error) {
	if logConfig == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newCatalog(cfg *config.Config, retry spotify.RetryPolicy, pause time.Duration, logger *zap.Logger) (*spotify.Client, error) {
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		return nil, errors.New("spotify client id and secret are required")
	}
	return spotify.NewClient(nil, spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		Pause:        pause,
		Retry:        retry,
		Logger:       logger,
	}), nil
}
