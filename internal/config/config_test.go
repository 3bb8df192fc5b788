package config

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

func parse(t *testing.T, args ...string) (*Config, *kong.Context) {
	t.Helper()
	cfg := &Config{}
	parser, err := kong.New(cfg,
		kong.Name("replay"),
		kong.Vars{"version": "test"},
	)
	if err != nil {
		t.Fatalf("build parser: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cfg, kctx
}

func TestConfig_Defaults(t *testing.T) {
	cfg, kctx := parse(t, "enrich")

	if kctx.Command() != "enrich" {
		t.Fatalf("unexpected command %q", kctx.Command())
	}
	if cfg.DBPath != "replay.db" || cfg.LogConfig != "dev" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Enrich.BatchSize != 50 || cfg.Enrich.MaxRetries != 3 {
		t.Fatalf("unexpected enrich defaults: %+v", cfg.Enrich)
	}
	if cfg.Enrich.RetryDelay != 10*time.Second || cfg.Enrich.CallPause != 5*time.Second {
		t.Fatalf("unexpected enrich delays: %+v", cfg.Enrich)
	}
}

func TestConfig_IngestRequiresDataDir(t *testing.T) {
	cfg := &Config{}
	parser, err := kong.New(cfg, kong.Name("replay"), kong.Vars{"version": "test"})
	if err != nil {
		t.Fatalf("build parser: %v", err)
	}
	if _, err := parser.Parse([]string{"ingest"}); err == nil {
		t.Fatal("expected missing --data-dir error")
	}
}

func TestConfig_ArtworkThresholds(t *testing.T) {
	cfg, _ := parse(t, "artwork", "--min-artist-plays", "10", "--out-dir", "img")

	if cfg.Artwork.MinArtistPlays != 10 || cfg.Artwork.MinAlbumPlays != 40 {
		t.Fatalf("unexpected artwork thresholds: %+v", cfg.Artwork)
	}
	if cfg.Artwork.OutDir != "img" {
		t.Fatalf("unexpected out dir %q", cfg.Artwork.OutDir)
	}
}
