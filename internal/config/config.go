// Package config holds the CLI and environment configuration.
package config

import (
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	EnvFile         = ".env"
	EnvConfigPrefix = "REPLAY"
)

// IngestCmd loads the streaming history export files.
type IngestCmd struct {
	DataDir   string `kong:"help='Directory holding the endsong export files.',required"`
	MasterCSV string `kong:"help='Optional path for the combined history CSV.'"`
}

// EnrichCmd fetches catalog metadata for every played track.
type EnrichCmd struct {
	BatchSize  int           `kong:"help='Tracks per API batch.',default=50"`
	MaxRetries int           `kong:"help='Attempts per API call.',default=3"`
	RetryDelay time.Duration `kong:"help='Delay between retry attempts.',default=10s"`
	CallPause  time.Duration `kong:"help='Pause after each successful API call.',default=5s"`
}

// ConsolidateCmd deduplicates tracks and artists.
type ConsolidateCmd struct{}

// ExportCmd writes every table to CSV.
type ExportCmd struct {
	OutDir string `kong:"help='Directory for the CSV exports.',default='export'"`
}

// ArtworkCmd downloads artist and album images.
type ArtworkCmd struct {
	OutDir         string        `kong:"help='Directory for downloaded images.',default='artwork'"`
	MinArtistPlays int           `kong:"help='Minimum plays before an artist image is downloaded.',default=100"`
	MinAlbumPlays  int           `kong:"help='Minimum plays before an album cover is downloaded.',default=40"`
	MaxRetries     int           `kong:"help='Attempts per API call.',default=3"`
	RetryDelay     time.Duration `kong:"help='Delay between retry attempts.',default=10s"`
}

type Config struct {
	Version   kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`
	DBPath    string           `kong:"help='Path of the SQLite database file.',default='replay.db'"`
	LogConfig string           `kong:"help='Logging config to use.',enum='dev,prod',default='dev'"`

	SpotifyClientID     string `kong:"help='Spotify client ID.'"`
	SpotifyClientSecret string `kong:"help='Spotify client secret.'"`

	Ingest      IngestCmd      `kong:"cmd,help='Load the streaming history export into the database.'"`
	Enrich      EnrichCmd      `kong:"cmd,help='Fetch catalog metadata for every played track.'"`
	Consolidate ConsolidateCmd `kong:"cmd,help='Deduplicate tracks and artists and rebuild the consolidated tables.'"`
	Export      ExportCmd      `kong:"cmd,help='Export every table to CSV.'"`
	Artwork     ArtworkCmd     `kong:"cmd,help='Download artwork for frequently played artists and albums.'"`

	KongContext *kong.Context `kong:"-"`
}

// New parses flags and environment into a Config. Flags can also be set via
// REPLAY_* environment variables, optionally from a .env file.
func New(version string) *Config {
	if err := godotenv.Load(EnvFile); err != nil {
		zap.L().Debug("unable to load dotenv file",
			zap.String("err", err.Error()))
	}

	cfg := &Config{}
	cfg.KongContext = kong.Parse(
		cfg,
		kong.Name("replay"),
		kong.Description("Personal streaming history ETL."),
		kong.DefaultEnvars(EnvConfigPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	return cfg
}
