// Package sqlite provides the SQLite-backed implementation of the repository ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ewilliams-labs/replay/internal/core/domain"
	"github.com/ewilliams-labs/replay/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Table names, in export order.
const (
	TableListeningHistory   = "listening_history"
	TableTracks             = "tracks"
	TableTrackArtists       = "track_artists"
	TableArtists            = "artists"
	TableArtistGenres       = "artist_genres"
	TableAlbums             = "albums"
	TableTrackMapping       = "track_mapping"
	TableTracksConsolidated = "tracks_consolidated"
)

var tableNames = []string{
	TableListeningHistory,
	TableTracks,
	TableTrackArtists,
	TableArtists,
	TableArtistGenres,
	TableAlbums,
	TableTrackMapping,
	TableTracksConsolidated,
}

// Adapter implements the repository ports on a single SQLite database.
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertions
var (
	_ ports.LibraryRepository       = (*Adapter)(nil)
	_ ports.HistoryRepository       = (*Adapter)(nil)
	_ ports.ConsolidationRepository = (*Adapter)(nil)
	_ ports.TableReader             = (*Adapter)(nil)
)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	// Date and timestamp columns are declared TEXT on purpose: values are
	// stored pre-formatted (RFC 3339 timestamps, YYYY-MM-DD dates) so the
	// generic table reader sees plain strings.
	query := `
	CREATE TABLE IF NOT EXISTS listening_history (
		music_stream_id INTEGER PRIMARY KEY AUTOINCREMENT,
		spotify_artist_id TEXT,
		spotify_album_id TEXT,
		time_ended TEXT,
		ms_played INTEGER,
		track_name TEXT,
		artist_name TEXT,
		album_name TEXT,
		reason_started TEXT,
		reason_ended TEXT,
		shuffle INTEGER,
		skipped INTEGER,
		incognito INTEGER,
		spotify_track_uri TEXT
	);

	CREATE TABLE IF NOT EXISTS tracks (
		spotify_track_uri TEXT,
		spotify_track_id TEXT PRIMARY KEY,
		spotify_artist_id TEXT,
		spotify_album_id TEXT,
		track_name TEXT,
		duration_ms INTEGER,
		track_popularity INTEGER,
		acousticness REAL,
		danceability REAL,
		energy REAL,
		instrumentalness REAL,
		liveness REAL,
		loudness REAL,
		speechiness REAL,
		valence REAL,
		tempo REAL,
		key INTEGER,
		time_signature INTEGER
	);

	CREATE TABLE IF NOT EXISTS albums (
		spotify_album_id TEXT PRIMARY KEY,
		spotify_artist_id TEXT,
		album_name TEXT,
		artist_name TEXT,
		album_type TEXT,
		total_tracks INTEGER,
		label TEXT,
		release_date TEXT,
		release_date_precision TEXT
	);

	CREATE TABLE IF NOT EXISTS artists (
		spotify_artist_id TEXT PRIMARY KEY,
		artist_name TEXT,
		artist_popularity INTEGER,
		followers INTEGER,
		main_genre TEXT,
		genres TEXT
	);

	CREATE TABLE IF NOT EXISTS artist_genres (
		spotify_artist_id TEXT,
		genre TEXT
	);

	CREATE TABLE IF NOT EXISTS track_artists (
		spotify_track_uri TEXT,
		spotify_track_id TEXT,
		spotify_artist_id TEXT,
		PRIMARY KEY (spotify_track_id, spotify_artist_id)
	);

	CREATE TABLE IF NOT EXISTS track_mapping (
		old_track_uri TEXT PRIMARY KEY,
		new_track_uri TEXT
	);

	CREATE TABLE IF NOT EXISTS tracks_consolidated (
		spotify_track_uri TEXT,
		spotify_track_id TEXT PRIMARY KEY,
		spotify_artist_id TEXT,
		spotify_album_id TEXT,
		track_name TEXT,
		all_artist_names TEXT,
		duration_ms INTEGER,
		track_popularity INTEGER,
		acousticness REAL,
		danceability REAL,
		energy REAL,
		instrumentalness REAL,
		liveness REAL,
		loudness REAL,
		speechiness REAL,
		valence REAL,
		tempo REAL,
		key INTEGER,
		time_signature INTEGER
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	return nil
}

// Tables returns every stored table name in export order.
func (a *Adapter) Tables() []string {
	names := make([]string, len(tableNames))
	copy(names, tableNames)
	return names
}

// ReadTable returns the column names and all rows of one table, every value
// rendered as a string (NULL renders as the empty string).
func (a *Adapter) ReadTable(ctx context.Context, name string) ([]string, [][]string, error) {
	known := false
	for _, t := range tableNames {
		if t == name {
			known = true
			break
		}
	}
	if !known {
		return nil, nil, fmt.Errorf("%w: table %q", domain.ErrNotFound, name)
	}

	rows, err := a.db.QueryContext(ctx, "SELECT * FROM "+name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	var out [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %s: %w", name, err)
		}

		record := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			}
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate table %s: %w", name, err)
	}

	return columns, out, nil
}

// nullIfEmpty maps "" to NULL for optional text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
