package sqlite

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

// ReplaceTrackMapping rebuilds the track_mapping table from scratch. The
// truncate and the inserts share one transaction so a partial rebuild is
// never visible.
func (a *Adapter) ReplaceTrackMapping(ctx context.Context, mappings []domain.TrackMapping) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM track_mapping"); err != nil {
		return fmt.Errorf("failed to truncate track_mapping: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO track_mapping (old_track_uri, new_track_uri) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare mapping insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range mappings {
		if _, err := stmt.ExecContext(ctx, m.OldURI, m.NewURI); err != nil {
			return fmt.Errorf("failed to insert mapping %s: %w", m.OldURI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// ReplaceConsolidatedTracks rebuilds the tracks_consolidated table from
// scratch in one transaction.
func (a *Adapter) ReplaceConsolidatedTracks(ctx context.Context, tracks []domain.ConsolidatedTrack) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tracks_consolidated"); err != nil {
		return fmt.Errorf("failed to truncate tracks_consolidated: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracks_consolidated (
			spotify_track_uri, spotify_track_id, spotify_artist_id, spotify_album_id,
			track_name, all_artist_names, duration_ms, track_popularity,
			acousticness, danceability, energy, instrumentalness, liveness,
			loudness, speechiness, valence, tempo, key, time_signature
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare consolidated insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tracks {
		args := []any{
			t.URI, t.ID, t.ArtistID, t.AlbumID, t.Name, t.AllArtistNames,
			t.DurationMs, t.Popularity,
		}
		if t.Features != nil {
			args = append(args,
				t.Features.Acousticness, t.Features.Danceability, t.Features.Energy,
				t.Features.Instrumentalness, t.Features.Liveness, t.Features.Loudness,
				t.Features.Speechiness, t.Features.Valence, t.Features.Tempo,
				t.Features.Key, t.Features.TimeSignature,
			)
		} else {
			args = append(args, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert consolidated track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// ApplyArtistRenames writes new display names to the artist table and every
// matching listening event, keeping the denormalized names consistent.
func (a *Adapter) ApplyArtistRenames(ctx context.Context, renames []domain.ArtistRename) error {
	if len(renames) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range renames {
		if _, err := tx.ExecContext(ctx,
			"UPDATE artists SET artist_name = ? WHERE spotify_artist_id = ?",
			r.NewName, r.ArtistID,
		); err != nil {
			return fmt.Errorf("failed to rename artist %s: %w", r.ArtistID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE listening_history SET artist_name = ? WHERE spotify_artist_id = ?",
			r.NewName, r.ArtistID,
		); err != nil {
			return fmt.Errorf("failed to rename artist %s in history: %w", r.ArtistID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// RefreshArtistGenres rewrites the aggregated genres column from the
// artist_genres rows and returns how many artist rows changed.
func (a *Adapter) RefreshArtistGenres(ctx context.Context) (int64, error) {
	res, err := a.db.ExecContext(ctx, `
		UPDATE artists SET genres = (
			SELECT group_concat(g.genre, ', ') FROM artist_genres g
			WHERE g.spotify_artist_id = artists.spotify_artist_id)
		WHERE EXISTS (
			SELECT 1 FROM artist_genres g
			WHERE g.spotify_artist_id = artists.spotify_artist_id)`)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh artist genres: %w", err)
	}
	return res.RowsAffected()
}
