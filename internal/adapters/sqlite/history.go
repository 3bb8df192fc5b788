package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

// InsertEvents loads listening events in one transaction and returns the
// number of rows written.
func (a *Adapter) InsertEvents(ctx context.Context, events []domain.ListeningEvent) (int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listening_history (
			spotify_artist_id, spotify_album_id, time_ended, ms_played,
			track_name, artist_name, album_name, reason_started, reason_ended,
			shuffle, skipped, incognito, spotify_track_uri
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			nullIfEmpty(e.ArtistID), nullIfEmpty(e.AlbumID),
			e.TimeEnded.UTC().Format(time.RFC3339), e.MsPlayed,
			e.TrackName, e.ArtistName, e.AlbumName,
			e.ReasonStarted, e.ReasonEnded,
			e.Shuffle, e.Skipped, e.Incognito, e.TrackURI,
		); err != nil {
			return 0, fmt.Errorf("failed to insert listening event for %s: %w", e.TrackURI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("transaction commit failed: %w", err)
	}
	return int64(len(events)), nil
}

// DistinctTrackURIs returns every distinct track URI in the history, in
// first-played order so batch runs are stable across restarts.
func (a *Adapter) DistinctTrackURIs(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_track_uri FROM listening_history
		WHERE spotify_track_uri IS NOT NULL AND spotify_track_uri != ''
		GROUP BY spotify_track_uri
		ORDER BY MIN(music_stream_id)`)
	if err != nil {
		return nil, fmt.Errorf("failed to load track uris: %w", err)
	}
	defer rows.Close()

	var uris []string
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, fmt.Errorf("failed to scan track uri: %w", err)
		}
		uris = append(uris, uri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track uris: %w", err)
	}
	return uris, nil
}

// BackfillCatalogIDs copies artist and album IDs from the track table onto
// every listening event sharing a track URI.
func (a *Adapter) BackfillCatalogIDs(ctx context.Context) (int64, error) {
	res, err := a.db.ExecContext(ctx, `
		UPDATE listening_history SET
			spotify_artist_id = (
				SELECT t.spotify_artist_id FROM tracks t
				WHERE t.spotify_track_uri = listening_history.spotify_track_uri),
			spotify_album_id = (
				SELECT t.spotify_album_id FROM tracks t
				WHERE t.spotify_track_uri = listening_history.spotify_track_uri)
		WHERE EXISTS (
			SELECT 1 FROM tracks t
			WHERE t.spotify_track_uri = listening_history.spotify_track_uri)`)
	if err != nil {
		return 0, fmt.Errorf("failed to backfill catalog ids: %w", err)
	}
	return res.RowsAffected()
}

func (a *Adapter) FrequentArtists(ctx context.Context, minPlays int) ([]domain.ArtistRef, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_artist_id, artist_name FROM listening_history
		WHERE spotify_artist_id IS NOT NULL
		GROUP BY spotify_artist_id, artist_name
		HAVING COUNT(*) >= ?
		ORDER BY artist_name`, minPlays)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequent artists: %w", err)
	}
	defer rows.Close()

	var refs []domain.ArtistRef
	for rows.Next() {
		var ref domain.ArtistRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan frequent artist: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frequent artists: %w", err)
	}
	return refs, nil
}

func (a *Adapter) FrequentAlbums(ctx context.Context, minPlays int) ([]domain.AlbumRef, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_album_id, album_name, artist_name FROM listening_history
		WHERE spotify_album_id IS NOT NULL
		GROUP BY spotify_album_id, album_name, artist_name
		HAVING COUNT(*) >= ?
		ORDER BY album_name`, minPlays)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequent albums: %w", err)
	}
	defer rows.Close()

	var refs []domain.AlbumRef
	for rows.Next() {
		var ref domain.AlbumRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.ArtistName); err != nil {
			return nil, fmt.Errorf("failed to scan frequent album: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frequent albums: %w", err)
	}
	return refs, nil
}
