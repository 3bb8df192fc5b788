package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

const releaseDateLayout = "2006-01-02"

// TrackKnown reports whether the track URI exists and whether its audio
// features have been populated.
func (a *Adapter) TrackKnown(ctx context.Context, uri string) (bool, bool, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT CASE WHEN acousticness IS NULL OR danceability IS NULL OR energy IS NULL
			OR instrumentalness IS NULL OR liveness IS NULL OR loudness IS NULL
			OR speechiness IS NULL OR valence IS NULL OR tempo IS NULL
			OR key IS NULL OR time_signature IS NULL
			THEN 0 ELSE 1 END
		FROM tracks WHERE spotify_track_uri = ?`, uri)

	var hasFeatures int
	if err := row.Scan(&hasFeatures); err != nil {
		if err == sql.ErrNoRows {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to check track %s: %w", uri, err)
	}

	return true, hasFeatures == 1, nil
}

func (a *Adapter) HasTrackArtists(ctx context.Context, uri string) (bool, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM track_artists WHERE spotify_track_uri = ?", uri)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check track artists for %s: %w", uri, err)
	}
	return count > 0, nil
}

func (a *Adapter) InsertTrack(ctx context.Context, track domain.Track) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO tracks (
			spotify_track_uri, spotify_track_id, spotify_artist_id,
			spotify_album_id, track_name, duration_ms, track_popularity
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		track.URI, track.ID, track.ArtistID, track.AlbumID,
		track.Name, track.DurationMs, track.Popularity,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track %s: %w", track.ID, err)
	}
	return nil
}

func (a *Adapter) UpdateTrackFeatures(ctx context.Context, features domain.TrackFeatures) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE tracks SET
			acousticness = ?, danceability = ?, energy = ?, instrumentalness = ?,
			liveness = ?, loudness = ?, speechiness = ?, valence = ?, tempo = ?,
			key = ?, time_signature = ?
		WHERE spotify_track_uri = ?`,
		features.Acousticness, features.Danceability, features.Energy,
		features.Instrumentalness, features.Liveness, features.Loudness,
		features.Speechiness, features.Valence, features.Tempo,
		features.Key, features.TimeSignature, features.URI,
	)
	if err != nil {
		return fmt.Errorf("failed to update audio features for %s: %w", features.URI, err)
	}
	return nil
}

func (a *Adapter) InsertTrackArtist(ctx context.Context, assoc domain.TrackArtist) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO track_artists (spotify_track_uri, spotify_track_id, spotify_artist_id)
		VALUES (?, ?, ?)
		ON CONFLICT(spotify_track_id, spotify_artist_id) DO NOTHING`,
		assoc.TrackURI, assoc.TrackID, assoc.ArtistID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track artist %s/%s: %w", assoc.TrackID, assoc.ArtistID, err)
	}
	return nil
}

func (a *Adapter) AlbumExists(ctx context.Context, albumID string, artistID string) (bool, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM albums WHERE spotify_album_id = ? AND spotify_artist_id = ?",
		albumID, artistID)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check album %s: %w", albumID, err)
	}
	return count > 0, nil
}

func (a *Adapter) InsertAlbum(ctx context.Context, album domain.Album) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO albums (
			spotify_album_id, spotify_artist_id, album_name, artist_name,
			album_type, total_tracks, label, release_date, release_date_precision
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		album.ID, album.ArtistID, album.Name, album.ArtistName,
		album.Type, album.TotalTracks, nullIfEmpty(album.Label),
		album.ReleaseDate.Format(releaseDateLayout), album.ReleaseDatePrecision,
	)
	if err != nil {
		return fmt.Errorf("failed to insert album %s: %w", album.ID, err)
	}
	return nil
}

func (a *Adapter) ArtistExists(ctx context.Context, id string) (bool, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM artists WHERE spotify_artist_id = ?", id)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check artist %s: %w", id, err)
	}
	return count > 0, nil
}

// InsertArtist stores the artist row and one artist_genres row per genre tag
// in a single transaction.
func (a *Adapter) InsertArtist(ctx context.Context, artist domain.Artist) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO artists (
			spotify_artist_id, artist_name, artist_popularity, followers, main_genre, genres
		) VALUES (?, ?, ?, ?, ?, ?)`,
		artist.ID, artist.Name, artist.Popularity, artist.Followers,
		nullIfEmpty(artist.MainGenre()), nullIfEmpty(strings.Join(artist.Genres, ", ")),
	); err != nil {
		return fmt.Errorf("failed to insert artist %s: %w", artist.ID, err)
	}

	for _, genre := range artist.Genres {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO artist_genres (spotify_artist_id, genre) VALUES (?, ?)",
			artist.ID, genre,
		); err != nil {
			return fmt.Errorf("failed to insert genre %q for artist %s: %w", genre, artist.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// Tracks returns the full track table. Features are nil for tracks whose
// audio features have not been populated yet.
func (a *Adapter) Tracks(ctx context.Context) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_track_uri, spotify_track_id, spotify_artist_id, spotify_album_id,
			track_name, duration_ms, track_popularity,
			acousticness, danceability, energy, instrumentalness, liveness,
			loudness, speechiness, valence, tempo, key, time_signature
		FROM tracks ORDER BY spotify_track_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var t domain.Track
		var af [9]sql.NullFloat64
		var key, timeSignature sql.NullInt64
		if err := rows.Scan(
			&t.URI, &t.ID, &t.ArtistID, &t.AlbumID, &t.Name, &t.DurationMs, &t.Popularity,
			&af[0], &af[1], &af[2], &af[3], &af[4], &af[5], &af[6], &af[7], &af[8],
			&key, &timeSignature,
		); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}

		populated := key.Valid && timeSignature.Valid
		for _, v := range af {
			populated = populated && v.Valid
		}
		if populated {
			t.Features = &domain.AudioFeatures{
				Acousticness:     af[0].Float64,
				Danceability:     af[1].Float64,
				Energy:           af[2].Float64,
				Instrumentalness: af[3].Float64,
				Liveness:         af[4].Float64,
				Loudness:         af[5].Float64,
				Speechiness:      af[6].Float64,
				Valence:          af[7].Float64,
				Tempo:            af[8].Float64,
				Key:              int(key.Int64),
				TimeSignature:    int(timeSignature.Int64),
			}
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return tracks, nil
}

func (a *Adapter) Albums(ctx context.Context) ([]domain.Album, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_album_id, spotify_artist_id, album_name, artist_name,
			album_type, total_tracks, label, release_date, release_date_precision
		FROM albums ORDER BY spotify_album_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load albums: %w", err)
	}
	defer rows.Close()

	var albums []domain.Album
	for rows.Next() {
		var al domain.Album
		var label, releaseDate sql.NullString
		if err := rows.Scan(
			&al.ID, &al.ArtistID, &al.Name, &al.ArtistName,
			&al.Type, &al.TotalTracks, &label, &releaseDate, &al.ReleaseDatePrecision,
		); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		al.Label = label.String
		if releaseDate.Valid && releaseDate.String != "" {
			parsed, err := time.Parse(releaseDateLayout, releaseDate.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse release date of album %s: %w", al.ID, err)
			}
			al.ReleaseDate = parsed
		}
		albums = append(albums, al)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate albums: %w", err)
	}
	return albums, nil
}

// Artists returns the full artist table ordered by name then follower count
// descending, which is the order the rename planner expects.
func (a *Adapter) Artists(ctx context.Context) ([]domain.Artist, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_artist_id, artist_name, artist_popularity, followers, genres
		FROM artists ORDER BY artist_name, followers DESC, spotify_artist_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load artists: %w", err)
	}
	defer rows.Close()

	var artists []domain.Artist
	for rows.Next() {
		var ar domain.Artist
		var genres sql.NullString
		if err := rows.Scan(&ar.ID, &ar.Name, &ar.Popularity, &ar.Followers, &genres); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		if genres.Valid && genres.String != "" {
			ar.Genres = strings.Split(genres.String, ", ")
		}
		artists = append(artists, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artists: %w", err)
	}
	return artists, nil
}

func (a *Adapter) TrackArtists(ctx context.Context) ([]domain.TrackArtist, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_track_uri, spotify_track_id, spotify_artist_id
		FROM track_artists ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to load track artists: %w", err)
	}
	defer rows.Close()

	var assocs []domain.TrackArtist
	for rows.Next() {
		var ta domain.TrackArtist
		if err := rows.Scan(&ta.TrackURI, &ta.TrackID, &ta.ArtistID); err != nil {
			return nil, fmt.Errorf("failed to scan track artist: %w", err)
		}
		assocs = append(assocs, ta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track artists: %w", err)
	}
	return assocs, nil
}
