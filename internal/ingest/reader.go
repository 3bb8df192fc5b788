// Package ingest loads streaming history export files into the database.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

// rawEvent mirrors one entry of an endsong export file. The metadata fields
// are pointers because podcast episodes carry null track metadata.
type rawEvent struct {
	Timestamp   string  `json:"ts"`
	MsPlayed    int64   `json:"ms_played"`
	TrackName   *string `json:"master_metadata_track_name"`
	ArtistName  *string `json:"master_metadata_album_artist_name"`
	AlbumName   *string `json:"master_metadata_album_album_name"`
	TrackURI    *string `json:"spotify_track_uri"`
	EpisodeURI  *string `json:"spotify_episode_uri"`
	ReasonStart string  `json:"reason_start"`
	ReasonEnd   string  `json:"reason_end"`
	Shuffle     bool    `json:"shuffle"`
	Skipped     bool    `json:"skipped"`
	Incognito   bool    `json:"incognito_mode"`
}

func readExportFile(path string) ([]rawEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	var events []rawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("ingest: failed to parse %s: %w", path, err)
	}
	return events, nil
}

func (r rawEvent) toEvent() (domain.ListeningEvent, error) {
	ended, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return domain.ListeningEvent{}, fmt.Errorf("ingest: bad timestamp %q: %w", r.Timestamp, err)
	}

	return domain.ListeningEvent{
		TimeEnded:     ended,
		MsPlayed:      r.MsPlayed,
		TrackName:     deref(r.TrackName),
		ArtistName:    deref(r.ArtistName),
		AlbumName:     deref(r.AlbumName),
		ReasonStarted: r.ReasonStart,
		ReasonEnded:   r.ReasonEnd,
		Shuffle:       r.Shuffle,
		Skipped:       r.Skipped,
		Incognito:     r.Incognito,
		TrackURI:      deref(r.TrackURI),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
