package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

var masterHeader = []string{
	"time_ended", "ms_played", "track_name", "artist_name", "album_name",
	"reason_started", "reason_ended", "shuffle", "skipped", "incognito",
	"spotify_track_uri",
}

// writeMasterCSV writes the combined, filtered history to one CSV file.
func writeMasterCSV(path string, events []domain.ListeningEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(masterHeader); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, e := range events {
		record := []string{
			e.TimeEnded.UTC().Format(time.RFC3339),
			strconv.FormatInt(e.MsPlayed, 10),
			e.TrackName, e.ArtistName, e.AlbumName,
			e.ReasonStarted, e.ReasonEnded,
			strconv.FormatBool(e.Shuffle),
			strconv.FormatBool(e.Skipped),
			strconv.FormatBool(e.Incognito),
			e.TrackURI,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("ingest: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return f.Close()
}
