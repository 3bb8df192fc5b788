package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/replay/internal/core/domain"
	"github.com/ewilliams-labs/replay/internal/core/ports"
)

// exportGlob matches the streaming history files of an account data export.
const exportGlob = "endsong*.json"

// Stats summarizes one ingest run.
type Stats struct {
	Files      int
	Read       int
	Episodes   int
	NoTrackURI int
	Duplicates int
	Loaded     int64
}

// Loader combines the export files of a data dump, filters podcast episodes
// and exact duplicates, and loads the music events into the history table.
type Loader struct {
	history ports.HistoryRepository
	logger  *zap.Logger
}

// NewLoader constructs a Loader.
func NewLoader(history ports.HistoryRepository, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{history: history, logger: logger}
}

// Run ingests every endsong file under dataDir. When masterCSV is non-empty
// the combined, filtered history is also written there.
func (l *Loader) Run(ctx context.Context, dataDir, masterCSV string) (Stats, error) {
	var stats Stats

	files, err := filepath.Glob(filepath.Join(dataDir, exportGlob))
	if err != nil {
		return stats, fmt.Errorf("ingest: %w", err)
	}
	if len(files) == 0 {
		return stats, fmt.Errorf("ingest: no %s files under %s", exportGlob, dataDir)
	}
	sort.Strings(files)

	seen := map[string]bool{}
	var events []domain.ListeningEvent
	for _, file := range files {
		raw, err := readExportFile(file)
		if err != nil {
			return stats, err
		}
		stats.Files++
		stats.Read += len(raw)

		for _, r := range raw {
			if r.EpisodeURI != nil {
				stats.Episodes++
				continue
			}
			if r.TrackURI == nil || *r.TrackURI == "" {
				stats.NoTrackURI++
				continue
			}

			key := r.Timestamp + "|" + *r.TrackURI + "|" + fmt.Sprint(r.MsPlayed)
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true

			event, err := r.toEvent()
			if err != nil {
				return stats, err
			}
			events = append(events, event)
		}

		l.logger.Info("read export file", zap.String("file", file), zap.Int("events", len(raw)))
	}

	loaded, err := l.history.InsertEvents(ctx, events)
	if err != nil {
		return stats, fmt.Errorf("ingest: failed to load events: %w", err)
	}
	stats.Loaded = loaded

	if masterCSV != "" {
		if err := writeMasterCSV(masterCSV, events); err != nil {
			return stats, err
		}
	}

	return stats, nil
}
