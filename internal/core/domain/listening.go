package domain

import "time"

// ListeningEvent is one play from the streaming-history export. Names are
// denormalized at ingest time; the catalog artist and album IDs stay empty
// until the consolidation backfill resolves them through the track table.
type ListeningEvent struct {
	ID            int64
	ArtistID      string
	AlbumID       string
	TimeEnded     time.Time
	MsPlayed      int64
	TrackName     string
	ArtistName    string
	AlbumName     string
	ReasonStarted string
	ReasonEnded   string
	Shuffle       bool
	Skipped       bool
	Incognito     bool
	TrackURI      string
}
