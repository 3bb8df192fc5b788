package ports

import (
	"context"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

// LibraryRepository stores the catalog entities collected during enrichment
// and exposes the full relations the consolidation pipeline reads.
type LibraryRepository interface {
	// TrackKnown reports whether the track URI is present and, if so,
	// whether its audio features have been populated yet.
	TrackKnown(ctx context.Context, uri string) (exists bool, hasFeatures bool, err error)
	HasTrackArtists(ctx context.Context, uri string) (bool, error)
	InsertTrack(ctx context.Context, track domain.Track) error
	UpdateTrackFeatures(ctx context.Context, features domain.TrackFeatures) error
	InsertTrackArtist(ctx context.Context, assoc domain.TrackArtist) error
	AlbumExists(ctx context.Context, albumID string, artistID string) (bool, error)
	InsertAlbum(ctx context.Context, album domain.Album) error
	ArtistExists(ctx context.Context, id string) (bool, error)
	InsertArtist(ctx context.Context, artist domain.Artist) error

	Tracks(ctx context.Context) ([]domain.Track, error)
	Albums(ctx context.Context) ([]domain.Album, error)
	Artists(ctx context.Context) ([]domain.Artist, error)
	TrackArtists(ctx context.Context) ([]domain.TrackArtist, error)
}

// HistoryRepository stores listening events and their denormalized fields.
type HistoryRepository interface {
	InsertEvents(ctx context.Context, events []domain.ListeningEvent) (int64, error)
	DistinctTrackURIs(ctx context.Context) ([]string, error)
	// BackfillCatalogIDs copies artist and album IDs from the track table
	// onto every listening event that shares a track URI.
	BackfillCatalogIDs(ctx context.Context) (int64, error)
	FrequentArtists(ctx context.Context, minPlays int) ([]domain.ArtistRef, error)
	FrequentAlbums(ctx context.Context, minPlays int) ([]domain.AlbumRef, error)
}

// ConsolidationRepository applies the rebuild outputs. Each Replace call runs
// as one transaction with truncate-and-replace semantics so a partial rebuild
// is never left visible.
type ConsolidationRepository interface {
	ReplaceTrackMapping(ctx context.Context, mappings []domain.TrackMapping) error
	ReplaceConsolidatedTracks(ctx context.Context, tracks []domain.ConsolidatedTrack) error
	// ApplyArtistRenames updates the artist table and every listening event
	// whose artist ID matches, in one transaction.
	ApplyArtistRenames(ctx context.Context, renames []domain.ArtistRename) error
	// RefreshArtistGenres rewrites the aggregated genres column on the
	// artist table from the per-genre rows.
	RefreshArtistGenres(ctx context.Context) (int64, error)
}

// TableReader exposes set-oriented reads over every stored table for the
// CSV exporter.
type TableReader interface {
	Tables() []string
	ReadTable(ctx context.Context, name string) (columns []string, rows [][]string, err error)
}
