package domain

import "time"

// Release date precisions reported by the catalog.
const (
	PrecisionDay   = "day"
	PrecisionMonth = "month"
	PrecisionYear  = "year"
)

// Album types reported by the catalog.
const (
	AlbumTypeAlbum       = "album"
	AlbumTypeSingle      = "single"
	AlbumTypeCompilation = "compilation"
)

// Album is a catalog album record.
type Album struct {
	ID                   string
	ArtistID             string
	Name                 string
	ArtistName           string
	Type                 string
	TotalTracks          int
	Label                string
	ReleaseDate          time.Time
	ReleaseDatePrecision string
	ImageURL             string
}

// AlbumRef identifies an album together with its display names, as seen in
// the listening history.
type AlbumRef struct {
	ID         string
	Name       string
	ArtistName string
}

// AlbumTypeRank orders album types by preference when picking a canonical
// release: album releases beat singles, singles beat compilations, anything
// else comes last.
func AlbumTypeRank(albumType string) int {
	switch albumType {
	case AlbumTypeAlbum:
		return 1
	case AlbumTypeSingle:
		return 2
	case AlbumTypeCompilation:
		return 3
	default:
		return 4
	}
}
