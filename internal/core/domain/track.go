package domain

// Track is a single catalog track record. The ID is stable; the URI is the
// catalog's versioned reference and can change when the catalog re-indexes
// what is conceptually the same track.
type Track struct {
	URI        string
	ID         string
	ArtistID   string
	AlbumID    string
	Name       string
	DurationMs int
	Popularity int
	Features   *AudioFeatures // nil until enriched
}

// AudioFeatures holds the numeric audio measures the catalog reports per track.
type AudioFeatures struct {
	Acousticness     float64
	Danceability     float64
	Energy           float64
	Instrumentalness float64
	Liveness         float64
	Loudness         float64
	Speechiness      float64
	Valence          float64
	Tempo            float64
	Key              int
	TimeSignature    int
}

// TrackFeatures pairs a track URI with its audio features for batch updates.
type TrackFeatures struct {
	URI string
	AudioFeatures
}

// ArtistRef identifies one contributing artist on a catalog track.
type ArtistRef struct {
	ID   string
	Name string
}

// CatalogTrack is a track as returned by the catalog API, carrying the full
// ordered list of contributing artists. The primary artist comes first.
type CatalogTrack struct {
	Track
	Artists []ArtistRef
}

// TrackArtist links one track to one contributing artist.
type TrackArtist struct {
	TrackURI string
	TrackID  string
	ArtistID string
}
