package spotify

// Wire types for the Spotify Web API responses. Batch endpoints keep the
// positional order of the requested IDs and use JSON null for misses, hence
// the pointer slices.

type tracksResponse struct {
	Tracks []*apiTrack `json:"tracks"`
}

type featuresResponse struct {
	AudioFeatures []*apiAudioFeatures `json:"audio_features"`
}

type apiTrack struct {
	URI        string         `json:"uri"`
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	DurationMs int            `json:"duration_ms"`
	Popularity int            `json:"popularity"`
	Album      apiAlbumRef    `json:"album"`
	Artists    []apiArtistRef `json:"artists"`
}

type apiAlbumRef struct {
	ID string `json:"id"`
}

type apiArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiAudioFeatures struct {
	URI              string  `json:"uri"`
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Key              int     `json:"key"`
	TimeSignature    int     `json:"time_signature"`
}

type apiAlbum struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	AlbumType            string         `json:"album_type"`
	TotalTracks          int            `json:"total_tracks"`
	Label                string         `json:"label"`
	ReleaseDate          string         `json:"release_date"`
	ReleaseDatePrecision string         `json:"release_date_precision"`
	Artists              []apiArtistRef `json:"artists"`
	Images               []apiImage     `json:"images"`
}

type apiArtist struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Popularity int          `json:"popularity"`
	Followers  apiFollowers `json:"followers"`
	Genres     []string     `json:"genres"`
	Images     []apiImage   `json:"images"`
}

type apiFollowers struct {
	Total int64 `json:"total"`
}

type apiImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
