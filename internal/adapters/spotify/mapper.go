package spotify

import (
	"fmt"
	"time"

	"github.com/ewilliams-labs/replay/internal/core/domain"
)

var releaseDateLayouts = map[string]string{
	domain.PrecisionDay:   "2006-01-02",
	domain.PrecisionMonth: "2006-01",
	domain.PrecisionYear:  "2006",
}

func mapCatalogTrack(tr apiTrack) *domain.CatalogTrack {
	out := &domain.CatalogTrack{
		Track: domain.Track{
			URI:        tr.URI,
			ID:         tr.ID,
			AlbumID:    tr.Album.ID,
			Name:       tr.Name,
			DurationMs: tr.DurationMs,
			Popularity: tr.Popularity,
		},
	}
	for _, ar := range tr.Artists {
		out.Artists = append(out.Artists, domain.ArtistRef{ID: ar.ID, Name: ar.Name})
	}
	if len(out.Artists) > 0 {
		out.ArtistID = out.Artists[0].ID
	}
	return out
}

func mapTrackFeatures(af apiAudioFeatures) *domain.TrackFeatures {
	return &domain.TrackFeatures{
		URI: af.URI,
		AudioFeatures: domain.AudioFeatures{
			Acousticness:     af.Acousticness,
			Danceability:     af.Danceability,
			Energy:           af.Energy,
			Instrumentalness: af.Instrumentalness,
			Liveness:         af.Liveness,
			Loudness:         af.Loudness,
			Speechiness:      af.Speechiness,
			Valence:          af.Valence,
			Tempo:            af.Tempo,
			Key:              af.Key,
			TimeSignature:    af.TimeSignature,
		},
	}
}

// mapAlbum converts a wire album. Release dates come back at day, month or
// year precision; anything else is an error the caller can skip on.
func mapAlbum(al apiAlbum) (domain.Album, error) {
	layout, ok := releaseDateLayouts[al.ReleaseDatePrecision]
	if !ok {
		return domain.Album{}, fmt.Errorf("spotify adapter: album %s: unknown release date precision %q", al.ID, al.ReleaseDatePrecision)
	}
	released, err := time.Parse(layout, al.ReleaseDate)
	if err != nil {
		return domain.Album{}, fmt.Errorf("spotify adapter: album %s: unparseable release date %q: %w", al.ID, al.ReleaseDate, err)
	}

	out := domain.Album{
		ID:                   al.ID,
		Name:                 al.Name,
		Type:                 al.AlbumType,
		TotalTracks:          al.TotalTracks,
		Label:                al.Label,
		ReleaseDate:          released,
		ReleaseDatePrecision: al.ReleaseDatePrecision,
		ImageURL:             firstImageURL(al.Images),
	}
	if len(al.Artists) > 0 {
		out.ArtistID = al.Artists[0].ID
		out.ArtistName = al.Artists[0].Name
	}
	return out, nil
}

func mapArtist(ar apiArtist) domain.Artist {
	return domain.Artist{
		ID:         ar.ID,
		Name:       ar.Name,
		Popularity: ar.Popularity,
		Followers:  ar.Followers.Total,
		Genres:     ar.Genres,
		ImageURL:   firstImageURL(ar.Images),
	}
}

func firstImageURL(images []apiImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
