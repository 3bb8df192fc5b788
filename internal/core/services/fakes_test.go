package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ewilliams-labs/replay/internal/core/domain"
	"github.com/ewilliams-labs/replay/internal/core/ports"
)

type fakeCatalog struct {
	tracks   map[string]*domain.CatalogTrack
	features map[string]*domain.TrackFeatures
	albums   map[string]domain.Album
	artists  map[string]domain.Artist

	err        error
	trackCalls int
}

var _ ports.Catalog = (*fakeCatalog)(nil)

func (f *fakeCatalog) Tracks(ctx context.Context, uris []string) ([]*domain.CatalogTrack, error) {
	f.trackCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.CatalogTrack, len(uris))
	for i, uri := range uris {
		out[i] = f.tracks[uri]
	}
	return out, nil
}

func (f *fakeCatalog) AudioFeatures(ctx context.Context, uris []string) ([]*domain.TrackFeatures, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.TrackFeatures, len(uris))
	for i, uri := range uris {
		out[i] = f.features[uri]
	}
	return out, nil
}

func (f *fakeCatalog) Album(ctx context.Context, id string) (domain.Album, error) {
	if f.err != nil {
		return domain.Album{}, f.err
	}
	album, ok := f.albums[id]
	if !ok {
		return domain.Album{}, fmt.Errorf("album %s: status 404", id)
	}
	return album, nil
}

func (f *fakeCatalog) Artist(ctx context.Context, id string) (domain.Artist, error) {
	if f.err != nil {
		return domain.Artist{}, f.err
	}
	artist, ok := f.artists[id]
	if !ok {
		return domain.Artist{}, fmt.Errorf("artist %s: status 404", id)
	}
	return artist, nil
}

type fakeLibrary struct {
	tracks   map[string]domain.Track
	features map[string]domain.TrackFeatures
	assocs   []domain.TrackArtist
	albums   map[string]domain.Album
	artists  map[string]domain.Artist
}

var _ ports.LibraryRepository = (*fakeLibrary)(nil)

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		tracks:   map[string]domain.Track{},
		features: map[string]domain.TrackFeatures{},
		albums:   map[string]domain.Album{},
		artists:  map[string]domain.Artist{},
	}
}

func (f *fakeLibrary) TrackKnown(ctx context.Context, uri string) (bool, bool, error) {
	_, exists := f.tracks[uri]
	_, hasFeatures := f.features[uri]
	return exists, hasFeatures, nil
}

func (f *fakeLibrary) HasTrackArtists(ctx context.Context, uri string) (bool, error) {
	for _, a := range f.assocs {
		if a.TrackURI == uri {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLibrary) InsertTrack(ctx context.Context, track domain.Track) error {
	if _, exists := f.tracks[track.URI]; exists {
		return errors.New("duplicate track")
	}
	f.tracks[track.URI] = track
	return nil
}

func (f *fakeLibrary) UpdateTrackFeatures(ctx context.Context, features domain.TrackFeatures) error {
	f.features[features.URI] = features
	return nil
}

func (f *fakeLibrary) InsertTrackArtist(ctx context.Context, assoc domain.TrackArtist) error {
	for _, a := range f.assocs {
		if a.TrackID == assoc.TrackID && a.ArtistID == assoc.ArtistID {
			return nil
		}
	}
	f.assocs = append(f.assocs, assoc)
	return nil
}

func (f *fakeLibrary) AlbumExists(ctx context.Context, albumID, artistID string) (bool, error) {
	album, ok := f.albums[albumID]
	return ok && album.ArtistID == artistID, nil
}

func (f *fakeLibrary) InsertAlbum(ctx context.Context, album domain.Album) error {
	f.albums[album.ID] = album
	return nil
}

func (f *fakeLibrary) ArtistExists(ctx context.Context, id string) (bool, error) {
	_, ok := f.artists[id]
	return ok, nil
}

func (f *fakeLibrary) InsertArtist(ctx context.Context, artist domain.Artist) error {
	f.artists[artist.ID] = artist
	return nil
}

func (f *fakeLibrary) Tracks(ctx context.Context) ([]domain.Track, error) {
	var out []domain.Track
	for uri, t := range f.tracks {
		if feats, ok := f.features[uri]; ok {
			af := feats.AudioFeatures
			t.Features = &af
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLibrary) Albums(ctx context.Context) ([]domain.Album, error) {
	var out []domain.Album
	for _, al := range f.albums {
		out = append(out, al)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLibrary) Artists(ctx context.Context) ([]domain.Artist, error) {
	var out []domain.Artist
	for _, ar := range f.artists {
		out = append(out, ar)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Followers != out[j].Followers {
			return out[i].Followers > out[j].Followers
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeLibrary) TrackArtists(ctx context.Context) ([]domain.TrackArtist, error) {
	return append([]domain.TrackArtist(nil), f.assocs...), nil
}

type fakeHistory struct {
	uris            []string
	backfilled      int64
	frequentArtists []domain.ArtistRef
	frequentAlbums  []domain.AlbumRef
}

var _ ports.HistoryRepository = (*fakeHistory)(nil)

func (f *fakeHistory) InsertEvents(ctx context.Context, events []domain.ListeningEvent) (int64, error) {
	return int64(len(events)), nil
}

func (f *fakeHistory) DistinctTrackURIs(ctx context.Context) ([]string, error) {
	return f.uris, nil
}

func (f *fakeHistory) BackfillCatalogIDs(ctx context.Context) (int64, error) {
	return f.backfilled, nil
}

func (f *fakeHistory) FrequentArtists(ctx context.Context, minPlays int) ([]domain.ArtistRef, error) {
	return f.frequentArtists, nil
}

func (f *fakeHistory) FrequentAlbums(ctx context.Context, minPlays int) ([]domain.AlbumRef, error) {
	return f.frequentAlbums, nil
}

// fakeRebuild records the rebuild outputs and applies renames back onto the
// library so re-reads observe the new names.
type fakeRebuild struct {
	library      *fakeLibrary
	mappings     []domain.TrackMapping
	consolidated []domain.ConsolidatedTrack
	renames      []domain.ArtistRename
	refreshed    int64
}

var _ ports.ConsolidationRepository = (*fakeRebuild)(nil)

func (f *fakeRebuild) ReplaceTrackMapping(ctx context.Context, mappings []domain.TrackMapping) error {
	f.mappings = mappings
	return nil
}

func (f *fakeRebuild) ReplaceConsolidatedTracks(ctx context.Context, tracks []domain.ConsolidatedTrack) error {
	f.consolidated = tracks
	return nil
}

func (f *fakeRebuild) ApplyArtistRenames(ctx context.Context, renames []domain.ArtistRename) error {
	f.renames = renames
	for _, r := range renames {
		artist, ok := f.library.artists[r.ArtistID]
		if !ok {
			return fmt.Errorf("unknown artist %s", r.ArtistID)
		}
		artist.Name = r.NewName
		f.library.artists[r.ArtistID] = artist
	}
	return nil
}

func (f *fakeRebuild) RefreshArtistGenres(ctx context.Context) (int64, error) {
	return f.refreshed, nil
}

type fakeFetcher struct {
	fetched map[string]string // dest -> url
	err     error
}

var _ ports.ImageFetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) Fetch(ctx context.Context, url, dest string) error {
	if f.err != nil {
		return f.err
	}
	if f.fetched == nil {
		f.fetched = map[string]string{}
	}
	f.fetched[dest] = url
	return nil
}
