package domain

import (
	"sort"
	"strings"
)

// DurationBucketMs is the width of the coarse duration quantization used to
// group re-releases of the same recording.
const DurationBucketMs = 3000

// artistNameDelimiter separates names in the aggregated artist string.
const artistNameDelimiter = ", "

// DurationBucket quantizes a track duration to its bucket key. Two tracks
// within 3000ms of each other can still land in different buckets across a
// bucket boundary; such pairs are knowingly missed.
func DurationBucket(durationMs int) int {
	return durationMs - durationMs%DurationBucketMs
}

// TrackMapping maps a superseded track URI to the canonical URI chosen for
// its duplicate group. Canonical tracks map to themselves.
type TrackMapping struct {
	OldURI string
	NewURI string
}

// ConsolidatedTrack combines a canonical track's attributes with the
// aggregated names of all its contributing artists.
type ConsolidatedTrack struct {
	Track
	AllArtistNames string
}

type candidateKey struct {
	ArtistID string
	Name     string
	Bucket   int
}

// BuildTrackMapping partitions tracks by (primary artist, name, duration
// bucket), picks one canonical track per partition, and maps every member's
// URI to the canonical URI. Tracks whose album ID does not resolve against
// albums are excluded from the mapping entirely, not self-mapped.
//
// Canonical selection within a partition is deterministic: album-type rank,
// then popularity descending, then album release date, then track ID.
func BuildTrackMapping(tracks []Track, albums []Album) []TrackMapping {
	albumsByID := make(map[string]Album, len(albums))
	for _, a := range albums {
		albumsByID[a.ID] = a
	}

	groups := make(map[candidateKey][]Track)
	for _, t := range tracks {
		if _, ok := albumsByID[t.AlbumID]; !ok {
			continue
		}
		key := candidateKey{ArtistID: t.ArtistID, Name: t.Name, Bucket: DurationBucket(t.DurationMs)}
		groups[key] = append(groups[key], t)
	}

	mappings := make([]TrackMapping, 0, len(tracks))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
			rankA := AlbumTypeRank(albumsByID[a.AlbumID].Type)
			rankB := AlbumTypeRank(albumsByID[b.AlbumID].Type)
			if rankA != rankB {
				return rankA < rankB
			}
			if a.Popularity != b.Popularity {
				return a.Popularity > b.Popularity
			}
			dateA := albumsByID[a.AlbumID].ReleaseDate
			dateB := albumsByID[b.AlbumID].ReleaseDate
			if !dateA.Equal(dateB) {
				return dateA.Before(dateB)
			}
			return a.ID < b.ID
		})

		canonical := group[0]
		for _, member := range group {
			mappings = append(mappings, TrackMapping{OldURI: member.URI, NewURI: canonical.URI})
		}
	}

	sort.Slice(mappings, func(i, j int) bool { return mappings[i].OldURI < mappings[j].OldURI })
	return mappings
}

// BuildConsolidatedTracks emits one row per canonical track (any track that
// is the target of a mapping entry), aggregating the display names of its
// contributing artists. The track's own primary artist always comes first;
// the remaining contributors keep the order their associations were read in.
func BuildConsolidatedTracks(tracks []Track, mappings []TrackMapping, assocs []TrackArtist, artists []Artist) []ConsolidatedTrack {
	tracksByURI := make(map[string]Track, len(tracks))
	for _, t := range tracks {
		tracksByURI[t.URI] = t
	}

	artistsByID := make(map[string]Artist, len(artists))
	for _, a := range artists {
		artistsByID[a.ID] = a
	}

	assocsByTrackID := make(map[string][]TrackArtist)
	for _, ta := range assocs {
		assocsByTrackID[ta.TrackID] = append(assocsByTrackID[ta.TrackID], ta)
	}

	canonicalURIs := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		canonicalURIs[m.NewURI] = struct{}{}
	}

	consolidated := make([]ConsolidatedTrack, 0, len(canonicalURIs))
	for uri := range canonicalURIs {
		track, ok := tracksByURI[uri]
		if !ok {
			continue
		}

		names := make([]string, 0, len(assocsByTrackID[track.ID])+1)
		if primary, ok := artistsByID[track.ArtistID]; ok {
			names = append(names, primary.Name)
		}
		for _, ta := range assocsByTrackID[track.ID] {
			if ta.ArtistID == track.ArtistID {
				continue
			}
			if contributor, ok := artistsByID[ta.ArtistID]; ok {
				names = append(names, contributor.Name)
			}
		}

		consolidated = append(consolidated, ConsolidatedTrack{
			Track:          track,
			AllArtistNames: strings.Join(names, artistNameDelimiter),
		})
	}

	sort.Slice(consolidated, func(i, j int) bool { return consolidated[i].ID < consolidated[j].ID })
	return consolidated
}
