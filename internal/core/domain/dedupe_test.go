package domain

import (
	"reflect"
	"testing"
)

func TestBuildArtistRenames(t *testing.T) {
	tests := []struct {
		name    string
		artists []Artist
		want    []ArtistRename
	}{
		{
			name: "max-follower artist keeps the bare name",
			artists: []Artist{
				{ID: "1", Name: "Bob", Followers: 1000},
				{ID: "2", Name: "Bob", Followers: 50},
			},
			want: []ArtistRename{
				{ArtistID: "2", NewName: "Bob (2)"},
			},
		},
		{
			name: "three-way collision gets consecutive suffixes",
			artists: []Artist{
				{ID: "low", Name: "Echo", Followers: 10},
				{ID: "high", Name: "Echo", Followers: 9000},
				{ID: "mid", Name: "Echo", Followers: 400},
			},
			want: []ArtistRename{
				{ArtistID: "mid", NewName: "Echo (2)"},
				{ArtistID: "low", NewName: "Echo (3)"},
			},
		},
		{
			name: "unique names produce no plan",
			artists: []Artist{
				{ID: "1", Name: "Solo", Followers: 5},
				{ID: "2", Name: "Duo", Followers: 5},
			},
			want: nil,
		},
		{
			name: "follower ties keep input order",
			artists: []Artist{
				{ID: "first", Name: "Twin", Followers: 100},
				{ID: "second", Name: "Twin", Followers: 100},
			},
			want: []ArtistRename{
				{ArtistID: "second", NewName: "Twin (2)"},
			},
		},
		{
			name: "independent names are planned separately",
			artists: []Artist{
				{ID: "a1", Name: "Alpha", Followers: 10},
				{ID: "b1", Name: "Beta", Followers: 99},
				{ID: "a2", Name: "Alpha", Followers: 20},
				{ID: "b2", Name: "Beta", Followers: 1},
			},
			want: []ArtistRename{
				{ArtistID: "a1", NewName: "Alpha (2)"},
				{ArtistID: "b2", NewName: "Beta (2)"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildArtistRenames(tt.artists)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("renames: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildArtistRenamesSuffixSequence(t *testing.T) {
	// For k same-named artists exactly one keeps the bare name and the rest
	// get (2)..(k) with no gaps or repeats.
	const k = 6
	artists := make([]Artist, 0, k)
	for i := 0; i < k; i++ {
		artists = append(artists, Artist{
			ID:        string(rune('a' + i)),
			Name:      "Crowd",
			Followers: int64(100 - i),
		})
	}

	renames := BuildArtistRenames(artists)
	if len(renames) != k-1 {
		t.Fatalf("expected %d renames, got %d", k-1, len(renames))
	}

	seen := map[string]bool{}
	for i, r := range renames {
		want := "Crowd (" + string(rune('2'+i)) + ")"
		if r.NewName != want {
			t.Fatalf("rename %d: got %q, want %q", i, r.NewName, want)
		}
		if seen[r.NewName] {
			t.Fatalf("duplicate suffix %q", r.NewName)
		}
		seen[r.NewName] = true
	}
}
