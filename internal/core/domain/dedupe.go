package domain

import (
	"fmt"
	"sort"
)

// BuildArtistRenames finds display names shared by two or more artists and
// produces a renaming plan: the artist with the most followers keeps the bare
// name, the rest get " (2)", " (3)", ... suffixes in follower order. Ties on
// follower count keep the order the artists were passed in.
//
// Renaming is keyed by the follower counts visible right now, so the plan is
// only safe once all history and artist data has been loaded. That is an
// operational precondition, not something enforced here.
func BuildArtistRenames(artists []Artist) []ArtistRename {
	byName := make(map[string][]Artist)
	var nameOrder []string
	for _, a := range artists {
		if _, seen := byName[a.Name]; !seen {
			nameOrder = append(nameOrder, a.Name)
		}
		byName[a.Name] = append(byName[a.Name], a)
	}

	var renames []ArtistRename
	for _, name := range nameOrder {
		group := byName[name]
		if len(group) < 2 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Followers > group[j].Followers
		})

		// group[0] keeps the bare name; everyone else gets a 1-based
		// occurrence suffix starting at (2).
		for i := 1; i < len(group); i++ {
			renames = append(renames, ArtistRename{
				ArtistID: group[i].ID,
				NewName:  fmt.Sprintf("%s (%d)", name, i+1),
			})
		}
	}

	return renames
}
