package domain

// Artist is a catalog artist record. The display name is not unique: distinct
// artists can share one name, which is what the disambiguator untangles.
type Artist struct {
	ID         string
	Name       string
	Popularity int
	Followers  int64
	Genres     []string // catalog order, first entry is the main genre
	ImageURL   string
}

// MainGenre returns the first genre tag, or "" when the catalog has none.
func (a Artist) MainGenre() string {
	if len(a.Genres) > 0 {
		return a.Genres[0]
	}
	return ""
}

// ArtistRename is one entry of a disambiguation plan: the artist identified
// by ArtistID gets NewName everywhere its display name is stored.
type ArtistRename struct {
	ArtistID string
	NewName  string
}
