package catalog

import (
	"time"
)

// PageSize is the number of entries shown per listing page.
const PageSize = 6

// Entry is one published library as seen by the listing engine.
type Entry struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Author            string    `json:"author"`
	Tags              []string  `json:"tags"`
	IsPaid            bool      `json:"is_paid"`
	IsMobileFriendly  bool      `json:"is_mobile_friendly"`
	CreatedAt         time.Time `json:"created_at"`
	PreviewImagePath  *string   `json:"preview,omitempty"`
	GalleryImagePaths []string  `json:"gallery"`
}

// HasTag reports whether the entry carries tag (exact match).
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FavoriteSet is a read-only view of the ids a visitor has favorited.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from ids, ignoring empty values.
func NewFavoriteSet(ids ...string) FavoriteSet {
	set := make(FavoriteSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func (s FavoriteSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}
