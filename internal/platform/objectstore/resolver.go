package objectstore

import (
	"fmt"
	"strings"
)

// Placeholder is served for entries without an image.
const Placeholder = "/placeholder.svg"

// Resolver turns stored image paths into displayable URLs.
type Resolver struct {
	publicBase string
}

func NewResolver(baseURL, bucket string) Resolver {
	return Resolver{
		publicBase: fmt.Sprintf("%s/storage/v1/object/public/%s/", strings.TrimRight(baseURL, "/"), bucket),
	}
}

// URL resolves a stored path. Absolute http(s) URLs pass through and an
// empty path yields the placeholder.
func (r Resolver) URL(path string) string {
	switch {
	case path == "":
		return Placeholder
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	default:
		return r.publicBase + escapePath(path)
	}
}

// URLPtr resolves an optional path.
func (r Resolver) URLPtr(path *string) string {
	if path == nil {
		return Placeholder
	}
	return r.URL(*path)
}

func (r Resolver) URLs(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = r.URL(p)
	}
	return out
}
