// Package favorites keeps the visitor's favorite library ids in a cookie.
// The set belongs to the client; the server only reads and rewrites it.
package favorites

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"uilibs/internal/catalog"
)

const (
	CookieName = "favorites"
	maxAge     = 365 * 24 * time.Hour
	// Keeps the cookie comfortably under the 4KB browser limit.
	maxIDs = 100
)

// Read returns the favorites carried by the request. A missing or garbled
// cookie yields an empty set.
func Read(r *http.Request) catalog.FavoriteSet {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return catalog.NewFavoriteSet()
	}
	return catalog.NewFavoriteSet(parse(c.Value)...)
}

func parse(v string) []string {
	var ids []string
	for _, id := range strings.Split(v, ",") {
		id = strings.TrimSpace(id)
		if validID(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func validID(id string) bool {
	return id != "" && len(id) <= 64 && !strings.ContainsAny(id, ",; \"\t\r\n")
}

// IDs lists the set in a stable order.
func IDs(set catalog.FavoriteSet) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Write replaces the favorites cookie with set.
func Write(w http.ResponseWriter, set catalog.FavoriteSet, secure bool) {
	ids := IDs(set)
	if len(ids) > maxIDs {
		ids = ids[:maxIDs]
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    strings.Join(ids, ","),
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
