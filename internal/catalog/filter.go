package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ComputeAllTags returns every distinct tag across entries in first-seen order.
func ComputeAllTags(entries []Entry) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, e := range entries {
		for _, t := range e.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

// FilterTags keeps the tags containing query, ignoring case. An empty query
// returns allTags unchanged.
func FilterTags(allTags []string, query string) []string {
	if query == "" {
		return allTags
	}
	needle := strings.ToLower(query)
	out := []string{}
	for _, t := range allTags {
		if strings.Contains(strings.ToLower(t), needle) {
			out = append(out, t)
		}
	}
	return out
}

// FilterAndSort applies the search, price, mobile, tag and favorites
// predicates of v to entries and returns the survivors in a new slice,
// stably ordered by v.Sort. entries is not modified.
func FilterAndSort(entries []Entry, v ViewState, favorites FavoriteSet) []Entry {
	terms := strings.Fields(strings.ToLower(v.Search))

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !matchesSearch(e, terms) {
			continue
		}
		if !(e.IsPaid && v.Paid) && !(!e.IsPaid && v.Free) {
			continue
		}
		if v.MobileOnly && !e.IsMobileFriendly {
			continue
		}
		if !hasAllTags(e, v.Tags) {
			continue
		}
		if v.FavoritesOnly && !favorites.Contains(e.ID) {
			continue
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, comparator(ParseSort(string(v.Sort))))
	return out
}

func matchesSearch(e Entry, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	fields := make([]string, 0, 3+len(e.Tags))
	fields = append(fields,
		strings.ToLower(e.Name),
		strings.ToLower(e.Description),
		strings.ToLower(e.Author),
	)
	for _, t := range e.Tags {
		fields = append(fields, strings.ToLower(t))
	}

	for _, term := range terms {
		found := false
		for _, f := range fields {
			if strings.Contains(f, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasAllTags(e Entry, selected []string) bool {
	for _, tag := range selected {
		if !e.HasTag(tag) {
			return false
		}
	}
	return true
}

// comparator builds the ordering for s. A collator is not safe for
// concurrent use, so each call gets its own.
func comparator(s Sort) func(a, b Entry) int {
	switch s {
	case SortOldest:
		return func(a, b Entry) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortName:
		c := collate.New(language.English)
		return func(a, b Entry) int { return c.CompareString(a.Name, b.Name) }
	case SortAuthor:
		c := collate.New(language.English)
		return func(a, b Entry) int { return c.CompareString(a.Author, b.Author) }
	default:
		return func(a, b Entry) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}
