package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort selects the ordering of the filtered listing.
type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
	SortName   Sort = "name"
	SortAuthor Sort = "author"
)

// ParseSort maps a raw value to a known sort, falling back to SortNewest.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortNewest, SortOldest, SortName, SortAuthor:
		return Sort(s)
	default:
		return SortNewest
	}
}

// Query-string keys used to carry a ViewState.
const (
	ParamSearch    = "search"
	ParamSort      = "sort"
	ParamPaid      = "paid"
	ParamFree      = "free"
	ParamMobile    = "mobile"
	ParamFavorites = "favorites"
	ParamTags      = "tags"
	ParamPage      = "page"
)

// ViewState is every user-chosen filter, sort and page parameter of the
// listing. It only ever lives in the query string.
type ViewState struct {
	Search        string   `json:"search"`
	Sort          Sort     `json:"sort"`
	Paid          bool     `json:"paid"`
	Free          bool     `json:"free"`
	MobileOnly    bool     `json:"mobile_only"`
	FavoritesOnly bool     `json:"favorites_only"`
	Tags          []string `json:"tags"`
	Page          int      `json:"page"`
}

// DefaultViewState returns the state of an unfiltered first page.
func DefaultViewState() ViewState {
	return ViewState{
		Sort: SortNewest,
		Paid: true,
		Free: true,
		Tags: []string{},
		Page: 1,
	}
}

// HasTag reports whether tag is currently selected.
func (v ViewState) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EncodeViewState writes only the fields that differ from their defaults,
// so the default state encodes to an empty mapping.
func EncodeViewState(v ViewState) url.Values {
	q := url.Values{}
	if v.Search != "" {
		q.Set(ParamSearch, v.Search)
	}
	if v.Sort != "" && v.Sort != SortNewest {
		q.Set(ParamSort, string(v.Sort))
	}
	if !v.Paid {
		q.Set(ParamPaid, "false")
	}
	if !v.Free {
		q.Set(ParamFree, "false")
	}
	if v.MobileOnly {
		q.Set(ParamMobile, "true")
	}
	if v.FavoritesOnly {
		q.Set(ParamFavorites, "true")
	}
	if len(v.Tags) > 0 {
		q.Set(ParamTags, strings.Join(v.Tags, ","))
	}
	if v.Page != 1 {
		q.Set(ParamPage, strconv.Itoa(v.Page))
	}
	return q
}

// DecodeViewState restores a ViewState from query parameters. Absent or
// malformed values decode to their defaults; it never fails.
func DecodeViewState(q url.Values) ViewState {
	v := DefaultViewState()
	v.Search = q.Get(ParamSearch)
	v.Sort = ParseSort(q.Get(ParamSort))
	v.Paid = parseBool(q.Get(ParamPaid), v.Paid)
	v.Free = parseBool(q.Get(ParamFree), v.Free)
	v.MobileOnly = parseBool(q.Get(ParamMobile), v.MobileOnly)
	v.FavoritesOnly = parseBool(q.Get(ParamFavorites), v.FavoritesOnly)

	if raw := q.Get(ParamTags); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag != "" {
				v.Tags = append(v.Tags, tag)
			}
		}
	}

	if page, err := strconv.Atoi(q.Get(ParamPage)); err == nil && page >= 1 {
		v.Page = page
	}
	return v
}

func parseBool(raw string, def bool) bool {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// Every mutator below except WithPage returns the user to page 1.

func (v ViewState) WithSearch(search string) ViewState {
	v.Search = search
	v.Page = 1
	return v
}

func (v ViewState) WithSort(s Sort) ViewState {
	v.Sort = ParseSort(string(s))
	v.Page = 1
	return v
}

func (v ViewState) WithPaid(paid bool) ViewState {
	v.Paid = paid
	v.Page = 1
	return v
}

func (v ViewState) WithFree(free bool) ViewState {
	v.Free = free
	v.Page = 1
	return v
}

func (v ViewState) WithMobileOnly(on bool) ViewState {
	v.MobileOnly = on
	v.Page = 1
	return v
}

func (v ViewState) WithFavoritesOnly(on bool) ViewState {
	v.FavoritesOnly = on
	v.Page = 1
	return v
}

// ToggleTag selects tag if absent and deselects it otherwise.
func (v ViewState) ToggleTag(tag string) ViewState {
	tags := make([]string, 0, len(v.Tags)+1)
	found := false
	for _, t := range v.Tags {
		if t == tag {
			found = true
			continue
		}
		tags = append(tags, t)
	}
	if !found && tag != "" {
		tags = append(tags, tag)
	}
	v.Tags = tags
	v.Page = 1
	return v
}

// Cleared drops every filter and the sort choice.
func (v ViewState) Cleared() ViewState {
	return DefaultViewState()
}

// WithPage changes only the page.
func (v ViewState) WithPage(page int) ViewState {
	v.Page = page
	return v
}
