package catalog

import (
	"math"
	"net/url"
)

// Page is one window of a sorted listing. StartIndex is zero-based and may
// lie past the end of the listing, in which case Items is empty.
type Page struct {
	Items      []Entry `json:"items"`
	TotalPages int     `json:"total_pages"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
}

// Paginate cuts page (1-based) of pageSize entries out of sorted. It does not
// clamp page; a start index too large for an int saturates at math.MaxInt.
func Paginate(sorted []Entry, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	n := len(sorted)
	start := pageStart(page, pageSize)
	end := n
	if start <= n-pageSize {
		end = start + pageSize
	}

	lo := max(start, 0)
	hi := max(end, lo)
	items := []Entry{}
	if lo < n {
		items = append(items, sorted[lo:hi]...)
	}

	return Page{
		Items:      items,
		TotalPages: (n + pageSize - 1) / pageSize,
		StartIndex: start,
		EndIndex:   end,
	}
}

func pageStart(page, pageSize int) int {
	if page < 1 {
		if page < math.MinInt/pageSize+1 {
			return math.MinInt
		}
	} else if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// Links are the encoded query strings of the pages around the current one.
// An empty string means there is no such page.
type Links struct {
	Self  string `json:"self"`
	First string `json:"first,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last,omitempty"`
}

// PageLinks builds navigation links for v given the listing's totalPages.
func PageLinks(v ViewState, totalPages int) Links {
	enc := func(s ViewState) string { return encodeQuery(EncodeViewState(s)) }

	links := Links{Self: enc(v)}
	if totalPages == 0 {
		return links
	}
	links.First = enc(v.WithPage(1))
	links.Last = enc(v.WithPage(totalPages))
	if v.Page > 1 && v.Page <= totalPages {
		links.Prev = enc(v.WithPage(v.Page - 1))
	}
	if v.Page < totalPages {
		links.Next = enc(v.WithPage(v.Page + 1))
	}
	return links
}

func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Facets summarises the filterable attributes of a collection.
type Facets struct {
	Tags           []string `json:"tags"`
	Paid           int      `json:"paid"`
	Free           int      `json:"free"`
	MobileFriendly int      `json:"mobile_friendly"`
}

func ComputeFacets(entries []Entry) Facets {
	f := Facets{Tags: ComputeAllTags(entries)}
	for _, e := range entries {
		if e.IsPaid {
			f.Paid++
		} else {
			f.Free++
		}
		if e.IsMobileFriendly {
			f.MobileFriendly++
		}
	}
	return f
}
