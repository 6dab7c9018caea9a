package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testEntries() []Entry {
	return []Entry{
		{
			ID:               "fluent",
			Name:             "Fluent UILIB",
			Description:      "Good ui library in style of fluent or windows 11 ui.",
			Author:           "d3wid",
			Tags:             []string{"Best", "Minimalistic"},
			IsMobileFriendly: true,
			CreatedAt:        base.Add(3 * time.Hour),
		},
		{
			ID:          "orion",
			Name:        "Orion",
			Description: "Clean library with key system",
			Author:      "shlex",
			Tags:        []string{"Minimalistic", "Keysystem"},
			IsPaid:      true,
			CreatedAt:   base.Add(1 * time.Hour),
		},
		{
			ID:          "linoria",
			Name:        "Linoria",
			Description: "Classic dark library",
			Author:      "Inori",
			Tags:        []string{"Dark"},
			CreatedAt:   base.Add(2 * time.Hour),
		},
	}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestComputeAllTags(t *testing.T) {
	tags := ComputeAllTags(testEntries())
	assert.Equal(t, []string{"Best", "Minimalistic", "Keysystem", "Dark"}, tags)

	assert.Empty(t, ComputeAllTags(nil))
}

func TestFilterTags(t *testing.T) {
	all := []string{"Best", "Minimalistic", "Keysystem", "Dark"}

	t.Run("empty query returns all", func(t *testing.T) {
		assert.Equal(t, all, FilterTags(all, ""))
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		assert.Equal(t, []string{"Minimalistic", "Keysystem"}, FilterTags(all, "S"))
		assert.Equal(t, []string{"Dark"}, FilterTags(all, "dAr"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FilterTags(all, "zzz"))
	})
}

func TestFilterAndSort_DefaultStateKeepsEverything(t *testing.T) {
	entries := testEntries()
	got := FilterAndSort(entries, DefaultViewState(), nil)
	assert.Len(t, got, len(entries))
	assert.Equal(t, []string{"fluent", "linoria", "orion"}, ids(got))
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	entries := testEntries()
	before := ids(entries)

	v := DefaultViewState().WithSort(SortName)
	_ = FilterAndSort(entries, v, nil)

	assert.Equal(t, before, ids(entries))
}

func TestFilterAndSort_Search(t *testing.T) {
	entries := testEntries()

	t.Run("all terms must match", func(t *testing.T) {
		v := DefaultViewState().WithSearch("fluent d3wid")
		assert.Equal(t, []string{"fluent"}, ids(FilterAndSort(entries, v, nil)))

		v = DefaultViewState().WithSearch("fluent xyz")
		assert.Empty(t, FilterAndSort(entries, v, nil))
	})

	t.Run("matches tags", func(t *testing.T) {
		v := DefaultViewState().WithSearch("keysys")
		assert.Equal(t, []string{"orion"}, ids(FilterAndSort(entries, v, nil)))
	})

	t.Run("whitespace only matches all", func(t *testing.T) {
		v := DefaultViewState().WithSearch("   ")
		assert.Len(t, FilterAndSort(entries, v, nil), 3)
	})
}

func TestFilterAndSort_Price(t *testing.T) {
	entries := testEntries()

	v := DefaultViewState().WithFree(false)
	assert.Equal(t, []string{"orion"}, ids(FilterAndSort(entries, v, nil)))

	v = DefaultViewState().WithPaid(false)
	assert.Equal(t, []string{"fluent", "linoria"}, ids(FilterAndSort(entries, v, nil)))

	v = DefaultViewState().WithPaid(false).WithFree(false)
	assert.Empty(t, FilterAndSort(entries, v, nil))
}

func TestFilterAndSort_MobileOnly(t *testing.T) {
	v := DefaultViewState().WithMobileOnly(true)
	assert.Equal(t, []string{"fluent"}, ids(FilterAndSort(testEntries(), v, nil)))
}

func TestFilterAndSort_TagsUseAndSemantics(t *testing.T) {
	entries := []Entry{
		{ID: "ab", Tags: []string{"a", "b"}, CreatedAt: base},
	}

	v := DefaultViewState().ToggleTag("a").ToggleTag("b")
	assert.Len(t, FilterAndSort(entries, v, nil), 1)

	v = DefaultViewState().ToggleTag("a").ToggleTag("c")
	assert.Empty(t, FilterAndSort(entries, v, nil))
}

func TestFilterAndSort_FavoritesOnly(t *testing.T) {
	v := DefaultViewState().WithFavoritesOnly(true)

	got := FilterAndSort(testEntries(), v, NewFavoriteSet("orion", "missing"))
	assert.Equal(t, []string{"orion"}, ids(got))

	assert.Empty(t, FilterAndSort(testEntries(), v, nil))
}

func TestFilterAndSort_Sort(t *testing.T) {
	entries := testEntries()

	tests := []struct {
		sort Sort
		want []string
	}{
		{SortNewest, []string{"fluent", "linoria", "orion"}},
		{SortOldest, []string{"orion", "linoria", "fluent"}},
		{SortName, []string{"fluent", "linoria", "orion"}},
		{SortAuthor, []string{"fluent", "linoria", "orion"}},
		{Sort("bogus"), []string{"fluent", "linoria", "orion"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			v := DefaultViewState()
			v.Sort = tt.sort
			assert.Equal(t, tt.want, ids(FilterAndSort(entries, v, nil)))
		})
	}
}

func TestFilterAndSort_NameSortIgnoresCase(t *testing.T) {
	entries := []Entry{
		{ID: "1", Name: "beta", CreatedAt: base},
		{ID: "2", Name: "Alpha", CreatedAt: base},
		{ID: "3", Name: "alpha2", CreatedAt: base},
	}
	v := DefaultViewState().WithSort(SortName)
	assert.Equal(t, []string{"2", "3", "1"}, ids(FilterAndSort(entries, v, nil)))
}

func TestFilterAndSort_StableOnTies(t *testing.T) {
	entries := make([]Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, Entry{ID: fmt.Sprintf("e%d", i), Author: "same", CreatedAt: base})
	}

	for _, s := range []Sort{SortNewest, SortOldest, SortAuthor} {
		v := DefaultViewState().WithSort(s)
		assert.Equal(t, ids(entries), ids(FilterAndSort(entries, v, nil)), "sort %s", s)
	}
}

func TestFilterAndSort_Idempotent(t *testing.T) {
	entries := testEntries()
	v := DefaultViewState().WithSearch("library").WithSort(SortAuthor)

	first := FilterAndSort(entries, v, nil)
	second := FilterAndSort(entries, v, nil)
	require.Equal(t, first, second)
}
