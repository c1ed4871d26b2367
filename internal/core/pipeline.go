package core

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Apply runs the view pipeline and returns the cards to display.
func Apply(ds Dataset, state ViewState, opts ViewOptions) []Card {
	return ds.Apply(state, opts).Cards
}

// Apply returns the filtered view of d: search, then metadata filters, then sort.
//
// Search and filters only exclude cards and never reorder them. The sort runs
// only when d carries sort keys and is stable in both directions, so cards
// with equal keys keep their input order. The result keeps its sort keys
// aligned with its cards, which makes Apply idempotent for a fixed state.
// d is not modified.
func (d Dataset) Apply(state ViewState, opts ViewOptions) Dataset {
	rows := make([]int, 0, len(d.Cards))

	var term string
	if opts.EnableSearch {
		term = foldString(strings.TrimSpace(state.Search))
	}

	var filters map[string]map[string]bool
	if opts.EnableFilters {
		filters = acceptedSets(state.Filters)
	}

	for i := range d.Cards {
		if term != "" && !matchesSearch(d.Cards[i], term) {
			continue
		}
		if len(filters) > 0 && !matchesFilters(d.Cards[i], filters) {
			continue
		}
		rows = append(rows, i)
	}

	if d.HasSortField() {
		dir := opts.SortDirection
		if state.SortDirection != "" {
			dir = state.SortDirection
		}
		sortRows(rows, d.SortKeys, dir, opts.Locale)
	}

	out := Dataset{Cards: make([]Card, len(rows))}
	if d.HasSortField() {
		out.SortKeys = make([]string, len(rows))
	}
	for i, row := range rows {
		out.Cards[i] = d.Cards[row]
		if out.SortKeys != nil {
			out.SortKeys[i] = d.SortKeys[row]
		}
	}
	return out
}

// foldString applies Unicode case folding for case-insensitive comparison.
func foldString(s string) string {
	return cases.Fold().String(s)
}

// matchesSearch reports whether the folded term occurs in any searchable field.
func matchesSearch(c Card, term string) bool {
	if strings.Contains(foldString(c.Title), term) ||
		strings.Contains(foldString(c.Summary), term) ||
		strings.Contains(foldString(c.Content), term) {
		return true
	}
	for _, s := range c.Subtitle {
		if strings.Contains(foldString(s), term) {
			return true
		}
	}
	return false
}

// acceptedSets converts filter state into lookup sets.
// Keys with no accepted values impose no constraint and are dropped.
func acceptedSets(filters map[string][]string) map[string]map[string]bool {
	sets := make(map[string]map[string]bool, len(filters))
	for key, accepted := range filters {
		if len(accepted) == 0 {
			continue
		}
		set := make(map[string]bool, len(accepted))
		for _, v := range accepted {
			set[v] = true
		}
		sets[key] = set
	}
	return sets
}

// matchesFilters reports whether the card passes every filter (AND across keys).
func matchesFilters(c Card, sets map[string]map[string]bool) bool {
	for key, set := range sets {
		val, ok := c.MetadataString(key)
		if !ok || !set[val] {
			return false
		}
	}
	return true
}

// sortRows stably orders row indices by their sort key.
func sortRows(rows []int, keys []string, dir, locale string) {
	col := newCollator(locale)
	desc := dir == SortDesc

	sort.SliceStable(rows, func(i, j int) bool {
		c := col.CompareString(keys[rows[i]], keys[rows[j]])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// newCollator returns a collator for the locale, falling back to English.
// Collators are not safe for concurrent use, so each pipeline run builds its own.
func newCollator(locale string) *collate.Collator {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return collate.New(tag)
}
