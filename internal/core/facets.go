package core

import (
	"sort"

	"golang.org/x/text/collate"
)

// Facets lists every metadata key with its distinct values and counts.
// Keys and values are ordered by the locale's collation; the filter controls
// of a presentation layer are built from this.
func Facets(cards []Card, locale string) []Facet {
	counts := make(map[string]map[string]int)
	for _, c := range cards {
		for key := range c.Metadata {
			val, _ := c.MetadataString(key)
			values, ok := counts[key]
			if !ok {
				values = make(map[string]int)
				counts[key] = values
			}
			values[val]++
		}
	}

	col := newCollator(locale)

	facets := make([]Facet, 0, len(counts))
	for key, values := range counts {
		f := Facet{Key: key, Values: make([]FacetValue, 0, len(values))}
		for v, n := range values {
			f.Values = append(f.Values, FacetValue{Value: v, Count: n})
		}
		sort.Slice(f.Values, func(i, j int) bool {
			return collatedLess(col, f.Values[i].Value, f.Values[j].Value)
		})
		facets = append(facets, f)
	}

	sort.Slice(facets, func(i, j int) bool {
		return collatedLess(col, facets[i].Key, facets[j].Key)
	})
	return facets
}

// collatedLess orders by collation, falling back to byte order for strings
// the collator considers equal so the result is deterministic.
func collatedLess(col *collate.Collator, a, b string) bool {
	if c := col.CompareString(a, b); c != 0 {
		return c < 0
	}
	return a < b
}
