package core

import "time"

// Column is one named column of a host result set.
type Column struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	Values      []any  `json:"values" yaml:"values"`
}

// ResultSet is the columnar query result delivered by the host.
// Categories hold discrete attributes, Measures hold aggregated values.
type ResultSet struct {
	Categories []Column `json:"categories" yaml:"categories"`
	Measures   []Column `json:"measures" yaml:"measures"`
}

// RowCount returns the number of rows, taken from the first category column.
func (rs ResultSet) RowCount() int {
	if len(rs.Categories) == 0 {
		return 0
	}
	return len(rs.Categories[0].Values)
}

// DefaultTopBarColor is the accent used when a row carries no top bar color.
const DefaultTopBarColor = "#0078D4"

// Card is one row of the adapted, card-shaped view model.
type Card struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Content       string         `json:"content"`
	ImageURL      string         `json:"imageUrl"`
	Subtitle      []string       `json:"subtitle"`
	BadgeImageURL string         `json:"badgeImageUrl"`
	Metadata      map[string]any `json:"metadata"`
	TopBarColor   string         `json:"topBarColor"`
	ProfileImages []string       `json:"profileImages"`
	Progress      float64        `json:"progress"`
}

// MetadataString returns the string form of metadata[key] and whether the key exists.
func (c Card) MetadataString(key string) (string, bool) {
	v, ok := c.Metadata[key]
	if !ok {
		return "", false
	}
	return scalarString(v), true
}

// Dataset is the adapter output: cards in input row order plus, when a sort
// field column was resolved, the per-row sort key aligned with Cards.
type Dataset struct {
	Cards    []Card
	SortKeys []string // nil when no sort field column exists
}

// HasSortField reports whether the dataset carries sort keys.
func (d Dataset) HasSortField() bool {
	return d.SortKeys != nil
}

// Len returns the number of cards.
func (d Dataset) Len() int {
	return len(d.Cards)
}

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// View modes.
const (
	ViewGrid    = "grid"
	ViewList    = "list"
	ViewGallery = "gallery"
)

// ViewState is the per-session Filter/Search State.
// It is passed into the pipeline explicitly; nothing reads it from ambient state.
type ViewState struct {
	Search        string              `json:"search"`
	Filters       map[string][]string `json:"filters,omitempty"`
	SortDirection string              `json:"sortDirection,omitempty"` // overrides the configured direction when set
}

// IsZero reports whether the state imposes no search, filters or sort override.
func (s ViewState) IsZero() bool {
	if s.Search != "" || s.SortDirection != "" {
		return false
	}
	for _, accepted := range s.Filters {
		if len(accepted) > 0 {
			return false
		}
	}
	return true
}

// ToggleFilter returns a copy of s with value added to the accepted set of
// key, or removed when already present. s is not modified.
func (s ViewState) ToggleFilter(key, value string) ViewState {
	out := make(map[string][]string, len(s.Filters)+1)
	for k, v := range s.Filters {
		out[k] = append([]string(nil), v...)
	}

	accepted := out[key]
	for i, v := range accepted {
		if v == value {
			accepted = append(accepted[:i], accepted[i+1:]...)
			if len(accepted) == 0 {
				delete(out, key)
			} else {
				out[key] = accepted
			}
			s.Filters = out
			return s
		}
	}
	out[key] = append(accepted, value)
	s.Filters = out
	return s
}

// ViewOptions are the read-only configuration inputs of the pipeline.
type ViewOptions struct {
	EnableSearch  bool
	EnableFilters bool
	SortDirection string // "asc" or "desc"
	Locale        string // BCP 47 tag used for collation; "en" when empty
}

// FacetValue is one distinct metadata value and how many cards carry it.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facet lists the distinct values of one metadata key.
type Facet struct {
	Key    string       `json:"key"`
	Values []FacetValue `json:"values"`
}

// Snapshot is an immutable published state of the browser data.
type Snapshot struct {
	Version    string
	Dataset    Dataset
	Settings   Settings
	Resolution Resolution
	UpdatedAt  time.Time
}

// View is the filtered view handed to a presentation layer.
type View struct {
	Version  string    `json:"version"`
	Cards    []Card    `json:"cards"`
	Total    int       `json:"total"` // cards in the snapshot before search and filters
	Sortable bool      `json:"sortable"`
	Facets   []Facet   `json:"facets,omitempty"`
	Settings Settings  `json:"-"`
	State    ViewState `json:"state"`
}

// HasData reports whether the snapshot held any cards at all.
func (v View) HasData() bool {
	return v.Total > 0
}
