package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allEnabled() ViewOptions {
	return ViewOptions{EnableSearch: true, EnableFilters: true, SortDirection: SortAsc}
}

func titles(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

// metadataDataset builds cards with region/tier metadata and an optional sort field.
func metadataDataset(withSort bool) Dataset {
	rs := ResultSet{
		Categories: []Column{
			{DisplayName: "Title", Values: []any{"Quarterly Report", "Annual Plan", "Weekly Notes", "Budget"}},
			{DisplayName: "Subtitle Fields", Values: []any{"Finance", "Strategy", "Ops", "Finance"}},
		},
		Measures: []Column{
			{DisplayName: "Preview", Values: []any{"Q3 numbers", "Goals for next year", "Standup notes", "Draft"}},
			{DisplayName: "Content", Values: []any{"", "", "Contains the word ROADMAP", ""}},
			{DisplayName: "MetaData Fields", Values: []any{
				map[string]any{"region": "US", "tier": "Gold"},
				map[string]any{"region": "US", "tier": "Silver"},
				map[string]any{"region": "EU", "tier": "Gold"},
				map[string]any{"tier": 1.0},
			}},
		},
	}
	if withSort {
		rs.Categories = append(rs.Categories, Column{
			DisplayName: "Sort Field",
			Values:      []any{"b", "a", "b", "c"},
		})
	}
	return AdaptDataset(rs, DefaultColumnNames())
}

// ----------------------------------------------------------------------------
// Identity
// ----------------------------------------------------------------------------

func TestApply_EmptyStateReturnsCardsUnchanged(t *testing.T) {
	ds := metadataDataset(false)
	got := Apply(ds, ViewState{}, allEnabled())
	assert.Equal(t, ds.Cards, got)
}

func TestApply_EmptyFilterSetsImposeNothing(t *testing.T) {
	ds := metadataDataset(false)
	state := ViewState{Filters: map[string][]string{"region": {}, "tier": nil}}
	assert.Equal(t, ds.Cards, Apply(ds, state, allEnabled()))
}

// ----------------------------------------------------------------------------
// Search
// ----------------------------------------------------------------------------

func TestApply_Search(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "case insensitive title", term: "quarterly", want: []string{"Quarterly Report"}},
		{name: "summary", term: "GOALS", want: []string{"Annual Plan"}},
		{name: "content", term: "roadmap", want: []string{"Weekly Notes"}},
		{name: "subtitle", term: "finance", want: []string{"Quarterly Report", "Budget"}},
		{name: "trimmed", term: "  budget  ", want: []string{"Budget"}},
		{name: "blank passes all", term: "   ", want: []string{"Quarterly Report", "Annual Plan", "Weekly Notes", "Budget"}},
		{name: "no match", term: "zzz", want: []string{}},
	}

	ds := metadataDataset(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(ds, ViewState{Search: tt.term}, allEnabled())
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestApply_SearchScenario(t *testing.T) {
	ds := AdaptDataset(scenarioResultSet(), DefaultColumnNames())
	got := Apply(ds, ViewState{Search: "beta"}, allEnabled())
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestApply_SearchDisabled(t *testing.T) {
	ds := metadataDataset(false)
	opts := allEnabled()
	opts.EnableSearch = false
	got := Apply(ds, ViewState{Search: "quarterly"}, opts)
	assert.Len(t, got, 4)
}

// ----------------------------------------------------------------------------
// Filters
// ----------------------------------------------------------------------------

func TestApply_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string][]string
		want    []string
	}{
		{
			name:    "single key",
			filters: map[string][]string{"region": {"US"}},
			want:    []string{"Quarterly Report", "Annual Plan"},
		},
		{
			name:    "AND across keys",
			filters: map[string][]string{"region": {"US"}, "tier": {"Gold"}},
			want:    []string{"Quarterly Report"},
		},
		{
			name:    "OR within a key",
			filters: map[string][]string{"region": {"US", "EU"}},
			want:    []string{"Quarterly Report", "Annual Plan", "Weekly Notes"},
		},
		{
			name:    "missing key excludes card",
			filters: map[string][]string{"region": {"US", "EU", ""}},
			want:    []string{"Quarterly Report", "Annual Plan", "Weekly Notes"},
		},
		{
			name:    "numeric values compare by string form",
			filters: map[string][]string{"tier": {"1"}},
			want:    []string{"Budget"},
		},
	}

	ds := metadataDataset(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(ds, ViewState{Filters: tt.filters}, allEnabled())
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestApply_FiltersDisabled(t *testing.T) {
	ds := metadataDataset(false)
	opts := allEnabled()
	opts.EnableFilters = false
	got := Apply(ds, ViewState{Filters: map[string][]string{"region": {"US"}}}, opts)
	assert.Len(t, got, 4)
}

func TestApply_SearchThenFilter(t *testing.T) {
	ds := metadataDataset(false)
	state := ViewState{Search: "finance", Filters: map[string][]string{"tier": {"Gold"}}}
	assert.Equal(t, []string{"Quarterly Report"}, titles(Apply(ds, state, allEnabled())))
}

// ----------------------------------------------------------------------------
// Sort
// ----------------------------------------------------------------------------

func TestApply_SortIsStable(t *testing.T) {
	ds := metadataDataset(true)

	asc := Apply(ds, ViewState{}, allEnabled())
	assert.Equal(t, []string{"Annual Plan", "Quarterly Report", "Weekly Notes", "Budget"}, titles(asc))

	opts := allEnabled()
	opts.SortDirection = SortDesc
	desc := Apply(ds, ViewState{}, opts)
	// "Quarterly Report" and "Weekly Notes" share key "b" and keep input order.
	assert.Equal(t, []string{"Budget", "Quarterly Report", "Weekly Notes", "Annual Plan"}, titles(desc))
}

func TestApply_StateDirectionOverridesOptions(t *testing.T) {
	ds := metadataDataset(true)
	got := Apply(ds, ViewState{SortDirection: SortDesc}, allEnabled())
	assert.Equal(t, "Budget", got[0].Title)
}

func TestApply_NoSortFieldKeepsInputOrder(t *testing.T) {
	ds := metadataDataset(false)
	opts := allEnabled()
	opts.SortDirection = SortDesc
	assert.Equal(t, ds.Cards, Apply(ds, ViewState{}, opts))
}

func TestApply_SortIsLocaleAware(t *testing.T) {
	rs := ResultSet{
		Categories: []Column{
			{DisplayName: "Title", Values: []any{"zeta", "Ábaco", "beta"}},
			{DisplayName: "Sort Field", Values: []any{"zeta", "Ábaco", "beta"}},
		},
	}
	ds := AdaptDataset(rs, DefaultColumnNames())

	got := Apply(ds, ViewState{}, ViewOptions{SortDirection: SortAsc, Locale: "es"})
	assert.Equal(t, []string{"Ábaco", "beta", "zeta"}, titles(got))
}

func TestApply_SortAfterFilter(t *testing.T) {
	ds := metadataDataset(true)
	state := ViewState{Filters: map[string][]string{"tier": {"Gold"}}, SortDirection: SortDesc}
	assert.Equal(t, []string{"Quarterly Report", "Weekly Notes"}, titles(Apply(ds, state, allEnabled())))
}

// ----------------------------------------------------------------------------
// Idempotence
// ----------------------------------------------------------------------------

func TestDatasetApply_Idempotent(t *testing.T) {
	states := []ViewState{
		{},
		{Search: "finance"},
		{Filters: map[string][]string{"region": {"US"}}},
		{Search: "o", Filters: map[string][]string{"tier": {"Gold"}}, SortDirection: SortDesc},
	}

	for _, withSort := range []bool{false, true} {
		ds := metadataDataset(withSort)
		for _, state := range states {
			once := ds.Apply(state, allEnabled())
			twice := once.Apply(state, allEnabled())
			assert.Equal(t, once, twice)
		}
	}
}

func TestDatasetApply_DoesNotMutateInput(t *testing.T) {
	ds := metadataDataset(true)
	before := append([]string(nil), ds.SortKeys...)
	beforeTitles := titles(ds.Cards)

	ds.Apply(ViewState{SortDirection: SortDesc}, allEnabled())

	assert.Equal(t, before, ds.SortKeys)
	assert.Equal(t, beforeTitles, titles(ds.Cards))
}

func TestViewState_ToggleFilter(t *testing.T) {
	orig := ViewState{Search: "x", Filters: map[string][]string{"region": {"US"}}}

	added := orig.ToggleFilter("region", "EU")
	assert.Equal(t, []string{"US", "EU"}, added.Filters["region"])
	assert.Equal(t, "x", added.Search)
	assert.Equal(t, []string{"US"}, orig.Filters["region"], "receiver must not change")

	removed := added.ToggleFilter("region", "US")
	assert.Equal(t, []string{"EU"}, removed.Filters["region"])

	cleared := removed.ToggleFilter("region", "EU")
	_, ok := cleared.Filters["region"]
	assert.False(t, ok, "key without accepted values is dropped")

	fromZero := ViewState{}.ToggleFilter("team", "a")
	assert.Equal(t, map[string][]string{"team": {"a"}}, fromZero.Filters)
}
