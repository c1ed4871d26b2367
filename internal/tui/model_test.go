package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

func testService(t *testing.T) *core.Service {
	t.Helper()
	svc := core.NewService(core.DefaultColumnNames())
	rs := core.ResultSet{
		Categories: []core.Column{
			{DisplayName: "Title", Values: []any{"Alpha", "Beta", "Gamma"}},
			{DisplayName: "Sort Field", Values: []any{"c", "a", "b"}},
		},
		Measures: []core.Column{
			{DisplayName: "Preview", Values: []any{"first", "second", "third"}},
			{DisplayName: "MetaData Fields", Values: []any{
				map[string]any{"region": "US"},
				map[string]any{"region": "EU"},
				map[string]any{"region": "US"},
			}},
		},
	}
	svc.Update(context.Background(), rs, core.DefaultSettings())
	return svc
}

func newModel(t *testing.T, svc *core.Service) Model {
	t.Helper()
	m := New(svc)
	t.Cleanup(m.Close)
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func cardTitles(m Model) []string {
	out := make([]string, len(m.view.Cards))
	for i, c := range m.view.Cards {
		out[i] = c.Title
	}
	return out
}

func TestModel_InitialView(t *testing.T) {
	m := newModel(t, testService(t))

	assert.Equal(t, []string{"Beta", "Gamma", "Alpha"}, cardTitles(m))
	out := m.View()
	assert.Contains(t, out, "Cards  3 of 3")
	assert.Contains(t, out, "> Beta")
}

func TestModel_Search(t *testing.T) {
	m := newModel(t, testService(t))

	m = press(t, m, "/", "t", "h", "i")
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, "thi", m.state.Search)
	assert.Equal(t, []string{"Gamma"}, cardTitles(m))

	m = press(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "thi", m.state.Search, "leaving search keeps the term")
}

func TestModel_SearchNoMatches(t *testing.T) {
	m := newModel(t, testService(t))

	m = press(t, m, "/", "z", "z", "esc")
	assert.Contains(t, m.View(), "No matching cards")
}

func TestModel_SortToggle(t *testing.T) {
	m := newModel(t, testService(t))

	m = press(t, m, "s")
	assert.Equal(t, []string{"Alpha", "Gamma", "Beta"}, cardTitles(m))
	assert.Equal(t, core.SortDesc, m.direction())

	m = press(t, m, "s")
	assert.Equal(t, []string{"Beta", "Gamma", "Alpha"}, cardTitles(m))
}

func TestModel_FilterMenu(t *testing.T) {
	m := newModel(t, testService(t))

	m = press(t, m, "f")
	require.Equal(t, modeMenu, m.mode)
	assert.Equal(t, "Filters", m.menu.Title)

	// Into "region", then EU is the first value.
	m = press(t, m, "enter")
	require.Equal(t, "region", m.menu.Title)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Equal(t, []string{"Beta"}, cardTitles(m))
	assert.Equal(t, "region", m.menu.Title, "menu stays on the same key after a toggle")
	assert.Contains(t, m.View(), "[x] EU (1)")

	// Back to the root, then close.
	m = press(t, m, "esc", "esc")
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "filters: region=EU")
}

func TestModel_ResetClearsState(t *testing.T) {
	m := newModel(t, testService(t))

	m = press(t, m, "/", "a", "enter", "s", "r")
	assert.True(t, m.state.IsZero())
	assert.Empty(t, m.search.Value())
	assert.Len(t, m.view.Cards, 3)
}

func TestModel_Reader(t *testing.T) {
	m := newModel(t, testService(t))

	m = press(t, m, "down", "enter")
	require.Equal(t, modeReader, m.mode)
	out := m.View()
	assert.Contains(t, out, "Gamma")
	assert.Contains(t, out, "third")
	assert.Contains(t, out, "region: US")

	m = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
}

func TestModel_SnapshotResetsState(t *testing.T) {
	svc := testService(t)
	m := newModel(t, svc)
	m = press(t, m, "/", "a", "enter")

	svc.Update(context.Background(), core.ResultSet{
		Categories: []core.Column{{DisplayName: "Title", Values: []any{"Fresh"}}},
	}, core.DefaultSettings())

	msg := m.Init()()
	require.IsType(t, snapshotMsg(""), msg)

	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.NotNil(t, cmd, "keeps waiting for snapshots")
	assert.True(t, m.state.IsZero())
	assert.Equal(t, []string{"Fresh"}, cardTitles(m))
	assert.Contains(t, m.View(), "Data updated")
}

func TestModel_EmptyService(t *testing.T) {
	m := newModel(t, core.NewService(core.DefaultColumnNames()))

	assert.Contains(t, m.View(), "No data")
	m = press(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	m = press(t, m, "s")
	assert.Equal(t, "Cards have no sort field", m.status)
}

func TestBuildFilterMenu(t *testing.T) {
	facets := []core.Facet{
		{Key: "region", Values: []core.FacetValue{{Value: "EU", Count: 1}, {Value: "US", Count: 2}}},
	}
	menu := buildFilterMenu(facets, map[string][]string{"region": {"US"}})

	require.Len(t, menu.Items, 2)
	assert.Equal(t, "region (1) ->", menu.Items[0].Label)
	assert.Equal(t, backLabel, menu.Items[1].Label)
	assert.Nil(t, menu.Parent)

	sub := menu.Items[0].Submenu
	require.NotNil(t, sub)
	assert.Same(t, menu, sub.Parent)
	assert.Equal(t, "[ ] EU (1)", sub.Items[0].Label)
	assert.Equal(t, "[x] US (2)", sub.Items[1].Label)
	assert.Same(t, menu, sub.Items[2].Submenu, "Back points at the parent")

	assert.Same(t, sub, findSubmenu(menu, "region"))
	assert.Same(t, menu, findSubmenu(menu, "missing"))
}

func TestProgressFraction(t *testing.T) {
	assert.InDelta(t, 0.5, progressFraction(0.5), 1e-9)
	assert.InDelta(t, 0.42, progressFraction(42), 1e-9)
	assert.InDelta(t, 1.0, progressFraction(250), 1e-9)
	assert.InDelta(t, 0.0, progressFraction(-3), 1e-9)
}
