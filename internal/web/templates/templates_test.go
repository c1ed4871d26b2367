package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func sampleView() core.View {
	return core.View{
		Version: "v1",
		Cards: []core.Card{{
			ID:            "doc 1",
			Title:         "<Alpha>",
			Summary:       "sum A",
			Subtitle:      []string{"Finance", "", "Q3"},
			ImageURL:      "javascript:alert(1)",
			TopBarColor:   "red;position:fixed",
			Metadata:      map[string]any{"region": "US"},
			ProfileImages: []string{"a.png", "b.png", "c.png"},
			Progress:      0.5,
		}},
		Total:    2,
		Facets:   []core.Facet{{Key: "region", Values: []core.FacetValue{{Value: "EU", Count: 1}, {Value: "US", Count: 1}}}},
		Settings: core.DefaultSettings(),
		State:    core.ViewState{Filters: map[string][]string{"region": {"US"}}},
	}
}

func TestBrowserPage(t *testing.T) {
	v := sampleView()
	v.Sortable = true
	out := render(t, BrowserPage(BrowserData{View: v}))

	for _, want := range []string{
		"<!doctype html>",
		DatastarScript,
		`data-init="@get('/browse/updates')"`,
		"--card-width:",
		`id="browser"`,
		`data-version="v1"`,
		"1 of 2 cards",
		`id="sort-toggle"`,
		"/browse/export",
	} {
		assert.Contains(t, out, want)
	}
}

func TestToolbar_RespectsSettings(t *testing.T) {
	v := sampleView()
	v.Settings.Card.EnableSearch = false
	v.Settings.Card.EnableExport = false

	out := render(t, Toolbar(BrowserData{View: v}))
	assert.NotContains(t, out, `type="search"`)
	assert.NotContains(t, out, "export-link")
	assert.NotContains(t, out, "sort-toggle")
}

func TestCardTile_EscapesData(t *testing.T) {
	v := sampleView()
	out := render(t, CardTile(v.Cards[0], v.Settings))

	assert.Contains(t, out, "&lt;Alpha&gt;")
	assert.NotContains(t, out, "<Alpha>")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "background:"+core.DefaultTopBarColor)
	assert.Contains(t, out, `href="/cards/doc%201"`)
	assert.Contains(t, out, "Finance • Q3")
	assert.Contains(t, out, "width:50.0%")
}

func TestCardTile_ProfileImagesCapped(t *testing.T) {
	v := sampleView()
	v.Settings.Card.MaxProfileImages = 2

	out := render(t, CardTile(v.Cards[0], v.Settings))
	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "b.png")
	assert.NotContains(t, out, "c.png")
}

func TestGrid_EmptyStates(t *testing.T) {
	noData := core.View{Settings: core.DefaultSettings()}
	assert.Contains(t, render(t, Grid(noData)), "No data")

	noMatch := core.View{Total: 3, Settings: core.DefaultSettings()}
	out := render(t, Grid(noMatch))
	assert.Contains(t, out, "No matching cards")
	assert.NotContains(t, out, "No data")
}

func TestFacetPanel_MarksActiveValues(t *testing.T) {
	v := sampleView()
	out := render(t, FacetPanel(v.Facets, v.State.Filters))

	assert.Contains(t, out, "<legend>region</legend>")
	assert.Contains(t, out, "toggle=region&amp;value=US")
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte(" checked")))
}

func TestReaderPage(t *testing.T) {
	s := core.DefaultSettings()
	s.Reader.BackgroundColor = "#101010"
	c := core.Card{Title: "Alpha", Content: "Long body", Summary: "short"}

	out := render(t, ReaderPage(c, s))
	assert.Contains(t, out, "background:#101010")
	assert.Contains(t, out, "Long body")
	assert.Contains(t, out, `id="back"`)

	c.ImageURL = "hero.png"
	s.Reader.EnableImageZoom = true
	out = render(t, ReaderPage(c, s))
	assert.Contains(t, out, `class="hero zoom"`)

	s.Reader.ShowBackButton = false
	s.Reader.EnableImageZoom = false
	c.ImageURL = ""
	c.Content = ""
	out = render(t, ReaderPage(c, s))
	assert.NotContains(t, out, `id="back"`)
	assert.Contains(t, out, "short")
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert("Not found", "Go back", "CARD001"))
	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "Code: CARD001")
}
