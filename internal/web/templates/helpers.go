// Package templates renders the card browser pages as templ components.
//
// Components live in the .templ files; run `templ generate` after editing
// them. This file holds the plain Go the components call into.
package templates

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

// DatastarScript is the client bundle the pages load.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// BrowserID is the element patched on every view change.
const BrowserID = "browser"

// BrowserData is everything the browser region needs to render.
type BrowserData struct {
	View core.View
}

// Direction returns the effective sort direction.
func (d BrowserData) Direction() string {
	if d.View.State.SortDirection != "" {
		return d.View.State.SortDirection
	}
	return d.View.Settings.Card.SortDirection
}

// sortAction flips the effective direction.
func (d BrowserData) sortAction() string {
	next := core.SortDesc
	if d.Direction() == core.SortDesc {
		next = core.SortAsc
	}
	return viewAction(url.Values{"dir": {next}})
}

func (d BrowserData) sortLabel() string {
	if d.Direction() == core.SortDesc {
		return "Sort ↓"
	}
	return "Sort ↑"
}

// viewAction builds a datastar action that re-queries the browser view.
func viewAction(params url.Values) string {
	path := "/browse/view"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return "@get('" + path + "')"
}

func resetAction() string {
	return "$search = ''; " + viewAction(url.Values{"reset": {"1"}})
}

func toggleAction(key, value string) string {
	return viewAction(url.Values{"toggle": {key}, "value": {value}})
}

func searchSignals(search string) string {
	b, _ := json.Marshal(map[string]string{"search": search})
	return string(b)
}

// rootStyle carries the sizing settings as CSS variables.
func rootStyle(s core.Settings) templ.SafeCSS {
	duration := 0
	if s.Animation.EnableAnimations {
		duration = s.Animation.AnimationDuration
	}
	return templ.SafeCSS(fmt.Sprintf("--card-width:%s;--card-height:%s;--font-size:%s;--transition:%dms",
		px(s.Card.CardWidth), px(s.Card.CardHeight), px(s.DataPoint.FontSize), duration))
}

func readerStyle(rs core.ReaderSettings) templ.SafeCSS {
	return templ.SafeCSS("background:" + safeColor(rs.BackgroundColor, "#ffffff") +
		";color:" + safeColor(rs.TextColor, "#000000") +
		";font-size:" + px(rs.FontSize))
}

func barStyle(c core.Card) templ.SafeCSS {
	return templ.SafeCSS("background:" + safeColor(c.TopBarColor, core.DefaultTopBarColor))
}

func progressStyle(c core.Card, cs core.CardSettings) templ.SafeCSS {
	return templ.SafeCSS("width:" + progressPercent(c.Progress) + ";background:" + safeColor(cs.ProgressColor, "#0078d4"))
}

func countText(v core.View) string {
	return strconv.Itoa(len(v.Cards)) + " of " + strconv.Itoa(v.Total) + " cards"
}

func cardHref(id string) string {
	return "/cards/" + url.PathEscape(id)
}

// imageSrc replaces unsafe URL schemes; src is not a URL attribute to templ.
func imageSrc(u string) string {
	return string(templ.URL(u))
}

// profileImages caps the images shown on a tile.
func profileImages(c core.Card, limit int) []string {
	return c.ProfileImages[:min(len(c.ProfileImages), max(limit, 0))]
}

// readerBody falls back to the summary when a card has no content.
func readerBody(c core.Card) string {
	if c.Content != "" {
		return c.Content
	}
	return c.Summary
}

func metadataValue(c core.Card, key string) string {
	v, _ := c.MetadataString(key)
	return v
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// safeColor returns c when it is a hex color, fallback otherwise. Card colors
// come from data and end up inside style attributes.
func safeColor(c, fallback string) string {
	if hexColor.MatchString(c) {
		return c
	}
	return fallback
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func joinNonEmpty(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// progressPercent renders a 0..1 fraction, or a 0..100 value, as a CSS width.
func progressPercent(p float64) string {
	if p <= 1 {
		p *= 100
	}
	if p > 100 {
		p = 100
	}
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func px(n int) string {
	return strconv.Itoa(n) + "px"
}
