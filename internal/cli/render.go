package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

// maxCellWidth truncates long text cells in table output.
const maxCellWidth = 48

func renderView(w io.Writer, v core.View, format string) error {
	switch format {
	case outputJSON:
		return renderJSON(w, v)
	case outputCSV:
		if !v.Settings.Card.EnableExport {
			return core.ErrExportDisabled
		}
		return core.WriteCSV(w, v.Cards)
	}

	if !v.HasData() {
		_, _ = fmt.Fprintln(w, "No data")
		return nil
	}
	if len(v.Cards) == 0 {
		_, _ = fmt.Fprintf(w, "No matching cards (0 of %d)\n", v.Total)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "ID", "Title", "Subtitle", "Summary", "Progress", "Metadata"})

	for i, c := range v.Cards {
		t.AppendRow(table.Row{
			i + 1,
			c.ID,
			truncate(c.Title),
			truncate(strings.Join(c.Subtitle, " • ")),
			truncate(c.Summary),
			strconv.FormatFloat(c.Progress, 'f', -1, 64),
			truncate(metadataText(c)),
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d of %d cards)\n", len(v.Cards), v.Total)
	return nil
}

func renderFacets(w io.Writer, facets []core.Facet, format string) error {
	if format == outputJSON {
		return renderJSON(w, facets)
	}
	if len(facets) == 0 {
		_, _ = fmt.Fprintln(w, "(no metadata)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Value", "Cards"})
	for _, f := range facets {
		for _, fv := range f.Values {
			t.AppendRow(table.Row{f.Key, fv.Value, fv.Count})
		}
		t.AppendSeparator()
	}
	return renderTable(w, t, format)
}

func renderFormattingModel(w io.Writer, model core.FormattingModel, format string) error {
	if format == outputJSON {
		return renderJSON(w, model)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Card", "Slice", "Type", "Value"})
	for _, card := range model.Cards {
		for _, sl := range card.Slices {
			t.AppendRow(table.Row{card.DisplayName, sl.DisplayName, string(sl.Type), sliceValue(sl)})
		}
		t.AppendSeparator()
	}
	return renderTable(w, t, format)
}

// renderTable writes t as a table, or as CSV when asked.
func renderTable(w io.Writer, t table.Writer, format string) error {
	if format == outputCSV {
		_, err := fmt.Fprintln(w, t.RenderCSV())
		return err
	}
	t.Render()
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sliceValue renders a formatting slice value for display.
func sliceValue(sl core.FormattingSlice) string {
	switch v := sl.Value.(type) {
	case core.DropdownItem:
		return v.Value
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
	}
	return fmt.Sprint(sl.Value)
}

// metadataText renders metadata as "k=v" pairs with sorted keys.
func metadataText(c core.Card) string {
	keys := make([]string, 0, len(c.Metadata))
	for k := range c.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := c.MetadataString(k)
		parts[i] = k + "=" + v
	}
	return strings.Join(parts, ", ")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-1]) + "…"
}
