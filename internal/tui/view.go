package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(core.DefaultTopBarColor)).
			Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A33D"))
	emptyStyle    = lipgloss.NewStyle().Padding(1, 2)
)

const (
	listHelp   = "↑/↓ move • enter open • / search • f filters • s sort • r reset • q quit"
	menuHelp   = "↑/↓ move • enter select • esc back"
	readerHelp = "esc back"
)

func (m Model) View() string {
	switch m.mode {
	case modeMenu:
		return m.menuView()
	case modeReader:
		return m.readerView()
	default:
		return m.listView()
	}
}

func (m Model) header() string {
	title := "Cards"
	if m.view.HasData() {
		title = fmt.Sprintf("Cards  %d of %d", len(m.view.Cards), m.view.Total)
	}
	if m.view.Sortable {
		title += "  " + sortArrow(m.direction())
	}
	return titleStyle.Render(title)
}

func sortArrow(dir string) string {
	if dir == core.SortDesc {
		return "↓"
	}
	return "↑"
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	if m.view.Settings.Card.EnableSearch {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if filters := activeFilters(m.state.Filters); filters != "" {
		b.WriteString(dimStyle.Render("filters: " + filters))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case !m.view.HasData():
		b.WriteString(emptyStyle.Render("No data\n" + dimStyle.Render("Load a payload to see cards.")))
	case len(m.view.Cards) == 0:
		b.WriteString(emptyStyle.Render("No matching cards\n" + dimStyle.Render("Change the search or clear the filters.")))
	default:
		b.WriteString(m.cardList())
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(listHelp))
	return b.String()
}

// cardList renders the window of cards around the cursor that fits the
// terminal height. Each card takes two lines.
func (m Model) cardList() string {
	visible := (m.height - 8) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.view.Cards) {
		end = len(m.view.Cards)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		c := m.view.Cards[i]
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(c.TopBarColor)).Render("▌")

		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		if i == m.cursor {
			title = selectedStyle.Render("> " + title)
		} else {
			title = "  " + title
		}

		b.WriteString(bar + title + "\n")
		b.WriteString(bar + "  " + dimStyle.Render(cardDetail(c)) + "\n")
	}
	return b.String()
}

// cardDetail is the second line of a list entry: subtitle, else summary.
func cardDetail(c core.Card) string {
	if sub := joinNonEmpty(c.Subtitle, " • "); sub != "" {
		return sub
	}
	return c.Summary
}

func (m Model) menuView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.menu.Title))
	b.WriteString("\n\n")
	for i, item := range m.menu.Items {
		if i == m.menuCursor {
			b.WriteString(selectedStyle.Render("> " + item.Label))
		} else {
			b.WriteString("  " + item.Label)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(menuHelp))
	return b.String()
}

func (m Model) readerView() string {
	c, ok := m.selected()
	if !ok {
		return m.listView()
	}
	settings := m.view.Settings

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.TopBarColor)).Render(strings.Repeat("━", 40)))
	b.WriteString("\n")
	b.WriteString(selectedStyle.Render(c.Title))
	b.WriteString("\n")
	if sub := joinNonEmpty(c.Subtitle, " • "); sub != "" {
		b.WriteString(dimStyle.Render(sub))
		b.WriteString("\n")
	}
	if c.Summary != "" {
		b.WriteString("\n" + c.Summary + "\n")
	}
	if c.Content != "" {
		b.WriteString("\n" + c.Content + "\n")
	}

	if settings.Card.ShowProgress && c.Progress > 0 {
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(progressFraction(c.Progress)))
		b.WriteString("\n")
	}

	if settings.Card.ShowMetadata && len(c.Metadata) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(c.Metadata))
		for k := range c.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, _ := c.MetadataString(k)
			b.WriteString(dimStyle.Render(k+": ") + v + "\n")
		}
	}

	if len(c.ProfileImages) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d profile images", len(c.ProfileImages))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(readerHelp))
	return b.String()
}

// progressFraction maps a progress value to 0..1. Values up to 1 are
// fractions, larger values are percentages.
func progressFraction(p float64) float64 {
	if p > 1 {
		p /= 100
	}
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

// activeFilters renders the filter state as "key=a|b, key2=c", keys sorted.
func activeFilters(filters map[string][]string) string {
	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strings.Join(filters[k], "|")
	}
	return strings.Join(parts, ", ")
}

func joinNonEmpty(values []string, sep string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
