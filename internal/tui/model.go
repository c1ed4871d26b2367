// Package tui is a terminal card browser: search, filter menus, sort toggle
// and a reader view over a core.Service.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeMenu
	modeReader
)

// snapshotMsg reports that a new snapshot was published.
type snapshotMsg string

// Model is the bubbletea model of the terminal browser.
type Model struct {
	service *core.Service
	updates chan string

	state  core.ViewState
	view   core.View
	cursor int
	mode   mode

	search   textinput.Model
	progress progress.Model

	menu       *Menu
	menuCursor int

	status string
	width  int
	height int
}

// New creates a model showing the current snapshot of service. The model
// follows later snapshots until Close is called.
func New(service *core.Service) Model {
	search := textinput.New()
	search.Placeholder = "Search cards"
	search.Prompt = "/ "
	search.CharLimit = 200

	m := Model{
		service:  service,
		updates:  service.Subscribe(),
		search:   search,
		progress: progress.New(progress.WithSolidFill(core.DefaultTopBarColor), progress.WithWidth(40)),
		height:   24,
	}
	m.refresh()
	return m
}

// Close stops following snapshots.
func (m Model) Close() {
	m.service.Unsubscribe(m.updates)
}

// Run starts the program on the terminal and blocks until the user quits
// or ctx is done.
func Run(ctx context.Context, service *core.Service) error {
	m := New(service)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal browser: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}

func waitForSnapshot(updates <-chan string) tea.Cmd {
	return func() tea.Msg {
		version, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(version)
	}
}

// refresh recomputes the view for the current state and keeps the cursor
// in range.
func (m *Model) refresh() {
	m.view = m.service.View(m.state)
	if m.cursor >= len(m.view.Cards) {
		m.cursor = len(m.view.Cards) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (core.Card, bool) {
	if m.cursor < len(m.view.Cards) {
		return m.view.Cards[m.cursor], true
	}
	return core.Card{}, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case snapshotMsg:
		// A new snapshot starts from an empty view state.
		m.state = core.ViewState{}
		m.search.SetValue("")
		m.search.Blur()
		m.cursor = 0
		m.mode = modeList
		m.menu = nil
		m.refresh()
		m.status = "Data updated"
		return m, waitForSnapshot(m.updates)

	case toggleFilterMsg:
		m.state = m.state.ToggleFilter(msg.key, msg.value)
		m.refresh()
		if m.menu != nil {
			title := m.menu.Title
			m.menu = findSubmenu(buildFilterMenu(m.view.Facets, m.state.Filters), title)
			if m.menuCursor >= len(m.menu.Items) {
				m.menuCursor = 0
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeMenu:
			return m.updateMenu(msg)
		case modeReader:
			return m.updateReader(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Cards)-1 {
			m.cursor++
		}
	case "/":
		if !m.view.Settings.Card.EnableSearch {
			m.status = "Search is disabled"
			return m, nil
		}
		m.mode = modeSearch
		return m, m.search.Focus()
	case "f":
		if !m.view.Settings.Card.EnableFilters || len(m.view.Facets) == 0 {
			m.status = "No filters available"
			return m, nil
		}
		m.menu = buildFilterMenu(m.view.Facets, m.state.Filters)
		m.menuCursor = 0
		m.mode = modeMenu
	case "s":
		if !m.view.Sortable {
			m.status = "Cards have no sort field"
			return m, nil
		}
		if m.direction() == core.SortDesc {
			m.state.SortDirection = core.SortAsc
		} else {
			m.state.SortDirection = core.SortDesc
		}
		m.refresh()
	case "r":
		m.state = core.ViewState{}
		m.search.SetValue("")
		m.refresh()
	case "enter":
		if _, ok := m.selected(); ok {
			m.mode = modeReader
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.state.Search = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.mode = modeList
		m.menu = nil
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(m.menu.Items)-1 {
			m.menuCursor++
		}
	case "esc", "backspace":
		m.back()
	case "enter":
		item := m.menu.Items[m.menuCursor]
		switch {
		case item.Label == backLabel:
			m.back()
		case item.Submenu != nil:
			m.menu = item.Submenu
			m.menuCursor = 0
		case item.Action != nil:
			return m, item.Action()
		}
	}
	return m, nil
}

// back leaves the current menu, closing the menu at the root.
func (m *Model) back() {
	if m.menu.Parent == nil {
		m.mode = modeList
		m.menu = nil
		return
	}
	m.menu = m.menu.Parent
	m.menuCursor = 0
}

func (m Model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.mode = modeList
	}
	return m, nil
}

// direction is the sort direction in effect.
func (m Model) direction() string {
	if m.state.SortDirection != "" {
		return m.state.SortDirection
	}
	return m.view.Settings.Card.SortDirection
}
