package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/CardBrowser/internal/core"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

// linkParents points every submenu at its parent. A "Back" item navigates
// to the parent; at the root it closes the menu.
func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == backLabel {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

const backLabel = "Back"

/* ----------------------------------------
	FILTER MENU
---------------------------------------- */

// toggleFilterMsg asks the model to toggle one accepted filter value.
type toggleFilterMsg struct {
	key, value string
}

// buildFilterMenu builds one submenu per facet key. Each value item toggles
// that value and shows whether it is currently accepted.
func buildFilterMenu(facets []core.Facet, active map[string][]string) *Menu {
	root := &Menu{Title: "Filters"}

	for _, f := range facets {
		sub := &Menu{Title: f.Key}
		for _, fv := range f.Values {
			key, value := f.Key, fv.Value
			sub.Items = append(sub.Items, MenuItem{
				Label: checkbox(isActive(active[key], value)) + " " + value + " (" + strconv.Itoa(fv.Count) + ")",
				Action: func() tea.Cmd {
					return func() tea.Msg { return toggleFilterMsg{key: key, value: value} }
				},
			})
		}
		sub.Items = append(sub.Items, MenuItem{Label: backLabel})

		label := f.Key + " ->"
		if n := len(active[f.Key]); n > 0 {
			label = f.Key + " (" + strconv.Itoa(n) + ") ->"
		}
		root.Items = append(root.Items, MenuItem{Label: label, Submenu: sub})
	}
	root.Items = append(root.Items, MenuItem{Label: backLabel})

	linkParents(root, nil)
	return root
}

// findSubmenu returns the submenu of root titled title, or root.
func findSubmenu(root *Menu, title string) *Menu {
	for _, item := range root.Items {
		if item.Submenu != nil && item.Label != backLabel && item.Submenu.Title == title {
			return item.Submenu
		}
	}
	return root
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func isActive(accepted []string, value string) bool {
	for _, v := range accepted {
		if v == value {
			return true
		}
	}
	return false
}
