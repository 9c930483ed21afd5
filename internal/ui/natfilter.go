package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/state"
)

const natColumns = 3

func (m *Model) natColumn() (column, bool) {
	idx := slices.IndexFunc(m.columns, func(c column) bool { return c.Filter == filterModal })
	if idx < 0 {
		return column{}, false
	}
	return m.columns[idx], true
}

// openNatModal opens the nationality filter seeded with the active filter.
func (m *Model) openNatModal() {
	col, ok := m.natColumn()
	if !ok {
		return
	}
	selected := map[string]bool{}
	for _, v := range m.ctrl.ViewState().Filters[col.Key] {
		selected[v] = true
	}
	m.nat = natModal{open: true, selected: selected}
}

// handleNatKey routes input while the nationality modal is open.
func (m Model) handleNatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	col, _ := m.natColumn()
	n := len(col.Options)

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.nat = natModal{}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		filters := m.ctrl.ViewState().Clone().Filters
		if filters == nil {
			filters = state.FilterSpec{}
		}
		var values []string
		for _, opt := range col.Options {
			if m.nat.selected[opt] {
				values = append(values, opt)
			}
		}
		if len(values) == 0 {
			delete(filters, col.Key)
		} else {
			filters[col.Key] = values
		}
		m.nat = natModal{}
		return m, m.dispatch(m.ctrl.UpdateFilter(filters))

	case key.Matches(msg, m.keys.Reset):
		m.nat.selected = map[string]bool{}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if n > 0 {
			opt := col.Options[m.nat.cursor]
			m.nat.selected[opt] = !m.nat.selected[opt]
		}
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	switch msg.String() {
	case "up", "k":
		m.nat.cursor = max(m.nat.cursor-natColumns, 0)
	case "down", "j":
		m.nat.cursor = min(m.nat.cursor+natColumns, n-1)
	case "left", "h":
		m.nat.cursor = max(m.nat.cursor-1, 0)
	case "right", "l":
		m.nat.cursor = min(m.nat.cursor+1, n-1)
	}
	return m, nil
}

// renderNatModal renders the nationality filter as a centered modal.
func (m Model) renderNatModal() string {
	styles := m.theme.Styles()
	col, _ := m.natColumn()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Filter " + col.Title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, opt := range col.Options {
		mark := "[ ]"
		if m.nat.selected[opt] {
			mark = "[x]"
		}
		cell := fmt.Sprintf("%s %-3s", mark, opt)
		style := styles.Text
		if i == m.nat.cursor {
			style = lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText))
		}
		b.WriteString(style.Render(cell))
		if (i+1)%natColumns == 0 || i == len(col.Options)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString("   ")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("space") + styles.MutedText.Render(" toggle  "))
	b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(" apply  "))
	b.WriteString(styles.AccentText.Render("ctrl+r") + styles.MutedText.Render(" reset  "))
	b.WriteString(styles.AccentText.Render("esc") + styles.MutedText.Render(" cancel"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		styles.Modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
