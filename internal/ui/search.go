package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// openSearch opens the search dropdown of the active column.
func (m *Model) openSearch() {
	col := m.columns[m.activeCol]
	if !col.Searchable {
		m.notice = fmt.Sprintf("%s is not searchable", col.Title)
		return
	}
	overlay := m.ctrl.Overlay()
	overlay.OpenDropdown(col.Key)
	m.searchInput.SetValue(overlay.Dropdown(col.Key).Pending)
	m.searchInput.CursorEnd()
	m.searchInput.Focus()
	m.searching = true
	m.notice = ""
}

func (m *Model) closeSearch() {
	m.searchInput.Blur()
	m.searching = false
}

// handleSearchKey routes input while the search dropdown is open.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	column := m.columns[m.activeCol].Key
	overlay := m.ctrl.Overlay()

	switch {
	case key.Matches(msg, m.keys.Confirm):
		overlay.SetPending(column, m.searchInput.Value())
		overlay.ConfirmDropdown(column)
		m.closeSearch()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		overlay.ResetDropdown(column)
		overlay.OpenDropdown(column)
		m.searchInput.SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		overlay.SetPending(column, m.searchInput.Value())
		overlay.CloseDropdown(column)
		m.closeSearch()
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	overlay.SetPending(column, m.searchInput.Value())
	return m, cmd
}

// renderSearchDropdown renders the dropdown panel shown under the table.
func (m Model) renderSearchDropdown() string {
	styles := m.theme.Styles()
	col := m.columns[m.activeCol]

	title := styles.AccentText.Bold(true).Render("Search " + col.Title)
	hints := []string{
		styles.AccentText.Render("enter") + styles.MutedText.Render(" search"),
		styles.AccentText.Render("ctrl+r") + styles.MutedText.Render(" reset"),
		styles.AccentText.Render("esc") + styles.MutedText.Render(" close"),
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 1)
	return box.Render(title + "\n" + m.searchInput.View() + "\n" + strings.Join(hints, "  "))
}
