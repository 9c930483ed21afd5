package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Pages",
			items: []helpItem{
				{"←/→ [ ]", "Previous/next page"},
				{"g/G", "First/last page"},
				{"+/-", "Page size"},
				{"r", "Refresh"},
			},
		},
		{
			title: "Columns",
			items: []helpItem{
				{"tab", "Next column"},
				{"s", "Sort column"},
				{"S", "Add sort key"},
				{"f", "Cycle gender filter"},
				{"F", "Nationality filter"},
			},
		},
		{
			title: "Search",
			items: []helpItem{
				{"/", "Search column"},
				{"enter", "Apply search"},
				{"ctrl+r", "Reset search"},
				{"esc", "Close / clear"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"j/k", "Move row"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"e/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		styles.Modal.Width(40).Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
