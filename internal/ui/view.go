package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

// renderMain renders the header, table, dropdown, status line and help bar.
func (m Model) renderMain() string {
	parts := []string{m.renderHeader(), m.renderTable()}
	if m.searching {
		parts = append(parts, m.renderSearchDropdown())
	}
	parts = append(parts, m.renderStatus(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("roster", styles.Logo)}
	if m.source != "" {
		parts = append(parts, bg.Render(truncate(m.source, 40), styles.MutedText))
	}
	switch {
	case m.ctrl.Loading():
		parts = append(parts, bg.Render(m.spinner.View()+" loading", styles.WarningText))
	case m.ctrl.Err() != nil:
		parts = append(parts, bg.Render("● error", styles.DangerText))
	case !m.lastUpdated.IsZero():
		parts = append(parts, bg.Render("● "+m.lastUpdated.Format("15:04:05"), styles.SuccessText))
	}
	if s := m.ctrl.Overlay().Search(); s.Query != "" {
		parts = append(parts, bg.Render(fmt.Sprintf("/%s in %s", truncate(s.Query, 18), s.Column), styles.AccentText))
	}
	parts = append(parts, bg.Render("T:"+m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderTable renders the current page with search highlights applied.
func (m Model) renderTable() string {
	styles := m.theme.Styles()
	records := m.ctrl.Records()
	view := m.ctrl.ViewState()
	overlay := m.ctrl.Overlay()

	headers := make([]string, len(m.columns))
	for i, col := range m.columns {
		headers[i] = columnTitle(col, view, overlay)
	}

	rows := make([][]string, 0, len(records))
	for r, rec := range records {
		textStyle := styles.Text
		if r == m.selectedRow {
			textStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText))
		}
		row := make([]string, len(m.columns))
		for i, col := range m.columns {
			spans := truncateSpans(overlay.HighlightSpans(rec, col.Key), col.Width)
			row[i] = renderSpans(spans, textStyle, styles.Match)
		}
		rows = append(rows, row)
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Border).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			width := m.columns[col].Width + 2
			switch {
			case row == ltable.HeaderRow && col == m.activeCol:
				return styles.ActiveColumn.Width(width)
			case row == ltable.HeaderRow:
				return styles.ColumnHeader.Width(width)
			case row == m.selectedRow:
				return styles.Selected.Width(width)
			default:
				return styles.Cell.Width(width)
			}
		})

	out := t.Render()
	if len(records) == 0 {
		out += "\n" + styles.MutedText.Render("  "+m.emptyMessage())
	}
	return out
}

func (m Model) emptyMessage() string {
	switch {
	case m.ctrl.Loading():
		return "Loading users..."
	case m.ctrl.Err() != nil:
		return "No data. Press r to retry."
	default:
		return "No users match the current filters."
	}
}

// renderStatus renders pagination, the active sort and filters, and the last
// fetch error or notice.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	view := m.ctrl.ViewState()
	pg := m.ctrl.Pagination()

	parts := []string{
		styles.Text.Render(pageSummary(pg, len(m.ctrl.Records()))),
		styles.MutedText.Render(fmt.Sprintf("%d/page", pg.PageSize)),
	}
	if len(view.Sort) > 0 {
		parts = append(parts, styles.AccentText.Render("sort "+sortSummary(view.Sort)))
	}
	if len(view.Filters) > 0 {
		parts = append(parts, styles.AccentText.Render("filter "+filterSummary(view.Filters)))
	}
	line := strings.Join(parts, styles.FaintText.Render("  ·  "))
	if dots := pageDots(pg); dots != "" {
		line = styles.AccentText.Render(dots) + "  " + line
	}

	if err := m.ctrl.Err(); err != nil {
		line += "\n" + styles.DangerText.Render("fetch failed: "+err.Error()) +
			styles.MutedText.Render("  (r to retry)")
	} else if m.notice != "" {
		line += "\n" + styles.WarningText.Render(m.notice)
	}
	return line
}

// columnTitle decorates a header with sort, filter and search markers.
func columnTitle(col column, view state.ViewState, overlay *table.Overlay) string {
	title := col.Title
	if key, ok := view.Sort.Find(col.Key); ok {
		arrow := "↑"
		if key.Direction == state.Descending {
			arrow = "↓"
		}
		if len(view.Sort) > 1 {
			arrow += fmt.Sprint(key.Priority)
		}
		title += " " + arrow
	}
	if len(view.Filters[col.Key]) > 0 {
		title += " *"
	}
	if overlay.Filtered(col.Key) {
		title += " /"
	}
	return title
}

// maxDots caps the page indicator; longer result sets only get the summary.
const maxDots = 15

// pageDots renders one dot per page with the current page filled.
func pageDots(pg state.Pagination) string {
	count := pg.PageCount()
	if count < 2 || count > maxDots {
		return ""
	}
	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = "●"
	p.InactiveDot = "○"
	p.PerPage = pg.PageSize
	p.SetTotalPages(pg.Total)
	p.Page = min(pg.Page, count) - 1
	return p.View()
}

// pageSummary renders "Page 2/13 · 9-16 of 100", or just the page when the
// total is not known yet.
func pageSummary(pg state.Pagination, shown int) string {
	if !pg.TotalKnown {
		return fmt.Sprintf("Page %d", pg.Page)
	}
	count := max(pg.PageCount(), 1)
	if shown == 0 {
		return fmt.Sprintf("Page %d/%d · 0 of %d", pg.Page, count, pg.Total)
	}
	start := (pg.Page-1)*pg.PageSize + 1
	end := start + shown - 1
	return fmt.Sprintf("Page %d/%d · %d-%d of %d", pg.Page, count, start, end, pg.Total)
}

func sortSummary(spec state.SortSpec) string {
	keys := spec.Ordered()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Field + ":" + string(k.Direction)
	}
	return strings.Join(out, ",")
}

func filterSummary(filters state.FilterSpec) string {
	cols := filters.Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c + "=" + strings.Join(filters[c], "|")
	}
	return strings.Join(out, " ")
}

// truncateSpans cuts spans to max runes in total, ending with an ellipsis
// when anything was dropped.
func truncateSpans(spans []table.Span, max int) []table.Span {
	total := 0
	for _, s := range spans {
		total += len([]rune(s.Text))
	}
	if total <= max {
		return spans
	}
	if max <= 0 {
		return nil
	}

	budget := max - 1
	out := make([]table.Span, 0, len(spans)+1)
	for _, s := range spans {
		if budget == 0 {
			break
		}
		runes := []rune(s.Text)
		if len(runes) > budget {
			runes = runes[:budget]
		}
		out = append(out, table.Span{Text: string(runes), Match: s.Match})
		budget -= len(runes)
	}
	return append(out, table.Span{Text: "…"})
}

func renderSpans(spans []table.Span, text, match lipgloss.Style) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Match {
			b.WriteString(match.Render(s.Text))
		} else {
			b.WriteString(text.Render(s.Text))
		}
	}
	return b.String()
}
