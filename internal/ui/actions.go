package ui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/state"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.nat.open {
		return m.handleNatKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs(func(p *prefs.Prefs) { p.Theme = m.theme.Name })
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m, m.fetch(m.ctrl.Refresh())

	case key.Matches(msg, m.keys.Escape):
		if m.ctrl.Overlay().Search().Column != "" {
			m.ctrl.Overlay().ClearSearch()
		}
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.ctrl.Records())-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.NextColumn):
		m.activeCol = (m.activeCol + 1) % len(m.columns)
		return m, nil

	case key.Matches(msg, m.keys.PrevColumn):
		m.activeCol = (m.activeCol - 1 + len(m.columns)) % len(m.columns)
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.gotoPage(m.ctrl.Pagination().Page - 1)

	case key.Matches(msg, m.keys.NextPage):
		return m, m.gotoPage(m.ctrl.Pagination().Page + 1)

	case key.Matches(msg, m.keys.FirstPage):
		return m, m.gotoPage(1)

	case key.Matches(msg, m.keys.LastPage):
		pg := m.ctrl.Pagination()
		if !pg.TotalKnown {
			return m, nil
		}
		return m, m.gotoPage(pg.PageCount())

	case key.Matches(msg, m.keys.Bigger):
		return m, m.changePageSize(1)

	case key.Matches(msg, m.keys.Smaller):
		return m, m.changePageSize(-1)

	case key.Matches(msg, m.keys.Sort):
		return m, m.sortActive(false)

	case key.Matches(msg, m.keys.AddSort):
		return m, m.sortActive(true)

	case key.Matches(msg, m.keys.CycleFilter):
		return m, m.cycleFilter()

	case key.Matches(msg, m.keys.NatFilter):
		m.openNatModal()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.openSearch()
		return m, nil
	}

	return m, nil
}

// gotoPage moves to page, clamped to the known page range.
func (m *Model) gotoPage(page int) tea.Cmd {
	pg := m.ctrl.Pagination()
	if count := pg.PageCount(); count > 0 && page > count {
		page = count
	}
	if page < 1 {
		page = 1
	}
	if page == pg.Page {
		return nil
	}
	m.selectedRow = 0
	return m.dispatch(m.ctrl.UpdatePagination(page, pg.PageSize))
}

// changePageSize steps through the configured page sizes. The page is
// adjusted so the first visible record stays on screen.
func (m *Model) changePageSize(step int) tea.Cmd {
	pg := m.ctrl.Pagination()
	size := stepPageSize(m.pageSizes, pg.PageSize, step)
	if size == pg.PageSize {
		return nil
	}
	m.selectedRow = 0
	cmd := m.dispatch(m.ctrl.UpdatePagination(pageForSize(pg.Page, pg.PageSize, size), size))
	if m.ctrl.Pagination().PageSize == size {
		m.savePrefs(func(p *prefs.Prefs) { p.PageSize = size })
	}
	return cmd
}

// sortActive cycles the sort direction of the active column. With add set
// the column becomes (or stays) an additional sort key instead of replacing
// the current sort.
func (m *Model) sortActive(add bool) tea.Cmd {
	col := m.columns[m.activeCol]
	if !col.Sortable {
		m.notice = fmt.Sprintf("%s is not sortable", col.Title)
		return nil
	}
	return m.dispatch(m.ctrl.UpdateSort(nextSort(m.ctrl.ViewState().Sort, col.Key, add)))
}

// cycleFilter steps the active column's filter through all, each single
// option, then all again. Columns without a cycle filter fall back to gender.
func (m *Model) cycleFilter() tea.Cmd {
	col := m.columns[m.activeCol]
	if col.Filter != filterCycle {
		idx := slices.IndexFunc(m.columns, func(c column) bool { return c.Filter == filterCycle })
		if idx < 0 {
			return nil
		}
		col = m.columns[idx]
	}
	filters := m.ctrl.ViewState().Clone().Filters
	if filters == nil {
		filters = state.FilterSpec{}
	}
	next := nextCycleValue(col.Options, filters[col.Key])
	if next == "" {
		delete(filters, col.Key)
	} else {
		filters[col.Key] = []string{next}
	}
	return m.dispatch(m.ctrl.UpdateFilter(filters))
}

func (m *Model) savePrefs(fn func(*prefs.Prefs)) {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Update(m.prefsPath, fn); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// nextDirection cycles none -> ascending -> descending -> none.
func nextDirection(current state.Direction, found bool) (state.Direction, bool) {
	switch {
	case !found:
		return state.Ascending, true
	case current == state.Ascending:
		return state.Descending, true
	default:
		return "", false
	}
}

// nextSort returns the sort spec after toggling field.
func nextSort(current state.SortSpec, field string, add bool) state.SortSpec {
	existing, found := current.Find(field)
	dir, keep := nextDirection(existing.Direction, found)

	if !add {
		if !keep {
			return nil
		}
		return state.SortSpec{{Field: field, Direction: dir, Priority: 1}}
	}

	ordered := current.Ordered()
	next := make(state.SortSpec, 0, len(ordered)+1)
	for _, k := range ordered {
		if k.Field == field {
			if keep {
				next = append(next, state.SortKey{Field: field, Direction: dir})
			}
			continue
		}
		next = append(next, k)
	}
	if !found {
		next = append(next, state.SortKey{Field: field, Direction: dir})
	}
	for i := range next {
		next[i].Priority = i + 1
	}
	if len(next) == 0 {
		return nil
	}
	return next
}

// nextCycleValue returns the option following the current single-value
// selection; "" means no filter.
func nextCycleValue(options, current []string) string {
	if len(current) != 1 {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	idx := slices.Index(options, current[0])
	if idx < 0 || idx+1 >= len(options) {
		return ""
	}
	return options[idx+1]
}

// stepPageSize moves step entries through sizes from current. A current size
// missing from sizes snaps to its neighbour in the step direction.
func stepPageSize(sizes []int, current, step int) int {
	if len(sizes) == 0 {
		return current
	}
	idx, found := slices.BinarySearch(sizes, current)
	switch {
	case found:
		idx += step
	case step < 0:
		idx--
	}
	idx = min(max(idx, 0), len(sizes)-1)
	return sizes[idx]
}

// pageForSize returns the page that contains the first record of page at
// oldSize once the page size becomes newSize.
func pageForSize(page, oldSize, newSize int) int {
	if page < 1 || oldSize < 1 || newSize < 1 {
		return 1
	}
	return (page-1)*oldSize/newSize + 1
}
