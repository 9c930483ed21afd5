package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/randomuser"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

// DumpOptions select the page printed by Dump. Page and PageSize of zero use
// page 1 and the configured page size.
type DumpOptions struct {
	ConfigPath string
	APIURL     string
	Page       int
	PageSize   int
	Sort       []string // field:dir
	Filters    []string // column=v1,v2
	Search     string   // column=text
}

var dumpColumns = []struct {
	key, title string
}{
	{randomuser.ColumnName, "Name"},
	{randomuser.ColumnGender, "Gender"},
	{randomuser.ColumnEmail, "Email"},
	{randomuser.ColumnPhone, "Phone"},
	{randomuser.ColumnNat, "Nat"},
}

var (
	dumpHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	dumpCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dumpMatchStyle  = lipgloss.NewStyle().Reverse(true)
)

// Dump fetches one page through the table controller and prints it to w.
func Dump(ctx context.Context, w io.Writer, opts DumpOptions) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.APIURL)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Output: os.Stderr, Prefix: "dump"})

	sortSpec, err := ParseSortFlags(opts.Sort)
	if err != nil {
		return err
	}
	filters, err := ParseFilterFlags(opts.Filters)
	if err != nil {
		return err
	}
	searchCol, searchText, err := ParseSearchFlag(opts.Search)
	if err != nil {
		return err
	}

	pageSize := cfg.PageSize
	if opts.PageSize != 0 {
		pageSize = opts.PageSize
	}
	page := opts.Page
	if page == 0 {
		page = 1
	}

	store, err := state.NewStore(cfg.PageSize, cfg.MaxPageSize)
	if err != nil {
		return err
	}
	// Sort and filter changes return to page 1, so pagination goes last.
	if _, err := store.UpdateSort(sortSpec); err != nil {
		return err
	}
	if _, err := store.UpdateFilter(filters); err != nil {
		return err
	}
	if _, err := store.UpdatePagination(page, pageSize); err != nil {
		return err
	}

	ctrl, err := newController(cfg, store, logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	if searchCol != "" {
		ctrl.Overlay().SetSearch(searchText, searchCol)
	}

	if ctrl.Complete(ctrl.Start().Do(ctx)) == table.OutcomeFailed {
		return ctrl.Err()
	}
	_, err = io.WriteString(w, renderDump(ctrl)+"\n")
	return err
}

func renderDump(ctrl *table.Controller[randomuser.User]) string {
	overlay := ctrl.Overlay()
	headers := make([]string, len(dumpColumns))
	for i, col := range dumpColumns {
		headers[i] = col.title
	}

	rows := make([][]string, 0, len(ctrl.Records()))
	for _, user := range ctrl.Records() {
		row := make([]string, len(dumpColumns))
		for i, col := range dumpColumns {
			var b strings.Builder
			for _, span := range overlay.HighlightSpans(user, col.key) {
				if span.Match {
					b.WriteString(dumpMatchStyle.Render(span.Text))
				} else {
					b.WriteString(span.Text)
				}
			}
			row[i] = b.String()
		}
		rows = append(rows, row)
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return dumpHeaderStyle
			}
			return dumpCellStyle
		})

	return t.Render() + "\n" + dumpSummary(ctrl.Pagination(), len(rows))
}

func dumpSummary(pg state.Pagination, shown int) string {
	if !pg.TotalKnown {
		return fmt.Sprintf("page %d, %d rows", pg.Page, shown)
	}
	return fmt.Sprintf("page %d/%d, %d rows of %d", pg.Page, max(pg.PageCount(), 1), shown, pg.Total)
}
