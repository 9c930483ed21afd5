package directory

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

const (
	defaultResults = 10
	maxResults     = 5000
)

// ParseQuery decodes the users endpoint parameters. It accepts both the
// repeated sort=field:dir form and the single sortField/sortOrder pair, and
// both filters[col]=v and bare col=v1,v2 filters for filterable columns.
func ParseQuery(values url.Values) (table.Query, error) {
	q := table.Query{Page: 1, PageSize: defaultResults}

	if raw := strings.TrimSpace(values.Get("results")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxResults {
			return table.Query{}, fmt.Errorf("results must be between 1 and %d", maxResults)
		}
		q.PageSize = n
	}
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return table.Query{}, fmt.Errorf("page must be a positive integer")
		}
		q.Page = n
	}

	sort, err := parseSort(values)
	if err != nil {
		return table.Query{}, err
	}
	q.Sort = sort

	filters, err := parseFilters(values)
	if err != nil {
		return table.Query{}, err
	}
	q.Filters = filters
	return q, nil
}

func parseSort(values url.Values) ([]table.SortField, error) {
	var out []table.SortField
	seen := map[string]bool{}
	add := func(field, dir string) error {
		field = strings.TrimSpace(field)
		if field == "" {
			return fmt.Errorf("sort field is empty")
		}
		if _, ok := sortColumns[field]; !ok {
			return fmt.Errorf("%w: sort %q", ErrUnknownColumn, field)
		}
		d := state.Ascending
		if strings.TrimSpace(dir) != "" {
			parsed, err := state.ParseDirection(dir)
			if err != nil {
				return err
			}
			d = parsed
		}
		if seen[field] {
			return nil
		}
		seen[field] = true
		out = append(out, table.SortField{Field: field, Direction: d})
		return nil
	}

	if keys := values["sort"]; len(keys) > 0 {
		for _, key := range keys {
			field, dir, _ := strings.Cut(key, ":")
			if err := add(field, dir); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	if field := values.Get("sortField"); field != "" {
		if err := add(field, values.Get("sortOrder")); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseFilters(values url.Values) (map[string][]string, error) {
	filters := map[string][]string{}
	for key, vals := range values {
		col, ok := strings.CutPrefix(key, "filters[")
		if !ok {
			continue
		}
		col, ok = strings.CutSuffix(col, "]")
		if !ok {
			return nil, fmt.Errorf("malformed filter parameter %q", key)
		}
		if _, known := filterColumns[col]; !known {
			return nil, fmt.Errorf("%w: filter %q", ErrUnknownColumn, col)
		}
		filters[col] = append(filters[col], splitValues(vals)...)
	}
	for col := range filterColumns {
		if _, set := filters[col]; set {
			continue
		}
		if vals, ok := values[col]; ok {
			filters[col] = splitValues(vals)
		}
	}
	for col, vals := range filters {
		slices.Sort(vals)
		vals = slices.Compact(vals)
		if len(vals) == 0 {
			delete(filters, col)
			continue
		}
		filters[col] = vals
	}
	if len(filters) == 0 {
		return nil, nil
	}
	return filters, nil
}

func splitValues(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
