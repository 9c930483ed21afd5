package state

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidQueryState reports a view-state value outside its contractual bounds.
var ErrInvalidQueryState = errors.New("invalid query state")

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/desc as well as the ascend/descend spelling used
// by table widgets.
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "asc", "ascend", "ascending":
		return Ascending, nil
	case "desc", "descend", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidQueryState, value)
	}
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// Pagination tracks the requested page and the source-reported total.
type Pagination struct {
	Page     int
	PageSize int
	// Total is only meaningful when TotalKnown is set; it always comes from the
	// data source.
	Total      int
	TotalKnown bool
}

// PageCount returns the number of pages implied by Total, or 0 when unknown.
func (p Pagination) PageCount() int {
	if !p.TotalKnown || p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// SortKey is one entry of a multi-column sort.
type SortKey struct {
	Field     string
	Direction Direction
	// Priority orders keys; lower values apply first.
	Priority int
}

// SortSpec is an unordered set of sort keys. Empty means source-default order.
type SortSpec []SortKey

// Ordered returns the keys in application order: priority, then field name.
func (s SortSpec) Ordered() []SortKey {
	out := slices.Clone(s)
	slices.SortStableFunc(out, func(a, b SortKey) int {
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		return strings.Compare(a.Field, b.Field)
	})
	return out
}

// Find returns the key for field, if present.
func (s SortSpec) Find(field string) (SortKey, bool) {
	for _, k := range s {
		if k.Field == field {
			return k, true
		}
	}
	return SortKey{}, false
}

// Validate checks field names and directions.
func (s SortSpec) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, k := range s {
		field := strings.TrimSpace(k.Field)
		if field == "" {
			return fmt.Errorf("%w: sort field is empty", ErrInvalidQueryState)
		}
		if !k.Direction.Valid() {
			return fmt.Errorf("%w: sort %q has direction %q", ErrInvalidQueryState, field, k.Direction)
		}
		if seen[field] {
			return fmt.Errorf("%w: sort field %q repeated", ErrInvalidQueryState, field)
		}
		seen[field] = true
	}
	return nil
}

// FilterSpec maps a column to the values the source should accept for it.
type FilterSpec map[string][]string

// Normalized drops empty columns and returns sorted, de-duplicated values.
func (f FilterSpec) Normalized() FilterSpec {
	if len(f) == 0 {
		return nil
	}
	out := make(FilterSpec, len(f))
	for col, values := range f {
		var kept []string
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			continue
		}
		slices.Sort(kept)
		out[col] = slices.Compact(kept)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Columns returns the filtered column names in sorted order.
func (f FilterSpec) Columns() []string {
	cols := make([]string, 0, len(f))
	for col := range f {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	return cols
}

// Validate rejects blank column identifiers.
func (f FilterSpec) Validate() error {
	for col := range f {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("%w: filter column is empty", ErrInvalidQueryState)
		}
	}
	return nil
}

func (f FilterSpec) clone() FilterSpec {
	if f == nil {
		return nil
	}
	out := make(FilterSpec, len(f))
	for col, values := range f {
		out[col] = slices.Clone(values)
	}
	return out
}

// ViewState is the single source of truth that drives fetches.
type ViewState struct {
	Pagination Pagination
	Sort       SortSpec
	Filters    FilterSpec
}

// Clone returns a deep copy.
func (v ViewState) Clone() ViewState {
	return ViewState{
		Pagination: v.Pagination,
		Sort:       slices.Clone(v.Sort),
		Filters:    v.Filters.clone(),
	}
}

// Canonical serializes the fetch-relevant part of v. The encoding ignores sort
// and filter ordering, raw priority values and the reported total, so two
// states that would produce the same request encode identically.
func (v ViewState) Canonical() string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(v.Pagination.Page))
	values.Set("size", strconv.Itoa(v.Pagination.PageSize))
	for _, k := range v.Sort.Ordered() {
		values.Add("sort", k.Field+":"+string(k.Direction))
	}
	for col, vals := range v.Filters.Normalized() {
		for _, val := range vals {
			values.Add("filter."+col, val)
		}
	}
	return values.Encode()
}

// Equivalent reports canonical equality.
func (v ViewState) Equivalent(other ViewState) bool {
	return v.Canonical() == other.Canonical()
}
