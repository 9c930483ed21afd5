package app

import (
	"fmt"
	"strings"

	"github.com/five82/roster/internal/state"
)

// ParseSortFlags turns "field:dir" arguments into a sort spec, in priority
// order. A bare field sorts ascending.
func ParseSortFlags(args []string) (state.SortSpec, error) {
	var spec state.SortSpec
	for _, arg := range args {
		field, dir, _ := strings.Cut(strings.TrimSpace(arg), ":")
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("%w: sort %q has no field", state.ErrInvalidQueryState, arg)
		}
		direction := state.Ascending
		if dir != "" {
			parsed, err := state.ParseDirection(dir)
			if err != nil {
				return nil, err
			}
			direction = parsed
		}
		spec = append(spec, state.SortKey{Field: field, Direction: direction, Priority: len(spec) + 1})
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// ParseFilterFlags turns "column=v1,v2" arguments into a filter spec.
// Repeating a column adds to its values.
func ParseFilterFlags(args []string) (state.FilterSpec, error) {
	spec := state.FilterSpec{}
	for _, arg := range args {
		col, raw, ok := strings.Cut(arg, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("%w: filter %q must look like column=value", state.ErrInvalidQueryState, arg)
		}
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				spec[col] = append(spec[col], v)
			}
		}
	}
	return spec.Normalized(), nil
}

// ParseSearchFlag splits "column=text". An empty argument means no search.
func ParseSearchFlag(arg string) (column, text string, err error) {
	if strings.TrimSpace(arg) == "" {
		return "", "", nil
	}
	column, text, ok := strings.Cut(arg, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return "", "", fmt.Errorf("search %q must look like column=text", arg)
	}
	return column, text, nil
}
