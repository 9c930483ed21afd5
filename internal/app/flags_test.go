package app

import (
	"errors"
	"reflect"
	"testing"

	"github.com/five82/roster/internal/state"
)

func TestParseSortFlags(t *testing.T) {
	got, err := ParseSortFlags([]string{"name:desc", " email ", "phone:ascend"})
	if err != nil {
		t.Fatalf("ParseSortFlags: %v", err)
	}
	want := state.SortSpec{
		{Field: "name", Direction: state.Descending, Priority: 1},
		{Field: "email", Direction: state.Ascending, Priority: 2},
		{Field: "phone", Direction: state.Ascending, Priority: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSortFlags = %+v, want %+v", got, want)
	}

	if got, err := ParseSortFlags(nil); err != nil || got != nil {
		t.Fatalf("ParseSortFlags(nil) = %+v, %v", got, err)
	}

	for _, bad := range [][]string{{":asc"}, {"name:sideways"}, {"name", "name:desc"}} {
		if _, err := ParseSortFlags(bad); !errors.Is(err, state.ErrInvalidQueryState) {
			t.Fatalf("ParseSortFlags(%q) error = %v, want ErrInvalidQueryState", bad, err)
		}
	}
}

func TestParseFilterFlags(t *testing.T) {
	got, err := ParseFilterFlags([]string{"nat=US,gb", "gender=female", "nat=US", "phone="})
	if err != nil {
		t.Fatalf("ParseFilterFlags: %v", err)
	}
	want := state.FilterSpec{"nat": {"US", "gb"}, "gender": {"female"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseFilterFlags = %+v, want %+v", got, want)
	}

	if _, err := ParseFilterFlags([]string{"gender"}); !errors.Is(err, state.ErrInvalidQueryState) {
		t.Fatalf("missing '=' error = %v", err)
	}
	if _, err := ParseFilterFlags([]string{"=female"}); !errors.Is(err, state.ErrInvalidQueryState) {
		t.Fatalf("missing column error = %v", err)
	}
}

func TestParseSearchFlag(t *testing.T) {
	col, text, err := ParseSearchFlag("email=john doe")
	if err != nil || col != "email" || text != "john doe" {
		t.Fatalf("ParseSearchFlag = %q, %q, %v", col, text, err)
	}
	col, text, err = ParseSearchFlag("  ")
	if err != nil || col != "" || text != "" {
		t.Fatalf("ParseSearchFlag(blank) = %q, %q, %v", col, text, err)
	}
	if _, _, err := ParseSearchFlag("john"); err == nil {
		t.Fatal("expected error for search without column")
	}
}
