package ui

import (
	"github.com/five82/roster/internal/randomuser"
)

// filterKind describes how a column's server-side filter is edited.
type filterKind int

const (
	filterNone filterKind = iota
	filterCycle
	filterModal
)

// column describes one table column.
type column struct {
	Key        string
	Title      string
	Width      int
	Sortable   bool
	Searchable bool
	Filter     filterKind
	// Options are the filter values for filterCycle and filterModal columns.
	Options []string
}

var genderOptions = []string{"female", "male"}

var natOptions = []string{
	"AU", "BR", "CA", "CH", "DE", "DK", "ES", "FI", "FR",
	"GB", "IE", "IN", "MX", "NL", "NO", "NZ", "TR", "US",
}

func defaultColumns() []column {
	return []column{
		{Key: randomuser.ColumnName, Title: "Name", Width: 24, Sortable: true},
		{Key: randomuser.ColumnGender, Title: "Gender", Width: 10, Sortable: true, Filter: filterCycle, Options: genderOptions},
		{Key: randomuser.ColumnEmail, Title: "Email", Width: 34, Sortable: true, Searchable: true},
		{Key: randomuser.ColumnPhone, Title: "Phone", Width: 18, Searchable: true},
		{Key: randomuser.ColumnNat, Title: "Nat", Width: 6, Filter: filterModal, Options: natOptions},
	}
}
