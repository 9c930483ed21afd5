package table

import (
	"context"

	"github.com/five82/roster/internal/state"
)

// Record is a row of domain data. RowKey must stay stable across refetches of
// the same logical entity.
type Record interface {
	RowKey() string
	// Value returns the cell value of column as display text.
	Value(column string) string
}

// SortField is one ordered sort entry of a Query.
type SortField struct {
	Field     string
	Direction state.Direction
}

// Query is what the data source receives for one fetch.
type Query struct {
	Page     int
	PageSize int
	Sort     []SortField
	Filters  map[string][]string
}

// QueryFor derives the query for a view state.
func QueryFor(view state.ViewState) Query {
	q := Query{
		Page:     view.Pagination.Page,
		PageSize: view.Pagination.PageSize,
	}
	for _, k := range view.Sort.Ordered() {
		q.Sort = append(q.Sort, SortField{Field: k.Field, Direction: k.Direction})
	}
	if filters := view.Filters.Normalized(); len(filters) > 0 {
		q.Filters = map[string][]string(filters)
	}
	return q
}

// Page is a data source response.
type Page[R any] struct {
	Records []R
	// Total is the source-reported number of items across all pages.
	Total int
}

// Source fetches one page of records for a query.
type Source[R any] interface {
	Fetch(ctx context.Context, q Query) (Page[R], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[R any] func(ctx context.Context, q Query) (Page[R], error)

// Fetch calls f.
func (f SourceFunc[R]) Fetch(ctx context.Context, q Query) (Page[R], error) {
	return f(ctx, q)
}
