// Package state holds the table view-state that drives every remote fetch.
//
// # Overview
//
// A ViewState combines pagination, a multi-column sort and per-column
// filters. The Store is the single authoritative holder of that value: the
// renderer asks for changes through Store methods, and the fetch orchestrator
// (package table) observes the results through Subscribe.
//
//	Renderer event            Store                      Subscribers
//	┌───────────────┐        ┌──────────────────┐        ┌──────────────┐
//	│ page / size   │──────→ │ UpdatePagination │        │              │
//	│ sort click    │──────→ │ UpdateSort       │──────→ │ Change{Prev, │
//	│ filter submit │──────→ │ UpdateFilter     │        │   Next, ...} │
//	└───────────────┘        │ SetTotal         │        └──────────────┘
//	                         └──────────────────┘
//
// # Update Semantics
//
//   - UpdatePagination replaces page and page size. When the size differs
//     from the current one the Change carries PageSizeChanged.
//   - UpdateSort and UpdateFilter replace their component wholesale and reset
//     the page to 1, since "page N" means nothing under new criteria.
//   - SetTotal records the total reported by the data source. It never comes
//     from local counting.
//
// Every mutation builds a complete new ViewState before it is committed, so a
// subscriber never sees a half-applied update. Snapshot and Change values are
// deep copies.
//
// # Validation
//
// Values outside their bounds (non-positive page or page size, a page size
// over the configured maximum, blank or repeated sort fields, unknown sort
// directions, blank filter columns) are rejected with an error wrapping
// ErrInvalidQueryState. A rejected update leaves the previous ViewState in
// place and publishes nothing.
//
// # Canonical Form
//
// ViewState.Canonical serializes only what affects the request: page, page
// size, sort keys in application order and normalized filters. Map iteration
// order, filter value order, duplicate values, raw priority numbers and the
// reported total do not change the encoding. Consumers compare canonical forms
// to decide whether a change warrants a new fetch.
//
// # Concurrency
//
// The Store keeps an RWMutex so snapshots can be taken from any goroutine.
// Listeners are invoked after the lock is released, on the goroutine that made
// the change.
package state
