package state

import (
	"fmt"
	"slices"
	"sync"
)

// DefaultMaxPageSize caps page sizes when the store is built without one.
const DefaultMaxPageSize = 100

// ChangeKind identifies which operation produced a Change.
type ChangeKind int

const (
	ChangePagination ChangeKind = iota
	ChangeSort
	ChangeFilter
	ChangeTotal
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePagination:
		return "pagination"
	case ChangeSort:
		return "sort"
	case ChangeFilter:
		return "filter"
	case ChangeTotal:
		return "total"
	default:
		return "unknown"
	}
}

// Change is published to subscribers after every committed mutation.
type Change struct {
	Kind            ChangeKind
	Prev            ViewState
	Next            ViewState
	PageSizeChanged bool
}

// Store holds the authoritative ViewState.
type Store struct {
	mu          sync.RWMutex
	view        ViewState
	maxPageSize int
	listeners   []listener
	nextID      int
}

type listener struct {
	id int
	fn func(Change)
}

// NewStore creates a store at page 1 with the given page size and no sort or
// filters.
func NewStore(pageSize, maxPageSize int) (*Store, error) {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	s := &Store{maxPageSize: maxPageSize}
	initial := Pagination{Page: 1, PageSize: pageSize}
	if err := s.validatePagination(initial); err != nil {
		return nil, err
	}
	s.view.Pagination = initial
	return s, nil
}

// MaxPageSize returns the largest accepted page size.
func (s *Store) MaxPageSize() int {
	return s.maxPageSize
}

// Subscribe registers fn for every future Change. Listeners run synchronously,
// in registration order, after the new value is committed.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a copy of the current view state.
func (s *Store) Snapshot() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Clone()
}

// UpdatePagination moves to page with pageSize. The published change flags a
// page size switch so consumers can drop rows sized for the old page.
func (s *Store) UpdatePagination(page, pageSize int) (Change, error) {
	return s.commit(ChangePagination, func(v *ViewState) error {
		next := v.Pagination
		next.Page = page
		next.PageSize = pageSize
		if err := s.validatePagination(next); err != nil {
			return err
		}
		v.Pagination = next
		return nil
	})
}

// UpdateSort replaces the sort spec and returns to the first page.
func (s *Store) UpdateSort(spec SortSpec) (Change, error) {
	return s.commit(ChangeSort, func(v *ViewState) error {
		if err := spec.Validate(); err != nil {
			return err
		}
		v.Sort = slices.Clone(spec)
		v.Pagination.Page = 1
		return nil
	})
}

// UpdateFilter replaces the filter spec and returns to the first page.
func (s *Store) UpdateFilter(spec FilterSpec) (Change, error) {
	return s.commit(ChangeFilter, func(v *ViewState) error {
		if err := spec.Validate(); err != nil {
			return err
		}
		v.Filters = spec.clone()
		v.Pagination.Page = 1
		return nil
	})
}

// SetTotal records the total item count reported by the data source.
func (s *Store) SetTotal(total int) Change {
	if total < 0 {
		total = 0
	}
	change, _ := s.commit(ChangeTotal, func(v *ViewState) error {
		v.Pagination.Total = total
		v.Pagination.TotalKnown = true
		return nil
	})
	return change
}

func (s *Store) commit(kind ChangeKind, mutate func(*ViewState) error) (Change, error) {
	s.mu.Lock()
	prev := s.view.Clone()
	next := s.view.Clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return Change{}, err
	}
	s.view = next
	listeners := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	change := Change{
		Kind:            kind,
		Prev:            prev,
		Next:            next.Clone(),
		PageSizeChanged: prev.Pagination.PageSize != next.Pagination.PageSize,
	}
	for _, l := range listeners {
		l.fn(change)
	}
	return change, nil
}

func (s *Store) validatePagination(p Pagination) error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page %d must be positive", ErrInvalidQueryState, p.Page)
	}
	if p.PageSize < 1 {
		return fmt.Errorf("%w: page size %d must be positive", ErrInvalidQueryState, p.PageSize)
	}
	if p.PageSize > s.maxPageSize {
		return fmt.Errorf("%w: page size %d exceeds %d", ErrInvalidQueryState, p.PageSize, s.maxPageSize)
	}
	return nil
}
