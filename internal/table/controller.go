package table

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/five82/roster/internal/state"
)

// Outcome is what Complete did with a result.
type Outcome int

const (
	// OutcomeAccepted means the result replaced the displayed records.
	OutcomeAccepted Outcome = iota
	// OutcomeDiscarded means a newer fetch had been dispatched; nothing changed.
	OutcomeDiscarded
	// OutcomeFailed means the latest fetch failed and Err now reports it.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request is one dispatched fetch. Do may run on any goroutine; it reads no
// controller state.
type Request[R any] struct {
	Epoch  uint64
	Query  Query
	source Source[R]
}

// Do performs the fetch and tags the result with the request's epoch.
func (r *Request[R]) Do(ctx context.Context) Result[R] {
	page, err := r.source.Fetch(ctx, r.Query)
	return Result[R]{Epoch: r.Epoch, Query: r.Query, Page: page, Err: err}
}

// Result is handed back to Controller.Complete on the control goroutine.
type Result[R any] struct {
	Epoch uint64
	Query Query
	Page  Page[R]
	Err   error
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for dispatch and reconciliation events.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Controller keeps the displayed records in step with the latest view state.
// All methods must be called from a single goroutine.
type Controller[R Record] struct {
	store   *state.Store
	source  Source[R]
	overlay *Overlay
	logger  *log.Logger

	epoch      uint64
	settled    bool
	dispatched int
	canonical  string
	pending    *Request[R]

	records []R
	loading bool
	err     error

	unsubscribe func()
}

// NewController subscribes to store. Call Start to issue the first fetch.
func NewController[R Record](store *state.Store, source Source[R], opts ...Option) *Controller[R] {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Controller[R]{
		store:   store,
		source:  source,
		overlay: NewOverlay(),
		logger:  o.logger,
		settled: true,
	}
	c.unsubscribe = store.Subscribe(c.observe)
	return c
}

// Close detaches the controller from its store.
func (c *Controller[R]) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Start dispatches the fetch for the current view state.
func (c *Controller[R]) Start() *Request[R] {
	return c.dispatch(c.store.Snapshot())
}

// Refresh re-dispatches the current view state even though it is unchanged.
func (c *Controller[R]) Refresh() *Request[R] {
	return c.dispatch(c.store.Snapshot())
}

// UpdatePagination changes page and page size. A nil request means the new
// state is canonically equal to the current one.
func (c *Controller[R]) UpdatePagination(page, pageSize int) (*Request[R], error) {
	c.pending = nil
	if _, err := c.store.UpdatePagination(page, pageSize); err != nil {
		return nil, err
	}
	return c.TakePending(), nil
}

// UpdateSort replaces the sort spec.
func (c *Controller[R]) UpdateSort(spec state.SortSpec) (*Request[R], error) {
	c.pending = nil
	if _, err := c.store.UpdateSort(spec); err != nil {
		return nil, err
	}
	return c.TakePending(), nil
}

// UpdateFilter replaces the filter spec.
func (c *Controller[R]) UpdateFilter(spec state.FilterSpec) (*Request[R], error) {
	c.pending = nil
	if _, err := c.store.UpdateFilter(spec); err != nil {
		return nil, err
	}
	return c.TakePending(), nil
}

// TakePending returns the request dispatched by the last observed store change,
// if any. Callers that mutate the store directly use it to pick up the fetch.
func (c *Controller[R]) TakePending() *Request[R] {
	req := c.pending
	c.pending = nil
	return req
}

// Complete reconciles a finished fetch with the current state.
func (c *Controller[R]) Complete(res Result[R]) Outcome {
	if res.Epoch != c.epoch || c.settled {
		c.logger.Debug("discard stale response", "epoch", res.Epoch, "current", c.epoch)
		return OutcomeDiscarded
	}
	c.settled = true
	c.loading = false

	if res.Err != nil {
		c.err = &TransportError{Epoch: res.Epoch, Query: res.Query, Err: res.Err}
		c.logger.Warn("fetch failed", "epoch", res.Epoch, "page", res.Query.Page, "err", res.Err)
		return OutcomeFailed
	}

	c.records = slices.Clone(res.Page.Records)
	c.err = nil
	c.store.SetTotal(res.Page.Total)
	c.logger.Debug("accept response", "epoch", res.Epoch, "records", len(res.Page.Records), "total", res.Page.Total)
	return OutcomeAccepted
}

// Records returns the displayed records.
func (c *Controller[R]) Records() []R {
	return slices.Clone(c.records)
}

// ViewState returns the store's current state.
func (c *Controller[R]) ViewState() state.ViewState {
	return c.store.Snapshot()
}

// Pagination returns the current pagination, including the reported total.
func (c *Controller[R]) Pagination() state.Pagination {
	return c.store.Snapshot().Pagination
}

// Loading reports whether the latest fetch is outstanding.
func (c *Controller[R]) Loading() bool {
	return c.loading
}

// Err returns the latest fetch's failure, or nil.
func (c *Controller[R]) Err() error {
	return c.err
}

// Epoch returns the epoch of the most recent dispatch.
func (c *Controller[R]) Epoch() uint64 {
	return c.epoch
}

// FetchCount returns how many fetches have been dispatched.
func (c *Controller[R]) FetchCount() int {
	return c.dispatched
}

// Overlay returns the local search/highlight overlay.
func (c *Controller[R]) Overlay() *Overlay {
	return c.overlay
}

func (c *Controller[R]) observe(change state.Change) {
	if change.PageSizeChanged {
		// Rows sized for the old page would render inconsistently until the new
		// page arrives.
		c.records = nil
	}
	if change.Next.Canonical() == c.canonical {
		return
	}
	c.pending = c.dispatch(change.Next)
}

func (c *Controller[R]) dispatch(view state.ViewState) *Request[R] {
	c.epoch++
	c.dispatched++
	c.settled = false
	c.canonical = view.Canonical()
	c.loading = true
	c.err = nil

	req := &Request[R]{Epoch: c.epoch, Query: QueryFor(view), source: c.source}
	c.logger.Debug("dispatch", "epoch", req.Epoch, "state", c.canonical)
	return req
}
