// Package table implements the remote-backed table controller.
//
// The Controller observes a state.Store and turns every canonical change of
// the view state into a Request. Callers run Request.Do wherever they like (a
// bubbletea command, a goroutine, inline in tests) and feed the Result back
// through Complete on the control goroutine:
//
//	ctrl := table.NewController[randomuser.User](store, client)
//	req := ctrl.Start()
//	res := req.Do(ctx)
//	ctrl.Complete(res) // OutcomeAccepted
//
// Each dispatch increments the fetch epoch and every Result carries the epoch
// it was dispatched under. Complete only applies the result of the latest
// epoch; anything older is discarded without surfacing an error, whatever the
// order in which responses arrive. In-flight requests are never aborted.
//
// A failed latest fetch stops the loading state and exposes a
// *TransportError through Err while the previously displayed records stay in
// place. Changing the page size is the exception: the records are dropped as
// soon as the new fetch is dispatched, so a failure afterwards leaves the table
// empty.
//
// The Overlay is purely local. It records a free-text search for one column,
// answers Matches and HighlightSpans for records of the current page, and keeps
// the per-column dropdown input state. Nothing it does reaches the store or the
// data source.
package table
