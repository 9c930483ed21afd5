// Package ui provides the Bubble Tea terminal UI for roster.
//
// # Architecture
//
// Model owns a table.Controller and never talks to the network itself. Every
// controller update that dispatches a fetch hands back a *table.Request; the
// model wraps Request.Do in a tea.Cmd, and the resulting fetchResultMsg is
// passed to Controller.Complete on the Bubble Tea goroutine. Responses that
// arrive for an older epoch are discarded there, so rapid paging never shows
// a stale page.
//
//   - app.go: Model, messages, commands and Run
//   - actions.go: key handling for paging, sorting and filtering
//   - search.go: per-column search dropdown (local highlight only)
//   - natfilter.go: nationality filter modal
//   - view.go: header, lipgloss table, pagination and status line
//   - help.go, keys.go, theme.go, style_helpers.go: presentation
//
// # Interaction
//
// Paging, page size, sort and the gender and nationality filters change the
// shared view state and therefore refetch. Sorting, filtering and changing
// the page size return to a page that keeps the first visible row on screen
// (sort and filter always go back to page 1). Search only highlights matches
// in the loaded page and never triggers a request.
//
// Theme and page size choices are persisted through the prefs package.
package ui
