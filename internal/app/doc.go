// Package app is the composition root for roster.
//
// Run loads config.toml and prefs.toml, opens the log file, builds the view
// state store, the users client and the table controller, and hands the
// controller to the TUI. Serve opens the SQLite-backed directory, seeds it when
// empty and serves it over HTTP. Dump performs one headless controller round
// trip and prints the page as a table, which makes the paging, sort, filter
// and search behaviour scriptable. Logs prints the tail of the TUI log file.
//
// Configuration errors are fatal. Fetch failures are not: the TUI shows them
// and keeps running, while Dump returns the *table.TransportError.
package app
