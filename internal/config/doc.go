// Package config handles loading and parsing roster configuration files.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/roster/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_url        = "https://randomuser.me/api"
//	page_size      = 8
//	max_page_size  = 100
//	page_sizes     = [8, 20, 50, 100]
//	assumed_total  = 100
//	timeout        = "5s"
//	retries        = 0
//	refresh_every  = "0s"
//	seed           = "roster"
//	log_file       = "~/.local/state/roster/roster.log"
//	log_level      = "info"
//
//	[serve]
//	listen         = "127.0.0.1:7488"
//	db_path        = "~/.local/share/roster/directory.db"
//	seed_users     = 250
//
// Durations use time.ParseDuration syntax. refresh_every = "0s" disables the
// periodic refresh of the current page. An empty seed lets randomuser.me
// return different people on every request.
//
// # Validation
//
// After defaults are applied the struct is checked with validator tags:
// page_size must lie in [1, max_page_size], every entry of page_sizes must be
// positive and not above max_page_size, log_level is one of debug, info, warn
// or error, and serve.listen must be host:port. Invalid values are reported
// as "invalid config: ..." errors rather than silently replaced.
//
// # Path Expansion
//
// log_file and serve.db_path are tilde-expanded and made absolute, as is the
// config file path itself.
package config
