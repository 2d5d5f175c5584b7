// Package config loads the vnamon configuration file.
//
// # Overview
//
// The configuration names the measurement server, the credentials used to
// reach it and a few local settings. It is read once at startup; the
// resulting Config is never mutated, so credentials stay fixed for the
// lifetime of the process.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/vnamon/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//  5. VNAMON_PASSWORD, when set, replaces the password from the file
//
// # Default Values
//
//   - Port: 22
//   - Cache directory: ~/.local/share/vnamon
//   - Log file: ~/.local/state/vnamon/vnamon.log
//   - Sync interval: 3000 ms
//   - Redraw interval: 2000 ms
//   - Remote timeout: 20 s
//
// Host and user have no defaults. Validate reports ErrIncomplete when either
// is missing; the app refuses to sync in that case.
//
// # TOML Format
//
//	host = "vna.example.edu"
//	port = 22
//	user = "operator"
//	password = "..."
//	root_path = "/srv/measurements/"
//	cache_dir = "~/.local/share/vnamon"
//	known_hosts = "~/.ssh/known_hosts"
//	sync_interval_ms = 3000
//	redraw_interval_ms = 2000
//	remote_timeout_s = 20
//	log_file = "~/.local/state/vnamon/vnamon.log"
//
// An empty known_hosts accepts any host key.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors other
// than os.ErrNotExist, and TOML parse errors (mentioning "parse config").
package config
