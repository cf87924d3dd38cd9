// Package config loads undolog settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file chosen by extension
//  3. UNDOLOG_* environment variables
//
// A file looks like:
//
//	[undo]
//	soft_limit = 80000
//	strong_limit = 120000
//	outer_limit = 12000000   # 0 disables the outer limit
//	overflow = "discard"     # or "none"
//	auto_collect = true
//	memory_limit = 0         # heap bytes, 0 disables the check
//
//	[logging]
//	level = "info"
//	format = "console"
//
//	[scripts]
//	paths = ["retention.lua"]
//	timeout = "2s"
//
// Reloader watches the file and re-applies it while the program runs.
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment sources
//   - watcher: debounced fsnotify file watching
package config
