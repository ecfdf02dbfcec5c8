// Package config provides the configuration for codepad.
//
// Configuration is a single file, either TOML or YAML, chosen by extension.
// Keys that are absent keep their built-in defaults:
//
//	[editor]
//	language = "go"
//	tab_width = 4
//	relative_numbers = true
//
//	[history]
//	capacity = 1000
//	debounce_ms = 500
//
//	[theme]
//	name = "monokai"
//	[theme.colors]
//	keyword = "#ff79c6"
//	"rainbow.0" = "#ffd700"
//
// A Watcher reloads the file when it changes on disk.
package config
