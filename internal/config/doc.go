// Package config loads lined's settings.
//
// Settings are resolved in layers, each overriding the one below:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. LINED_* Environment     │
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/lined/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The config file is TOML or YAML, chosen by its extension. Flags are
// applied by the caller after Load returns; Validate should be called
// again afterwards.
//
// Example config.toml:
//
//	[log]
//	level = "debug"
//	file = "/tmp/lined.log"
//
//	[editor]
//	start_mode = "command"
//	error_indicator = true
//	queue_size = 256
//
//	[ui]
//	frontend = "line"
//
//	[script]
//	init = "~/.config/lined/init.lua"
package config
