// Package config holds pmedit's runtime configuration.
//
// Configuration is layered: built-in defaults, then an optional TOML or
// YAML file, then PMEDIT_* environment variables. Each layer is a nested
// map[string]any produced by package loader; the merged map is decoded
// into a Config with FromMap.
//
// Example TOML:
//
//	[selection]
//	updateInterval = "20ms"
//	syncInterval = 100          # milliseconds
//	forceFocusBeforeRange = false
//
//	[logging]
//	level = "debug"
package config
