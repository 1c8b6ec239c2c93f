// Package config loads, normalizes, and validates wxwatch configuration.
//
// Configuration is TOML with a sample embedded in the binary. Lookup order:
// an explicit --config path, ~/.config/wxwatch/config.toml, then a
// project-local wxwatch.toml. Missing files fall back to defaults, which
// still require paths.watch_root to be set.
package config
