// Package config loads vibeline's TOML configuration.
//
// Load resolves the config file (explicit path, then
// ~/.config/vibeline/config.toml, then ./vibeline.toml), layers .env files
// and environment fallbacks over it, expands paths, fills defaults, and
// validates the result. A missing file is not an error: defaults describe a
// usable local setup backed by sqlite.
package config
