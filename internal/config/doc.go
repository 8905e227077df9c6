// Package config loads, normalizes, and validates the TOML configuration for
// gameboxd.
package config
