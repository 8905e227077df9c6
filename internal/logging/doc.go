// Package logging wires log/slog handlers for console and JSON output and
// provides the attribute helpers used across the rest of the codebase.
package logging
