// Package main hosts the gameboxd CLI entrypoint and command graph.
//
// The Cobra-based command tree covers account registration, review
// submission and maintenance, catalog views, metadata search, the dedup
// batch job, the HTTP API server, and configuration scaffolding. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
package main
