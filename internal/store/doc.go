// Package store persists accounts, the game catalog, and reviews in a local
// SQLite database. It owns schema creation, busy-retry handling, and the
// catalog normalization pass; merge rules for review content live in the
// review package.
package store
