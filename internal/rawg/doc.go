// Package rawg implements the HTTP client for the RAWG games metadata API:
// search-by-name and per-game detail fetches, with cover URL normalization and
// request throttling. Soft-failure semantics live one layer up in the lookup
// service; this client reports real errors.
package rawg
