// Package ttlcache implements the expiring in-process cache used to memoize
// external metadata lookups.
package ttlcache
