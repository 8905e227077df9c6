package ttlcache_test

import (
	"testing"
	"time"

	"gameboxd/internal/ttlcache"
)

func TestGetReturnsStoredValue(t *testing.T) {
	cache := ttlcache.New[string](time.Hour)
	cache.Put("k", "v")

	got, ok := cache.Get("k")
	if !ok {
		t.Fatal("expected hit for stored key")
	}
	if got != "v" {
		t.Fatalf("expected v, got %q", got)
	}

	if _, ok := cache.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestExpiryIsLazy(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := ttlcache.New(time.Hour, ttlcache.WithClock[int](func() time.Time { return now }))

	cache.Put("k", 42)

	now = now.Add(time.Hour)
	if _, ok := cache.Get("k"); !ok {
		t.Fatal("entry exactly at ttl should still be present")
	}

	now = now.Add(time.Second)
	if _, ok := cache.Get("k"); ok {
		t.Fatal("entry past ttl should be absent")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected stale entry removed on read, len=%d", cache.Len())
	}
}

func TestPutRestartsTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := ttlcache.New(time.Minute, ttlcache.WithClock[int](func() time.Time { return now }))

	cache.Put("k", 1)
	now = now.Add(50 * time.Second)
	cache.Put("k", 2)
	now = now.Add(50 * time.Second)

	got, ok := cache.Get("k")
	if !ok {
		t.Fatal("expected rewritten entry to be live")
	}
	if got != 2 {
		t.Fatalf("expected last write to win, got %d", got)
	}
}

func TestDelete(t *testing.T) {
	cache := ttlcache.New[string](time.Hour)
	cache.Put("k", "v")
	cache.Delete("k")
	if _, ok := cache.Get("k"); ok {
		t.Fatal("expected deleted key to be absent")
	}
}
