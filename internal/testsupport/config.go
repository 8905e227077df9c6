package testsupport

import (
	"path/filepath"
	"testing"

	"gameboxd/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.RAWG.APIKey = "test"
	cfg.Server.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithRAWGKey sets the RAWG API key on the test config. An empty key models a
// deployment running without metadata lookups.
func WithRAWGKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.RAWG.APIKey = key
	}
}

// WithCacheTTL overrides the lookup cache TTL in seconds.
func WithCacheTTL(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cache.TTLSeconds = seconds
	}
}
