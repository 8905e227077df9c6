package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gameboxd/internal/config"
	"gameboxd/internal/logging"
	"gameboxd/internal/rawg"
	"gameboxd/internal/ttlcache"
)

const (
	minSearchLimit = 1
	maxSearchLimit = 6
)

// Service answers game metadata lookups, consulting an in-process cache before
// the RAWG API. Every failure mode is soft: a missing API key, an upstream
// error, or a timeout yields empty results rather than an error, so metadata
// enrichment can never block review functionality.
type Service struct {
	client  rawg.Searcher
	logger  *slog.Logger
	search  *ttlcache.Cache[[]rawg.SearchResult]
	details *ttlcache.Cache[*rawg.GameDetails]
}

// Option configures a Service.
type Option func(*options)

type options struct {
	client rawg.Searcher
	clock  func() time.Time
}

// WithSearcher substitutes the RAWG client, for tests.
func WithSearcher(client rawg.Searcher) Option {
	return func(o *options) { o.client = client }
}

// WithClock overrides the cache time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// NewService builds a lookup service from configuration. Without an API key
// the service stays functional and returns no data.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil && cfg.RAWG.APIKey != "" {
		real, err := rawg.New(
			cfg.RAWG.APIKey,
			cfg.RAWG.BaseURL,
			cfg.RAWG.MediaHost,
			rawg.WithRateLimit(cfg.RAWG.RequestsPerSecond),
		)
		if err != nil {
			return nil, fmt.Errorf("build rawg client: %w", err)
		}
		client = real
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return &Service{
		client:  client,
		logger:  logging.NewComponentLogger(logger, "lookup"),
		search:  ttlcache.New(ttl, ttlcache.WithClock[[]rawg.SearchResult](o.clock)),
		details: ttlcache.New(ttl, ttlcache.WithClock[*rawg.GameDetails](o.clock)),
	}, nil
}

// Search returns up to limit matches for query. The limit is clamped to
// [1, 6]. An empty query, a missing API key, or an upstream failure yields an
// empty slice.
func (s *Service) Search(ctx context.Context, query string, limit int) []rawg.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" || s.client == nil {
		return nil
	}
	if limit < minSearchLimit {
		limit = minSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	key := fmt.Sprintf("search:%s:%d", strings.ToLower(query), limit)
	if cached, ok := s.search.Get(key); ok {
		return cached
	}

	results, err := s.client.Search(ctx, query, limit)
	if err != nil {
		s.logger.Debug("rawg search failed",
			logging.String("query", query),
			logging.Error(err))
		return nil
	}

	s.search.Put(key, results)
	return results
}

// Details returns metadata for a RAWG game ID, or nil when the ID is invalid,
// no API key is configured, or the upstream call fails.
func (s *Service) Details(ctx context.Context, gameID int64) *rawg.GameDetails {
	if gameID <= 0 || s.client == nil {
		return nil
	}

	key := fmt.Sprintf("details:%d", gameID)
	if cached, ok := s.details.Get(key); ok {
		return cached
	}

	details, err := s.client.Details(ctx, gameID)
	if err != nil {
		s.logger.Debug("rawg details failed",
			logging.Int64("game_id", gameID),
			logging.Error(err))
		return nil
	}

	s.details.Put(key, details)
	return details
}

// Enrich resolves the best metadata match for a game name: the top search hit
// followed by a detail fetch. Returns nil when nothing could be resolved.
func (s *Service) Enrich(ctx context.Context, name string) *rawg.GameDetails {
	results := s.Search(ctx, name, 1)
	if len(results) == 0 || results[0].ID == 0 {
		return nil
	}
	return s.Details(ctx, results[0].ID)
}
