package lookup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gameboxd/internal/config"
	"gameboxd/internal/lookup"
	"gameboxd/internal/rawg"
)

type fakeSearcher struct {
	searchCalls  int
	detailsCalls int
	searchErr    error
	detailsErr   error
	results      []rawg.SearchResult
	details      *rawg.GameDetails
	lastLimit    int
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]rawg.SearchResult, error) {
	f.searchCalls++
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeSearcher) Details(_ context.Context, gameID int64) (*rawg.GameDetails, error) {
	f.detailsCalls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details, nil
}

func newService(t *testing.T, fake *fakeSearcher, now *time.Time) *lookup.Service {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.TTLSeconds = 3600
	svc, err := lookup.NewService(&cfg, nil,
		lookup.WithSearcher(fake),
		lookup.WithClock(func() time.Time { return *now }),
	)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestSearchCachesWithinTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	fake := &fakeSearcher{results: []rawg.SearchResult{{ID: 1, Name: "Celeste"}}}
	svc := newService(t, fake, &now)

	ctx := context.Background()
	first := svc.Search(ctx, "Celeste", 1)
	if len(first) != 1 {
		t.Fatalf("expected one result, got %d", len(first))
	}

	// Same key within the TTL: no second upstream call.
	svc.Search(ctx, "celeste", 1)
	if fake.searchCalls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", fake.searchCalls)
	}

	// Past the TTL the entry is stale and the lookup refetches.
	now = now.Add(time.Hour + time.Second)
	svc.Search(ctx, "celeste", 1)
	if fake.searchCalls != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", fake.searchCalls)
	}
}

func TestSearchClampsLimit(t *testing.T) {
	now := time.Unix(1000, 0)
	fake := &fakeSearcher{}
	svc := newService(t, fake, &now)

	svc.Search(context.Background(), "a", 0)
	if fake.lastLimit != 1 {
		t.Fatalf("expected limit clamped to 1, got %d", fake.lastLimit)
	}
	svc.Search(context.Background(), "b", 99)
	if fake.lastLimit != 6 {
		t.Fatalf("expected limit clamped to 6, got %d", fake.lastLimit)
	}
}

func TestSearchFailsSoft(t *testing.T) {
	now := time.Unix(1000, 0)
	fake := &fakeSearcher{searchErr: errors.New("boom")}
	svc := newService(t, fake, &now)

	if results := svc.Search(context.Background(), "celeste", 1); results != nil {
		t.Fatalf("expected nil results on upstream error, got %#v", results)
	}

	// Failures are not cached; the next call retries upstream.
	svc.Search(context.Background(), "celeste", 1)
	if fake.searchCalls != 2 {
		t.Fatalf("expected failed lookups uncached, got %d calls", fake.searchCalls)
	}
}

func TestSearchWithoutAPIKeyReturnsNothing(t *testing.T) {
	cfg := config.Default()
	cfg.RAWG.APIKey = ""
	svc, err := lookup.NewService(&cfg, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if results := svc.Search(context.Background(), "celeste", 1); results != nil {
		t.Fatalf("expected no results without api key, got %#v", results)
	}
	if details := svc.Details(context.Background(), 5); details != nil {
		t.Fatalf("expected no details without api key, got %#v", details)
	}
}

func TestDetailsCachesWithinTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	fake := &fakeSearcher{details: &rawg.GameDetails{Name: "Celeste", Rating: 4.4}}
	svc := newService(t, fake, &now)

	ctx := context.Background()
	if details := svc.Details(ctx, 5679); details == nil || details.Name != "Celeste" {
		t.Fatalf("unexpected details: %#v", details)
	}
	svc.Details(ctx, 5679)
	if fake.detailsCalls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", fake.detailsCalls)
	}

	now = now.Add(2 * time.Hour)
	svc.Details(ctx, 5679)
	if fake.detailsCalls != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", fake.detailsCalls)
	}
}

func TestDetailsFailsSoft(t *testing.T) {
	now := time.Unix(1000, 0)
	fake := &fakeSearcher{detailsErr: errors.New("boom")}
	svc := newService(t, fake, &now)

	if details := svc.Details(context.Background(), 5); details != nil {
		t.Fatalf("expected nil details on upstream error, got %#v", details)
	}
}

func TestEnrichChainsSearchAndDetails(t *testing.T) {
	now := time.Unix(1000, 0)
	fake := &fakeSearcher{
		results: []rawg.SearchResult{{ID: 42, Name: "Celeste"}},
		details: &rawg.GameDetails{Name: "Celeste", CoverURL: "https://media.rawg.io/media/c.jpg"},
	}
	svc := newService(t, fake, &now)

	details := svc.Enrich(context.Background(), "celeste")
	if details == nil || details.CoverURL != "https://media.rawg.io/media/c.jpg" {
		t.Fatalf("unexpected enrich result: %#v", details)
	}

	fake.results = nil
	if details := svc.Enrich(context.Background(), "unknown game"); details != nil {
		t.Fatalf("expected nil for unmatched name, got %#v", details)
	}
}
