package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	searchTimeout  = 5 * time.Second
	detailsTimeout = 6 * time.Second
)

// SearchResult represents a single RAWG search match.
type SearchResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	CoverURL string `json:"background_image"`
}

// StoreLink is one storefront where a game can be obtained.
type StoreLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GameDetails captures the RAWG per-game payload fields the application uses.
type GameDetails struct {
	Name       string
	CoverURL   string
	Rating     float64
	Metacritic int
	Stores     []StoreLink
}

// Searcher defines the RAWG operations consumed by the lookup service.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	Details(ctx context.Context, gameID int64) (*GameDetails, error)
}

// Client provides access to the RAWG API.
type Client struct {
	apiKey     string
	baseURL    string
	mediaHost  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New creates a RAWG client. mediaHost is the canonical host used to complete
// root-relative cover image paths.
func New(apiKey, baseURL, mediaHost string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("rawg api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("rawg base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		mediaHost:  strings.TrimRight(strings.TrimSpace(mediaHost), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchPayload struct {
	Results []SearchResult `json:"results"`
}

// Search queries RAWG for games matching query and returns at most limit
// results in the upstream order. Cover URLs are normalized.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if limit < 1 {
		limit = 1
	}

	endpoint, err := url.Parse(c.baseURL + "/games")
	if err != nil {
		return nil, fmt.Errorf("parse rawg url: %w", err)
	}
	params := url.Values{}
	params.Set("search", query)
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	var payload searchPayload
	if err := c.getJSON(ctx, endpoint.String(), "rawg search", &payload); err != nil {
		return nil, err
	}

	results := payload.Results
	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].CoverURL = NormalizeCoverURL(results[i].CoverURL, c.mediaHost)
	}
	return results, nil
}

type detailsPayload struct {
	Name            string  `json:"name"`
	BackgroundImage string  `json:"background_image"`
	Rating          float64 `json:"rating"`
	Metacritic      int     `json:"metacritic"`
	Stores          []struct {
		URL   string `json:"url"`
		Store struct {
			Name string `json:"name"`
		} `json:"store"`
	} `json:"stores"`
}

// Details fetches per-game metadata by RAWG ID. Store entries missing a name
// or URL are dropped.
func (c *Client) Details(ctx context.Context, gameID int64) (*GameDetails, error) {
	if gameID <= 0 {
		return nil, errors.New("game id must be positive")
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/games/%d", c.baseURL, gameID))
	if err != nil {
		return nil, fmt.Errorf("parse rawg url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, detailsTimeout)
	defer cancel()

	var payload detailsPayload
	if err := c.getJSON(ctx, endpoint.String(), "rawg details", &payload); err != nil {
		return nil, err
	}

	details := &GameDetails{
		Name:       payload.Name,
		CoverURL:   NormalizeCoverURL(payload.BackgroundImage, c.mediaHost),
		Rating:     payload.Rating,
		Metacritic: payload.Metacritic,
	}
	for _, entry := range payload.Stores {
		name := strings.TrimSpace(entry.Store.Name)
		link := strings.TrimSpace(entry.URL)
		if name == "" || link == "" {
			continue
		}
		details.Stores = append(details.Stores, StoreLink{Name: name, URL: link})
	}
	return details, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, operation string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s throttle: %w", operation, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d (latency=%v)", operation, resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
