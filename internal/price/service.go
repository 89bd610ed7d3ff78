// Package price maintains the cached market snapshot and the rolling price
// history consumed by alert formatting.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/observability"
)

// Default configuration values.
const (
	DefaultAPIBaseURL = "https://api.dexscreener.com/latest/dex/tokens"
	DefaultCacheTTL   = 30 * time.Second
)

// Service fetches the watched token's market snapshot and caches it for a
// bounded TTL. On fetch failure the last known snapshot is served, however
// stale; a nil result means "price unavailable" and is not an error.
type Service struct {
	baseURL string
	mint    string
	client  *http.Client
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	cached    *domain.PriceSnapshot
	fetchedAt time.Time
}

// ServiceOptions contains configuration for creating a Service.
type ServiceOptions struct {
	BaseURL  string // Default: DefaultAPIBaseURL
	Mint     string
	CacheTTL time.Duration // Default: DefaultCacheTTL
	Client   *http.Client
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewService creates a price service for the watched mint.
func NewService(opts ServiceOptions) *Service {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		baseURL: baseURL,
		mint:    opts.Mint,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		now:     now,
	}
}

// CurrentPrice returns the cached snapshot if younger than the TTL,
// otherwise refetches. Returns nil when the cache is empty and the fetch
// failed.
func (s *Service) CurrentPrice(ctx context.Context) *domain.PriceSnapshot {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		snapshot := *s.cached
		s.mu.Unlock()
		return &snapshot
	}
	s.mu.Unlock()

	snapshot, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("price fetch failed, serving cached snapshot", zap.Error(err))
		observability.RecordPriceFetchError()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.cached == nil {
			return nil
		}
		stale := *s.cached
		return &stale
	}

	s.mu.Lock()
	s.cached = snapshot
	s.fetchedAt = s.now()
	s.mu.Unlock()

	copied := *snapshot
	return &copied
}

// fetch retrieves the snapshot from the price API. The first listed pair is
// taken as the reference market, which the API orders by liquidity.
func (s *Service) fetch(ctx context.Context) (*domain.PriceSnapshot, error) {
	url := s.baseURL + "/" + s.mint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result tokenPairsResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(result.Pairs) == 0 {
		return nil, fmt.Errorf("no pairs listed for %s", s.mint)
	}

	main := result.Pairs[0]
	return &domain.PriceSnapshot{
		PriceUSD:       parsePriceString(main.PriceUSD),
		PriceChange24h: main.PriceChange.H24,
		Volume24h:      main.Volume.H24,
		Liquidity:      main.Liquidity.USD,
		MarketCap:      main.MarketCap,
		FDV:            main.FDV,
		PairAddress:    main.PairAddress,
		DexID:          main.DexID,
	}, nil
}

// parsePriceString parses the API's string-encoded USD price; malformed
// values count as zero.
func parsePriceString(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// tokenPairsResult is the raw price API response.
type tokenPairsResult struct {
	Pairs []tokenPair `json:"pairs"`
}

type tokenPair struct {
	PriceUSD    string `json:"priceUsd"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	FDV         float64 `json:"fdv"`
	MarketCap   float64 `json:"marketCap"`
	PairAddress string  `json:"pairAddress"`
	DexID       string  `json:"dexId"`
}
