// Package core defines the ports between the landing services and their stores.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// The core defines the interface and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

const (
	statsSummaryKeyPrefix = "stats:summary:"
	pageKeyPrefix         = "page:"
)

// PageCacheKey is the cache key for the rendered page at path.
func PageCacheKey(path string) string {
	return pageKeyPrefix + path
}

// StatsCacheService stores live stats summaries between page revalidations.
type StatsCacheService struct {
	cache  CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// StatsCacheConfig holds configuration for stats caching.
type StatsCacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// StatsCacheServiceOptions bundles dependencies for NewStatsCacheService.
type StatsCacheServiceOptions struct {
	Cache  CacheRepository
	Config StatsCacheConfig
	Logger *slog.Logger
}

// DefaultStatsCacheConfig returns a StatsCacheConfig with sensible defaults.
func DefaultStatsCacheConfig() StatsCacheConfig {
	return StatsCacheConfig{TTL: time.Hour}
}

// NewStatsCacheService creates a new StatsCacheService. A nil cache yields a
// service whose lookups always miss.
func NewStatsCacheService(opts StatsCacheServiceOptions) *StatsCacheService {
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultStatsCacheConfig().TTL
	}
	return &StatsCacheService{cache: opts.Cache, ttl: ttl, logger: opts.Logger}
}

func (s *StatsCacheService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Get returns the cached summary for filter. Cache errors are reported as a miss.
func (s *StatsCacheService) Get(ctx context.Context, filter model.ListingFilter) (model.StatsSummary, bool) {
	if s == nil || s.cache == nil {
		return model.StatsSummary{}, false
	}
	raw, err := s.cache.Get(ctx, statsSummaryKey(filter))
	if err != nil {
		s.log().WarnContext(ctx, "stats cache read failed", "scope", filter.Key(), "error", err)
		return model.StatsSummary{}, false
	}
	if len(raw) == 0 {
		return model.StatsSummary{}, false
	}
	var summary model.StatsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		s.log().WarnContext(ctx, "stats cache entry corrupt", "scope", filter.Key(), "error", err)
		return model.StatsSummary{}, false
	}
	return summary, true
}

// Put caches summary for filter. Summaries containing fallback values are not
// cached so the next request retries the store.
func (s *StatsCacheService) Put(ctx context.Context, filter model.ListingFilter, summary model.StatsSummary) error {
	if s == nil || s.cache == nil || !summary.IsLive() {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal stats summary: %w", err)
	}
	if err := s.cache.Set(ctx, statsSummaryKey(filter), raw, s.ttl); err != nil {
		return fmt.Errorf("cache stats summary: %w", err)
	}
	return nil
}

// Invalidate removes the cached summary for filter.
func (s *StatsCacheService) Invalidate(ctx context.Context, filter model.ListingFilter) error {
	if s == nil || s.cache == nil {
		return nil
	}
	_, err := s.cache.Delete(ctx, statsSummaryKey(filter))
	return err
}

func statsSummaryKey(filter model.ListingFilter) string {
	return statsSummaryKeyPrefix + filter.Key()
}
