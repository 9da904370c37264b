package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fractionaljobs/landing/internal/core"
	"github.com/fractionaljobs/landing/internal/domain/model"
	obserrors "github.com/fractionaljobs/landing/internal/observability/errors"
	"github.com/fractionaljobs/landing/internal/observability/metrics"
	"github.com/fractionaljobs/landing/internal/observability/statsd"
	"github.com/fractionaljobs/landing/internal/observability/tracing"
)

// MaxListingLimit caps how many rows a single fetch may return.
const MaxListingLimit = 100

// ListingFetcherOptions groups dependencies for RecentListingsFetcher and FeaturedCompaniesFetcher.
type ListingFetcherOptions struct {
	Store   core.ListingStore // Required
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// RecentListingsFetcher returns the newest active listings in a scope.
// Failures yield an empty list, never an error.
type RecentListingsFetcher struct {
	store   core.ListingStore
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewRecentListingsFetcher creates a RecentListingsFetcher. It panics if Store is nil.
func NewRecentListingsFetcher(opts ListingFetcherOptions) *RecentListingsFetcher {
	if opts.Store == nil {
		panic("RecentListingsFetcher: Store is required")
	}
	return &RecentListingsFetcher{store: opts.Store, logger: opts.Logger, metrics: opts.Metrics}
}

// GetRecent returns up to limit listings ordered by posted date, newest
// first, undated listings last. limit <= 0 returns an empty list without
// touching the store.
func (f *RecentListingsFetcher) GetRecent(ctx context.Context, filter model.ListingFilter, limit int) []model.JobListing {
	if limit <= 0 {
		return []model.JobListing{}
	}
	return fetchOrEmpty(ctx, fetchSpec[model.JobListing]{
		kind:    "recent",
		filter:  filter.Normalize(),
		limit:   min(limit, MaxListingLimit),
		logger:  f.logger,
		metrics: f.metrics,
		fetch:   f.store.ListRecent,
	})
}

// FeaturedCompaniesFetcher returns the companies with the most active roles in a scope.
type FeaturedCompaniesFetcher struct {
	store   core.ListingStore
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewFeaturedCompaniesFetcher creates a FeaturedCompaniesFetcher. It panics if Store is nil.
func NewFeaturedCompaniesFetcher(opts ListingFetcherOptions) *FeaturedCompaniesFetcher {
	if opts.Store == nil {
		panic("FeaturedCompaniesFetcher: Store is required")
	}
	return &FeaturedCompaniesFetcher{store: opts.Store, logger: opts.Logger, metrics: opts.Metrics}
}

// GetFeatured has the same contract as GetRecent.
func (f *FeaturedCompaniesFetcher) GetFeatured(ctx context.Context, filter model.ListingFilter, limit int) []model.FeaturedCompany {
	if limit <= 0 {
		return []model.FeaturedCompany{}
	}
	return fetchOrEmpty(ctx, fetchSpec[model.FeaturedCompany]{
		kind:    "featured",
		filter:  filter.Normalize(),
		limit:   min(limit, MaxListingLimit),
		logger:  f.logger,
		metrics: f.metrics,
		fetch:   f.store.ListFeaturedCompanies,
	})
}

type fetchSpec[T any] struct {
	kind    string
	filter  model.ListingFilter
	limit   int
	logger  *slog.Logger
	metrics statsd.Sink
	fetch   func(context.Context, model.ListingFilter, int) ([]T, error)
}

func fetchOrEmpty[T any](ctx context.Context, s fetchSpec[T]) []T {
	scope := s.filter.Key()
	ctx, span := tracing.Start(ctx, "listings."+s.kind, scope, attribute.Int("landing.limit", s.limit))

	start := time.Now()
	items, err := s.fetch(ctx, s.filter, s.limit)
	metrics.EmitListingFetch(s.metrics, metrics.ListingMetric{
		Kind:     s.kind,
		Scope:    scope,
		Count:    len(items),
		Duration: time.Since(start),
		Err:      err,
	})
	tracing.End(span, err)

	if err != nil {
		logger := s.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(ctx, "listing fetch failed, returning empty",
			"component", "listings",
			"kind", s.kind,
			"scope", scope,
			"error_class", obserrors.Classify(err),
			"error", err,
		)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	if len(items) > s.limit {
		items = items[:s.limit]
	}
	return items
}
