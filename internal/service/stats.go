package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/fractionaljobs/landing/internal/core"
	"github.com/fractionaljobs/landing/internal/domain/compensation"
	"github.com/fractionaljobs/landing/internal/domain/model"
	obserrors "github.com/fractionaljobs/landing/internal/observability/errors"
	"github.com/fractionaljobs/landing/internal/observability/metrics"
	"github.com/fractionaljobs/landing/internal/observability/statsd"
	"github.com/fractionaljobs/landing/internal/observability/tracing"
)

// DefaultStatsQueryTimeout bounds each statistic query.
const DefaultStatsQueryTimeout = 2 * time.Second

// StatsAggregatorConfig holds tunables and optional collaborators.
type StatsAggregatorConfig struct {
	QueryTimeout time.Duration
	Fallbacks    FallbackTable
	Cache        *core.StatsCacheService // optional
	Metrics      statsd.Sink             // optional
}

// StatsAggregatorOptions groups dependencies for StatsAggregator.
type StatsAggregatorOptions struct {
	Store  core.ListingStore // Required
	Logger *slog.Logger
	Config StatsAggregatorConfig
}

// StatsAggregator computes landing-page statistics. It never returns an
// error: anything the store cannot answer is replaced by fallback constants.
type StatsAggregator struct {
	store     core.ListingStore
	logger    *slog.Logger
	timeout   time.Duration
	fallbacks FallbackTable
	cache     *core.StatsCacheService
	metrics   statsd.Sink
}

// NewStatsAggregator creates a StatsAggregator. It panics if Store is nil.
func NewStatsAggregator(opts StatsAggregatorOptions) *StatsAggregator {
	if opts.Store == nil {
		panic("StatsAggregator: Store is required")
	}
	cfg := opts.Config
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultStatsQueryTimeout
	}
	if cfg.Fallbacks.isZero() {
		cfg.Fallbacks = DefaultFallbackTable()
	}
	return &StatsAggregator{
		store:     opts.Store,
		logger:    opts.Logger,
		timeout:   cfg.QueryTimeout,
		fallbacks: cfg.Fallbacks,
		cache:     cfg.Cache,
		metrics:   cfg.Metrics,
	}
}

func (a *StatsAggregator) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}

// statsResults carries the raw outcome of the three queries.
type statsResults struct {
	total     int
	totalErr  error
	remote    int
	remoteErr error
	avg       float64
	avgOK     bool
	avgErr    error
}

// GetStats returns the summary for filter, serving a cached live summary when one exists.
func (a *StatsAggregator) GetStats(ctx context.Context, filter model.ListingFilter) model.StatsSummary {
	filter = filter.Normalize()
	if cached, ok := a.cache.Get(ctx, filter); ok {
		return cached
	}
	return a.Refresh(ctx, filter)
}

// Refresh queries the store regardless of the cache and stores the result
// when every field is live.
func (a *StatsAggregator) Refresh(ctx context.Context, filter model.ListingFilter) model.StatsSummary {
	filter = filter.Normalize()
	scope := filter.Key()

	ctx, span := tracing.Start(ctx, "stats.get", scope)
	res := a.query(ctx, filter, scope)
	summary := composeSummary(a.fallbacks.For(filter), res)
	span.SetAttributes(
		attribute.String("landing.stats.source", string(summary.Source)),
		attribute.Int("landing.stats.total", summary.Total),
	)
	tracing.End(span, nil)

	a.reportFallbacks(ctx, filter, summary, res)

	if err := a.cache.Put(ctx, filter, summary); err != nil {
		a.log().WarnContext(ctx, "failed to cache stats summary", "scope", scope, "error", err)
	}
	return summary
}

// query runs the three statistic queries concurrently. Each runs under its
// own timeout; a failure in one does not cancel the others.
func (a *StatsAggregator) query(ctx context.Context, filter model.ListingFilter, scope string) statsResults {
	var (
		res statsResults
		g   errgroup.Group
	)

	g.Go(func() error {
		res.total, res.totalErr = timed(ctx, a, scope, model.StatsFieldTotal, func(qctx context.Context) (int, error) {
			return a.store.CountActive(qctx, filter)
		})
		return nil
	})
	g.Go(func() error {
		res.remote, res.remoteErr = timed(ctx, a, scope, model.StatsFieldRemote, func(qctx context.Context) (int, error) {
			return a.store.CountRemote(qctx, filter)
		})
		return nil
	})
	g.Go(func() error {
		type avgResult struct {
			v  float64
			ok bool
		}
		out, err := timed(ctx, a, scope, model.StatsFieldAvgRate, func(qctx context.Context) (avgResult, error) {
			v, ok, err := a.store.AverageRate(qctx, filter)
			return avgResult{v: v, ok: ok}, err
		})
		res.avg, res.avgOK, res.avgErr = out.v, out.ok, err
		return nil
	})

	// Goroutines record their own errors and always return nil.
	_ = g.Wait()
	return res
}

func timed[T any](
	ctx context.Context,
	a *StatsAggregator,
	scope string,
	field model.StatsField,
	fn func(context.Context) (T, error),
) (T, error) {
	qctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	v, err := fn(qctx)
	if err == nil {
		// Answers arriving after the deadline count as failures.
		err = qctx.Err()
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitStatsQuery(a.metrics, metrics.QueryMetric{
		Scope:    scope,
		Field:    field,
		Result:   result,
		Duration: time.Since(start),
		Err:      err,
	})
	return v, err
}

// composeSummary applies the fallback policy: a failed or empty total
// replaces the whole summary; otherwise remote count and average fall back
// independently.
func composeSummary(defaults model.StatsDefaults, res statsResults) model.StatsSummary {
	if res.totalErr != nil || res.total <= 0 {
		return defaults.Summary()
	}

	summary := model.StatsSummary{
		Total:       res.total,
		RemoteCount: res.remote,
		Source:      model.StatsSourceLive,
	}
	if res.remoteErr != nil || res.remote < 0 {
		summary.RemoteCount = defaults.RemoteCount
		summary.Fallback = append(summary.Fallback, model.StatsFieldRemote)
	}
	if res.avgErr != nil || !res.avgOK {
		summary.AvgRate = defaults.AvgRate
		summary.Fallback = append(summary.Fallback, model.StatsFieldAvgRate)
	} else {
		summary.AvgRate = compensation.Round(res.avg)
	}
	if len(summary.Fallback) > 0 {
		summary.Source = model.StatsSourcePartial
	}
	return summary
}

func (a *StatsAggregator) reportFallbacks(ctx context.Context, filter model.ListingFilter, summary model.StatsSummary, res statsResults) {
	if summary.IsLive() {
		return
	}
	category := ""
	if filter.Category != nil {
		category = string(*filter.Category)
	}
	scope := filter.Key()
	for _, field := range summary.Fallback {
		err := fieldError(field, res)
		a.log().WarnContext(ctx, "stats fallback substituted",
			"component", "stats_aggregator",
			"scope", scope,
			"category", category,
			"field", string(field),
			"source", string(summary.Source),
			"error_class", obserrors.Classify(err),
			"error", err,
		)
		metrics.EmitFallback(a.metrics, scope, field)
	}
}

func fieldError(field model.StatsField, res statsResults) error {
	switch field {
	case model.StatsFieldTotal:
		return res.totalErr
	case model.StatsFieldRemote:
		return res.remoteErr
	case model.StatsFieldAvgRate:
		return res.avgErr
	default:
		return nil
	}
}
