package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fractionaljobs/landing/internal/domain/model"
	"github.com/fractionaljobs/landing/internal/observability/metrics"
	"github.com/fractionaljobs/landing/internal/observability/notify"
	"github.com/fractionaljobs/landing/internal/observability/statsd"
)

// DefaultReporterSchedule is used when no cron spec is configured.
const DefaultReporterSchedule = "@every 15m"

// ReportScope is one named listing scope the reporter refreshes.
type ReportScope struct {
	Name   string
	Filter model.ListingFilter
}

// statsRefresher is the subset of StatsAggregator the reporter needs.
type statsRefresher interface {
	Refresh(ctx context.Context, filter model.ListingFilter) model.StatsSummary
}

// ReporterConfig configures the schedule and scopes.
type ReporterConfig struct {
	Schedule   string
	RunOnStart bool
	Scopes     []ReportScope
}

// ReporterOptions groups dependencies for Reporter.
type ReporterOptions struct {
	Stats   statsRefresher // Required
	Metrics statsd.Sink
	Config  ReporterConfig
	Logger  *slog.Logger
	// Notifier hears when a scope enters or leaves fallback (optional).
	Notifier notify.Sink
}

// Reporter periodically recomputes stats for every configured scope,
// publishes them as gauges and warms the stats cache.
type Reporter struct {
	stats   statsRefresher
	metrics statsd.Sink
	cfg     ReporterConfig
	logger  *slog.Logger
	notify  notify.Sink

	mu   sync.Mutex
	cron *cron.Cron

	stateMu  sync.Mutex
	degraded map[string]bool
}

// NewReporter creates a Reporter. It panics if Stats is nil.
func NewReporter(opts ReporterOptions) *Reporter {
	if opts.Stats == nil {
		panic("Reporter: Stats is required")
	}
	cfg := opts.Config
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultReporterSchedule
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		stats:    opts.Stats,
		metrics:  opts.Metrics,
		cfg:      cfg,
		logger:   logger.With("component", "stats_reporter"),
		notify:   opts.Notifier,
		degraded: make(map[string]bool),
	}
}

// RunOnce refreshes every scope sequentially and returns the summaries by scope name.
func (r *Reporter) RunOnce(ctx context.Context) map[string]model.StatsSummary {
	out := make(map[string]model.StatsSummary, len(r.cfg.Scopes))
	for _, sc := range r.cfg.Scopes {
		if ctx.Err() != nil {
			break
		}
		summary := r.stats.Refresh(ctx, sc.Filter)
		metrics.EmitSummaryGauges(r.metrics, sc.Name, summary)
		r.trackState(ctx, sc.Name, summary)
		out[sc.Name] = summary
	}
	r.logger.InfoContext(ctx, "stats report complete", "scopes", len(out))
	return out
}

// trackState notifies once when a scope stops being live and once when it recovers.
func (r *Reporter) trackState(ctx context.Context, scope string, summary model.StatsSummary) {
	degraded := !summary.IsLive()
	r.stateMu.Lock()
	was := r.degraded[scope]
	r.degraded[scope] = degraded
	r.stateMu.Unlock()

	if r.notify == nil || degraded == was {
		return
	}
	payload := notify.StatsFallbackPayload{
		Scope:       scope,
		Source:      string(summary.Source),
		Fields:      fieldNames(summary.Fallback),
		Total:       summary.Total,
		AvgRate:     summary.AvgRate,
		RemoteCount: summary.RemoteCount,
		Severity:    notify.SeverityWarning,
		Recovered:   !degraded,
		OccurredAt:  time.Now(),
	}
	if !degraded {
		payload.Severity = notify.SeverityInfo
	}
	if err := r.notify.SendStatsFallback(ctx, payload); err != nil {
		r.logger.WarnContext(ctx, "stats fallback notification failed", "scope", scope, "error", err)
	}
}

func fieldNames(fields []model.StatsField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// Start registers the cron job and starts the scheduler. Jobs run with ctx.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return errors.New("reporter already started")
	}

	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(slog.NewLogLogger(r.logger.Handler(), slog.LevelDebug))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(r.cfg.Schedule, func() { r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule reporter %q: %w", r.cfg.Schedule, err)
	}
	c.Start()
	r.cron = c
	r.logger.InfoContext(ctx, "stats reporter started", "schedule", r.cfg.Schedule, "scopes", len(r.cfg.Scopes))

	if r.cfg.RunOnStart {
		go r.RunOnce(ctx)
	}
	return nil
}

// Stop halts the scheduler and waits for a running report to finish.
func (r *Reporter) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	r.logger.Info("stats reporter stopped")
}
