// Package metrics emits the landing service's statsd metrics.
package metrics

import (
	"time"

	"github.com/fractionaljobs/landing/internal/domain/model"
	obserrors "github.com/fractionaljobs/landing/internal/observability/errors"
	"github.com/fractionaljobs/landing/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultEmpty   = "empty"
)

// Metric names, relative to the client prefix.
const (
	MetricStatsQuery    = "stats.query"
	MetricStatsFallback = "stats.fallback"
	MetricStatsTotal    = "stats.total"
	MetricStatsRemote   = "stats.remote"
	MetricStatsAvgRate  = "stats.avg_rate"
	MetricListingFetch  = "listings.fetch"
)

// QueryMetric describes one statistic query.
type QueryMetric struct {
	Scope    string
	Field    model.StatsField
	Result   string
	Duration time.Duration
	Err      error
}

// EmitStatsQuery records the outcome and latency of a statistic query.
func EmitStatsQuery(sink statsd.Sink, in QueryMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"scope":  in.Scope,
		"field":  string(in.Field),
		"result": in.Result,
	}
	if class := obserrors.Classify(in.Err); class != "" {
		tags["error_class"] = class
	}
	sink.Count(MetricStatsQuery, 1, tags)
	if in.Duration > 0 {
		sink.Timing(MetricStatsQuery, in.Duration, CloneTags(tags))
	}
}

// EmitFallback counts one substituted statistic field.
func EmitFallback(sink statsd.Sink, scope string, field model.StatsField) {
	if sink == nil {
		return
	}
	sink.Count(MetricStatsFallback, 1, map[string]string{"scope": scope, "field": string(field)})
}

// EmitSummaryGauges publishes the three headline numbers for a scope.
func EmitSummaryGauges(sink statsd.Sink, scope string, s model.StatsSummary) {
	if sink == nil {
		return
	}
	tags := map[string]string{"scope": scope, "source": string(s.Source)}
	sink.Gauge(MetricStatsTotal, float64(s.Total), tags)
	sink.Gauge(MetricStatsRemote, float64(s.RemoteCount), CloneTags(tags))
	sink.Gauge(MetricStatsAvgRate, float64(s.AvgRate), CloneTags(tags))
}

// ListingMetric describes a recent-listings or featured-companies fetch.
type ListingMetric struct {
	Kind     string // "recent" or "featured"
	Scope    string
	Count    int
	Duration time.Duration
	Err      error
}

// EmitListingFetch records a listing fetch outcome.
func EmitListingFetch(sink statsd.Sink, in ListingMetric) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	switch {
	case in.Err != nil:
		result = ResultError
	case in.Count == 0:
		result = ResultEmpty
	}
	tags := map[string]string{"kind": in.Kind, "scope": in.Scope, "result": result}
	if class := obserrors.Classify(in.Err); class != "" {
		tags["error_class"] = class
	}
	sink.Count(MetricListingFetch, 1, tags)
	if in.Duration > 0 {
		sink.Timing(MetricListingFetch, in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
