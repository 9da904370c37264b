package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractionaljobs/landing/internal/domain/model"
	"github.com/fractionaljobs/landing/internal/observability/metrics"
	"github.com/fractionaljobs/landing/internal/observability/notify"
	"github.com/fractionaljobs/landing/internal/observability/statsd"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls []model.ListingFilter
}

func (f *fakeRefresher) Refresh(_ context.Context, filter model.ListingFilter) model.StatsSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, filter)
	return DefaultFallbackTable().For(filter).Summary()
}

func TestReporter_RunOnce(t *testing.T) {
	refresher := &fakeRefresher{}
	var rec statsd.Recorder
	r := NewReporter(ReporterOptions{
		Stats:   refresher,
		Metrics: &rec,
		Config: ReporterConfig{Scopes: []ReportScope{
			{Name: "cfo", Filter: model.ForCategory(model.RoleCategoryFinance)},
			{Name: "uk", Filter: model.ListingFilter{}},
		}},
	})

	got := r.RunOnce(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, 24, got["cfo"].Total)
	assert.Equal(t, 200, got["uk"].Total)
	assert.Len(t, refresher.calls, 2)

	totals := rec.Named(metrics.MetricStatsTotal)
	require.Len(t, totals, 2)
	assert.Equal(t, "cfo", totals[0].Tags["scope"])
}

func TestReporter_RunOnceStopsOnCanceledContext(t *testing.T) {
	refresher := &fakeRefresher{}
	r := NewReporter(ReporterOptions{
		Stats:  refresher,
		Config: ReporterConfig{Scopes: []ReportScope{{Name: "uk"}}},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, r.RunOnce(ctx))
	assert.Empty(t, refresher.calls)
}

func TestReporter_StartStop(t *testing.T) {
	r := NewReporter(ReporterOptions{Stats: &fakeRefresher{}})
	require.NoError(t, r.Start(context.Background()))
	assert.Error(t, r.Start(context.Background()), "double start is rejected")
	r.Stop()
	r.Stop()
}

func TestReporter_InvalidSchedule(t *testing.T) {
	r := NewReporter(ReporterOptions{
		Stats:  &fakeRefresher{},
		Config: ReporterConfig{Schedule: "not a schedule"},
	})
	assert.Error(t, r.Start(context.Background()))
}

func TestNewReporter_RequiresStats(t *testing.T) {
	assert.Panics(t, func() { NewReporter(ReporterOptions{}) })
}

type scriptedRefresher struct {
	results []model.StatsSummary
	n       int
}

func (s *scriptedRefresher) Refresh(context.Context, model.ListingFilter) model.StatsSummary {
	out := s.results[s.n%len(s.results)]
	s.n++
	return out
}

func TestReporter_NotifiesOnTransitions(t *testing.T) {
	live := model.StatsSummary{Total: 30, AvgRate: 1000, RemoteCount: 4, Source: model.StatsSourceLive}
	fallback := DefaultFallbackTable().For(model.ForCategory(model.RoleCategoryFinance)).Summary()

	var sent []notify.StatsFallbackPayload
	r := NewReporter(ReporterOptions{
		Stats: &scriptedRefresher{results: []model.StatsSummary{live, fallback, fallback, live}},
		Config: ReporterConfig{Scopes: []ReportScope{
			{Name: "cfo", Filter: model.ForCategory(model.RoleCategoryFinance)},
		}},
		Notifier: notify.SinkFunc(func(_ context.Context, p notify.StatsFallbackPayload) error {
			sent = append(sent, p)
			return nil
		}),
	})

	for range 4 {
		r.RunOnce(context.Background())
	}

	require.Len(t, sent, 2)
	assert.False(t, sent[0].Recovered)
	assert.Equal(t, "cfo", sent[0].Scope)
	assert.Equal(t, "fallback", sent[0].Source)
	assert.Equal(t, []string{"total", "avg_rate", "remote_count"}, sent[0].Fields)
	assert.Equal(t, 24, sent[0].Total)
	assert.Equal(t, notify.SeverityWarning, sent[0].Severity)

	assert.True(t, sent[1].Recovered)
	assert.Equal(t, 30, sent[1].Total)
	assert.Equal(t, notify.SeverityInfo, sent[1].Severity)
}

func TestReporter_NotifierErrorIsLogged(t *testing.T) {
	r := NewReporter(ReporterOptions{
		Stats:  &fakeRefresher{},
		Config: ReporterConfig{Scopes: []ReportScope{{Name: "uk"}}},
		Notifier: notify.SinkFunc(func(context.Context, notify.StatsFallbackPayload) error {
			return assert.AnError
		}),
	})
	got := r.RunOnce(context.Background())
	assert.Equal(t, 200, got["uk"].Total)
}
