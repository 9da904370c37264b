package config

import (
	"strings"
	"time"
)

const (
	defaultStatsQueryTimeout = 2 * time.Second
	defaultRecentLimit       = 6
	defaultFeaturedLimit     = 8
	maxListingLimit          = 100
	defaultReporterSchedule  = "@every 15m"
)

// StatsConfig controls the stats aggregator and listing fetchers.
type StatsConfig struct {
	// QueryTimeout bounds each individual store query.
	QueryTimeout time.Duration `env:"STATS_QUERY_TIMEOUT" envDefault:"2s"`
	// RecentLimit is the number of listings shown on a landing page.
	RecentLimit int `env:"STATS_RECENT_LIMIT" envDefault:"6"`
	// FeaturedLimit is the number of featured companies shown on a landing page.
	FeaturedLimit int `env:"STATS_FEATURED_LIMIT" envDefault:"8"`
}

// Sanitize applies guardrails to stats configuration values.
func (s *StatsConfig) Sanitize() {
	if s.QueryTimeout <= 0 {
		s.QueryTimeout = defaultStatsQueryTimeout
	}
	s.RecentLimit = clampLimit(s.RecentLimit, defaultRecentLimit)
	s.FeaturedLimit = clampLimit(s.FeaturedLimit, defaultFeaturedLimit)
}

func clampLimit(v, def int) int {
	if v <= 0 {
		return def
	}
	if v > maxListingLimit {
		return maxListingLimit
	}
	return v
}

// ReporterConfig controls the scheduled stats reporter.
type ReporterConfig struct {
	// Schedule is a robfig/cron spec, e.g. "@every 15m" or "*/5 * * * *".
	Schedule string `env:"REPORTER_SCHEDULE" envDefault:"@every 15m"`
	// RunOnStart triggers one report immediately after startup.
	RunOnStart bool `env:"REPORTER_RUN_ON_START" envDefault:"true"`
}

// Sanitize applies guardrails to reporter configuration values.
func (r *ReporterConfig) Sanitize() {
	r.Schedule = strings.TrimSpace(r.Schedule)
	if r.Schedule == "" {
		r.Schedule = defaultReporterSchedule
	}
}
