package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - reporter",
			input:    "reporter",
			expected: map[ServiceMode]bool{ServiceModeReporter: true},
		},
		{
			name:  "services with spaces and duplicates",
			input: " http , reporter , http ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:     true,
				ServiceModeReporter: true,
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,scheduler",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name             string
		services         string
		expectedHTTP     bool
		expectedReporter bool
	}{
		{name: "http only", services: "http", expectedHTTP: true},
		{name: "reporter only", services: "reporter", expectedReporter: true},
		{name: "both", services: "http,reporter", expectedHTTP: true, expectedReporter: true},
		{name: "invalid", services: "invalid-service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}
			if cfg.IsReporterEnabled() != tt.expectedReporter {
				t.Errorf("IsReporterEnabled(): expected %v, got %v", tt.expectedReporter, cfg.IsReporterEnabled())
			}
		})
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/jobs.db")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_URI", "cache:6379")
	t.Setenv("PAGE_CACHE_TTL", "30m")
	t.Setenv("STATS_QUERY_TIMEOUT", "750ms")
	t.Setenv("STATS_RECENT_LIMIT", "500")
	t.Setenv("REPORTER_SCHEDULE", "*/5 * * * *")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Store.Driver != StoreDriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Store.Driver)
	}
	if cfg.Store.SQLitePath != "/tmp/jobs.db" {
		t.Fatalf("unexpected sqlite path %q", cfg.Store.SQLitePath)
	}
	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Port != 5432 {
		t.Fatalf("unexpected postgres config %+v", cfg.Postgres)
	}
	if cfg.Redis.URI != "cache:6379" {
		t.Fatalf("unexpected redis uri %q", cfg.Redis.URI)
	}
	if cfg.PageCache.TTL != 30*time.Minute {
		t.Fatalf("unexpected page cache ttl %v", cfg.PageCache.TTL)
	}
	if cfg.Stats.QueryTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected query timeout %v", cfg.Stats.QueryTimeout)
	}
	if cfg.Stats.RecentLimit != maxListingLimit {
		t.Fatalf("expected recent limit clamped to %d, got %d", maxListingLimit, cfg.Stats.RecentLimit)
	}
	if cfg.Reporter.Schedule != "*/5 * * * *" {
		t.Fatalf("unexpected reporter schedule %q", cfg.Reporter.Schedule)
	}
}

func TestStoreConfig_Sanitize(t *testing.T) {
	cfg := StoreConfig{Driver: "mysql", SQLitePath: " "}
	cfg.Sanitize()

	if cfg.Driver != StoreDriverPostgres {
		t.Fatalf("expected unknown driver to fall back to postgres, got %q", cfg.Driver)
	}
	if cfg.SQLitePath != "landing.db" {
		t.Fatalf("expected default sqlite path, got %q", cfg.SQLitePath)
	}
}

func TestStatsConfig_Sanitize(t *testing.T) {
	cfg := StatsConfig{QueryTimeout: -1, RecentLimit: 0, FeaturedLimit: -3}
	cfg.Sanitize()

	if cfg.QueryTimeout != defaultStatsQueryTimeout {
		t.Fatalf("expected default timeout, got %v", cfg.QueryTimeout)
	}
	if cfg.RecentLimit != defaultRecentLimit {
		t.Fatalf("expected default recent limit, got %d", cfg.RecentLimit)
	}
	if cfg.FeaturedLimit != defaultFeaturedLimit {
		t.Fatalf("expected default featured limit, got %d", cfg.FeaturedLimit)
	}
}

func TestPageCacheConfig_Sanitize(t *testing.T) {
	cfg := PageCacheConfig{TTL: 0}
	cfg.Sanitize()
	if cfg.TTL != defaultPageCacheTTL {
		t.Fatalf("expected default ttl, got %v", cfg.TTL)
	}

	cfg = PageCacheConfig{TTL: time.Second}
	cfg.Sanitize()
	if cfg.TTL != minPageCacheTTL {
		t.Fatalf("expected ttl clamped to %v, got %v", minPageCacheTTL, cfg.TTL)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
		Prefix:        ".landing.",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "landing" {
		t.Fatalf("expected prefix dots trimmed, got %q", cfg.Prefix)
	}
}

func TestObservabilityTracingConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityTracingConfig{Enabled: true, Endpoint: "  ", ServiceName: ""}
	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatal("expected tracing disabled without an endpoint")
	}
	if cfg.ServiceName != defaultServiceName {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
}

func TestObservabilityNotificationsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityNotificationsConfig{SlackEnabled: true, SlackWebhookURL: "  ", SlackRetries: 12}
	cfg.Sanitize()

	if cfg.SlackEnabled {
		t.Fatal("expected slack disabled without a webhook")
	}
	if cfg.SlackRetries != 5 {
		t.Fatalf("expected retries clamped to 5, got %d", cfg.SlackRetries)
	}
	if cfg.SlackTimeout != 5*time.Second {
		t.Fatalf("expected default timeout, got %v", cfg.SlackTimeout)
	}
}
