package config

import (
	"strings"
	"time"
)

const defaultServiceName = "landing"

// ObservabilityConfig groups configuration that controls metrics, tracing and notifications.
type ObservabilityConfig struct {
	Metrics       ObservabilityMetricsConfig
	Tracing       ObservabilityTracingConfig
	Notifications ObservabilityNotificationsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Tracing.Sanitize()
	c.Notifications.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to external sinks such as StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"landing"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityTracingConfig controls the OTLP trace exporter.
type ObservabilityTracingConfig struct {
	Enabled     bool   `env:"OBSERVABILITY_TRACING_ENABLED"       envDefault:"false"`
	Endpoint    string `env:"OBSERVABILITY_TRACING_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	Insecure    bool   `env:"OBSERVABILITY_TRACING_INSECURE"      envDefault:"true"`
	ServiceName string `env:"OBSERVABILITY_TRACING_SERVICE_NAME"  envDefault:"landing"`
}

// Sanitize disables tracing without an endpoint.
func (c *ObservabilityTracingConfig) Sanitize() {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" {
		c.Enabled = false
	}
	if c.ServiceName = strings.TrimSpace(c.ServiceName); c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
}

// ObservabilityNotificationsConfig controls Slack alerts raised when a landing
// page scope starts or stops serving fallback statistics.
type ObservabilityNotificationsConfig struct {
	SlackEnabled    bool          `env:"OBSERVABILITY_NOTIFY_SLACK_ENABLED"     envDefault:"false"`
	SlackWebhookURL string        `env:"OBSERVABILITY_NOTIFY_SLACK_WEBHOOK_URL" envDefault:""`
	SlackChannel    string        `env:"OBSERVABILITY_NOTIFY_SLACK_CHANNEL"     envDefault:""`
	SlackTimeout    time.Duration `env:"OBSERVABILITY_NOTIFY_SLACK_TIMEOUT"     envDefault:"5s"`
	SlackRetries    int           `env:"OBSERVABILITY_NOTIFY_SLACK_RETRIES"     envDefault:"2"`
}

// Sanitize disables Slack without a webhook and clamps retries.
func (c *ObservabilityNotificationsConfig) Sanitize() {
	c.SlackWebhookURL = strings.TrimSpace(c.SlackWebhookURL)
	if c.SlackWebhookURL == "" {
		c.SlackEnabled = false
	}
	if c.SlackTimeout <= 0 {
		c.SlackTimeout = 5 * time.Second
	}
	c.SlackRetries = min(max(c.SlackRetries, 0), 5)
}
