package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public base URL used for canonical links.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CompressionEnabled enables gzip compression for text-based responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	// Default is 6 (standard gzip default).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
}

const (
	defaultPageCacheTTL = time.Hour
	minPageCacheTTL     = 10 * time.Second
)

// PageCacheConfig controls the page-level revalidation window.
type PageCacheConfig struct {
	Enabled bool `env:"PAGE_CACHE_ENABLED" envDefault:"true"`
	// TTL is how long a rendered page (and a live stats summary) is reused before recomputing.
	TTL time.Duration `env:"PAGE_CACHE_TTL" envDefault:"1h"`
}

// Sanitize clamps the revalidation window.
func (p *PageCacheConfig) Sanitize() {
	if p.TTL <= 0 {
		p.TTL = defaultPageCacheTTL
	}
	if p.TTL < minPageCacheTTL {
		p.TTL = minPageCacheTTL
	}
}
