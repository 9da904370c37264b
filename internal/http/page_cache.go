package httpx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fractionaljobs/landing/internal/core"
	"github.com/fractionaljobs/landing/internal/domain/model"
)

const (
	cacheStatusHeader = "X-Page-Cache"
	// statsSourceHeader carries the page's StatsSource; pages showing
	// substituted figures are never stored.
	statsSourceHeader = "X-Stats-Source"
)

// PageCacheConfig configures the PageCache middleware.
type PageCacheConfig struct {
	Cache  core.CacheRepository // nil disables caching
	TTL    time.Duration
	Logger *slog.Logger
}

type cachedPage struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// PageCache serves rendered HTML pages from the cache for TTL and marks them
// publicly cacheable for the same window. Only successful GET HTML responses
// with live stats are stored; API and health routes pass through.
func PageCache(cfg PageCacheConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		if cfg.Cache == nil || cfg.TTL <= 0 {
			return next
		}
		cacheControl := "public, s-maxage=" + strconv.Itoa(int(cfg.TTL.Seconds()))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cacheablePath(r) {
				next.ServeHTTP(w, r)
				return
			}
			key := core.PageCacheKey(r.URL.Path)
			ctx := r.Context()

			raw, err := cfg.Cache.Get(ctx, key)
			if err != nil {
				logger.WarnContext(ctx, "page cache read failed", "path", r.URL.Path, "error", err)
			}
			if len(raw) > 0 {
				var page cachedPage
				if jsonErr := json.Unmarshal(raw, &page); jsonErr == nil {
					w.Header().Set("Content-Type", page.ContentType)
					w.Header().Set("Cache-Control", cacheControl)
					w.Header().Set(cacheStatusHeader, "HIT")
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write(page.Body)
					return
				}
				logger.WarnContext(ctx, "page cache entry corrupt", "path", r.URL.Path)
			}

			rec := &bufferingWriter{header: http.Header{}, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			for k, v := range rec.header {
				w.Header()[k] = v
			}
			store := rec.status == http.StatusOK && strings.HasPrefix(rec.header.Get("Content-Type"), "text/html")
			if store && degradedStats(rec.header) {
				store = false
				w.Header().Set("Cache-Control", "no-store")
				w.Header().Set(cacheStatusHeader, "BYPASS")
			}
			if store {
				w.Header().Set("Cache-Control", cacheControl)
				w.Header().Set(cacheStatusHeader, "MISS")
			}
			w.WriteHeader(rec.status)
			_, _ = w.Write(rec.body.Bytes())

			if !store {
				return
			}
			payload, err := json.Marshal(cachedPage{ContentType: rec.header.Get("Content-Type"), Body: rec.body.Bytes()})
			if err != nil {
				return
			}
			if err := cfg.Cache.Set(ctx, key, payload, cfg.TTL); err != nil {
				logger.WarnContext(ctx, "page cache write failed", "path", r.URL.Path, "error", err)
			}
		})
	}
}

func degradedStats(h http.Header) bool {
	src := h.Get(statsSourceHeader)
	return src != "" && src != string(model.StatsSourceLive)
}

func cacheablePath(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	p := r.URL.Path
	return p != "/healthz" && p != "/readyz" && !strings.HasPrefix(p, "/api/")
}

// bufferingWriter captures a response so it can be cached before sending.
type bufferingWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
	wrote  bool
}

func (b *bufferingWriter) Header() http.Header { return b.header }

func (b *bufferingWriter) WriteHeader(status int) {
	if b.wrote {
		return
	}
	b.wrote = true
	b.status = status
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	b.wrote = true
	return b.body.Write(p)
}
