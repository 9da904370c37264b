package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fractionaljobs/landing/internal/content"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Stats    StatsProvider
	Recent   RecentProvider
	Featured FeaturedProvider
	Catalog  *content.Catalog
	// Store is pinged by /readyz (optional).
	Store  Pinger
	Limits Limits
	Now    func() time.Time
	Logger *slog.Logger
}

// NewRouter creates the landing router.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Stats == nil || services.Recent == nil || services.Featured == nil || services.Catalog == nil {
		return nil, errors.New("router requires stats, recent, featured and catalog")
	}
	renderer, err := NewTemplateRenderer(services.Logger)
	if err != nil {
		return nil, err
	}

	api := &APIHandlers{
		Stats:    services.Stats,
		Recent:   services.Recent,
		Featured: services.Featured,
		Limits:   services.Limits,
		Now:      services.Now,
	}
	pages := &PageHandlers{API: api, Catalog: services.Catalog, Renderer: renderer}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /readyz", readyHandler(services.Store))

	mux.HandleFunc("GET /api/stats", api.GetStats)
	mux.HandleFunc("GET /api/jobs/recent", api.GetRecent)
	mux.HandleFunc("GET /api/companies/featured", api.GetFeatured)

	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("GET /{slug}", pages.Page)

	return mux, nil
}
