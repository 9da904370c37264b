package httpx

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/fractionaljobs/landing/internal/content"
)

// PageHandlers renders catalog pages.
type PageHandlers struct {
	API      *APIHandlers
	Catalog  *content.Catalog
	Renderer *TemplateRenderer
}

// Index handles GET /.
func (h *PageHandlers) Index(w http.ResponseWriter, _ *http.Request) {
	h.Renderer.Render(w, http.StatusOK, viewIndex, IndexData{Pages: h.Catalog.Pages()})
}

// Page handles GET /{slug}. The three page sections are fetched concurrently.
func (h *PageHandlers) Page(w http.ResponseWriter, r *http.Request) {
	page, ok := h.Catalog.Lookup(r.PathValue("slug"))
	if !ok {
		h.Renderer.Render(w, http.StatusNotFound, viewNotFound, nil)
		return
	}

	ctx := r.Context()
	data := PageData{Page: page, Generated: h.API.now()}

	var g errgroup.Group
	g.Go(func() error {
		data.Stats = h.API.Stats.GetStats(ctx, page.Filter)
		return nil
	})
	g.Go(func() error {
		data.Recent = listingViews(h.API.Recent.GetRecent(ctx, page.Filter, h.API.Limits.Recent), data.Generated)
		return nil
	})
	g.Go(func() error {
		data.Featured = h.API.Featured.GetFeatured(ctx, page.Filter, h.API.Limits.Featured)
		return nil
	})
	// The providers never fail.
	_ = g.Wait()

	w.Header().Set(statsSourceHeader, string(data.Stats.Source))
	h.Renderer.Render(w, http.StatusOK, viewPage, data)
}

