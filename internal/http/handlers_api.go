package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

// StatsProvider returns a summary for a scope. It never fails.
type StatsProvider interface {
	GetStats(ctx context.Context, filter model.ListingFilter) model.StatsSummary
}

// RecentProvider returns recent listings for a scope. It never fails.
type RecentProvider interface {
	GetRecent(ctx context.Context, filter model.ListingFilter, limit int) []model.JobListing
}

// FeaturedProvider returns featured companies for a scope. It never fails.
type FeaturedProvider interface {
	GetFeatured(ctx context.Context, filter model.ListingFilter, limit int) []model.FeaturedCompany
}

// Limits are the default list sizes when a request does not pass one.
type Limits struct {
	Recent   int
	Featured int
}

// APIHandlers serves the JSON endpoints.
type APIHandlers struct {
	Stats    StatsProvider
	Recent   RecentProvider
	Featured FeaturedProvider
	Limits   Limits
	Now      func() time.Time
}

// GetStats handles GET /api/stats.
func (h *APIHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListingFilter(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.Stats.GetStats(r.Context(), filter))
}

// GetRecent handles GET /api/jobs/recent.
func (h *APIHandlers) GetRecent(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListingFilter(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	limit, err := parseLimit(r, h.Limits.Recent)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	listings := h.Recent.GetRecent(r.Context(), filter, limit)
	WriteJSON(w, http.StatusOK, map[string]any{"listings": listingViews(listings, h.now())})
}

// GetFeatured handles GET /api/companies/featured.
func (h *APIHandlers) GetFeatured(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListingFilter(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	limit, err := parseLimit(r, h.Limits.Featured)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"companies": h.Featured.GetFeatured(r.Context(), filter, limit)})
}

func (h *APIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
