package httpx

import (
	"time"

	"github.com/fractionaljobs/landing/internal/content"
	"github.com/fractionaljobs/landing/internal/domain/model"
	"github.com/fractionaljobs/landing/internal/domain/recency"
)

// ListingView is a listing with its recency classification attached.
type ListingView struct {
	model.JobListing
	recency.Classification
}

func listingViews(listings []model.JobListing, now time.Time) []ListingView {
	out := make([]ListingView, len(listings))
	for i, l := range listings {
		out[i] = ListingView{JobListing: l, Classification: recency.Classify(l.PostedDate, now)}
	}
	return out
}

// PageData is the template model for a landing page.
type PageData struct {
	Page      content.Page
	Stats     model.StatsSummary
	Recent    []ListingView
	Featured  []model.FeaturedCompany
	Generated time.Time
}

// IndexData is the template model for the page index.
type IndexData struct {
	Pages []content.Page
}
