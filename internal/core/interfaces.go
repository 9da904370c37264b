package core

import (
	"context"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations depend on these interfaces, not on a concrete store.

// ListingStore is the read side of the jobs table. Every method only sees
// rows with is_active = true.
type ListingStore interface {
	// CountActive counts listings in scope.
	CountActive(ctx context.Context, filter model.ListingFilter) (int, error)
	// CountRemote counts listings in scope where is_remote OR workplace_type = 'Remote'.
	CountRemote(ctx context.Context, filter model.ListingFilter) (int, error)
	// AverageRate averages the leading numeric value of compensation. ok is
	// false when no row in scope has a parseable compensation.
	AverageRate(ctx context.Context, filter model.ListingFilter) (avg float64, ok bool, err error)
	// ListRecent returns up to limit listings by posted_date DESC NULLS LAST.
	ListRecent(ctx context.Context, filter model.ListingFilter, limit int) ([]model.JobListing, error)
	// ListFeaturedCompanies returns companies with the most active roles in scope.
	ListFeaturedCompanies(ctx context.Context, filter model.ListingFilter, limit int) ([]model.FeaturedCompany, error)
}

// ListingWriter is used by seeding and admin tooling only; the request path never writes.
type ListingWriter interface {
	InsertListings(ctx context.Context, listings []model.JobListing) (int, error)
	DeleteAllListings(ctx context.Context) (int, error)
}

// ListingRepository combines read and write access.
type ListingRepository interface {
	ListingStore
	ListingWriter
}
