// Package testutil provides testing utilities and helpers for the landing service.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

// ListingBuilder provides a fluent interface for building JobListing values for testing.
type ListingBuilder struct {
	l model.JobListing
}

// NewListing creates a ListingBuilder for an active, onsite Executive listing with a random id.
func NewListing() *ListingBuilder {
	id := uuid.NewString()
	return &ListingBuilder{l: model.JobListing{
		ID:            id,
		Slug:          "fractional-role-" + id[:8],
		Title:         "Fractional Role",
		CompanyName:   "Acme Ltd",
		Location:      "Manchester",
		WorkplaceType: model.WorkplaceOnsite,
		RoleCategory:  model.RoleCategoryExecutive,
		IsActive:      true,
	}}
}

// WithID sets the listing id and derives the slug from it.
func (b *ListingBuilder) WithID(id string) *ListingBuilder {
	b.l.ID = id
	b.l.Slug = "job-" + id
	return b
}

// WithTitle sets the title.
func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.l.Title = title
	return b
}

// WithCompany sets the company name.
func (b *ListingBuilder) WithCompany(name string) *ListingBuilder {
	b.l.CompanyName = name
	return b
}

// WithLocation sets the location.
func (b *ListingBuilder) WithLocation(loc string) *ListingBuilder {
	b.l.Location = loc
	return b
}

// WithCategory sets the role category.
func (b *ListingBuilder) WithCategory(c model.RoleCategory) *ListingBuilder {
	b.l.RoleCategory = c
	return b
}

// WithCompensation sets the free-text compensation.
func (b *ListingBuilder) WithCompensation(s string) *ListingBuilder {
	b.l.Compensation = &s
	return b
}

// Remote sets both remote signals.
func (b *ListingBuilder) Remote(isRemote bool, wt model.WorkplaceType) *ListingBuilder {
	b.l.IsRemote = isRemote
	b.l.WorkplaceType = wt
	return b
}

// PostedAt sets the posted date.
func (b *ListingBuilder) PostedAt(t time.Time) *ListingBuilder {
	b.l.PostedDate = &t
	return b
}

// Inactive marks the listing inactive.
func (b *ListingBuilder) Inactive() *ListingBuilder {
	b.l.IsActive = false
	return b
}

// Build returns the listing.
func (b *ListingBuilder) Build() model.JobListing {
	return b.l
}
