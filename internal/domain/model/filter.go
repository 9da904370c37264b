package model

import (
	"strings"
)

// ListingFilter scopes stats and listing queries. The zero value means every active listing.
type ListingFilter struct {
	// Category, when set, is matched exactly against role_category.
	Category *RoleCategory
	// Location, when set, is a case-insensitive substring match against location.
	Location string
}

// ForCategory returns a filter scoped to a single role category.
func ForCategory(c RoleCategory) ListingFilter {
	return ListingFilter{Category: &c}
}

// IsZero reports whether the filter is unscoped.
func (f ListingFilter) IsZero() bool {
	return f.Category == nil && strings.TrimSpace(f.Location) == ""
}

// Normalize trims the location.
func (f ListingFilter) Normalize() ListingFilter {
	f.Location = strings.TrimSpace(f.Location)
	return f
}

// Key returns a stable identifier for the scope, used for cache keys and metric tags.
func (f ListingFilter) Key() string {
	f = f.Normalize()
	if f.IsZero() {
		return "all"
	}
	parts := make([]string, 0, 2)
	if f.Category != nil {
		parts = append(parts, "category="+strings.ToLower(string(*f.Category)))
	}
	if f.Location != "" {
		parts = append(parts, "location="+strings.ToLower(f.Location))
	}
	return strings.Join(parts, ",")
}

// String implements fmt.Stringer.
func (f ListingFilter) String() string { return f.Key() }
