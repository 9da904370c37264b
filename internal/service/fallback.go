package service

import (
	"strings"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

// FallbackTable maps role categories to design-time stats shown when the
// store cannot answer. ByLocation covers location-only pages and is keyed by
// lowercase location. Default covers unfiltered and unlisted scopes.
type FallbackTable struct {
	ByCategory map[model.RoleCategory]model.StatsDefaults
	ByLocation map[string]model.StatsDefaults
	Default    model.StatsDefaults
}

// DefaultFallbackTable returns the figures published on the landing pages.
func DefaultFallbackTable() FallbackTable {
	return FallbackTable{
		ByCategory: map[model.RoleCategory]model.StatsDefaults{
			model.RoleCategoryExecutive:  {Total: 18, AvgRate: 1400, RemoteCount: 7},
			model.RoleCategoryFinance:    {Total: 24, AvgRate: 1100, RemoteCount: 10},
			model.RoleCategoryHR:         {Total: 15, AvgRate: 850, RemoteCount: 6},
			model.RoleCategorySecurity:   {Total: 12, AvgRate: 1200, RemoteCount: 5},
			model.RoleCategoryOperations: {Total: 14, AvgRate: 1050, RemoteCount: 5},
		},
		ByLocation: map[string]model.StatsDefaults{
			"london": {Total: 85, AvgRate: 1050, RemoteCount: 20},
		},
		Default: model.StatsDefaults{Total: 200, AvgRate: 950, RemoteCount: 60},
	}
}

// For returns the defaults for the filter's category. Filters without a
// category use the location row when one exists, otherwise Default.
func (t FallbackTable) For(filter model.ListingFilter) model.StatsDefaults {
	filter = filter.Normalize()
	if filter.Category != nil {
		if d, ok := t.ByCategory[*filter.Category]; ok {
			return d
		}
		return t.Default
	}
	if filter.Location != "" {
		if d, ok := t.ByLocation[strings.ToLower(filter.Location)]; ok {
			return d
		}
	}
	return t.Default
}

func (t FallbackTable) isZero() bool {
	return len(t.ByCategory) == 0 && len(t.ByLocation) == 0 && t.Default == (model.StatsDefaults{})
}
