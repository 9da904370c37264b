// Package model defines the job listing and statistics types shared by the landing service.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RoleCategory is the primary filter dimension for listings.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type RoleCategory string

// WorkplaceType describes where a role is performed.
type WorkplaceType string

const (
	// RoleCategoryExecutive covers CEO and managing director roles.
	RoleCategoryExecutive RoleCategory = "Executive"
	// RoleCategoryFinance covers CFO and finance director roles.
	RoleCategoryFinance RoleCategory = "Finance"
	// RoleCategoryHR covers CHRO, CPO and HR director roles.
	RoleCategoryHR RoleCategory = "HR"
	// RoleCategorySecurity covers CISO roles.
	RoleCategorySecurity RoleCategory = "Security"
	// RoleCategoryOperations covers COO roles.
	RoleCategoryOperations RoleCategory = "Operations"
	// RoleCategoryTechnology covers CTO and CIO roles.
	RoleCategoryTechnology RoleCategory = "Technology"
	// RoleCategoryMarketing covers CMO roles.
	RoleCategoryMarketing RoleCategory = "Marketing"

	WorkplaceRemote WorkplaceType = "Remote"
	WorkplaceHybrid WorkplaceType = "Hybrid"
	WorkplaceOnsite WorkplaceType = "Onsite"
)

// RoleCategories lists every known category in display order.
func RoleCategories() []RoleCategory {
	return []RoleCategory{
		RoleCategoryExecutive,
		RoleCategoryFinance,
		RoleCategoryHR,
		RoleCategorySecurity,
		RoleCategoryOperations,
		RoleCategoryTechnology,
		RoleCategoryMarketing,
	}
}

// Valid returns true if the RoleCategory is a known category.
// Matching is exact: "hr" is not "HR".
func (c RoleCategory) Valid() bool {
	for _, known := range RoleCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler so categories can be read from yaml and env.
func (c *RoleCategory) UnmarshalText(text []byte) error {
	rc, err := ParseRoleCategory(string(text))
	if err != nil {
		return err
	}
	*c = rc
	return nil
}

// ParseRoleCategory validates s as a role category. Surrounding whitespace is ignored, case is not.
func ParseRoleCategory(s string) (RoleCategory, error) {
	rc := RoleCategory(strings.TrimSpace(s))
	if !rc.Valid() {
		return "", fmt.Errorf("invalid RoleCategory: %q", s)
	}
	return rc, nil
}

// JobListing is a read-only view of a row in the jobs table.
type JobListing struct {
	ID            string        `json:"id"                     db:"id"`
	Slug          string        `json:"slug"                   db:"slug"`
	Title         string        `json:"title"                  db:"title"`
	CompanyName   string        `json:"company_name"           db:"company_name"`
	Location      string        `json:"location"               db:"location"`
	IsRemote      bool          `json:"is_remote"              db:"is_remote"`
	WorkplaceType WorkplaceType `json:"workplace_type"         db:"workplace_type"`
	Compensation  *string       `json:"compensation,omitempty" db:"compensation"`
	RoleCategory  RoleCategory  `json:"role_category"          db:"role_category"`
	PostedDate    *time.Time    `json:"posted_date,omitempty"  db:"posted_date"`
	IsActive      bool          `json:"is_active"              db:"is_active"`
}

// Remote reports whether either remote signal is set.
func (l JobListing) Remote() bool {
	return l.IsRemote || l.WorkplaceType == WorkplaceRemote
}

// FeaturedCompany is a hiring company with active roles in a filter scope.
type FeaturedCompany struct {
	Name      string `json:"name"       db:"company_name"`
	OpenRoles int    `json:"open_roles" db:"open_roles"`
}
