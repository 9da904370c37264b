package data

import (
	"fmt"

	"github.com/fractionaljobs/landing/internal/data/database"
	"github.com/fractionaljobs/landing/internal/domain/compensation"
	"github.com/fractionaljobs/landing/internal/domain/model"
)

const listingsTable = "jobs"

// maxListingLimit caps every listing query regardless of caller input.
const maxListingLimit = 100

var listingColumns = []database.Column{
	database.Col("id"),
	database.Col("slug"),
	database.Col("title"),
	database.Col("company_name"),
	database.Col("location"),
	database.Col("is_remote"),
	database.Col("workplace_type"),
	database.Col("compensation"),
	database.Col("role_category"),
	database.Col("posted_date"),
	database.Col("is_active"),
}

// remotePredicate counts a row once even when both signals are set.
const remotePredicate = `(is_remote OR workplace_type = 'Remote')`

// pgAverageRateExpr extracts the leading currency+digits prefix, strips
// non-digits and averages the result.
var pgAverageRateExpr = fmt.Sprintf(
	`AVG(CAST(regexp_replace(substring(compensation FROM '%s'), '[^0-9]', '', 'g') AS NUMERIC))::float8`,
	compensation.Pattern,
)

// scopeConditions limits a query to active rows matching filter.
func scopeConditions(filter model.ListingFilter) []database.Condition {
	filter = filter.Normalize()
	conds := []database.Condition{database.WhereCond("is_active", database.Equal, true)}
	if filter.Category != nil {
		conds = append(conds, database.WhereCond("role_category", database.Equal, string(*filter.Category)))
	}
	if filter.Location != "" {
		conds = append(conds, database.WhereCond("location", database.ContainsFold, filter.Location))
	}
	return conds
}

func clampListingLimit(limit int) int {
	if limit > maxListingLimit {
		return maxListingLimit
	}
	return limit
}

func countActiveQuery(d database.Dialect, filter model.ListingFilter) (string, []any) {
	return database.NewSelect(listingsTable,
		database.WithDialect(d),
		database.WithColumns(database.RawCol("COUNT(*)")),
		database.WithConditions(scopeConditions(filter)...),
	).Build()
}

func countRemoteQuery(d database.Dialect, filter model.ListingFilter) (string, []any) {
	return database.NewSelect(listingsTable,
		database.WithDialect(d),
		database.WithColumns(database.RawCol("COUNT(*)")),
		database.WithConditions(scopeConditions(filter)...),
		database.WithCondition(database.WhereRawCond(remotePredicate)),
	).Build()
}

// pgAverageRateQuery averages in SQL; only Postgres has the regex functions.
func pgAverageRateQuery(filter model.ListingFilter) (string, []any) {
	return database.NewSelect(listingsTable,
		database.WithColumns(database.RawCol(pgAverageRateExpr)),
		database.WithConditions(scopeConditions(filter)...),
		database.WithCondition(database.WhereRawCond("compensation ~ ?", compensation.SQLPrefilter)),
	).Build()
}

// compensationQuery selects candidate compensation strings for averaging in Go.
func compensationQuery(d database.Dialect, filter model.ListingFilter) (string, []any) {
	return database.NewSelect(listingsTable,
		database.WithDialect(d),
		database.WithColumns(database.Col("compensation")),
		database.WithConditions(scopeConditions(filter)...),
		database.WithCondition(database.WhereRawCond("compensation IS NOT NULL")),
	).Build()
}

func recentListingsQuery(d database.Dialect, filter model.ListingFilter, limit int) (string, []any) {
	return database.NewSelect(listingsTable,
		database.WithDialect(d),
		database.WithColumns(listingColumns...),
		database.WithConditions(scopeConditions(filter)...),
		database.WithOrderBy(database.Order{Column: "posted_date", Desc: true, NullsLast: true}),
		database.WithOrderBy(database.Order{Column: "id", Desc: true}),
		database.WithLimit(clampListingLimit(limit)),
	).Build()
}

func featuredCompaniesQuery(d database.Dialect, filter model.ListingFilter, limit int) (string, []any) {
	return database.NewSelect(listingsTable,
		database.WithDialect(d),
		database.WithColumns(database.Col("company_name"), database.RawCol("COUNT(*) AS open_roles")),
		database.WithConditions(scopeConditions(filter)...),
		database.WithCondition(database.WhereRawCond("company_name <> ''")),
		database.WithGroupBy("company_name"),
		database.WithOrderBy(database.Order{Column: "open_roles", Desc: true}),
		database.WithOrderBy(database.Order{Column: "company_name"}),
		database.WithLimit(clampListingLimit(limit)),
	).Build()
}
