package data

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fractionaljobs/landing/internal/data/database"
	"github.com/fractionaljobs/landing/internal/domain/model"
)

func TestCountActiveQuery(t *testing.T) {
	t.Parallel()

	q, args := countActiveQuery(database.Postgres, model.ListingFilter{})
	assert.Equal(t, `SELECT COUNT(*) FROM "jobs" WHERE "is_active" = $1`, q)
	assert.Equal(t, []any{true}, args)

	q, args = countActiveQuery(database.Postgres, model.ForCategory(model.RoleCategoryHR))
	assert.Equal(t, `SELECT COUNT(*) FROM "jobs" WHERE "is_active" = $1 AND "role_category" = $2`, q)
	assert.Equal(t, []any{true, "HR"}, args)
}

func TestCountRemoteQuery(t *testing.T) {
	t.Parallel()

	q, args := countRemoteQuery(database.SQLite, model.ListingFilter{Location: " London "})
	assert.Equal(t,
		`SELECT COUNT(*) FROM "jobs" WHERE "is_active" = ? AND instr(lower("location"), lower(?)) > 0`+
			` AND (is_remote OR workplace_type = 'Remote')`,
		q)
	assert.Equal(t, []any{true, "London"}, args)
}

func TestPgAverageRateQuery(t *testing.T) {
	t.Parallel()

	q, args := pgAverageRateQuery(model.ForCategory(model.RoleCategoryExecutive))
	assert.Contains(t, q, `substring(compensation FROM '^[£$€]?[0-9][0-9,]*')`)
	assert.Contains(t, q, `regexp_replace(`)
	assert.Contains(t, q, `::float8`)
	assert.Contains(t, q, `AND compensation ~ $3`)
	assert.Equal(t, []any{true, "Executive", "^[£$€]?[0-9]"}, args)
}

func TestRecentListingsQuery(t *testing.T) {
	t.Parallel()

	q, args := recentListingsQuery(database.Postgres, model.ListingFilter{}, 500)
	assert.Contains(t, q, `ORDER BY "posted_date" DESC NULLS LAST, "id" DESC LIMIT $2`)
	assert.Equal(t, []any{true, maxListingLimit}, args)
}

func TestFeaturedCompaniesQuery(t *testing.T) {
	t.Parallel()

	q, args := featuredCompaniesQuery(database.Postgres, model.ForCategory(model.RoleCategoryFinance), 8)
	assert.Contains(t, q, `GROUP BY "company_name" ORDER BY "open_roles" DESC, "company_name" ASC LIMIT $3`)
	assert.Equal(t, []any{true, "Finance", 8}, args)
}
