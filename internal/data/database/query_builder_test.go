package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_BasicSelect(t *testing.T) {
	query, args := NewSelect("jobs").Build()

	assert.Equal(t, `SELECT * FROM "jobs"`, query)
	assert.Empty(t, args)
}

func TestBuild_ColumnsAreQuoted(t *testing.T) {
	query, _ := NewSelect("jobs",
		WithColumns(Col("id"), Col("jobs.company_name"), RawCol("COUNT(*) AS open_roles")),
	).Build()

	assert.Equal(t, `SELECT "id", "jobs"."company_name", COUNT(*) AS open_roles FROM "jobs"`, query)
}

func TestBuild_HostileIdentifier(t *testing.T) {
	query, _ := NewSelect(`jobs"; DROP TABLE jobs; --`).Build()

	assert.Equal(t, `SELECT * FROM "jobs""; DROP TABLE jobs; --"`, query)
}

func TestBuild_ConditionsPostgres(t *testing.T) {
	query, args := NewSelect("jobs",
		WithColumns(RawCol("COUNT(*)")),
		WithCondition(WhereCond("is_active", Equal, true)),
		WithCondition(WhereCond("role_category", Equal, "HR")),
		WithCondition(WhereCond("location", ContainsFold, "London")),
		WithCondition(WhereRawCond("compensation ~ ?", "^[0-9]")),
	).Build()

	assert.Equal(t,
		`SELECT COUNT(*) FROM "jobs" WHERE "is_active" = $1 AND "role_category" = $2`+
			` AND strpos(lower("location"), lower($3)) > 0 AND compensation ~ $4`,
		query)
	assert.Equal(t, []any{true, "HR", "London", "^[0-9]"}, args)
}

func TestBuild_ConditionsSQLite(t *testing.T) {
	query, args := NewSelect("jobs",
		WithDialect(SQLite),
		WithCondition(WhereCond("is_active", Equal, true)),
		WithCondition(WhereCond("location", ContainsFold, "london")),
		WithLimit(5),
	).Build()

	assert.Equal(t,
		`SELECT * FROM "jobs" WHERE "is_active" = ? AND instr(lower("location"), lower(?)) > 0 LIMIT ?`,
		query)
	assert.Equal(t, []any{true, "london", 5}, args)
}

func TestBuild_RawConditionWithoutParams(t *testing.T) {
	query, args := NewSelect("jobs",
		WithCondition(WhereRawCond(`(is_remote OR workplace_type = 'Remote')`)),
		WithCondition(WhereRawCond("")),
	).Build()

	assert.Equal(t, `SELECT * FROM "jobs" WHERE (is_remote OR workplace_type = 'Remote')`, query)
	assert.Empty(t, args)
}

func TestBuild_GroupOrderLimit(t *testing.T) {
	query, args := NewSelect("jobs",
		WithColumns(Col("company_name"), RawCol("COUNT(*) AS open_roles")),
		WithGroupBy("company_name"),
		WithOrderBy(Order{Column: "open_roles", Desc: true}),
		WithOrderBy(Order{Column: "company_name"}),
		WithLimit(8),
	).Build()

	assert.Equal(t,
		`SELECT "company_name", COUNT(*) AS open_roles FROM "jobs" GROUP BY "company_name"`+
			` ORDER BY "open_roles" DESC, "company_name" ASC LIMIT $1`,
		query)
	assert.Equal(t, []any{8}, args)
}

func TestBuild_NullsLast(t *testing.T) {
	query, _ := NewSelect("jobs",
		WithOrderBy(Order{Column: "posted_date", Desc: true, NullsLast: true}),
		WithOrderBy(Order{Column: "id", Desc: true}),
	).Build()

	assert.Equal(t, `SELECT * FROM "jobs" ORDER BY "posted_date" DESC NULLS LAST, "id" DESC`, query)
}

func TestBuild_NegativeLimitIgnored(t *testing.T) {
	query, args := NewSelect("jobs", WithLimit(-1)).Build()

	assert.Equal(t, `SELECT * FROM "jobs"`, query)
	assert.Empty(t, args)
}

func TestWhereCond_CustomPanics(t *testing.T) {
	assert.Panics(t, func() { WhereCond("x", Custom, 1) })
}

func TestBuild_NilOptions(t *testing.T) {
	var o *SelectOptions
	query, args := o.Build()
	assert.Empty(t, query)
	assert.Nil(t, args)
}
