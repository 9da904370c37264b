// Package database builds parameterised SELECT statements for the listing stores.
package database

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Dialect selects placeholder syntax and a few function spellings.
type Dialect int

const (
	// Postgres uses $1, $2 placeholders.
	Postgres Dialect = iota
	// SQLite uses ? placeholders.
	SQLite
)

func (d Dialect) placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// ConditionType is the comparison applied by a Condition.
type ConditionType string

const (
	Equal ConditionType = "="
	// ContainsFold is a case-insensitive substring match.
	ContainsFold ConditionType = "CONTAINS"
	Custom       ConditionType = "CUSTOM"
)

// Condition is one AND-ed term of a WHERE clause.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery string
	rawArgs  []any
}

// WhereCond compares an identifier against a bound value.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // custom conditions must provide raw SQL via WhereRawCond.
		panic("Use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond adds raw SQL. Each "?" in rawQuery is replaced by the
// dialect's next placeholder and bound to the matching param.
func WhereRawCond(rawQuery string, params ...any) Condition {
	return Condition{Type: Custom, rawQuery: rawQuery, rawArgs: params}
}

// Column is a select-list entry.
type Column struct {
	expr string
	raw  bool
}

// Col selects a (possibly qualified) identifier.
func Col(name string) Column { return Column{expr: name} }

// RawCol selects a trusted SQL expression verbatim.
func RawCol(expr string) Column { return Column{expr: expr, raw: true} }

// Order is one ORDER BY term.
type Order struct {
	Column    string
	Desc      bool
	NullsLast bool
}

// SelectOptions describes a single-table SELECT.
type SelectOptions struct {
	Dialect    Dialect
	Table      string
	Columns    []Column
	Conditions []Condition
	GroupBy    []string
	OrderBy    []Order
	Limit      int
}

// SelectOption mutates SelectOptions.
type SelectOption func(*SelectOptions)

// NewSelect creates options for table, applying opts in order.
func NewSelect(table string, opts ...SelectOption) *SelectOptions {
	o := &SelectOptions{Table: table, Limit: -1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDialect sets the placeholder dialect. Postgres is the default.
func WithDialect(d Dialect) SelectOption {
	return func(o *SelectOptions) { o.Dialect = d }
}

// WithColumns sets the columns to select.
func WithColumns(cols ...Column) SelectOption {
	return func(o *SelectOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) SelectOption {
	return func(o *SelectOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithConditions appends several conditions.
func WithConditions(conds ...Condition) SelectOption {
	return func(o *SelectOptions) { o.Conditions = append(o.Conditions, conds...) }
}

// WithGroupBy sets the GROUP BY identifiers.
func WithGroupBy(cols ...string) SelectOption {
	return func(o *SelectOptions) { o.GroupBy = cols }
}

// WithOrderBy appends an ORDER BY term.
func WithOrderBy(order Order) SelectOption {
	return func(o *SelectOptions) { o.OrderBy = append(o.OrderBy, order) }
}

// WithLimit sets the limit. Negative values leave the query unbounded.
func WithLimit(limit int) SelectOption {
	return func(o *SelectOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// sanitizeQualifiedIdentifier quotes each dot-separated part with pgx.Identifier.
// Double-quoted identifiers are valid in both dialects.
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// Build renders the query and its positional arguments.
func (o *SelectOptions) Build() (string, []any) {
	if o == nil {
		return "", nil
	}

	var q strings.Builder
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return o.Dialect.placeholder(len(args))
	}

	q.WriteString("SELECT ")
	q.WriteString(o.selectList())
	q.WriteString(" FROM ")
	q.WriteString(sanitizeQualifiedIdentifier(o.Table))

	if len(o.Conditions) > 0 {
		terms := make([]string, 0, len(o.Conditions))
		for _, c := range o.Conditions {
			if t := o.renderCondition(c, next); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) > 0 {
			q.WriteString(" WHERE ")
			q.WriteString(strings.Join(terms, " AND "))
		}
	}

	if len(o.GroupBy) > 0 {
		cols := make([]string, len(o.GroupBy))
		for i, g := range o.GroupBy {
			cols[i] = sanitizeQualifiedIdentifier(g)
		}
		q.WriteString(" GROUP BY ")
		q.WriteString(strings.Join(cols, ", "))
	}

	if len(o.OrderBy) > 0 {
		terms := make([]string, len(o.OrderBy))
		for i, ord := range o.OrderBy {
			terms[i] = renderOrder(ord)
		}
		q.WriteString(" ORDER BY ")
		q.WriteString(strings.Join(terms, ", "))
	}

	if o.Limit >= 0 {
		q.WriteString(" LIMIT ")
		q.WriteString(next(o.Limit))
	}

	return q.String(), args
}

func (o *SelectOptions) selectList() string {
	if len(o.Columns) == 0 {
		return "*"
	}
	cols := make([]string, len(o.Columns))
	for i, c := range o.Columns {
		if c.raw {
			cols[i] = c.expr
			continue
		}
		cols[i] = sanitizeQualifiedIdentifier(c.expr)
	}
	return strings.Join(cols, ", ")
}

func (o *SelectOptions) renderCondition(c Condition, next func(any) string) string {
	switch c.Type {
	case Custom:
		if c.rawQuery == "" {
			return ""
		}
		var b strings.Builder
		argIdx := 0
		for _, r := range c.rawQuery {
			if r == '?' && argIdx < len(c.rawArgs) {
				b.WriteString(next(c.rawArgs[argIdx]))
				argIdx++
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	case ContainsFold:
		field := sanitizeQualifiedIdentifier(c.Field)
		fn := "strpos"
		if o.Dialect == SQLite {
			fn = "instr"
		}
		return fn + "(lower(" + field + "), lower(" + next(c.Value) + ")) > 0"
	default:
		return sanitizeQualifiedIdentifier(c.Field) + " " + string(c.Type) + " " + next(c.Value)
	}
}

func renderOrder(ord Order) string {
	s := sanitizeQualifiedIdentifier(ord.Column)
	if ord.Desc {
		s += " DESC"
	} else {
		s += " ASC"
	}
	if ord.NullsLast {
		s += " NULLS LAST"
	}
	return s
}
