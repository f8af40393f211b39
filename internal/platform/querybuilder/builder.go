// Package querybuilder renders the small set of postgres statements the
// repositories need with numbered placeholders.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// Condition is one AND-joined predicate of a WHERE clause.
type Condition interface {
	render(w *writer)
}

type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) bind(v any) {
	w.args = append(w.args, v)
	w.sql.WriteByte('$')
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

func (w *writer) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.sql.WriteString(" WHERE ")
		} else {
			w.sql.WriteString(" AND ")
		}
		c.render(w)
	}
}

type eq struct {
	column string
	value  any
}

func Eq(column string, value any) Condition { return eq{column: column, value: value} }

func (c eq) render(w *writer) {
	w.sql.WriteString(c.column)
	w.sql.WriteString(" = ")
	w.bind(c.value)
}

type anyOf struct {
	column string
	values any
}

// Any matches column against a postgres array argument, e.g. pq.Array(ids).
func Any(column string, values any) Condition { return anyOf{column: column, values: values} }

func (c anyOf) render(w *writer) {
	w.sql.WriteString(c.column)
	w.sql.WriteString(" = ANY(")
	w.bind(c.values)
	w.sql.WriteByte(')')
}

type isNull string

func IsNull(column string) Condition { return isNull(column) }

func (c isNull) render(w *writer) {
	w.sql.WriteString(string(c))
	w.sql.WriteString(" IS NULL")
}

type SelectBuilder struct {
	columns []string
	table   string
	conds   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select: no columns")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("select: no table")
	}

	var w writer
	w.sql.WriteString("SELECT ")
	w.sql.WriteString(strings.Join(b.columns, ", "))
	w.sql.WriteString(" FROM ")
	w.sql.WriteString(b.table)
	w.where(b.conds)
	if len(b.orderBy) > 0 {
		w.sql.WriteString(" ORDER BY ")
		w.sql.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sql.WriteString(" LIMIT ")
		w.sql.WriteString(strconv.Itoa(b.limit))
	}

	return w.sql.String(), w.args, nil
}

type assignment struct {
	column string
	value  any
	raw    string
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	conds []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetRaw assigns an SQL expression verbatim, e.g. NOW().
func (b *UpdateBuilder) SetRaw(column, expr string) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, raw: expr})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("update: no table")
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update: nothing to set")
	}
	if len(b.conds) == 0 {
		return "", nil, errors.New("update: refusing to update without a where clause")
	}

	var w writer
	w.sql.WriteString("UPDATE ")
	w.sql.WriteString(b.table)
	w.sql.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.sql.WriteString(", ")
		}
		w.sql.WriteString(s.column)
		w.sql.WriteString(" = ")
		if s.raw != "" {
			w.sql.WriteString(s.raw)
			continue
		}
		w.bind(s.value)
	}
	w.where(b.conds)

	return w.sql.String(), w.args, nil
}
