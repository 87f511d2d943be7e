package report

import (
	"strconv"
	"strings"
)

// Query assembles a SQL statement from a base SELECT and a variable set
// of conditions. Every value is bound positionally; `?` markers in
// condition text are rewritten to `$n` placeholders as values are
// appended, so no value ever reaches the SQL text itself.
type Query struct {
	base  string
	conds []string
	args  []interface{}
	order string
}

func NewQuery(base string) *Query {
	return &Query{base: base}
}

// Where adds a condition. Each `?` in expr consumes one value.
func (q *Query) Where(expr string, vals ...interface{}) *Query {
	q.conds = append(q.conds, q.bind(expr, vals...))
	return q
}

// Between adds an inclusive range condition on col.
func (q *Query) Between(col string, lo, hi interface{}) *Query {
	return q.Where(col+" BETWEEN ? AND ?", lo, hi)
}

// In adds a membership condition; the placeholder list grows with the
// number of values.
func (q *Query) In(col string, vals []string) *Query {
	markers := make([]string, len(vals))
	bound := make([]interface{}, len(vals))
	for i, v := range vals {
		markers[i] = "?"
		bound[i] = v
	}
	return q.Where(col+" IN ("+strings.Join(markers, ", ")+")", bound...)
}

func (q *Query) OrderBy(expr string) *Query {
	q.order = expr
	return q
}

func (q *Query) bind(expr string, vals ...interface{}) string {
	var b strings.Builder
	next := 0
	for _, r := range expr {
		if r == '?' && next < len(vals) {
			q.args = append(q.args, vals[next])
			next++
			b.WriteString("$" + strconv.Itoa(len(q.args)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (q *Query) SQL() string {
	var b strings.Builder
	b.WriteString(q.base)
	if len(q.conds) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(q.conds, "\n  AND "))
	}
	if q.order != "" {
		b.WriteString("\nORDER BY ")
		b.WriteString(q.order)
	}
	return b.String()
}

func (q *Query) Args() []interface{} {
	return q.args
}
