package storage

import (
	"strings"

	"fintrack/internal/core"
)

// conditions collects optional predicates. Only the clause text varies with
// the filters in use; every value travels as a placeholder argument.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, args ...any) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

// dateRange adds inclusive bounds on col for the non-zero ends of r.
func (c *conditions) dateRange(col string, r core.DateRange) {
	if !r.From.IsZero() {
		c.add(col+" >= ?", r.From)
	}
	if !r.To.IsZero() {
		c.add(col+" <= ?", r.To)
	}
}

func (c *conditions) kind(col string, k core.Kind) {
	if k != "" {
		c.add(col+" = ?", string(k))
	}
}

func (c *conditions) category(col string, id *int64) {
	if id != nil {
		c.add(col+" = ?", *id)
	}
}

// where renders " WHERE a AND b", or "" when no predicate was added.
func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// and renders " AND a AND b" for appending to an existing ON or WHERE clause.
func (c *conditions) and() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(c.clauses, " AND ")
}
