package core

import (
	"errors"
	"strings"
)

// ErrQueryNotAllowed is returned for ad-hoc statements that do not start with SELECT.
var ErrQueryNotAllowed = errors.New("only SELECT queries are allowed")

// ErrQueryRequired is returned for a missing or blank ad-hoc statement.
var ErrQueryRequired = errors.New("query is required")

// CheckReadQuery applies the ad-hoc query allow-list: the trimmed,
// case-folded text must begin with SELECT.
//
// This is a prefix check, not a parser. A statement that passes can still
// carry writes through comments, stacked statements or engine-specific
// syntax, so it must not be treated as a security boundary.
func CheckReadQuery(q string) error {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return ErrQueryRequired
	}
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return ErrQueryNotAllowed
	}
	return nil
}

// QueryField describes one result column.
type QueryField struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// QueryResult is the outcome of an ad-hoc read query.
type QueryResult struct {
	RowCount int              `json:"rowCount"`
	Rows     []map[string]any `json:"rows"`
	Fields   []QueryField     `json:"fields"`
}
