package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
)

// RunReadQuery executes an ad-hoc statement that passed core.CheckReadQuery.
// The text is sent verbatim on a connection that refuses writes; see
// CheckReadQuery for what the prefix check alone does not guarantee.
func (s *Store) RunReadQuery(ctx context.Context, q string) (core.QueryResult, error) {
	if err := core.CheckReadQuery(q); err != nil {
		return core.QueryResult{}, err
	}

	var result core.QueryResult
	err := s.readOnly(ctx, func(db querier) error {
		rows, err := db.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()
		result, err = collectRows(rows)
		return err
	})
	if err != nil {
		return core.QueryResult{}, err
	}
	return result, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// readOnly runs fn on a connection that rejects writes: a READ ONLY
// transaction on PostgreSQL, query_only on SQLite.
func (s *Store) readOnly(ctx context.Context, fn func(querier) error) error {
	if s.dialect == Postgres {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
		if err != nil {
			return fmt.Errorf("begin read-only transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		return fn(tx)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return fmt.Errorf("enable query_only: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "PRAGMA query_only = OFF"); err != nil {
			// A connection stuck in query_only must not go back to the pool.
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
	}()
	return fn(conn)
}

func collectRows(rows *sql.Rows) (core.QueryResult, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return core.QueryResult{}, err
	}

	result := core.QueryResult{
		Rows:   []map[string]any{},
		Fields: make([]core.QueryField, len(cols)),
	}
	for i, col := range cols {
		result.Fields[i] = core.QueryField{Name: col.Name(), DataType: strings.ToLower(col.DatabaseTypeName())}
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return core.QueryResult{}, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col.Name()] = jsonValue(values[i])
			if result.Fields[i].DataType == "" {
				result.Fields[i].DataType = valueType(values[i])
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return core.QueryResult{}, err
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

func jsonValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// valueType names the storage class of an expression column that carries no
// declared type.
func valueType(v any) string {
	switch v.(type) {
	case nil:
		return ""
	case int64, int32, int:
		return "integer"
	case float64, float32:
		return "real"
	case bool:
		return "boolean"
	case time.Time:
		return "timestamp"
	case []byte:
		return "blob"
	default:
		return "text"
	}
}

// Ping reports the store clock, proving a round trip to the database.
func (s *Store) Ping(ctx context.Context) (time.Time, error) {
	var now core.Timestamp
	if err := s.queryRow(ctx, `SELECT CURRENT_TIMESTAMP`).Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("database ping: %w", err)
	}
	return now.Time, nil
}
