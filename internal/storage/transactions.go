package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

const transactionColumns = `id, amount_cents, description, category_id, transaction_date, type, created_at, updated_at`

type scanner interface{ Scan(...any) error }

func scanTransaction(row scanner) (core.Transaction, error) {
	var t core.Transaction
	err := row.Scan(&t.ID, &t.Amount, &t.Description, &t.CategoryID,
		&t.TransactionDate, &t.Type, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTransactions returns transactions joined with their category's display
// fields. Filters are optional and conjunctive; the date range is inclusive.
func (s *Store) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.TransactionView, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var c conditions
	c.dateRange("t.transaction_date", f.Range)
	c.kind("t.type", f.Type)
	c.category("t.category_id", f.CategoryID)

	q := `SELECT t.id, t.amount_cents, t.description, t.category_id, t.transaction_date,
	             t.type, t.created_at, t.updated_at, c.name, c.color, c.icon
	      FROM transactions t
	      LEFT JOIN categories c ON c.id = t.category_id` +
		c.where() +
		` ORDER BY t.transaction_date DESC, t.created_at DESC, t.id DESC`

	rows, err := s.query(ctx, q, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	list := []core.TransactionView{}
	for rows.Next() {
		var v core.TransactionView
		if err := rows.Scan(&v.ID, &v.Amount, &v.Description, &v.CategoryID,
			&v.TransactionDate, &v.Type, &v.CreatedAt, &v.UpdatedAt,
			&v.CategoryName, &v.Color, &v.Icon); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return list, nil
}

// GetTransaction returns one transaction or core.ErrNotFound.
func (s *Store) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := scanTransaction(s.queryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, notFound(err))
	}
	return t, nil
}

// CreateTransaction inserts a transaction. A zero date means today.
func (s *Store) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if in.TransactionDate.IsZero() {
		in.TransactionDate = core.Today()
	}
	t, err := scanTransaction(s.queryRow(ctx,
		`INSERT INTO transactions (amount_cents, description, category_id, transaction_date, type)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+transactionColumns,
		in.Amount, in.Description, in.CategoryID, in.TransactionDate, string(in.Type)))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

// UpdateTransaction replaces every writable field of a transaction and
// refreshes updated_at. A missing row yields core.ErrNotFound.
func (s *Store) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if in.TransactionDate.IsZero() {
		return core.Transaction{}, core.Invalid("transaction_date", "is required")
	}
	t, err := scanTransaction(s.queryRow(ctx,
		`UPDATE transactions
		 SET amount_cents = ?, description = ?, category_id = ?, transaction_date = ?, type = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?
		 RETURNING `+transactionColumns,
		in.Amount, in.Description, in.CategoryID, in.TransactionDate, string(in.Type), id))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, notFound(err))
	}
	return t, nil
}

// DeleteTransaction removes a transaction by id.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return expectRow(res, "transaction", id)
}
