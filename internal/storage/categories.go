package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

const categoryColumns = `id, name, type, color, icon, created_at`

func scanCategory(row scanner) (core.Category, error) {
	var c core.Category
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt)
	return c, err
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns one category or core.ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	c, err := scanCategory(s.queryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, notFound(err))
	}
	return c, nil
}

// CreateCategory inserts a category, filling the default color and icon.
// A duplicate name fails with the store's constraint error.
func (s *Store) CreateCategory(ctx context.Context, in core.NewCategory) (core.Category, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return core.Category{}, err
	}
	c, err := scanCategory(s.queryRow(ctx,
		`INSERT INTO categories (name, type, color, icon) VALUES (?, ?, ?, ?)
		 RETURNING `+categoryColumns,
		in.Name, string(in.Type), in.Color, in.Icon))
	if err != nil {
		return core.Category{}, fmt.Errorf("create category %q: %w", in.Name, err)
	}
	return c, nil
}

// DeleteCategory removes a category. Its transactions keep existing with a
// cleared category_id and its budgets are deleted, by foreign key rules.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return expectRow(res, "category", id)
}
