// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, created_at, updated_at`

// List returns all categories ordered by name, with non-deleted content counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cat.id, cat.name, cat.description, cat.created_at, cat.updated_at,
		       COUNT(c.id) AS content_count
		FROM categories cat
		LEFT JOIN content c ON c.category_id = cat.id AND c.deleted_at IS NULL
		GROUP BY cat.id
		ORDER BY cat.name
	`)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.ContentCount); err != nil {
			return nil, wrapErr("scan category", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by UUID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find category by id", err)
	}
	return c, nil
}

// FindByName retrieves a category by name, case-insensitively. Returns nil
// if not found. Category resolution never creates categories implicitly.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE lower(name) = lower($1)
	`, name).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find category by name", err)
	}
	return c, nil
}

// Create inserts a new category. Duplicate names surface as conflicts.
func (s *CategoryStore) Create(ctx context.Context, name, description string) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name, description,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, errs.New(errs.KindConflict, "category name already exists")
	}
	if err != nil {
		return nil, wrapErr("create category", err)
	}
	return c, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`, c.Name, c.Description, c.ID)
	if isUniqueViolation(err) {
		return errs.New(errs.KindConflict, "category name already exists")
	}
	if err != nil {
		return wrapErr("update category", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.KindNotFound, "category not found")
	}
	return nil
}

// Delete removes a category. Dependent content keeps existing: the schema
// clears content.category_id (ON DELETE SET NULL) instead of cascading.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete category", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.KindNotFound, "category not found")
	}
	return nil
}
