// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
	"blogpulse/internal/visibility"
)

// ContentStore handles all content-related database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, title, body, author_id, category_id, publish_at, deleted_at, created_at, updated_at`

// scanContent scans a row into a Content struct.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Body, &c.AuthorID, &c.CategoryID,
		&c.PublishAt, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new content item together with its engagement stats row
// in one transaction. Content without stats cannot exist, even under
// partial failure.
func (s *ContentStore) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("create content: begin", err)
	}
	defer rollback(tx)

	result, err := scanContent(tx.QueryRowContext(ctx, `
		INSERT INTO content (title, body, author_id, category_id, publish_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+contentColumns,
		c.Title, c.Body, c.AuthorID, c.CategoryID, c.PublishAt,
	))
	if err != nil {
		return nil, wrapErr("create content", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO engagement_stats (content_id) VALUES ($1)
	`, result.ID); err != nil {
		return nil, wrapErr("create engagement stats", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapErr("create content: commit", err)
	}
	return result, nil
}

// FindByID retrieves a content item by UUID, including soft-deleted rows.
// Callers apply visibility. Returns nil if the row does not exist.
func (s *ContentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	c, err := scanContent(s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+` FROM content WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find content by id", err)
	}
	return c, nil
}

// Update persists title, body, category and publish date changes.
func (s *ContentStore) Update(ctx context.Context, c *models.Content) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE content SET
			title = $1, body = $2, category_id = $3, publish_at = $4,
			updated_at = NOW()
		WHERE id = $5
	`, c.Title, c.Body, c.CategoryID, c.PublishAt, c.ID)
	if err != nil {
		return wrapErr("update content", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.KindNotFound, "content not found")
	}
	return nil
}

// SoftDelete marks the content deleted at the given instant. Already
// deleted rows are left untouched so the original deletion time survives.
func (s *ContentStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE content SET deleted_at = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`, at, id)
	if err != nil {
		return wrapErr("soft delete content", err)
	}
	return nil
}

// Sort orders for content listings.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortTitleAsc  Sort = "title_asc"
	SortTitleDesc Sort = "title_desc"
)

// ListQuery describes a content listing: the visibility scope produced by
// the visibility package, plus search, category, sort, and pagination.
type ListQuery struct {
	Scope        visibility.Scope
	ViewerID     uuid.UUID
	Now          time.Time
	Search       string
	CategoryName string
	Sort         Sort
	Page         int
	PageSize     int
}

// List returns one page of content and the total match count. The scope
// condition is applied before search, filter, sort, and pagination.
func (s *ContentStore) List(ctx context.Context, q ListQuery) ([]models.Content, int, error) {
	where, args := buildListConditions(q)

	var total int
	countSQL := `SELECT COUNT(*) FROM content c WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count content", err)
	}

	offset := (q.Page - 1) * q.PageSize
	pageSQL := fmt.Sprintf(
		`SELECT %s FROM content c WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		prefixColumns("c", contentColumns), where, orderBy(q.Sort), len(args)+1, len(args)+2,
	)
	args = append(args, q.PageSize, offset)

	rows, err := s.db.QueryContext(ctx, pageSQL, args...)
	if err != nil {
		return nil, 0, wrapErr("list content", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, wrapErr("scan content", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// buildListConditions translates a ListQuery into a WHERE clause with
// positional arguments. Every scope excludes soft-deleted rows.
func buildListConditions(q ListQuery) (string, []any) {
	conds := []string{"c.deleted_at IS NULL"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	published := func() string {
		return fmt.Sprintf("(c.publish_at IS NOT NULL AND c.publish_at <= %s)", arg(q.Now))
	}

	switch q.Scope {
	case visibility.ScopePublished:
		conds = append(conds, published())
	case visibility.ScopePublishedOrOwned:
		conds = append(conds, fmt.Sprintf("(%s OR c.author_id = %s)", published(), arg(q.ViewerID)))
	case visibility.ScopeOwned:
		conds = append(conds, "c.author_id = "+arg(q.ViewerID))
	case visibility.ScopeAll:
		// No extra condition beyond excluding deleted rows.
	}

	if q.Search != "" {
		conds = append(conds, "c.title ILIKE '%' || "+arg(q.Search)+" || '%'")
	}
	if q.CategoryName != "" {
		conds = append(conds, `c.category_id = (SELECT id FROM categories WHERE lower(name) = lower(`+arg(q.CategoryName)+`))`)
	}

	return strings.Join(conds, " AND "), args
}

// orderBy maps a sort order to its SQL clause. Unknown values fall back to
// newest-first.
func orderBy(s Sort) string {
	switch s {
	case SortOldest:
		return "c.publish_at ASC NULLS LAST, c.created_at ASC"
	case SortTitleAsc:
		return "c.title ASC, c.id ASC"
	case SortTitleDesc:
		return "c.title DESC, c.id ASC"
	default:
		return "c.publish_at DESC NULLS LAST, c.created_at DESC"
	}
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
