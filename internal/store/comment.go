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

// CommentDeleteMode selects how comment deletion behaves. The whole
// deployment uses one mode, chosen by configuration.
type CommentDeleteMode string

const (
	// CommentDeleteSoft sets deleted_at, matching content deletion.
	CommentDeleteSoft CommentDeleteMode = "soft"

	// CommentDeleteHard removes the row outright.
	CommentDeleteHard CommentDeleteMode = "hard"
)

// CommentStore manages comments in the database.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// ListForContent returns the non-deleted comments on a content item,
// oldest first, with author display names joined in.
func (s *CommentStore) ListForContent(ctx context.Context, contentID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.content_id, m.author_id, m.body, m.created_at, u.display_name
		FROM comments m
		JOIN users u ON u.id = m.author_id
		WHERE m.content_id = $1 AND m.deleted_at IS NULL
		ORDER BY m.created_at ASC
	`, contentID)
	if err != nil {
		return nil, wrapErr("list comments", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var m models.Comment
		if err := rows.Scan(&m.ID, &m.ContentID, &m.AuthorID, &m.Body, &m.CreatedAt, &m.AuthorName); err != nil {
			return nil, wrapErr("scan comment", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Create inserts a new comment.
func (s *CommentStore) Create(ctx context.Context, contentID, authorID uuid.UUID, body string) (*models.Comment, error) {
	m := &models.Comment{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (content_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, content_id, author_id, body, created_at
	`, contentID, authorID, body).Scan(&m.ID, &m.ContentID, &m.AuthorID, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, wrapErr("create comment", err)
	}
	return m, nil
}

// FindByID retrieves a comment by UUID. Soft-deleted comments are treated
// as absent. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	m := &models.Comment{}
	err := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.content_id, m.author_id, m.body, m.created_at, u.display_name
		FROM comments m
		JOIN users u ON u.id = m.author_id
		WHERE m.id = $1 AND m.deleted_at IS NULL
	`, id).Scan(&m.ID, &m.ContentID, &m.AuthorID, &m.Body, &m.CreatedAt, &m.AuthorName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find comment by id", err)
	}
	return m, nil
}

// Delete removes a comment according to the configured mode.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID, mode CommentDeleteMode) error {
	var (
		res sql.Result
		err error
	)
	if mode == CommentDeleteHard {
		res, err = s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE comments SET deleted_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
		`, id)
	}
	if err != nil {
		return wrapErr("delete comment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.KindNotFound, "comment not found")
	}
	return nil
}
