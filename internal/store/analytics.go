// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"blogpulse/internal/models"
)

// AnalyticsStore serves the read-only queries behind the aggregation
// engine. Sums and counts are pushed to the database; bucketing and
// ranking happen in the engine. No query here holds a lock across a scan.
type AnalyticsStore struct {
	db *sql.DB
}

// NewAnalyticsStore returns a new AnalyticsStore.
func NewAnalyticsStore(db *sql.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

// Totals sums engagement across all non-deleted content and counts users
// and content items.
func (s *AnalyticsStore) Totals(ctx context.Context) (models.Totals, error) {
	var t models.Totals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(c.id),
		       COALESCE(SUM(es.views), 0),
		       COALESCE(SUM(es.likes), 0),
		       COALESCE(SUM(es.shares), 0)
		FROM content c
		JOIN engagement_stats es ON es.content_id = c.id
		WHERE c.deleted_at IS NULL
	`).Scan(&t.Content, &t.Views, &t.Likes, &t.Shares)
	if err != nil {
		return models.Totals{}, wrapErr("aggregate totals", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&t.Users); err != nil {
		return models.Totals{}, wrapErr("count users", err)
	}
	return t, nil
}

// CategoryRollups sums engagement per category over non-deleted content.
// Categories with no content appear with zero counts.
func (s *AnalyticsStore) CategoryRollups(ctx context.Context) ([]models.CategoryRollup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cat.id, cat.name,
		       COUNT(c.id),
		       COALESCE(SUM(es.views), 0),
		       COALESCE(SUM(es.likes), 0),
		       COALESCE(SUM(es.shares), 0)
		FROM categories cat
		LEFT JOIN content c ON c.category_id = cat.id AND c.deleted_at IS NULL
		LEFT JOIN engagement_stats es ON es.content_id = c.id
		GROUP BY cat.id, cat.name
		ORDER BY cat.name
	`)
	if err != nil {
		return nil, wrapErr("category rollups", err)
	}
	defer rows.Close()

	var items []models.CategoryRollup
	for rows.Next() {
		var r models.CategoryRollup
		if err := rows.Scan(&r.CategoryID, &r.Name, &r.Content, &r.Views, &r.Likes, &r.Shares); err != nil {
			return nil, wrapErr("scan rollup", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// PublishTimes returns the publish timestamps of all non-deleted content
// that has one. Rows without a publish date are excluded, not defaulted.
func (s *AnalyticsStore) PublishTimes(ctx context.Context) ([]time.Time, error) {
	return s.timeColumn(ctx, `
		SELECT publish_at FROM content
		WHERE deleted_at IS NULL AND publish_at IS NOT NULL
	`)
}

// SignupTimes returns the signup timestamps of all users.
func (s *AnalyticsStore) SignupTimes(ctx context.Context) ([]time.Time, error) {
	return s.timeColumn(ctx, `SELECT created_at FROM users`)
}

func (s *AnalyticsStore) timeColumn(ctx context.Context, query string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("time series query", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, wrapErr("scan timestamp", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// ViewCounts returns the view count of every non-deleted content item.
// The engine ranks these; the store does not impose an order.
func (s *AnalyticsStore) ViewCounts(ctx context.Context) ([]models.ContentViews, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, es.views
		FROM content c
		JOIN engagement_stats es ON es.content_id = c.id
		WHERE c.deleted_at IS NULL
	`)
	if err != nil {
		return nil, wrapErr("view counts", err)
	}
	defer rows.Close()

	var items []models.ContentViews
	for rows.Next() {
		var v models.ContentViews
		if err := rows.Scan(&v.ContentID, &v.Title, &v.Views); err != nil {
			return nil, wrapErr("scan view count", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// ItemStats returns the engagement projection for one non-deleted content
// item, including its live comment count. Returns nil if the id does not
// resolve.
func (s *AnalyticsStore) ItemStats(ctx context.Context, contentID uuid.UUID) (*models.ItemStats, error) {
	st := &models.ItemStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.title, es.views, es.likes, es.shares,
		       (SELECT COUNT(*) FROM comments m
		        WHERE m.content_id = c.id AND m.deleted_at IS NULL)
		FROM content c
		JOIN engagement_stats es ON es.content_id = c.id
		WHERE c.id = $1 AND c.deleted_at IS NULL
	`, contentID).Scan(&st.ContentID, &st.Title, &st.Views, &st.Likes, &st.Shares, &st.Comments)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("item stats", err)
	}
	return st, nil
}
