// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EngagementStats holds the counters for exactly one content item. The row
// is created in the same transaction as the content itself, so content
// without stats cannot exist. Invariant: Likes always equals the number of
// rows in the content_likes set for this content.
type EngagementStats struct {
	ContentID uuid.UUID `json:"content_id"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	Shares    int64     `json:"shares"`
}

// Totals is the platform-wide engagement summary across all non-deleted
// content.
type Totals struct {
	Users   int64 `json:"total_users"`
	Content int64 `json:"total_content"`
	Views   int64 `json:"total_views"`
	Likes   int64 `json:"total_likes"`
	Shares  int64 `json:"total_shares"`
}

// CategoryRollup sums engagement per category. Categories with no content
// report zeros rather than being absent.
type CategoryRollup struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Content    int64     `json:"content"`
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	Shares     int64     `json:"shares"`
}

// TrendPoint is one bucket of a time-bucketed series, keyed by the bucket's
// start instant.
type TrendPoint struct {
	Bucket time.Time `json:"bucket"`
	Count  int64     `json:"count"`
}

// ContentViews pairs a content item with its view count, for ranking.
type ContentViews struct {
	ContentID uuid.UUID `json:"content_id"`
	Title     string    `json:"title"`
	Views     int64     `json:"views"`
}

// ItemStats is the single-item projection returned when an aggregate query
// names a specific content id.
type ItemStats struct {
	ContentID uuid.UUID `json:"content_id"`
	Title     string    `json:"title"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	Shares    int64     `json:"shares"`
	Comments  int64     `json:"comments"`
}
