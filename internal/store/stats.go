// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
)

// StatsStore mutates engagement counters. All increments execute as single
// SQL statements so concurrent callers cannot lose updates; the like
// operation runs in one transaction that either commits the liked-set
// insert and the counter bump together or not at all.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore returns a new StatsStore.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Get retrieves the stats row for a content item. Returns nil if absent.
func (s *StatsStore) Get(ctx context.Context, contentID uuid.UUID) (*models.EngagementStats, error) {
	st := &models.EngagementStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT content_id, views, likes, shares
		FROM engagement_stats WHERE content_id = $1
	`, contentID).Scan(&st.ContentID, &st.Views, &st.Likes, &st.Shares)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get engagement stats", err)
	}
	return st, nil
}

// IncrementViews atomically adds one view and returns the new count.
func (s *StatsStore) IncrementViews(ctx context.Context, contentID uuid.UUID) (int64, error) {
	return s.increment(ctx, contentID, "views")
}

// IncrementShares atomically adds one share and returns the new count.
func (s *StatsStore) IncrementShares(ctx context.Context, contentID uuid.UUID) (int64, error) {
	return s.increment(ctx, contentID, "shares")
}

// increment bumps one counter column in a single UPDATE. The column name
// comes only from the two callers above, never from input.
func (s *StatsStore) increment(ctx context.Context, contentID uuid.UUID, column string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE engagement_stats SET `+column+` = `+column+` + 1
		WHERE content_id = $1
		RETURNING `+column,
		contentID,
	).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, errs.New(errs.KindNotFound, "engagement stats not found")
	}
	if err != nil {
		return 0, wrapErr("increment "+column, err)
	}
	return n, nil
}

// AddLike records a like by the given user. The liked-set insert and the
// counter bump commit together; a duplicate like rolls back with
// ErrAlreadyLiked and changes nothing. Returns the new like count.
func (s *StatsStore) AddLike(ctx context.Context, contentID, userID uuid.UUID) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrapErr("add like: begin", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO content_likes (content_id, user_id) VALUES ($1, $2)
	`, contentID, userID)
	if isUniqueViolation(err) {
		return 0, errs.ErrAlreadyLiked
	}
	if err != nil {
		return 0, wrapErr("add like: insert", err)
	}

	var likes int64
	err = tx.QueryRowContext(ctx, `
		UPDATE engagement_stats SET likes = likes + 1
		WHERE content_id = $1
		RETURNING likes
	`, contentID).Scan(&likes)
	if err == sql.ErrNoRows {
		return 0, errs.New(errs.KindNotFound, "engagement stats not found")
	}
	if err != nil {
		return 0, wrapErr("add like: increment", err)
	}

	// The counter must mirror the liked set exactly. A mismatch means a
	// mutation path bypassed this transaction; abort rather than commit a
	// corrupted pair.
	var setSize int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM content_likes WHERE content_id = $1
	`, contentID).Scan(&setSize); err != nil {
		return 0, wrapErr("add like: verify", err)
	}
	if likes != setSize {
		slog.Error("engagement counter out of sync with liked set",
			"content_id", contentID,
			"likes", likes,
			"liked_by", setSize,
		)
		return 0, errs.Newf(errs.KindState, "likes counter %d does not match liked set size %d", likes, setSize)
	}

	if err := tx.Commit(); err != nil {
		return 0, wrapErr("add like: commit", err)
	}
	return likes, nil
}

// HasLiked reports whether the user is in the content's liked set.
func (s *StatsStore) HasLiked(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM content_likes WHERE content_id = $1 AND user_id = $2
		)
	`, contentID, userID).Scan(&exists)
	if err != nil {
		return false, wrapErr("has liked", err)
	}
	return exists, nil
}
