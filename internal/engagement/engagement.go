// Package engagement mutates view, like, and share counters with
// idempotency and concurrency safety. Atomicity lives at the store layer
// (single-statement increments, one transaction per like); this service
// adds the ownership rules, the not-found policy for deleted content, and
// bounded retries for transient store failures.
package engagement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
	"blogpulse/internal/visibility"
)

const (
	// maxRetries bounds automatic retries of transient store failures.
	// Validation and conflict failures are never retried.
	maxRetries = 3

	retryBaseDelay = 50 * time.Millisecond
)

// ContentFinder resolves content rows. *store.ContentStore satisfies it.
type ContentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error)
}

// StatsRepo is the counter mutation contract. Every method must be atomic
// per content row. *store.StatsStore satisfies it.
type StatsRepo interface {
	Get(ctx context.Context, contentID uuid.UUID) (*models.EngagementStats, error)
	IncrementViews(ctx context.Context, contentID uuid.UUID) (int64, error)
	IncrementShares(ctx context.Context, contentID uuid.UUID) (int64, error)
	AddLike(ctx context.Context, contentID, userID uuid.UUID) (int64, error)
	HasLiked(ctx context.Context, contentID, userID uuid.UUID) (bool, error)
}

// Service is the engagement counter service.
type Service struct {
	content ContentFinder
	stats   StatsRepo
}

// New creates a Service.
func New(content ContentFinder, stats StatsRepo) *Service {
	return &Service{content: content, stats: stats}
}

// RecordView counts one view. Views by the content's owner are not
// counted; repeated views by the same non-owner viewer all count.
func (s *Service) RecordView(ctx context.Context, contentID uuid.UUID, viewer visibility.Viewer) error {
	c, err := s.find(ctx, contentID)
	if err != nil {
		return err
	}
	if viewer.Owns(c) {
		return nil
	}

	return s.withRetry(ctx, func(ctx context.Context) error {
		_, err := s.stats.IncrementViews(ctx, contentID)
		return err
	})
}

// RecordLike adds the user to the liked set and bumps the counter, both in
// one store transaction. The owner may not like their own content; a
// second like by the same user fails with ErrAlreadyLiked and changes
// nothing. Returns the new like count.
func (s *Service) RecordLike(ctx context.Context, contentID uuid.UUID, user visibility.Viewer) (int64, error) {
	c, err := s.find(ctx, contentID)
	if err != nil {
		return 0, err
	}
	if user.Owns(c) {
		return 0, errs.ErrSelfLike
	}

	var likes int64
	err = s.withRetry(ctx, func(ctx context.Context) error {
		likes, err = s.stats.AddLike(ctx, contentID, user.ID)
		return err
	})
	return likes, err
}

// RecordShare counts one share. Shares are unrestricted and never
// deduplicated. Returns the new share count.
func (s *Service) RecordShare(ctx context.Context, contentID uuid.UUID) (int64, error) {
	if _, err := s.find(ctx, contentID); err != nil {
		return 0, err
	}

	var shares int64
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var ierr error
		shares, ierr = s.stats.IncrementShares(ctx, contentID)
		return ierr
	})
	return shares, err
}

// Stats returns the counters for one content item, without mutating
// anything. Absent or deleted content reads as not-found.
func (s *Service) Stats(ctx context.Context, contentID uuid.UUID) (*models.EngagementStats, error) {
	if _, err := s.find(ctx, contentID); err != nil {
		return nil, err
	}
	st, err := s.stats.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errs.New(errs.KindNotFound, "engagement stats not found")
	}
	return st, nil
}

// HasLiked reports whether the user has liked the content.
func (s *Service) HasLiked(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	return s.stats.HasLiked(ctx, contentID, userID)
}

// find loads the content and maps absent or soft-deleted rows to
// not-found: deleted content accepts no engagement.
func (s *Service) find(ctx context.Context, contentID uuid.UUID) (*models.Content, error) {
	c, err := s.content.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.IsDeleted() {
		return nil, errs.New(errs.KindNotFound, "content not found")
	}
	return c, nil
}

// withRetry runs op, retrying transient store failures with exponential
// backoff up to maxRetries. All other failures surface immediately.
func (s *Service) withRetry(ctx context.Context, op func(context.Context) error) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			if errs.IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}
