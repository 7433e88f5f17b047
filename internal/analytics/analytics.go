// Package analytics is the read-only aggregation engine: platform totals,
// per-category rollups, time-bucketed trends, top-N rankings, and the
// single-item projection. It reads a snapshot that concurrent writers may
// be mutating; slightly stale numbers are acceptable and no lock is held
// across a scan.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
)

// TopN is how many content items the ranking reports.
const TopN = 5

// Source is the read-only data contract the engine aggregates over.
// *store.AnalyticsStore satisfies it.
type Source interface {
	Totals(ctx context.Context) (models.Totals, error)
	CategoryRollups(ctx context.Context) ([]models.CategoryRollup, error)
	PublishTimes(ctx context.Context) ([]time.Time, error)
	SignupTimes(ctx context.Context) ([]time.Time, error)
	ViewCounts(ctx context.Context) ([]models.ContentViews, error)
	ItemStats(ctx context.Context, contentID uuid.UUID) (*models.ItemStats, error)
}

// Engine computes aggregate reports from a Source.
type Engine struct {
	src Source
}

// New creates an Engine over the given source.
func New(src Source) *Engine {
	return &Engine{src: src}
}

// Query selects what to aggregate. A set ContentID switches the response
// to the single-item projection.
type Query struct {
	Granularity Granularity
	ContentID   *uuid.UUID
}

// Report is the full aggregate response.
type Report struct {
	Totals       models.Totals           `json:"totals"`
	Categories   []models.CategoryRollup `json:"categories"`
	SignupTrend  []models.TrendPoint     `json:"signup_trend"`
	PublishTrend []models.TrendPoint     `json:"publish_trend"`
	TopContent   []models.ContentViews   `json:"top_content"`
	Item         *models.ItemStats       `json:"item,omitempty"`
}

// Aggregate computes the report. The global sections are fetched
// concurrently; each query is independent and read-only, so a cancelled
// context aborts cleanly with no side effects.
func (e *Engine) Aggregate(ctx context.Context, q Query) (*Report, error) {
	if q.Granularity == "" {
		q.Granularity = DefaultGranularity
	}
	if _, ok := truncators[q.Granularity]; !ok {
		return nil, errs.Newf(errs.KindValidation, "unknown range %q", q.Granularity)
	}

	if q.ContentID != nil {
		item, err := e.src.ItemStats(ctx, *q.ContentID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, errs.New(errs.KindNotFound, "content not found")
		}
		return &Report{Item: item}, nil
	}

	var report Report
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := e.src.Totals(ctx)
		report.Totals = t
		return err
	})
	g.Go(func() error {
		r, err := e.src.CategoryRollups(ctx)
		report.Categories = r
		return err
	})
	g.Go(func() error {
		times, err := e.src.SignupTimes(ctx)
		if err != nil {
			return err
		}
		report.SignupTrend = bucketCounts(times, q.Granularity)
		return nil
	})
	g.Go(func() error {
		times, err := e.src.PublishTimes(ctx)
		if err != nil {
			return err
		}
		report.PublishTrend = bucketCounts(times, q.Granularity)
		return nil
	})
	g.Go(func() error {
		counts, err := e.src.ViewCounts(ctx)
		if err != nil {
			return err
		}
		report.TopContent = rankTop(counts, TopN)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}

// rankTop orders items by views descending with ties broken by ascending
// id, so the ranking is stable and reproducible given the same data, and
// returns the first n.
func rankTop(items []models.ContentViews, n int) []models.ContentViews {
	ranked := make([]models.ContentViews, len(items))
	copy(ranked, items)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return uuidLess(ranked[i].ContentID, ranked[j].ContentID)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// uuidLess compares UUIDs by byte order.
func uuidLess(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
