package analytics

import (
	"sort"
	"time"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
)

// Granularity selects the width of trend buckets.
type Granularity string

const (
	Daily     Granularity = "daily"
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"

	// DefaultGranularity applies when a query names no range.
	DefaultGranularity = Monthly
)

// truncators maps each granularity to its bucket-start function. The table
// is the single definition of bucketing; it is never mutated.
var truncators = map[Granularity]func(time.Time) time.Time{
	Daily: func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	},
	Weekly: func(t time.Time) time.Time {
		// Buckets start on Monday.
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	},
	Monthly: func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	},
	Quarterly: func(t time.Time) time.Time {
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	},
	Yearly: func(t time.Time) time.Time {
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	},
}

// ParseGranularity maps a query-string value onto a Granularity. An empty
// value selects the default; anything unrecognized is a validation error.
func ParseGranularity(s string) (Granularity, error) {
	if s == "" {
		return DefaultGranularity, nil
	}
	g := Granularity(s)
	if _, ok := truncators[g]; !ok {
		return "", errs.Newf(errs.KindValidation, "unknown range %q: must be daily, weekly, monthly, quarterly, or yearly", s)
	}
	return g, nil
}

// BucketStart returns the start of the bucket containing t. Timestamps are
// bucketed in UTC.
func BucketStart(g Granularity, t time.Time) time.Time {
	return truncators[g](t.UTC())
}

// bucketCounts groups timestamps into buckets of the given granularity and
// counts per bucket, ordered chronologically ascending. Only periods
// containing at least one event are emitted; gaps are not zero-filled.
func bucketCounts(times []time.Time, g Granularity) []models.TrendPoint {
	if len(times) == 0 {
		return nil
	}

	counts := make(map[time.Time]int64, len(times))
	for _, t := range times {
		counts[BucketStart(g, t)]++
	}

	points := make([]models.TrendPoint, 0, len(counts))
	for bucket, n := range counts {
		points = append(points, models.TrendPoint{Bucket: bucket, Count: n})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Bucket.Before(points[j].Bucket)
	})
	return points
}
