package queue

import (
	"context"

	"github.com/shqio/shq/job"
)

// MetricsSummary aggregates MetricStore rows for display.
type MetricsSummary struct {
	Total       int64
	ByOutcome   map[job.Outcome]int64
	AvgDuration float64
}

// MetricStore records and summarizes per-job execution metrics.
//
// A job's metric row is upserted keyed by JobId: repeated attempts
// overwrite the existing row rather than appending a new one, so the
// metrics table always holds exactly one row per job that has completed
// at least one attempt.
type MetricStore interface {

	// RecordMetric upserts the execution summary for m.JobId.
	RecordMetric(ctx context.Context, m job.Metric) error

	// MetricsSummary aggregates every recorded metric row.
	MetricsSummary(ctx context.Context) (*MetricsSummary, error)
}
