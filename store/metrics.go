package store

import (
	"context"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/job"
)

// Metrics implements queue.MetricStore using a bun-backed SQL store.
type Metrics struct {
	db *bun.DB
}

// NewMetrics creates a new SQL-backed Metrics store.
func NewMetrics(db *bun.DB) *Metrics {
	return &Metrics{db: db}
}

// RecordMetric upserts the execution summary for m.JobId.
func (m *Metrics) RecordMetric(ctx context.Context, metric job.Metric) error {
	model := fromMetric(metric)
	_, err := m.db.NewInsert().
		Model(model).
		On("CONFLICT (job_id) DO UPDATE").
		Set("command = EXCLUDED.command").
		Set("outcome = EXCLUDED.outcome").
		Set("duration_sec = EXCLUDED.duration_sec").
		Set("worker_id = EXCLUDED.worker_id").
		Set("completed_at = EXCLUDED.completed_at").
		Exec(ctx)
	return err
}

// MetricsSummary aggregates every recorded metric row.
func (m *Metrics) MetricsSummary(ctx context.Context) (*queue.MetricsSummary, error) {
	total, err := m.db.NewSelect().Model((*jobMetricModel)(nil)).Count(ctx)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Outcome job.Outcome `bun:"outcome"`
		Count   int64       `bun:"count"`
	}
	if err := m.db.NewSelect().
		Model((*jobMetricModel)(nil)).
		ColumnExpr("outcome, count(*) AS count").
		GroupExpr("outcome").
		Scan(ctx, &rows); err != nil {
		return nil, err
	}

	var avg float64
	if total > 0 {
		if err := m.db.NewSelect().
			Model((*jobMetricModel)(nil)).
			ColumnExpr("avg(duration_sec)").
			Scan(ctx, &avg); err != nil {
			return nil, err
		}
	}

	summary := &queue.MetricsSummary{
		Total:       int64(total),
		ByOutcome:   make(map[job.Outcome]int64, len(rows)),
		AvgDuration: avg,
	}
	for _, r := range rows {
		summary.ByOutcome[r.Outcome] = r.Count
	}
	return summary, nil
}
