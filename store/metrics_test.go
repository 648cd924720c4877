package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shqio/shq/job"
	shqstore "github.com/shqio/shq/store"
)

func TestMetricsRecordAndUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	metrics := shqstore.NewMetrics(db)

	m := job.Metric{
		JobId:       "job-1",
		Command:     "true",
		Outcome:     job.OutcomeFailed,
		DurationSec: 1.5,
		WorkerId:    "worker-1",
		CompletedAt: time.Now(),
	}
	if err := metrics.RecordMetric(ctx, m); err != nil {
		t.Fatal(err)
	}

	m.Outcome = job.OutcomeCompleted
	m.DurationSec = 0.5
	if err := metrics.RecordMetric(ctx, m); err != nil {
		t.Fatal(err)
	}

	summary, err := metrics.MetricsSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 1 {
		t.Fatalf("expected upsert to keep a single row, got total %d", summary.Total)
	}
	if summary.ByOutcome[job.OutcomeCompleted] != 1 {
		t.Fatalf("expected row to reflect the latest outcome, got %+v", summary.ByOutcome)
	}
}
