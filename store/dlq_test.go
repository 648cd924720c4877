package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shqio/shq/job"
	shqstore "github.com/shqio/shq/store"
)

func killJob(t *testing.T, ctx context.Context, dispatcher *shqstore.Dispatcher, id string) {
	t.Helper()
	if _, err := dispatcher.FetchNextJobForProcessing(ctx, "worker-1"); err != nil {
		t.Fatal(err)
	}
	if err := dispatcher.MarkJobFailed(ctx, id, "boom", 1, 0, time.Millisecond); err != nil {
		t.Fatal(err)
	}
}

func TestDLQRetrySingleJob(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	dispatcher := shqstore.NewDispatcher(db)
	dlq := shqstore.NewDeadLetterQueue(db)
	observer := shqstore.NewObserver(db)

	id, _ := enqueuer.Enqueue(ctx, job.Spec{Command: "false"})
	killJob(t, ctx, dispatcher, id)

	jb, _ := observer.GetJob(ctx, id)
	if jb.State != job.Dead {
		t.Fatalf("expected Dead, got %v", jb.State)
	}

	count, err := dlq.RetryDeadJob(ctx, &id)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 retried, got %d", count)
	}

	jb, _ = observer.GetJob(ctx, id)
	if jb.State != job.Pending {
		t.Fatalf("expected Pending after retry, got %v", jb.State)
	}
	if jb.Attempts != 0 {
		t.Fatalf("expected attempts reset to 0, got %d", jb.Attempts)
	}
}

func TestDLQClearDeadJobs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	dispatcher := shqstore.NewDispatcher(db)
	dlq := shqstore.NewDeadLetterQueue(db)
	logs := shqstore.NewJobLogs(db)
	metrics := shqstore.NewMetrics(db)

	id, _ := enqueuer.Enqueue(ctx, job.Spec{Command: "false"})
	if err := logs.AddJobLog(ctx, id, "boom"); err != nil {
		t.Fatal(err)
	}
	if err := metrics.RecordMetric(ctx, job.Metric{JobId: id, Command: "false", Outcome: job.OutcomeFailed, CompletedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	killJob(t, ctx, dispatcher, id)

	count, err := dlq.ClearDeadJobs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cleared, got %d", count)
	}

	dead, err := dlq.ListDeadJobs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(dead) != 0 {
		t.Fatalf("expected no dead jobs remaining, got %d", len(dead))
	}

	// Deletion must cascade: no orphaned log or metric rows survive.
	if _, err := logs.GetJobLogs(ctx, id); err == nil {
		t.Fatal("expected logs for cleared job to be gone")
	}
	summary, err := metrics.MetricsSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 0 {
		t.Fatalf("expected metrics for cleared job to be gone, got total %d", summary.Total)
	}
}
