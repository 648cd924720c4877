package store_test

import (
	"context"
	"testing"
	"time"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/job"
	shqstore "github.com/shqio/shq/store"
)

func TestCleanerDeletesTerminalJobsOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	dispatcher := shqstore.NewDispatcher(db)
	cleaner := shqstore.NewCleaner(db)
	observer := shqstore.NewObserver(db)
	logs := shqstore.NewJobLogs(db)
	metrics := shqstore.NewMetrics(db)

	doneId, _ := enqueuer.Enqueue(ctx, job.Spec{Command: "true"})
	if _, err := dispatcher.FetchNextJobForProcessing(ctx, "worker-1"); err != nil {
		t.Fatal(err)
	}
	if err := logs.AddJobLog(ctx, doneId, "ok"); err != nil {
		t.Fatal(err)
	}
	if err := metrics.RecordMetric(ctx, job.Metric{JobId: doneId, Command: "true", Outcome: job.OutcomeCompleted, CompletedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := dispatcher.MarkJobCompleted(ctx, doneId); err != nil {
		t.Fatal(err)
	}

	pendingId, _ := enqueuer.Enqueue(ctx, job.Spec{Command: "true"})

	count, err := cleaner.Clean(ctx, job.Unknown, nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 deleted, got %d", count)
	}

	if jb, _ := observer.GetJob(ctx, doneId); jb != nil {
		t.Fatal("expected completed job to be deleted")
	}
	if jb, _ := observer.GetJob(ctx, pendingId); jb == nil {
		t.Fatal("expected pending job to survive")
	}

	// Deletion must cascade: no orphaned log or metric rows survive.
	if _, err := logs.GetJobLogs(ctx, doneId); err == nil {
		t.Fatal("expected logs for deleted job to be gone")
	}
	summary, err := metrics.MetricsSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 0 {
		t.Fatalf("expected metrics for deleted job to be gone, got total %d", summary.Total)
	}
}

func TestCleanerRejectsNonTerminalState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cleaner := shqstore.NewCleaner(db)

	if _, err := cleaner.Clean(ctx, job.Pending, nil); err != queue.ErrBadState {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestCleanerHonorsBeforeFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	dispatcher := shqstore.NewDispatcher(db)
	cleaner := shqstore.NewCleaner(db)

	id, _ := enqueuer.Enqueue(ctx, job.Spec{Command: "true"})
	if _, err := dispatcher.FetchNextJobForProcessing(ctx, "worker-1"); err != nil {
		t.Fatal(err)
	}
	if err := dispatcher.MarkJobCompleted(ctx, id); err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-time.Hour)
	count, err := cleaner.Clean(ctx, job.Completed, &past)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected nothing old enough to delete, got %d", count)
	}
}
