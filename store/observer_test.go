package store_test

import (
	"context"
	"testing"

	"github.com/shqio/shq/job"
	shqstore "github.com/shqio/shq/store"
)

func TestObserverGetJobMissingReturnsNil(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	observer := shqstore.NewObserver(db)

	jb, err := observer.GetJob(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if jb != nil {
		t.Fatal("expected nil job")
	}
}

func TestObserverStatusSummary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	observer := shqstore.NewObserver(db)

	if _, err := enqueuer.Enqueue(ctx, job.Spec{Command: "true"}); err != nil {
		t.Fatal(err)
	}
	if _, err := enqueuer.Enqueue(ctx, job.Spec{Command: "true"}); err != nil {
		t.Fatal(err)
	}

	summary, err := observer.StatusSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.ByState[job.Pending] != 2 {
		t.Fatalf("expected 2 pending, got %d", summary.ByState[job.Pending])
	}
	if summary.ReadyPending != 2 {
		t.Fatalf("expected 2 ready pending, got %d", summary.ReadyPending)
	}
}

func TestObserverListJobsFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	observer := shqstore.NewObserver(db)

	if _, err := enqueuer.Enqueue(ctx, job.Spec{Command: "true"}); err != nil {
		t.Fatal(err)
	}

	jobs, err := observer.ListJobs(ctx, job.Pending)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 pending job, got %d", len(jobs))
	}

	all, err := observer.ListJobs(ctx, job.Unknown)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 job total, got %d", len(all))
	}
}
