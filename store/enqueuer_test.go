package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shqio/shq/job"
	shqstore "github.com/shqio/shq/store"
)

func TestEnqueueDefaultsToPending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	observer := shqstore.NewObserver(db)

	id, err := enqueuer.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	jb, err := observer.GetJob(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb == nil {
		t.Fatal("expected job to exist")
	}
	if jb.State != job.Pending {
		t.Fatalf("expected Pending, got %v", jb.State)
	}
	if jb.MaxRetries != 3 {
		t.Fatalf("expected default max_retries 3, got %d", jb.MaxRetries)
	}
	if jb.Priority != 100 {
		t.Fatalf("expected default priority 100, got %d", jb.Priority)
	}
}

func TestEnqueueFutureRunAtIsScheduled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	observer := shqstore.NewObserver(db)

	future := time.Now().Add(time.Hour)
	id, err := enqueuer.Enqueue(ctx, job.Spec{Command: "true", RunAt: &future})
	if err != nil {
		t.Fatal(err)
	}

	jb, err := observer.GetJob(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.State != job.Scheduled {
		t.Fatalf("expected Scheduled, got %v", jb.State)
	}
}

func TestEnqueueEmptyCommandRejected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	if _, err := enqueuer.Enqueue(ctx, job.Spec{}); err == nil {
		t.Fatal("expected an error for empty command")
	}
}

func TestEnqueueDuplicateID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	spec := job.Spec{Id: "fixed-id", Command: "true"}
	if _, err := enqueuer.Enqueue(ctx, spec); err != nil {
		t.Fatal(err)
	}
	if _, err := enqueuer.Enqueue(ctx, spec); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
