package store_test

import (
	"context"
	"testing"

	"github.com/shqio/shq/job"
	shqstore "github.com/shqio/shq/store"
)

func TestJobLogsAppendAndRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	enqueuer := shqstore.NewEnqueuer(db, shqstore.NewConfig(db))
	logs := shqstore.NewJobLogs(db)

	id, err := enqueuer.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	if err := logs.AddJobLog(ctx, id, "line one"); err != nil {
		t.Fatal(err)
	}
	if err := logs.AddJobLog(ctx, id, "line two"); err != nil {
		t.Fatal(err)
	}

	lines, err := logs.GetJobLogs(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0].Message != "line one" || lines[1].Message != "line two" {
		t.Fatalf("unexpected log ordering: %+v", lines)
	}
}

func TestJobLogsUnknownJob(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	logs := shqstore.NewJobLogs(db)

	if err := logs.AddJobLog(ctx, "missing", "hi"); err == nil {
		t.Fatal("expected error for unknown job")
	}
	if _, err := logs.GetJobLogs(ctx, "missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}
