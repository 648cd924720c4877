package queue_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/job"
	"github.com/shqio/shq/store"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := store.InitDB(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestWorkerRunsJobToCompletion(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := store.NewConfig(db)
	enqueuer := store.NewEnqueuer(db, config)
	dispatcher := store.NewDispatcher(db)
	logs := store.NewJobLogs(db)
	metrics := store.NewMetrics(db)
	observer := store.NewObserver(db)

	cfg := &queue.WorkerConfig{PollInterval: 10 * time.Millisecond, IdleSleep: 10 * time.Millisecond}
	worker := queue.NewWorker("worker-1", dispatcher, logs, metrics, config, cfg, discardLogger())

	if err := worker.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer worker.Stop(time.Second)

	id, err := enqueuer.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		jb, err := observer.GetJob(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Completed {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job did not complete in time, last state %v", jb.State)
		case <-time.After(20 * time.Millisecond):
		}
	}

	lines, err := logs.GetJobLogs(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) == 0 {
		t.Fatal("expected at least one log line")
	}

	summary, err := metrics.MetricsSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.ByOutcome[job.OutcomeCompleted] != 1 {
		t.Fatalf("expected 1 completed metric, got %+v", summary.ByOutcome)
	}
}

func TestWorkerRetriesThenDies(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := store.NewConfig(db)
	if err := config.Set(ctx, queue.KeyBackoffBase, "1"); err != nil {
		t.Fatal(err)
	}
	enqueuer := store.NewEnqueuer(db, config)
	dispatcher := store.NewDispatcher(db)
	logs := store.NewJobLogs(db)
	metrics := store.NewMetrics(db)
	observer := store.NewObserver(db)

	cfg := &queue.WorkerConfig{PollInterval: 10 * time.Millisecond, IdleSleep: 10 * time.Millisecond}
	worker := queue.NewWorker("worker-1", dispatcher, logs, metrics, config, cfg, discardLogger())

	if err := worker.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer worker.Stop(time.Second)

	one := uint32(1)
	id, err := enqueuer.Enqueue(ctx, job.Spec{Command: "false", MaxRetries: &one})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		jb, err := observer.GetJob(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Dead {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job did not die in time, last state %v", jb.State)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestWorkerKillsJobThatExceedsTimeout(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := store.NewConfig(db)
	if err := config.Set(ctx, queue.KeyJobTimeout, "1"); err != nil {
		t.Fatal(err)
	}
	enqueuer := store.NewEnqueuer(db, config)
	dispatcher := store.NewDispatcher(db)
	logs := store.NewJobLogs(db)
	metrics := store.NewMetrics(db)
	observer := store.NewObserver(db)

	cfg := &queue.WorkerConfig{PollInterval: 10 * time.Millisecond, IdleSleep: 10 * time.Millisecond}
	worker := queue.NewWorker("worker-1", dispatcher, logs, metrics, config, cfg, discardLogger())

	if err := worker.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer worker.Stop(time.Second)

	zero := uint32(0)
	id, err := enqueuer.Enqueue(ctx, job.Spec{Command: "sleep 30", MaxRetries: &zero})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		jb, err := observer.GetJob(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Dead {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job was not killed on timeout in time, last state %v", jb.State)
		case <-time.After(20 * time.Millisecond):
		}
	}

	summary, err := metrics.MetricsSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.ByOutcome[job.OutcomeTimeout] != 1 {
		t.Fatalf("expected 1 timeout metric, got %+v", summary.ByOutcome)
	}
}

func TestWorkerStopWaitsForInFlightJob(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := store.NewConfig(db)
	enqueuer := store.NewEnqueuer(db, config)
	dispatcher := store.NewDispatcher(db)
	logs := store.NewJobLogs(db)
	metrics := store.NewMetrics(db)

	cfg := &queue.WorkerConfig{PollInterval: 5 * time.Millisecond, IdleSleep: 5 * time.Millisecond}
	worker := queue.NewWorker("worker-1", dispatcher, logs, metrics, config, cfg, discardLogger())

	if err := worker.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := enqueuer.Enqueue(ctx, job.Spec{Command: "sleep 0.2"}); err != nil {
		t.Fatal(err)
	}

	time.Sleep(30 * time.Millisecond)
	if err := worker.Stop(time.Second); err != nil {
		t.Fatal(err)
	}
}
