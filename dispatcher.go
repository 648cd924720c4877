package queue

import (
	"context"
	"errors"
	"time"

	"github.com/shqio/shq/job"
)

var (
	// ErrJobLost indicates that the referenced job no longer exists in
	// storage or cannot be found in the state the caller expected.
	//
	// This can occur if the job was concurrently transitioned or removed
	// by another actor.
	ErrJobLost = errors.New("job lost")

	// ErrNotFound indicates a lookup against an id that does not exist, or
	// (for RetryDeadJob with an explicit id) exists but is not in the Dead
	// state.
	ErrNotFound = errors.New("not found")
)

// Dispatcher defines the read-write contract for claiming and
// transitioning jobs through the queue lifecycle.
//
// Dispatcher provides the claim (visibility) semantics a job queue
// relies on: FetchNextJobForProcessing atomically transitions a
// job from Pending to Processing, binding it to exactly one worker.
// MarkJobCompleted and MarkJobFailed resolve that claim back to a
// terminal or retry-waiting state. ActivateScheduledJobs and
// ReactivateWaitingJobs are the reactivation sweeps; ReclaimOrphaned is
// the crash-recovery sweep run once at WorkerManager startup.
//
// The queue provides at-least-once delivery semantics: a job may be
// dispatched more than once if a worker is killed mid-execution.
// Commands should be idempotent where that matters to the caller.
type Dispatcher interface {

	// FetchNextJobForProcessing selects and atomically claims at most one
	// eligible job for worker workerId.
	//
	// A job is eligible when State is Pending, RunAt is nil or in the
	// past, and NextRunAt is nil or in the past. Eligible jobs are
	// ordered by Priority ascending, then by jobs with a non-nil RunAt
	// before jobs without, then RunAt ascending, then CreatedAt ascending.
	//
	// The claim is a single conditional UPDATE keyed on
	// "state = 'pending'"; if another worker wins the race first,
	// FetchNextJobForProcessing returns (nil, nil) rather than an error.
	//
	// On success the returned job has State Processing, WorkerId set to
	// workerId, and Attempts unchanged (Worker increments Attempts itself
	// when reporting the outcome, not at claim time).
	FetchNextJobForProcessing(ctx context.Context, workerId string) (*job.Job, error)

	// MarkJobCompleted transitions id from Processing to Completed.
	//
	// MarkJobCompleted is terminal: the job will not be retried.
	MarkJobCompleted(ctx context.Context, id string) error

	// MarkJobFailed records a failed attempt.
	//
	// attempts is the 1-based attempt count just recorded (the caller's
	// previous Attempts plus one). If attempts exceeds maxRetries, the
	// job transitions to Dead; otherwise it transitions to Waiting with
	// NextRunAt set to now plus backoff. In both cases errMsg is stored
	// as LastError and WorkerId is cleared.
	MarkJobFailed(ctx context.Context, id string, errMsg string, attempts uint32, maxRetries uint32, backoff time.Duration) error

	// ActivateScheduledJobs transitions every Scheduled job whose RunAt is
	// due into Pending, and returns the number of rows affected.
	//
	// ActivateScheduledJobs is idempotent: calling it again before time
	// advances changes no rows.
	ActivateScheduledJobs(ctx context.Context) (int64, error)

	// ReactivateWaitingJobs transitions every Waiting job whose
	// NextRunAt is due into Pending, and returns the number of rows
	// affected.
	//
	// ReactivateWaitingJobs is idempotent.
	ReactivateWaitingJobs(ctx context.Context) (int64, error)

	// ReclaimOrphaned transitions every Processing job back to Pending
	// with WorkerId cleared, without incrementing Attempts, and returns
	// the number of rows affected.
	//
	// ReclaimOrphaned is the crash-recovery sweep WorkerManager.Start runs
	// once, before spawning any Worker, to reclaim jobs orphaned by a
	// previous unclean shutdown.
	ReclaimOrphaned(ctx context.Context) (int64, error)
}
