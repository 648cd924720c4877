package queue

import (
	"context"

	"github.com/shqio/shq/job"
)

// StatusSummary is a histogram of job counts by state, plus the count of
// jobs immediately eligible for claiming (state Pending with RunAt and
// NextRunAt both due).
type StatusSummary struct {
	ByState      map[job.State]int64
	ReadyPending int64
}

// Observer provides read-only access to jobs stored in the queue.
//
// Observer does not modify job state and does not participate in claim
// or lifecycle transitions. It is intended for diagnostic, monitoring
// and administrative use (the status/list/logs CLI commands and the
// HTTP read API).
//
// Methods of Observer return authoritative snapshots of storage state at
// the time of the call. Returned Job values must be treated as immutable
// views; mutating them does not affect the underlying queue.
type Observer interface {

	// GetJob returns the job identified by id.
	//
	// If no job with the given id exists, GetJob returns (nil, nil).
	//
	// GetJob must not change job state.
	GetJob(ctx context.Context, id string) (*job.Job, error)

	// ListJobs returns jobs matching the provided state.
	//
	// If state is job.Unknown (zero value), no state filter is applied
	// and jobs in any state are returned.
	ListJobs(ctx context.Context, state job.State) ([]*job.Job, error)

	// StatusSummary returns the current state histogram and ready-pending
	// count.
	StatusSummary(ctx context.Context) (*StatusSummary, error)
}
