package queue

import (
	"context"

	"github.com/shqio/shq/job"
)

// DLQ defines administrative operations over dead-lettered jobs.
//
// A job reaches the dead-letter queue — the set of jobs in state Dead —
// only after its (MaxRetries+1)-th attempt has failed. DLQ lets an
// operator inspect, retry or permanently clear those jobs.
type DLQ interface {

	// RetryDeadJob transitions one or all Dead jobs back to Pending,
	// resetting Attempts to 0 and clearing NextRunAt and LastError.
	//
	// If id is non-nil, only that job is retried; RetryDeadJob returns
	// ErrNotFound (and changes nothing) if no Dead job with that id
	// exists. If id is nil, every Dead job is retried and the count
	// transitioned is returned.
	RetryDeadJob(ctx context.Context, id *string) (int64, error)

	// ClearDeadJobs permanently deletes every job in state Dead and
	// returns the number of rows deleted. Deletion cascades to each
	// job's log lines and metric row.
	ClearDeadJobs(ctx context.Context) (int64, error)

	// ListDeadJobs returns every job currently in state Dead.
	ListDeadJobs(ctx context.Context) ([]*job.Job, error)
}
