package queue

import (
	"context"

	"github.com/shqio/shq/job"
)

// LogStore records and retrieves the append-only log lines produced by a
// job's execution attempts.
type LogStore interface {

	// AddJobLog appends a log line for jobId.
	//
	// AddJobLog returns ErrNotFound if jobId does not exist.
	AddJobLog(ctx context.Context, jobId string, message string) error

	// GetJobLogs returns every log line recorded for jobId, oldest first.
	//
	// GetJobLogs returns ErrNotFound if jobId does not exist.
	GetJobLogs(ctx context.Context, jobId string) ([]*job.Log, error)
}
