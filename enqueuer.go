package queue

import (
	"context"
	"errors"

	"github.com/shqio/shq/job"
)

var (
	// ErrInvalidInput indicates malformed job input: an empty Command, or
	// a configured max_retries default that is not an unsigned integer.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateID indicates that Enqueue was called with an Id that
	// already exists in storage.
	ErrDuplicateID = errors.New("duplicate id")
)

// Enqueuer defines the write-side entry point of the queue.
type Enqueuer interface {

	// Enqueue inserts a new job for future processing and returns its id.
	//
	// If spec.Id is empty, a fresh UUID is generated. If spec.Id already
	// exists in storage, Enqueue returns ErrDuplicateID and the job is not
	// inserted.
	//
	// If spec.Command is empty, Enqueue returns ErrInvalidInput.
	//
	// spec.MaxRetries and spec.Priority default to the queue's configured
	// defaults (max_retries) and 100, respectively, when nil.
	//
	// spec.RunAt, if set, is used as given (the enqueue CLI command
	// resolves user-supplied strings with clock.ParseRunAt before building
	// the Spec). If it is strictly in the future, the job is inserted in
	// Scheduled state; otherwise (nil, in the past, or exactly now) it is
	// inserted in Pending state.
	//
	// Enqueue must not mutate spec after returning. If it returns a
	// non-nil error, the job must not be considered enqueued.
	Enqueue(ctx context.Context, spec job.Spec) (string, error)
}
