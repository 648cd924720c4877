package job

import "time"

// Spec is the enqueue-time payload for a job: a shell command line plus
// the scheduling knobs a caller may override.
//
// Id defaults to a freshly generated UUID if empty.
// MaxRetries and Priority default to the queue's configured defaults when
// nil.
// RunAt, when set and strictly in the future, delays the job's first
// execution. It is stored as given; the enqueue CLI command resolves a
// naked timestamp with no timezone designator against
// clock.DefaultOffset (via clock.ParseRunAt) before building the Spec.
type Spec struct {
	Id         string
	Command    string
	MaxRetries *uint32
	Priority   *int
	RunAt      *time.Time
}

// Job represents a shell-command job managed by the queue storage.
//
// It carries the accepted Spec fields plus delivery state and scheduling
// metadata.
//
// CreatedAt records when the job was initially enqueued.
// UpdatedAt records the last state transition or modification.
//
// State represents the current position in the job lifecycle.
// Attempts counts how many execution attempts have completed.
// WorkerId is non-nil only while State is Processing.
// NextRunAt is the earliest time a retry-waiting job becomes runnable.
// LastError holds the most recent failure reason, if any.
//
// Job instances are snapshots of storage state. Mutating fields directly
// does not change the underlying queue state; transitions must be
// performed through the Dispatcher and DLQ interfaces.
type Job struct {
	Id         string
	Command    string
	State      State
	Attempts   uint32
	MaxRetries uint32
	Priority   int

	CreatedAt time.Time
	UpdatedAt time.Time

	RunAt     *time.Time
	NextRunAt *time.Time
	WorkerId  *string
	LastError *string
}
