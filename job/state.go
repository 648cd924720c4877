package job

import "fmt"

// State represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	Scheduled  -> Pending
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Waiting     (retry, via MarkJobFailed)
//	Processing -> Dead        (retries exhausted)
//	Waiting    -> Pending     (via ReactivateWaitingJobs)
//	Dead       -> Pending     (via RetryDeadJob, attempts reset to 0)
//
// Unknown is reserved as a zero value and may be used to indicate an
// unspecified or invalid state in filtering contexts.
type State uint8

const (
	// Unknown represents an unspecified or invalid job state.
	// It is the zero value of State.
	Unknown State = iota

	// Scheduled indicates a job enqueued with a RunAt strictly in the
	// future. ActivateScheduledJobs promotes it to Pending once due.
	Scheduled

	// Pending indicates the job is eligible for claiming by a worker,
	// subject to RunAt and NextRunAt both being in the past.
	Pending

	// Processing indicates the job has been claimed and is currently
	// owned by the worker named in WorkerId.
	Processing

	// Waiting indicates a failed attempt that has not exhausted its
	// retry budget; NextRunAt holds the earliest time it becomes
	// eligible again. Some source revisions name this state Failed;
	// both names refer to the same retry-wait state.
	Waiting

	// Completed indicates successful execution. Terminal: no further
	// transitions except administrative deletion.
	Completed

	// Dead indicates the job exhausted its retry budget. Terminal except
	// for explicit DLQ retry, which resets Attempts to 0 and returns it
	// to Pending.
	Dead
)

func stateToString(s State) string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Waiting:
		return "waiting"
	case Completed:
		return "completed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func stateFromString(s string) (State, error) {
	switch s {
	case "scheduled":
		return Scheduled, nil
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "waiting", "failed":
		// "failed" is the legacy name for the retry-wait state; treat it
		// as Waiting for reactivation purposes.
		return Waiting, nil
	case "completed":
		return Completed, nil
	case "dead":
		return Dead, nil
	case "unknown":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown state: %s", s)
	}
}

// ParseState converts a string representation of a state into a State
// value.
//
// Recognized values are: "scheduled", "pending", "processing", "waiting"
// (also accepting the legacy synonym "failed"), "completed", "dead" and
// "unknown".
//
// An error is returned for unrecognized strings.
func ParseState(s string) (State, error) {
	return stateFromString(s)
}

// MarshalText implements encoding.TextMarshaler.
//
// State values are encoded using their canonical string names.
func (s State) MarshalText() ([]byte, error) {
	return []byte(stateToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// The textual form must match one of the canonical state names or the
// legacy synonym "failed", which decodes to Waiting.
func (s *State) UnmarshalText(text []byte) error {
	state, err := stateFromString(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// String returns the canonical string representation of the state.
func (s State) String() string {
	return stateToString(s)
}

// Terminal reports whether s has no outgoing transitions other than
// explicit administrative retry (Dead only) or deletion.
func (s State) Terminal() bool {
	return s == Completed || s == Dead
}
