package queue

import (
	"context"
	"errors"
	"time"

	"github.com/shqio/shq/job"
)

// ErrBadState indicates that a non-terminal job.State was supplied to
// Cleaner.Clean.
//
// Cleaner implementations restrict deletion to terminal states
// (Completed or Dead); supplying Pending, Scheduled, Processing or
// Waiting results in ErrBadState.
var ErrBadState = errors.New("bad job state")

// Cleaner permanently removes terminal jobs from storage.
//
// Cleaner is a retention-management mechanism, distinct from DLQ: DLQ
// deletion is an explicit operator action against Dead jobs only, while
// Cleaner is driven by RetentionScheduler on a schedule and targets both
// terminal states. It does not participate in normal job processing and
// must not modify non-terminal jobs.
type Cleaner interface {

	// Clean deletes jobs matching the given state and time condition.
	//
	// If state is job.Unknown (zero value), both Completed and Dead jobs
	// are eligible. A non-terminal state returns ErrBadState and changes
	// nothing.
	//
	// If before is non-nil, only jobs with UpdatedAt <= *before are
	// deleted; if nil, no time-based filtering is applied.
	//
	// Clean returns the number of deleted jobs. It never touches
	// Processing jobs. Deletion cascades to each deleted job's log
	// lines and metric row.
	Clean(ctx context.Context, state job.State, before *time.Time) (int64, error)
}
