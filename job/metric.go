package job

import "time"

// Outcome is the terminal result of a single job execution attempt, as
// recorded in a Metric row. It is distinct from State: a job can cycle
// through several Waiting attempts before reaching a terminal State, but
// each individual attempt's Metric records exactly one Outcome.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeTimeout   Outcome = "timeout"
)

// Metric is a one-row-per-job execution summary. It is upserted keyed by
// JobId so that retries overwrite rather than proliferate.
type Metric struct {
	JobId       string
	Command     string
	Outcome     Outcome
	DurationSec float64
	WorkerId    string
	CompletedAt time.Time
}
