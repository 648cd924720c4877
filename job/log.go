package job

import "time"

// Log is a single append-only line recorded against a job's execution
// history. Logs are keyed by JobId and deleted when the owning job is
// deleted.
type Log struct {
	Id        int64
	JobId     string
	Message   string
	CreatedAt time.Time
}
