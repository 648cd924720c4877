package job

import "time"

// Worker is a registration row for a running worker process, used for
// liveness inspection. It is maintained by WorkerManager, not by Worker
// itself.
type Worker struct {
	Id            string
	StartedAt     time.Time
	LastHeartbeat time.Time
}
