package queue

import (
	"context"

	"github.com/shqio/shq/job"
)

// WorkerRegistry tracks the liveness of running Worker processes.
//
// WorkerManager is the sole writer: it registers a worker row when a
// Worker starts, refreshes it on a heartbeat interval, and removes it
// when the Worker stops. The registry exists purely for observability
// (ListWorkers); it has no bearing on claim or reactivation semantics.
type WorkerRegistry interface {

	// RegisterWorker inserts or replaces the registration row for id,
	// stamping StartedAt and LastHeartbeat to now.
	RegisterWorker(ctx context.Context, id string) error

	// Heartbeat refreshes LastHeartbeat for id to now.
	//
	// Heartbeat returns ErrNotFound if id is not registered.
	Heartbeat(ctx context.Context, id string) error

	// DeregisterWorker removes the registration row for id, if any.
	DeregisterWorker(ctx context.Context, id string) error

	// ListWorkers returns every registered worker, most recently started
	// first.
	ListWorkers(ctx context.Context) ([]*job.Worker, error)
}
