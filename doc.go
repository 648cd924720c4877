// Package queue implements a persistent, single-node job queue for
// shell-command jobs: scheduling, at-least-once dispatch to a pool of
// concurrent worker processes, bounded exponential-backoff retry, a
// dead-letter queue for unrecoverable failures, and execution history
// and metrics that survive restarts.
//
// # Overview
//
// queue models a durable job queue with explicit state transitions. It
// separates the enqueue-time payload (job.Spec) from delivery state
// (job.Job) and defines a set of interfaces for enqueuing, dispatching,
// observing and retiring jobs. The package does not mandate any
// particular storage backend; package store provides the bun/SQLite
// implementation this repository ships.
//
// # Delivery Semantics
//
// queue provides at-least-once processing guarantees. A job may execute
// more than once if a worker process is killed mid-execution; crash
// recovery (WorkerManager.Start) returns orphaned Processing jobs to
// Pending without incrementing Attempts, so a subsequent run is
// indistinguishable from a fresh attempt. Commands should therefore be
// idempotent where that matters to the caller.
//
// # State Machine
//
// Jobs follow this lifecycle (see job.State):
//
//	Scheduled  -> Pending
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Waiting     (retry)
//	Processing -> Dead        (retries exhausted)
//	Waiting    -> Pending     (reactivation)
//	Dead       -> Pending     (DLQ retry, Attempts reset to 0)
//
// Completed and Dead are terminal: no outgoing transitions other than
// explicit administrative DLQ retry, and only from Dead.
//
// # Retry Policy
//
// When a job's child process exits non-zero, times out, or fails to
// spawn, Worker calls MarkJobFailed with the attempt count just
// recorded. If that count is still within MaxRetries, the job is
// rescheduled into Waiting with NextRunAt set to now plus
// backoff_base^attempts seconds; otherwise it is transitioned to Dead.
//
// # Interfaces
//
// queue defines the following primary interfaces, implemented by
// package store:
//
//	Enqueuer    — enqueue new jobs
//	Dispatcher  — claim, complete, fail and sweep jobs
//	DLQ         — inspect, retry and clear dead jobs
//	Observer    — read-only job inspection
//	LogStore    — append and read per-job log lines
//	MetricStore — upsert and summarize per-job execution metrics
//	ConfigStore — named scalar configuration, read-through with defaults
//
// These interfaces allow storage implementations to be plugged in
// without coupling queue logic to a specific database.
//
// # Concurrency Model
//
// Worker runs a sequential single-job loop: at most one child process
// per Worker is live at any instant. WorkerManager owns a fixed number
// of Workers running as independent goroutines. The only cross-Worker
// synchronization point is Dispatcher.FetchNextJobForProcessing, a
// single atomic conditional UPDATE; no additional application-level
// locking is used or required.
//
// # Storage Expectations
//
// Implementations of Dispatcher must ensure atomic state transitions and
// durable persistence. queue assumes the store provides reliable,
// serializable write semantics; behavior under concurrent writers
// otherwise depends on the chosen backend.
//
// # Summary
//
// queue provides a pragmatic, storage-agnostic foundation for running
// shell commands as durable background jobs with explicit lifecycle
// control, bounded retry and a dead-letter queue.
package queue
