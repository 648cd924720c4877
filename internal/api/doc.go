// Package api provides a read-only HTTP/JSON and WebSocket surface over
// the queue package's Observer, LogStore, MetricStore and DLQ
// interfaces.
//
// # Overview
//
// The HTTP surface (Router) exposes:
//
//   - GET /status             - queue.StatusSummary
//   - GET /jobs?state=pending - queue.Observer.ListJobs, optionally filtered
//   - GET /jobs/{id}          - a single job
//   - GET /jobs/{id}/logs     - a job's recorded log lines
//   - GET /dlq                - dead-lettered jobs
//   - GET /metrics            - queue.MetricsSummary
//   - GET /ws/status          - a WebSocket stream of periodic status snapshots
//
// None of these handlers mutate queue state; administrative actions
// (enqueue, DLQ retry/clear, config) are left to cmd/shq, which talks to
// the queue interfaces directly rather than through this HTTP surface.
//
// # WebSocket fan-out
//
// Hub periodically samples StatusSummary and pushes a snapshot to every
// connected client. Delivery to each client is a unit of work dispatched
// through an internal.WorkerPool, bounding how many concurrent
// WriteMessage calls are in flight regardless of how many clients are
// connected, so one slow client cannot stall the broadcast tick for the
// others.
package api
