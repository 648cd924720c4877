// Package store provides a bun-based SQL storage implementation of the
// queue package's interfaces.
//
// # Overview
//
// The storage backend provides:
//
//   - durable persistence of jobs, execution logs, metrics, named
//     configuration and worker registrations
//   - atomic claim transitions via UPDATE ... WHERE id IN (subquery)
//   - idempotent schema and config-default initialization (InitDB)
//
// It targets SQLite via modernc.org/sqlite, as cmd/shq deploys it.
// Enqueuer detects a duplicate id by matching SQLite's constraint-error
// text, so under other bun dialects a duplicate id surfaces as the
// driver's own error rather than ErrDuplicateID.
//
// # Concurrency Model
//
// FetchNextJobForProcessing is implemented as a single UPDATE statement
// guarded by a subquery and a WHERE state = 'pending' condition, so a
// losing concurrent caller's UPDATE affects zero rows rather than racing
// on the selected id. No in-process locking is used; correctness under
// concurrency depends entirely on the database's transactional
// guarantees and the (state, ...) indexes InitDB creates.
//
// SQLite users are strongly encouraged to enable WAL mode and configure
// an appropriate busy_timeout, and to cap the connection pool to a
// single writer (SetMaxOpenConns(1)) given SQLite's single-writer model.
//
// # Schema
//
// InitDB creates five tables (jobs, job_logs, job_metrics, config,
// workers) and their supporting indexes, and seeds config with the
// queue package's default values using INSERT OR IGNORE semantics so
// existing operator-set values are never overwritten.
//
// # Database Lifecycle
//
// This package does not manage connection pooling, migrations, or
// database lifecycle. The caller is responsible for constructing and
// configuring *bun.DB and running InitDB before use.
package store
