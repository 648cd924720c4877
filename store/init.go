package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
)

func createTables(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*jobModel)(nil),
		(*jobLogModel)(nil),
		(*jobMetricModel)(nil),
		(*configModel)(nil),
		(*workerModel)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func createIndexes(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_priority").
		Column("state", "priority", "run_at", "created_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	if _, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_next_run").
		Column("state", "next_run_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	if _, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_updated").
		Column("state", "updated_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	if _, err := db.NewCreateIndex().
		Model((*jobLogModel)(nil)).
		Index("idx_job_logs_job_id").
		Column("job_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	return nil
}

func seedConfigDefaults(ctx context.Context, db bun.IDB) error {
	defaults := []configModel{
		{Key: queue.KeyMaxRetries, Value: queue.DefaultMaxRetries},
		{Key: queue.KeyBackoffBase, Value: queue.DefaultBackoffBase},
		{Key: queue.KeyJobTimeout, Value: queue.DefaultJobTimeout},
		{Key: queue.KeyRetentionCron, Value: queue.DefaultRetentionCron},
		{Key: queue.KeyRetentionAgeSeconds, Value: queue.DefaultRetentionAgeSeconds},
	}
	for _, d := range defaults {
		if _, err := db.NewInsert().Model(&d).Ignore().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func initDB(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := createTables(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createIndexes(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := seedConfigDefaults(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// InitDB initializes the database schema required by the storage backend.
//
// It creates the jobs, job_logs, job_metrics, config and workers tables,
// their indexes, and seeds config with default values, all inside a
// single transaction. If any step fails, the transaction is rolled back.
//
// InitDB is idempotent: config defaults are inserted with INSERT OR
// IGNORE semantics and never overwrite values an operator has already
// set via ConfigStore.Set.
//
// The caller is responsible for providing a properly configured *bun.DB.
func InitDB(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}

// MustInitDB behaves like InitDB but panics if initialization fails.
//
// This helper is intended for application bootstrap code where failure
// to initialize schema is considered unrecoverable.
func MustInitDB(ctx context.Context, db *bun.DB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
