package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/job"
)

// Cleaner implements queue.Cleaner using a bun-backed SQL store.
type Cleaner struct {
	db *bun.DB
}

// NewCleaner creates a new SQL-backed Cleaner.
func NewCleaner(db *bun.DB) *Cleaner {
	return &Cleaner{db: db}
}

// Clean deletes jobs matching the provided state and time filter.
//
// Deletion cascades: a deleted job's job_logs and job_metrics rows are
// removed in the same transaction, so no orphaned history survives it.
func (c *Cleaner) Clean(ctx context.Context, state job.State, before *time.Time) (int64, error) {
	if state != job.Unknown && !state.Terminal() {
		return 0, queue.ErrBadState
	}

	var affected int64
	err := c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		idQuery := tx.NewSelect().Model((*jobModel)(nil)).Column("id")
		if state != job.Unknown {
			idQuery = idQuery.Where("state = ?", state)
		} else {
			idQuery = idQuery.Where("state IN (?, ?)", job.Completed, job.Dead)
		}
		if before != nil {
			idQuery = idQuery.Where("updated_at <= ?", *before)
		}

		if _, err := tx.NewDelete().
			Model((*jobLogModel)(nil)).
			Where("job_id IN (?)", idQuery).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*jobMetricModel)(nil)).
			Where("job_id IN (?)", idQuery).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*jobModel)(nil)).
			Where("id IN (?)", idQuery).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected = getAffected(res)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
