package store

import (
	"context"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/job"
)

// DeadLetterQueue implements queue.DLQ using a bun-backed SQL store.
type DeadLetterQueue struct {
	db *bun.DB
}

// NewDeadLetterQueue creates a new SQL-backed DeadLetterQueue.
func NewDeadLetterQueue(db *bun.DB) *DeadLetterQueue {
	return &DeadLetterQueue{db: db}
}

// RetryDeadJob transitions one or all Dead jobs back to Pending.
func (q *DeadLetterQueue) RetryDeadJob(ctx context.Context, id *string) (int64, error) {
	now := clock.Now()
	query := q.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("attempts = 0").
		Set("next_run_at = NULL").
		Set("last_error = NULL").
		Set("updated_at = ?", now).
		Where("state = ?", job.Dead)
	if id != nil {
		query = query.Where("id = ?", *id)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected := getAffected(res)
	if id != nil && affected == 0 {
		return 0, queue.ErrNotFound
	}
	return affected, nil
}

// ClearDeadJobs permanently deletes every job in state Dead.
//
// Deletion cascades: each cleared job's job_logs and job_metrics rows
// are removed in the same transaction, so no orphaned history survives
// it.
func (q *DeadLetterQueue) ClearDeadJobs(ctx context.Context) (int64, error) {
	var affected int64
	err := q.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		idQuery := tx.NewSelect().Model((*jobModel)(nil)).Column("id").Where("state = ?", job.Dead)

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

// ListDeadJobs returns every job currently in state Dead.
func (q *DeadLetterQueue) ListDeadJobs(ctx context.Context) ([]*job.Job, error) {
	var models []*jobModel
	if err := q.db.NewSelect().
		Model(&models).
		Where("state = ?", job.Dead).
		Order("updated_at ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(models))
	for i, m := range models {
		ret[i] = m.toJob()
	}
	return ret, nil
}
