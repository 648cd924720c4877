package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/job"
)

// Dispatcher implements queue.Dispatcher using a bun-backed SQL store.
//
// Claims are performed with a single UPDATE ... WHERE id IN (subquery)
// statement, so the eligible-job selection and the Pending -> Processing
// transition happen atomically from the database's point of view: a
// losing concurrent caller's UPDATE affects zero rows rather than racing
// on the selected id.
type Dispatcher struct {
	db *bun.DB
}

// NewDispatcher creates a new SQL-backed Dispatcher.
func NewDispatcher(db *bun.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// FetchNextJobForProcessing selects and atomically claims at most one
// eligible job for workerId.
func (d *Dispatcher) FetchNextJobForProcessing(ctx context.Context, workerId string) (*job.Job, error) {
	now := clock.Now()
	subQuery := d.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Where("run_at IS NULL OR run_at <= ?", now).
		Where("next_run_at IS NULL OR next_run_at <= ?", now).
		OrderExpr("priority ASC").
		OrderExpr("(CASE WHEN run_at IS NULL THEN 1 ELSE 0 END) ASC").
		OrderExpr("run_at ASC").
		OrderExpr("created_at ASC").
		Limit(1)

	var jobs []*jobModel
	err := d.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("worker_id = ?", workerId).
		Set("updated_at = ?", now).
		Where("id IN (?)", subQuery).
		Where("state = ?", job.Pending).
		Returning("*").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0].toJob(), nil
}

// MarkJobCompleted transitions id from Processing to Completed.
func (d *Dispatcher) MarkJobCompleted(ctx context.Context, id string) error {
	res, err := d.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Completed).
		Set("worker_id = NULL").
		Set("updated_at = ?", clock.Now()).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queue.ErrJobLost
	}
	return nil
}

// MarkJobFailed records a failed attempt, transitioning id to Waiting
// (with a backoff-delayed NextRunAt) or Dead if attempts exceeds
// maxRetries.
func (d *Dispatcher) MarkJobFailed(ctx context.Context, id string, errMsg string, attempts uint32, maxRetries uint32, backoff time.Duration) error {
	now := clock.Now()
	state := job.Waiting
	var nextRunAt *time.Time
	if attempts > maxRetries {
		state = job.Dead
	} else {
		t := now.Add(backoff)
		nextRunAt = &t
	}
	res, err := d.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", state).
		Set("attempts = ?", attempts).
		Set("last_error = ?", errMsg).
		Set("next_run_at = ?", nextRunAt).
		Set("worker_id = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queue.ErrJobLost
	}
	return nil
}

// ActivateScheduledJobs transitions every due Scheduled job into Pending.
func (d *Dispatcher) ActivateScheduledJobs(ctx context.Context) (int64, error) {
	res, err := d.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("updated_at = ?", clock.Now()).
		Where("state = ?", job.Scheduled).
		Where("run_at <= ?", clock.Now()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}

// ReactivateWaitingJobs transitions every due Waiting job into Pending.
func (d *Dispatcher) ReactivateWaitingJobs(ctx context.Context) (int64, error) {
	res, err := d.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("updated_at = ?", clock.Now()).
		Where("state = ?", job.Waiting).
		Where("next_run_at <= ?", clock.Now()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}

// ReclaimOrphaned transitions every Processing job back to Pending with
// WorkerId cleared, without incrementing Attempts.
func (d *Dispatcher) ReclaimOrphaned(ctx context.Context) (int64, error) {
	res, err := d.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("worker_id = NULL").
		Set("updated_at = ?", clock.Now()).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
