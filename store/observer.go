package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/job"
)

// Observer implements queue.Observer using a bun-backed SQL store.
type Observer struct {
	db *bun.DB
}

// NewObserver creates a new SQL-backed Observer.
func NewObserver(db *bun.DB) *Observer {
	return &Observer{db: db}
}

// GetJob returns the job identified by id, or (nil, nil) if it does not
// exist.
func (o *Observer) GetJob(ctx context.Context, id string) (*job.Job, error) {
	var model jobModel
	err := o.db.NewSelect().
		Model(&model).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return model.toJob(), nil
}

// ListJobs returns jobs matching state, or every job if state is
// job.Unknown.
func (o *Observer) ListJobs(ctx context.Context, state job.State) ([]*job.Job, error) {
	query := o.db.NewSelect().Model((*jobModel)(nil))
	if state != job.Unknown {
		query = query.Where("state = ?", state)
	}
	var models []*jobModel
	if err := query.Order("created_at ASC").Scan(ctx, &models); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(models))
	for i, m := range models {
		ret[i] = m.toJob()
	}
	return ret, nil
}

// StatusSummary returns the current state histogram and ready-pending
// count.
func (o *Observer) StatusSummary(ctx context.Context) (*queue.StatusSummary, error) {
	var rows []struct {
		State job.State `bun:"state"`
		Count int64     `bun:"count"`
	}
	if err := o.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state, count(*) AS count").
		GroupExpr("state").
		Scan(ctx, &rows); err != nil {
		return nil, err
	}
	summary := &queue.StatusSummary{ByState: make(map[job.State]int64, len(rows))}
	for _, r := range rows {
		summary.ByState[r.State] = r.Count
	}

	now := clock.Now()
	ready, err := o.db.NewSelect().
		Model((*jobModel)(nil)).
		Where("state = ?", job.Pending).
		Where("run_at IS NULL OR run_at <= ?", now).
		Where("next_run_at IS NULL OR next_run_at <= ?", now).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	summary.ReadyPending = int64(ready)
	return summary, nil
}
