package store

import (
	"context"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/job"
)

// Workers implements queue.WorkerRegistry using a bun-backed SQL store.
type Workers struct {
	db *bun.DB
}

// NewWorkers creates a new SQL-backed Workers registry.
func NewWorkers(db *bun.DB) *Workers {
	return &Workers{db: db}
}

// RegisterWorker inserts or replaces the registration row for id.
func (w *Workers) RegisterWorker(ctx context.Context, id string) error {
	now := clock.Now()
	_, err := w.db.NewInsert().
		Model(&workerModel{Id: id, StartedAt: now, LastHeartbeat: now}).
		On("CONFLICT (id) DO UPDATE").
		Set("started_at = EXCLUDED.started_at").
		Set("last_heartbeat = EXCLUDED.last_heartbeat").
		Exec(ctx)
	return err
}

// Heartbeat refreshes LastHeartbeat for id to now.
func (w *Workers) Heartbeat(ctx context.Context, id string) error {
	res, err := w.db.NewUpdate().
		Model((*workerModel)(nil)).
		Set("last_heartbeat = ?", clock.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queue.ErrNotFound
	}
	return nil
}

// DeregisterWorker removes the registration row for id, if any.
func (w *Workers) DeregisterWorker(ctx context.Context, id string) error {
	_, err := w.db.NewDelete().
		Model((*workerModel)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ListWorkers returns every registered worker, most recently started
// first.
func (w *Workers) ListWorkers(ctx context.Context) ([]*job.Worker, error) {
	var models []*workerModel
	if err := w.db.NewSelect().
		Model(&models).
		Order("started_at DESC").
		Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Worker, len(models))
	for i, m := range models {
		ret[i] = m.toWorker()
	}
	return ret, nil
}
