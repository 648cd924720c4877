package store

import (
	"context"

	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/job"
)

// JobLogs implements queue.LogStore using a bun-backed SQL store.
type JobLogs struct {
	db *bun.DB
}

// NewJobLogs creates a new SQL-backed JobLogs store.
func NewJobLogs(db *bun.DB) *JobLogs {
	return &JobLogs{db: db}
}

// AddJobLog appends a log line for jobId.
func (l *JobLogs) AddJobLog(ctx context.Context, jobId string, message string) error {
	exists, err := l.db.NewSelect().Model((*jobModel)(nil)).Where("id = ?", jobId).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return queue.ErrNotFound
	}
	_, err = l.db.NewInsert().Model(&jobLogModel{JobId: jobId, Message: message}).Exec(ctx)
	return err
}

// GetJobLogs returns every log line recorded for jobId, oldest first.
func (l *JobLogs) GetJobLogs(ctx context.Context, jobId string) ([]*job.Log, error) {
	exists, err := l.db.NewSelect().Model((*jobModel)(nil)).Where("id = ?", jobId).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, queue.ErrNotFound
	}
	var models []*jobLogModel
	if err := l.db.NewSelect().
		Model(&models).
		Where("job_id = ?", jobId).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Log, len(models))
	for i, m := range models {
		ret[i] = m.toLog()
	}
	return ret, nil
}
