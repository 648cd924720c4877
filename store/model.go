package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/shqio/shq/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`
	Id            string `bun:"id,pk"`

	Command    string    `bun:"command,notnull"`
	State      job.State `bun:"state,notnull,default:0"`
	Attempts   uint32    `bun:"attempts,notnull,default:0"`
	MaxRetries uint32    `bun:"max_retries,notnull,default:0"`
	Priority   int       `bun:"priority,notnull,default:100"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	RunAt     *time.Time `bun:"run_at,nullzero"`
	NextRunAt *time.Time `bun:"next_run_at,nullzero"`
	WorkerId  *string    `bun:"worker_id,nullzero"`
	LastError *string    `bun:"last_error,nullzero"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		Id:         jm.Id,
		Command:    jm.Command,
		State:      jm.State,
		Attempts:   jm.Attempts,
		MaxRetries: jm.MaxRetries,
		Priority:   jm.Priority,
		CreatedAt:  jm.CreatedAt,
		UpdatedAt:  jm.UpdatedAt,
		RunAt:      jm.RunAt,
		NextRunAt:  jm.NextRunAt,
		WorkerId:   jm.WorkerId,
		LastError:  jm.LastError,
	}
}

type jobLogModel struct {
	bun.BaseModel `bun:"table:job_logs"`
	Id            int64  `bun:"id,pk,autoincrement"`
	JobId         string `bun:"job_id,notnull"`
	Message       string `bun:"message,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (lm *jobLogModel) toLog() *job.Log {
	return &job.Log{
		Id:        lm.Id,
		JobId:     lm.JobId,
		Message:   lm.Message,
		CreatedAt: lm.CreatedAt,
	}
}

type jobMetricModel struct {
	bun.BaseModel `bun:"table:job_metrics"`
	JobId         string `bun:"job_id,pk"`

	Command     string      `bun:"command,notnull"`
	Outcome     job.Outcome `bun:"outcome,notnull"`
	DurationSec float64     `bun:"duration_sec,notnull"`
	WorkerId    string      `bun:"worker_id,notnull"`
	CompletedAt time.Time   `bun:"completed_at,nullzero,notnull"`
}

func fromMetric(m job.Metric) *jobMetricModel {
	return &jobMetricModel{
		JobId:       m.JobId,
		Command:     m.Command,
		Outcome:     m.Outcome,
		DurationSec: m.DurationSec,
		WorkerId:    m.WorkerId,
		CompletedAt: m.CompletedAt,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`
	Key           string `bun:"key,pk"`
	Value         string `bun:"value,notnull"`
}

type workerModel struct {
	bun.BaseModel `bun:"table:workers"`
	Id            string `bun:"id,pk"`

	StartedAt     time.Time `bun:"started_at,nullzero,notnull,default:current_timestamp"`
	LastHeartbeat time.Time `bun:"last_heartbeat,nullzero,notnull,default:current_timestamp"`
}

func (wm *workerModel) toWorker() *job.Worker {
	return &job.Worker{
		Id:            wm.Id,
		StartedAt:     wm.StartedAt,
		LastHeartbeat: wm.LastHeartbeat,
	}
}
