package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/job"
)

// Enqueuer implements queue.Enqueuer using a bun-backed SQL store.
type Enqueuer struct {
	db     *bun.DB
	config queue.ConfigStore
}

// NewEnqueuer creates a new SQL-backed Enqueuer.
//
// The provided *bun.DB must be properly configured and connected.
// Schema initialization must be completed before use.
func NewEnqueuer(db *bun.DB, config queue.ConfigStore) *Enqueuer {
	return &Enqueuer{db: db, config: config}
}

// Enqueue inserts a new job for future processing and returns its id.
func (e *Enqueuer) Enqueue(ctx context.Context, spec job.Spec) (string, error) {
	if spec.Command == "" {
		return "", queue.ErrInvalidInput
	}

	id := spec.Id
	if id == "" {
		id = uuid.NewString()
	}

	maxRetries := uint32(0)
	if spec.MaxRetries != nil {
		maxRetries = *spec.MaxRetries
	} else {
		raw, err := e.config.Get(ctx, queue.KeyMaxRetries, queue.DefaultMaxRetries)
		if err != nil {
			return "", err
		}
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return "", queue.ErrInvalidInput
		}
		maxRetries = uint32(parsed)
	}

	priority := 100
	if spec.Priority != nil {
		priority = *spec.Priority
	}

	now := clock.Now()
	state := job.Pending
	var runAt *time.Time
	if spec.RunAt != nil {
		runAt = spec.RunAt
		if spec.RunAt.After(now) {
			state = job.Scheduled
		}
	}

	model := &jobModel{
		Id:         id,
		Command:    spec.Command,
		State:      state,
		Attempts:   0,
		MaxRetries: maxRetries,
		Priority:   priority,
		CreatedAt:  now,
		UpdatedAt:  now,
		RunAt:      runAt,
	}

	_, err := e.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return "", queue.ErrDuplicateID
		}
		return "", err
	}
	return id, nil
}

// isUniqueViolation detects a primary-key conflict on jobs.id.
//
// modernc.org/sqlite does not expose a typed constraint-violation error,
// so this matches on the driver's message text.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
