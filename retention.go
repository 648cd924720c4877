package queue

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/internal"
	"github.com/shqio/shq/job"
)

// scheduleWatchInterval is how often RetentionScheduler re-reads
// retention_cron from ConfigStore to detect an operator change and
// reschedule, following the same poll-on-a-tick shape as
// internal/api.Hub's broadcast loop.
const scheduleWatchInterval = 5 * time.Second

// RetentionScheduler periodically invokes a Cleaner to purge terminal
// jobs older than a configurable age, on a cron-expression schedule
// read from ConfigStore.
//
// This generalizes the fixed-interval retention sweep a simpler queue
// would use: because a ConfigStore already exists to hold the retention
// age, the schedule itself is made admin-configurable rather than
// hardcoded, using github.com/robfig/cron/v3's seconds-precision parser.
// The configured expression is not read only once at Start: a watcher
// re-reads retention_cron every scheduleWatchInterval and, if it has
// changed, swaps the running cron entry for one on the new schedule.
//
// RetentionScheduler does not participate in job processing and does
// not affect claim or reactivation semantics.
//
// RetentionScheduler has a strict lifecycle:
//   - Start may only be called once.
//   - Stop must be called to terminate the scheduler.
//   - Stop waits for any in-flight sweep to finish or until the timeout
//     expires.
type RetentionScheduler struct {
	lcBase
	cleaner Cleaner
	config  ConfigStore
	log     *slog.Logger
	cron    *cron.Cron
	watch   internal.TimerTask

	mu      sync.Mutex
	entryID cron.EntryID
	spec    string
}

// NewRetentionScheduler creates a new RetentionScheduler.
//
// The scheduler is not started automatically. Call Start to begin
// periodic purging.
func NewRetentionScheduler(cleaner Cleaner, config ConfigStore, log *slog.Logger) *RetentionScheduler {
	return &RetentionScheduler{
		cleaner: cleaner,
		config:  config,
		log:     log,
	}
}

func (rs *RetentionScheduler) sweep(ctx context.Context) {
	ageRaw, err := rs.config.Get(ctx, KeyRetentionAgeSeconds, DefaultRetentionAgeSeconds)
	if err != nil {
		rs.log.Error("retention: cannot read retention_age_seconds", "err", err)
		return
	}
	age, err := strconv.ParseInt(ageRaw, 10, 64)
	if err != nil {
		rs.log.Error("retention: bad retention_age_seconds", "value", ageRaw, "err", err)
		return
	}
	before := clock.Now().Add(-time.Duration(age) * time.Second)
	count, err := rs.cleaner.Clean(ctx, job.Unknown, &before)
	if err != nil {
		rs.log.Error("retention: clean failed", "err", err)
		return
	}
	rs.log.Info("retention: purged terminal jobs", "count", count)
}

// reconcileSchedule re-reads retention_cron and, if it differs from the
// entry currently registered with cron, replaces that entry. The old
// entry is only removed once the new one has parsed successfully, so a
// bad edit to retention_cron leaves the previous schedule running.
func (rs *RetentionScheduler) reconcileSchedule(ctx context.Context) {
	spec, err := rs.config.Get(ctx, KeyRetentionCron, DefaultRetentionCron)
	if err != nil {
		rs.log.Error("retention: cannot read retention_cron", "err", err)
		return
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if spec == rs.spec {
		return
	}
	entryID, err := rs.cron.AddFunc(spec, func() {
		rs.sweep(ctx)
	})
	if err != nil {
		rs.log.Error("retention: bad retention_cron, keeping previous schedule", "value", spec, "err", err)
		return
	}
	rs.cron.Remove(rs.entryID)
	rs.log.Info("retention: rescheduled", "previous", rs.spec, "current", spec)
	rs.entryID = entryID
	rs.spec = spec
}

// Start reads retention_cron from ConfigStore and begins running the
// retention sweep on that schedule. A background watcher keeps the
// schedule in sync with later changes to retention_cron.
//
// Start returns ErrDoubleStarted if already started. It returns an error
// if the configured cron expression cannot be parsed.
func (rs *RetentionScheduler) Start(ctx context.Context) error {
	if err := rs.tryStart(); err != nil {
		return err
	}
	spec, err := rs.config.Get(ctx, KeyRetentionCron, DefaultRetentionCron)
	if err != nil {
		spec = DefaultRetentionCron
	}
	rs.cron = cron.New(cron.WithSeconds())
	entryID, err := rs.cron.AddFunc(spec, func() {
		rs.sweep(ctx)
	})
	if err != nil {
		return err
	}
	rs.entryID = entryID
	rs.spec = spec
	rs.cron.Start()
	rs.watch.Start(ctx, rs.reconcileSchedule, scheduleWatchInterval)
	return nil
}

func (rs *RetentionScheduler) doStop() internal.DoneChan {
	watchDone := rs.watch.Stop()
	stopped := rs.cron.Stop()
	done := make(internal.DoneChan)
	go func() {
		<-watchDone
		<-stopped.Done()
		close(done)
	}()
	return done
}

// Stop terminates the retention schedule.
//
// Stop waits until any in-flight sweep finishes or the specified timeout
// expires. If shutdown does not complete within the timeout,
// ErrStopTimeout is returned.
//
// Stop returns ErrDoubleStopped if the scheduler is not running.
func (rs *RetentionScheduler) Stop(timeout time.Duration) error {
	return rs.tryStop(timeout, rs.doStop)
}
