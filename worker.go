package queue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/internal"
	"github.com/shqio/shq/job"
)

// WorkerConfig defines runtime behavior of a Worker.
//
// PollInterval defines how often the worker checks storage for a claimable
// job when none was available on the previous attempt.
//
// IdleSleep defines how long the worker sleeps instead of claiming when
// shutdown is observed after the tick's reactivation sweeps; the loop
// exits on its next pass.
type WorkerConfig struct {
	PollInterval time.Duration
	IdleSleep    time.Duration
}

// DefaultWorkerConfig returns sane polling intervals for production use.
func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		PollInterval: time.Second,
		IdleSleep:    500 * time.Millisecond,
	}
}

// Worker runs a sequential claim-execute-report loop against a single
// shell command at a time.
//
// Unlike a pool-dispatch design, a Worker never runs two commands
// concurrently: a worker models a single OS process slot, so concurrency
// is achieved by running multiple Workers (see WorkerManager), not by
// dispatching multiple jobs inside one.
//
// Each tick, before attempting a claim, the Worker also drives the
// reactivation sweeps (ActivateScheduledJobs, ReactivateWaitingJobs) so
// that scheduled and backed-off jobs become claimable without a separate
// ticking component.
//
// Worker has a strict lifecycle:
//   - Start may only be called once.
//   - Stop requests shutdown and blocks until the in-flight job (if any)
//     finishes or the timeout expires. Stop never forcibly aborts a
//     running child process.
type Worker struct {
	lcBase
	id         string
	dispatcher Dispatcher
	logs       LogStore
	metrics    MetricStore
	config     ConfigStore
	log        *slog.Logger
	cfg        *WorkerConfig

	shutdownRequested atomic.Bool
	inProgress        atomic.Bool
	done              internal.DoneChan
}

// NewWorker creates a new Worker bound to id.
//
// id must be unique among concurrently running workers; it is stamped
// onto every job a Worker claims and every heartbeat WorkerManager
// records for it.
func NewWorker(id string, dispatcher Dispatcher, logs LogStore, metrics MetricStore, config ConfigStore, cfg *WorkerConfig, log *slog.Logger) *Worker {
	if cfg == nil {
		cfg = DefaultWorkerConfig()
	}
	return &Worker{
		id:         id,
		dispatcher: dispatcher,
		logs:       logs,
		metrics:    metrics,
		config:     config,
		log:        log.With("worker_id", id),
		cfg:        cfg,
	}
}

// Id returns the worker's identifier.
func (w *Worker) Id() string {
	return w.id
}

// Start begins the claim-execute-report loop in a background goroutine.
//
// Start returns ErrDoubleStarted if the worker has already been started.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.tryStart(); err != nil {
		return err
	}
	w.done = make(internal.DoneChan)
	go w.run(ctx)
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	for {
		if ctx.Err() != nil {
			return
		}
		if w.shutdownRequested.Load() && !w.inProgress.Load() {
			return
		}
		if _, err := w.dispatcher.ActivateScheduledJobs(ctx); err != nil {
			w.log.Error("activate scheduled jobs failed", "err", err)
		}
		if _, err := w.dispatcher.ReactivateWaitingJobs(ctx); err != nil {
			w.log.Error("reactivate waiting jobs failed", "err", err)
		}
		if w.shutdownRequested.Load() {
			sleep(ctx, w.cfg.IdleSleep)
			continue
		}
		jb, err := w.dispatcher.FetchNextJobForProcessing(ctx, w.id)
		if err != nil {
			w.log.Error("claim failed", "err", err)
			sleep(ctx, w.cfg.PollInterval)
			continue
		}
		if jb == nil {
			sleep(ctx, w.cfg.PollInterval)
			continue
		}
		w.inProgress.Store(true)
		w.runJob(ctx, jb)
		w.inProgress.Store(false)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// runJob executes jb and reports its outcome, recovering from any panic
// raised by the logging or metric-recording glue so a single bad job
// never takes the worker's run loop down with it.
func (w *Worker) runJob(ctx context.Context, jb *job.Job) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("panic recovered while running job", "id", jb.Id, "panic", r)
		}
	}()
	w.executeJob(ctx, jb)
}

func (w *Worker) executeJob(ctx context.Context, jb *job.Job) {
	timeoutRaw, err := w.config.Get(ctx, KeyJobTimeout, DefaultJobTimeout)
	if err != nil {
		timeoutRaw = DefaultJobTimeout
	}
	timeoutSec, err := strconv.Atoi(timeoutRaw)
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 300
	}
	timeout := time.Duration(timeoutSec) * time.Second

	_ = w.logs.AddJobLog(ctx, jb.Id, fmt.Sprintf("attempt %d started on %s", jb.Attempts+1, w.id))

	cmd := internal.ShellCommand(jb.Command)
	internal.SetProcessGroup(cmd)
	cmd.Env = append(os.Environ(), fmt.Sprintf("ATTEMPT=%d", jb.Attempts+1))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		w.reportFailure(ctx, jb, "stdout pipe: "+err.Error(), job.OutcomeFailed, 0)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		w.reportFailure(ctx, jb, "stderr pipe: "+err.Error(), job.OutcomeFailed, 0)
		return
	}

	start := clock.Now()
	if err := cmd.Start(); err != nil {
		w.reportFailure(ctx, jb, "spawn failed: "+err.Error(), job.OutcomeFailed, 0)
		return
	}

	var streams sync.WaitGroup
	streams.Add(2)
	go w.streamLog(&streams, jb.Id, "stdout", stdout)
	go w.streamLog(&streams, jb.Id, "stderr", stderr)

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	timedOut := false
	select {
	case <-timer.C:
		timedOut = true
		if err := internal.Terminate(cmd); err != nil {
			w.log.Warn("terminate failed", "id", jb.Id, "err", err)
		}
		select {
		case <-waitErr:
		case <-time.After(5 * time.Second):
			_ = internal.Kill(cmd)
			<-waitErr
		}
	case <-waitErr:
	}
	streams.Wait()

	duration := clock.Now().Sub(start).Seconds()

	if timedOut {
		w.reportFailure(ctx, jb, fmt.Sprintf("timed out after %s", timeout), job.OutcomeTimeout, duration)
		return
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if exitCode == 0 {
		w.reportSuccess(ctx, jb, duration)
		return
	}
	w.reportFailure(ctx, jb, fmt.Sprintf("exit code %d", exitCode), job.OutcomeFailed, duration)
}

func (w *Worker) streamLog(wg *sync.WaitGroup, jobId string, stream string, r io.Reader) {
	defer wg.Done()
	buf := make([]byte, 4096)
	var line []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			line = append(line, buf[:n]...)
			for {
				idx := indexByte(line, '\n')
				if idx < 0 {
					break
				}
				w.emitLogLine(jobId, stream, string(line[:idx]))
				line = line[idx+1:]
			}
		}
		if err != nil {
			if len(line) > 0 {
				w.emitLogLine(jobId, stream, string(line))
			}
			return
		}
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func (w *Worker) emitLogLine(jobId string, stream string, line string) {
	if err := w.logs.AddJobLog(context.Background(), jobId, fmt.Sprintf("[%s] %s", stream, line)); err != nil {
		w.log.Error("cannot record job log", "id", jobId, "stream", stream, "err", err)
	}
}

func (w *Worker) reportSuccess(ctx context.Context, jb *job.Job, duration float64) {
	if err := w.dispatcher.MarkJobCompleted(ctx, jb.Id); err != nil {
		w.log.Error("cannot mark job completed", "id", jb.Id, "err", err)
	}
	_ = w.logs.AddJobLog(ctx, jb.Id, "completed")
	if err := w.metrics.RecordMetric(ctx, job.Metric{
		JobId:       jb.Id,
		Command:     jb.Command,
		Outcome:     job.OutcomeCompleted,
		DurationSec: duration,
		WorkerId:    w.id,
		CompletedAt: clock.Now(),
	}); err != nil {
		w.log.Error("cannot record metric", "id", jb.Id, "err", err)
	}
}

func (w *Worker) reportFailure(ctx context.Context, jb *job.Job, reason string, outcome job.Outcome, duration float64) {
	attempts := jb.Attempts + 1
	baseRaw, err := w.config.Get(ctx, KeyBackoffBase, DefaultBackoffBase)
	if err != nil {
		baseRaw = DefaultBackoffBase
	}
	base, err := strconv.ParseFloat(baseRaw, 64)
	if err != nil {
		base = 2
	}
	backoff := computeBackoff(base, attempts)
	if err := w.dispatcher.MarkJobFailed(ctx, jb.Id, reason, attempts, jb.MaxRetries, backoff); err != nil {
		w.log.Error("cannot mark job failed", "id", jb.Id, "err", err)
	}
	_ = w.logs.AddJobLog(ctx, jb.Id, reason)
	if err := w.metrics.RecordMetric(ctx, job.Metric{
		JobId:       jb.Id,
		Command:     jb.Command,
		Outcome:     outcome,
		DurationSec: duration,
		WorkerId:    w.id,
		CompletedAt: clock.Now(),
	}); err != nil {
		w.log.Error("cannot record metric", "id", jb.Id, "err", err)
	}
}

// Stop requests shutdown and waits for the in-flight job, if any, to
// finish or until timeout elapses.
//
// Stop returns ErrDoubleStopped if the worker is not running. Stop never
// forcibly terminates a running child process; a child already underway
// when Stop is called runs to completion (or its own job_timeout) before
// the run loop exits.
func (w *Worker) Stop(timeout time.Duration) error {
	return w.tryStop(timeout, func() internal.DoneChan {
		w.shutdownRequested.Store(true)
		return w.done
	})
}
