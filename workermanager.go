package queue

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/internal"
)

// WorkerManagerConfig defines runtime behavior of a WorkerManager.
//
// HeartbeatInterval controls how often each running Worker's registration
// row is refreshed in WorkerRegistry. StopTimeout bounds how long each
// Worker is given to finish its in-flight job during Stop.
type WorkerManagerConfig struct {
	Worker            *WorkerConfig
	HeartbeatInterval time.Duration
	StopTimeout       time.Duration
}

// DefaultWorkerManagerConfig returns sane defaults for production use.
func DefaultWorkerManagerConfig() *WorkerManagerConfig {
	return &WorkerManagerConfig{
		Worker:            DefaultWorkerConfig(),
		HeartbeatInterval: 2 * time.Second,
		StopTimeout:       10 * time.Second,
	}
}

// WorkerManager owns a fixed-size fleet of Workers: it performs
// crash-recovery at startup, mints worker identities, registers and
// heartbeats them in WorkerRegistry, and coordinates their shutdown.
//
// WorkerManager has a strict lifecycle:
//   - Start may only be called once, and runs ReclaimOrphaned before
//     spawning any Worker.
//   - Stop requests shutdown of every Worker, waits for all of them, then
//     stops heartbeats and deregisters every worker id it started.
type WorkerManager struct {
	lcBase
	dispatcher Dispatcher
	logs       LogStore
	metrics    MetricStore
	config     ConfigStore
	registry   WorkerRegistry
	log        *slog.Logger
	cfg        *WorkerManagerConfig

	mu        sync.Mutex
	workers   []*Worker
	heartbeat map[string]*internal.TimerTask
}

// NewWorkerManager creates a new WorkerManager.
func NewWorkerManager(dispatcher Dispatcher, logs LogStore, metrics MetricStore, config ConfigStore, registry WorkerRegistry, cfg *WorkerManagerConfig, log *slog.Logger) *WorkerManager {
	if cfg == nil {
		cfg = DefaultWorkerManagerConfig()
	}
	return &WorkerManager{
		dispatcher: dispatcher,
		logs:       logs,
		metrics:    metrics,
		config:     config,
		registry:   registry,
		cfg:        cfg,
		log:        log,
		heartbeat:  make(map[string]*internal.TimerTask),
	}
}

func newWorkerId(i int) string {
	return fmt.Sprintf("worker-%d-%05d-%d", clock.Now().UnixMilli(), rand.Intn(100000), i)
}

// Start reclaims orphaned jobs left Processing by a prior unclean
// shutdown, then spawns count Workers, registering and heartbeating each
// in WorkerRegistry.
//
// Start returns ErrDoubleStarted if already started.
func (m *WorkerManager) Start(ctx context.Context, count int) error {
	if err := m.tryStart(); err != nil {
		return err
	}
	reclaimed, err := m.dispatcher.ReclaimOrphaned(ctx)
	if err != nil {
		return fmt.Errorf("reclaim orphaned jobs: %w", err)
	}
	if reclaimed > 0 {
		m.log.Info("reclaimed orphaned jobs", "count", reclaimed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < count; i++ {
		id := newWorkerId(i)
		w := NewWorker(id, m.dispatcher, m.logs, m.metrics, m.config, m.cfg.Worker, m.log)
		if err := m.registry.RegisterWorker(ctx, id); err != nil {
			return fmt.Errorf("register worker %s: %w", id, err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start worker %s: %w", id, err)
		}
		task := &internal.TimerTask{}
		task.Start(ctx, func(hbCtx context.Context) {
			if err := m.registry.Heartbeat(hbCtx, id); err != nil {
				m.log.Error("heartbeat failed", "worker_id", id, "err", err)
			}
		}, m.cfg.HeartbeatInterval)
		m.heartbeat[id] = task
		m.workers = append(m.workers, w)
	}
	m.log.Info("worker manager started", "count", count)
	return nil
}

func (m *WorkerManager) doStop() internal.DoneChan {
	m.mu.Lock()
	workers := append([]*Worker(nil), m.workers...)
	tasks := make([]*internal.TimerTask, 0, len(m.heartbeat))
	for _, t := range m.heartbeat {
		tasks = append(tasks, t)
	}
	m.mu.Unlock()

	done := make(internal.DoneChan)
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(len(workers))
		for _, w := range workers {
			w := w
			go func() {
				defer wg.Done()
				if err := w.Stop(m.cfg.StopTimeout); err != nil {
					m.log.Error("worker stop failed", "worker_id", w.Id(), "err", err)
				}
			}()
		}
		wg.Wait()
		for _, t := range tasks {
			<-t.Stop()
		}
		ctx := context.Background()
		for _, w := range workers {
			if err := m.registry.DeregisterWorker(ctx, w.Id()); err != nil {
				m.log.Error("deregister worker failed", "worker_id", w.Id(), "err", err)
			}
		}
	}()
	return done
}

// Stop requests shutdown of every Worker, waits up to timeout for the
// whole fleet to finish, then stops heartbeats and removes every worker
// registration.
//
// Stop returns ErrDoubleStopped if the manager is not running, or
// ErrStopTimeout if the fleet did not finish within timeout.
func (m *WorkerManager) Stop(timeout time.Duration) error {
	return m.tryStop(timeout, m.doStop)
}
