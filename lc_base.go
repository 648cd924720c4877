package queue

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/shqio/shq/internal"
)

const (
	stopped = iota
	started
)

var (
	// ErrDoubleStarted is returned when Start is called on a component that
	// has already been started.
	//
	// Workers, WorkerManager and RetentionScheduler follow a strict
	// lifecycle and must not be started more than once without being
	// stopped.
	ErrDoubleStarted = errors.New("double start")

	// ErrDoubleStopped is returned when Stop is called on a component that
	// is not currently running.
	ErrDoubleStopped = errors.New("double stop")

	// ErrStopTimeout is returned when a component fails to shut down within
	// the provided timeout during Stop.
	//
	// In this case, background goroutines may still be terminating.
	ErrStopTimeout = errors.New("stop timeout")
)

type lcBase struct {
	state atomic.Int32
}

func (lb *lcBase) tryStart() error {
	if !lb.state.CompareAndSwap(stopped, started) {
		return ErrDoubleStarted
	}
	return nil
}

func (lb *lcBase) tryStop(timeout time.Duration, df internal.DoneFunc) error {
	if !lb.state.CompareAndSwap(started, stopped) {
		return ErrDoubleStopped
	}
	done := df()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrStopTimeout
	}
}
