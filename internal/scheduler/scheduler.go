package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"dotnetes/internal/config"
	"dotnetes/internal/reconciler"
	"dotnetes/pkg/logging"
)

// ErrAlreadyStarted is returned by Run when the scheduler has been started before.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Reconciler runs one reconciliation pass.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (reconciler.PassSummary, error)
}

// State is the lifecycle state of a Scheduler.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateSleeping:
		return "Sleeping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// FatalLoopError ends the reconciliation loop.
type FatalLoopError struct {
	Cause error
}

func (e *FatalLoopError) Error() string {
	return fmt.Sprintf("reconciliation loop stopped: %v", e.Cause)
}

func (e *FatalLoopError) Unwrap() error {
	return e.Cause
}

// Scheduler runs a Reconciler repeatedly until its context is cancelled or
// a pass fails fatally.
type Scheduler struct {
	reconciler Reconciler
	interval   *config.IntervalCell

	started atomic.Bool
	state   atomic.Int32
	passes  atomic.Int64

	mu          sync.Mutex
	err         error
	lastSummary reconciler.PassSummary

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a scheduler for r that sleeps for the interval held in interval.
func New(r Reconciler, interval *config.IntervalCell) *Scheduler {
	return &Scheduler{
		reconciler: r,
		interval:   interval,
		done:       make(chan struct{}),
	}
}

// Run executes passes until ctx is cancelled (returns nil) or a pass fails
// fatally (returns a *FatalLoopError). It may only be called once.
func (s *Scheduler) Run(ctx context.Context) (err error) {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer func() { s.stop(err) }()

	logging.Info("Scheduler", "Reconciliation loop started with interval %s", s.interval.Get())

	for {
		if ctx.Err() != nil {
			logging.Info("Scheduler", "Reconciliation loop cancelled")
			return nil
		}

		s.setState(StateRunning)
		summary, passErr := s.runPass(ctx)
		s.mu.Lock()
		s.lastSummary = summary
		s.mu.Unlock()
		s.passes.Add(1)

		if ctx.Err() != nil {
			logging.Info("Scheduler", "Reconciliation loop cancelled")
			return nil
		}
		if passErr != nil {
			fatal := &FatalLoopError{Cause: passErr}
			logging.Error("Scheduler", passErr, "Reconciliation loop terminated")
			return fatal
		}

		s.setState(StateSleeping)
		if !s.sleep(ctx) {
			logging.Info("Scheduler", "Reconciliation loop cancelled")
			return nil
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) (summary reconciler.PassSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Scheduler", fmt.Errorf("%v", r), "Panic during reconciliation pass\n%s", debug.Stack())
			err = fmt.Errorf("panic during reconciliation pass: %v", r)
		}
	}()
	return s.reconciler.ReconcileAll(ctx)
}

// sleep waits for the current interval. It returns false if ctx was
// cancelled first.
func (s *Scheduler) sleep(ctx context.Context) bool {
	start := time.Now()
	interval, changed := s.interval.Snapshot()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false

		case <-timer.C:
			return true

		case <-changed:
			interval, changed = s.interval.Snapshot()
			remaining := time.Until(start.Add(interval))
			logging.Info("Scheduler", "Check interval changed to %s", interval)
			if remaining <= 0 {
				return true
			}
			timer.Reset(remaining)
		}
	}
}

func (s *Scheduler) setState(state State) {
	s.state.Store(int32(state))
}

// stop records the exit error and closes Done. Only the first call has an effect.
func (s *Scheduler) stop(err error) {
	s.doneOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.setState(StateStopped)
		close(s.done)
	})
}

// Done is closed when the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Err returns the fatal error that ended the loop, or nil.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Passes returns the number of completed passes.
func (s *Scheduler) Passes() int64 {
	return s.passes.Load()
}

// LastSummary returns the summary of the most recent pass.
func (s *Scheduler) LastSummary() reconciler.PassSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSummary
}
