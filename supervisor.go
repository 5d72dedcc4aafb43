package parallel

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// job is one batch operation submitted to the supervisor.
// run executes on the supervisor goroutine: it hands one WorkFunc to each worker
// through send and then coordinates them until they are done.
type job struct {
	run func(send func(WorkerID, WorkFunc)) error
}

// outcome is what the supervisor reports on the completion channel for one job
// (or for the stop sentinel).
type outcome struct {
	err      error
	poisoned bool
}

// supervisor owns job intake and the worker goroutines.
// It runs in a single goroutine via run() and never touches a job's data
// outside that goroutine.
type supervisor struct {
	jobs     <-chan *job
	finished chan<- outcome

	inboxes []chan WorkFunc
	group   errgroup.Group

	// inflight counts WorkFuncs handed out for the current job and not yet returned.
	inflight sync.WaitGroup
	failure  failure

	log   *slog.Logger
	instr *instruments
}

func newSupervisor(
	n int, jobs <-chan *job, finished chan<- outcome, log *slog.Logger, instr *instruments,
) *supervisor {
	return &supervisor{
		jobs:     jobs,
		finished: finished,
		inboxes:  make([]chan WorkFunc, n),
		log:      log,
		instr:    instr,
	}
}

// run spawns the workers and processes jobs until the stop sentinel arrives
// or a job fails. Workers are always stopped before run returns.
func (s *supervisor) run() {
	for i := range s.inboxes {
		inbox := make(chan WorkFunc, 1)
		s.inboxes[i] = inbox
		w := newWorker(WorkerID(i), inbox, s)
		s.group.Go(func() error {
			w.loop()
			return nil
		})
	}
	s.log.Debug("parallel: pool started")

	for j := range s.jobs {
		if j == nil {
			s.stopWorkers()
			s.finished <- outcome{}
			return
		}

		out := s.dispatch(j)
		s.finished <- out
		if out.poisoned {
			// The dispatch loop does not survive a failed job.
			s.stopWorkers()
			return
		}
	}
}

// dispatch runs one job to completion: the controller returns and every
// WorkFunc handed out has returned.
func (s *supervisor) dispatch(j *job) outcome {
	s.failure.reset()

	ctrlErr := s.control(j)
	s.inflight.Wait()

	if cause := s.failure.load(); cause != nil {
		return outcome{err: fmt.Errorf("%w: %w", ErrElementFailed, cause), poisoned: true}
	}
	return outcome{err: ctrlErr}
}

// control invokes the job controller on the supervisor goroutine.
// A panicking controller is recorded as a job failure.
func (s *supervisor) control(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := newPanicError(r)
			s.failure.record(perr)
			s.log.Error("parallel: controller panic recovered", "panic", r, "stack", string(perr.Stack()))
			err = perr
		}
	}()
	return j.run(s.send)
}

// send hands w to the worker identified by id.
func (s *supervisor) send(id WorkerID, w WorkFunc) {
	s.inflight.Add(1)
	s.inboxes[id] <- w
}

// stopWorkers closes every inbox and waits for the worker goroutines to exit.
func (s *supervisor) stopWorkers() {
	for _, inbox := range s.inboxes {
		close(inbox)
	}
	_ = s.group.Wait()
	s.log.Debug("parallel: pool stopped")
}

// failure is the job-wide failure flag together with the first recorded cause.
type failure struct {
	flag  atomic.Bool
	mu    sync.Mutex
	cause error
}

func (f *failure) record(err error) {
	f.mu.Lock()
	if f.cause == nil {
		f.cause = err
	}
	f.mu.Unlock()
	f.flag.Store(true)
}

func (f *failure) load() error {
	if !f.flag.Load() {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cause
}

func (f *failure) reset() {
	f.mu.Lock()
	f.cause = nil
	f.mu.Unlock()
	f.flag.Store(false)
}
