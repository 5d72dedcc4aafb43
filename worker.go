package parallel

// WorkerID identifies a worker slot. It is a small integer in [0, Workers())
// and is stable for the lifetime of the pool.
type WorkerID int

// WorkFunc is the per-worker closure of a job. The supervisor invokes each
// WorkFunc exactly once, on the worker it was sent to. A non-nil error (or a
// panic) fails the job.
type WorkFunc func(WorkerID) error

type worker struct {
	id    WorkerID
	inbox <-chan WorkFunc
	s     *supervisor
}

func newWorker(id WorkerID, inbox <-chan WorkFunc, s *supervisor) *worker {
	return &worker{id: id, inbox: inbox, s: s}
}

// loop executes whatever it is handed until its inbox is closed.
func (w *worker) loop() {
	for fn := range w.inbox {
		w.execute(fn)
	}
}

func (w *worker) execute(fn WorkFunc) {
	defer w.s.inflight.Done()

	err := recoverWork(fn, w.id)
	if err == nil {
		return
	}

	w.s.failure.record(err)
	if stack := stackOf(err); stack != nil {
		w.s.log.Error("parallel: worker panic recovered", "worker", int(w.id), "error", err, "stack", string(stack))
		return
	}
	w.s.log.Debug("parallel: worker failed", "worker", int(w.id), "error", err)
}
