package parallel

import "github.com/ygrebnov/errorc"

// Execute submits a custom job to the pool. It is the primitive ForEach, Map
// and UnorderedMap are built on.
//
// gen is called Workers() times on the supervisor goroutine, each time with a
// pointer to data, to produce one WorkFunc per worker; every WorkFunc is then
// sent to exactly one worker and invoked there exactly once. main is called
// with data on the supervisor goroutine concurrently with the workers and is
// responsible for coordinating them through channels it owns. main must not
// return before the workers it coordinates can finish on their own, and must
// not panic while a worker is blocked waiting on it.
//
// Everything referenced by gen, by the WorkFuncs and by main stays in use until
// the returned handle has been waited on. The caller must not mutate or recycle
// that data before JobHandle.Wait returns; Run packages the two calls so this
// holds by construction.
//
// Errors: ErrPoolBusy while another handle of the same pool is outstanding,
// ErrPoolClosed after Close, ErrPoolPoisoned after a failed job.
func Execute[A any](p *Pool, data A, gen func(*A) WorkFunc, main func(A) error) (*JobHandle, error) {
	if gen == nil || main == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("", "Execute requires non-nil gen and main"))
	}

	n := p.Workers()
	j := &job{run: func(send func(WorkerID, WorkFunc)) error {
		fns := make([]WorkFunc, n)
		for i := range fns {
			fns[i] = gen(&data)
		}
		for i, fn := range fns {
			send(WorkerID(i), fn)
		}
		return main(data)
	}}

	return p.submit(j)
}

// Run is the scoped form of Execute: it submits the job and waits for it
// before returning, so nothing the job borrows can outlive the call.
func Run[A any](p *Pool, data A, gen func(*A) WorkFunc, main func(A) error) error {
	h, err := Execute(p, data, gen, main)
	if err != nil {
		return err
	}
	return h.Wait()
}
