package parallel

import "sync"

// JobHandle guards one job submitted with Execute. It holds its pool
// exclusively until Wait has returned.
//
// Wait must be called exactly where the data borrowed by the job stops being
// valid; `defer h.Wait()` right after Execute is the usual end-of-scope release.
type JobHandle struct {
	pool *Pool

	once sync.Once
	err  error
}

// Wait blocks until the supervisor reports the outcome of the job and returns
// its error. A failed worker is reported as ErrElementFailed wrapping the
// cause; the pool is poisoned afterwards.
//
// Wait is idempotent: later calls return the first result without blocking.
func (h *JobHandle) Wait() error {
	h.once.Do(func() {
		out := <-h.pool.finished
		h.err = out.err
		h.pool.release(out)
	})
	return h.err
}
