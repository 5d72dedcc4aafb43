package parallel

import (
	"context"
	"iter"
	"sync"

	"github.com/ygrebnov/errorc"
)

// packet carries one completion from a worker to the consumer.
// A non-nil err is the failure sentinel: val is meaningless then.
type packet[R any] struct {
	index int
	val   R
	err   error
}

// UnorderedMap applies fn to every element of seq on the pool's workers and
// returns the results in completion order, each paired with the index of its
// element in seq.
//
// The returned sequence is lazy, finite and not restartable, and holds the pool
// until it is exhausted or closed. Breaking out of a range over All, or calling
// Close, disconnects the consumer: workers stop pulling further elements once
// their current element is done.
func UnorderedMap[T, R any](
	ctx context.Context, p *Pool, seq iter.Seq[T], fn func(context.Context, T) (R, error),
) (*Unordered[R], error) {
	if seq == nil || fn == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("", "UnorderedMap requires non-nil seq and fn"))
	}

	packets := make(chan packet[R], p.cfg.resultsBuffer())
	stop := make(chan struct{})

	handle := func(id WorkerID, it item[T]) error {
		done := p.instr.observe()
		v, err := call(ctx, fn, it.val)
		done(err)

		pk := packet[R]{index: it.index, val: v, err: newElementError(err, it.index, id)}
		select {
		case packets <- pk:
		case <-stop:
			if pk.err != nil {
				return pk.err
			}
			return errDisconnected
		}
		return pk.err
	}

	d := newDistributor[T](ctx, p.Workers(), stop)
	h, err := Execute(p, d,
		func(d **distributor[T]) WorkFunc {
			dist := *d
			return func(id WorkerID) error { return dist.pull(id, handle) }
		},
		func(d *distributor[T]) error {
			// All workers have exited once control returns: nobody sends anymore.
			defer close(packets)
			return d.control(seq)
		},
	)
	if err != nil {
		return nil, err
	}

	return &Unordered[R]{handle: h, packets: packets, stop: stop}, nil
}

// Unordered is the result sequence of UnorderedMap.
// It must be consumed by a single goroutine.
type Unordered[R any] struct {
	handle  *JobHandle
	packets <-chan packet[R]

	stop     chan struct{}
	stopOnce sync.Once

	done bool
	err  error
}

// Next blocks until the next completion is available and returns its input
// index and result. It returns false once the sequence is exhausted or failed;
// the pool is released at that point and Err reports the outcome.
func (u *Unordered[R]) Next() (int, R, bool) {
	var zero R
	if u.done {
		return 0, zero, false
	}

	pk, ok := <-u.packets
	if !ok {
		u.finish(nil)
		return 0, zero, false
	}
	if pk.err != nil {
		u.finish(pk.err)
		return 0, zero, false
	}
	return pk.index, pk.val, true
}

// All returns a range-over-func view of the remaining completions.
// The sequence is closed when the loop ends, including on break.
func (u *Unordered[R]) All() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		defer u.Close()
		for {
			i, v, ok := u.Next()
			if !ok || !yield(i, v) {
				return
			}
		}
	}
}

// Err returns the error that ended the sequence, if any.
func (u *Unordered[R]) Err() error { return u.err }

// Close disconnects the consumer, waits for the job to finish and releases the
// pool. It returns the same error as Err and is idempotent.
func (u *Unordered[R]) Close() error {
	if !u.done {
		u.finish(nil)
	}
	return u.err
}

// finish disconnects, waits on the handle and records the outcome. The
// handle's error wins over the packet cause: it carries ErrElementFailed.
func (u *Unordered[R]) finish(cause error) {
	u.done = true
	u.stopOnce.Do(func() { close(u.stop) })

	err := u.handle.Wait()
	if err == nil {
		err = cause
	}
	u.err = err
}
