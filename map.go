package parallel

import (
	"context"
	"iter"
)

// Map applies fn to every element of seq on the pool's workers and returns the
// results in the order of seq, regardless of the order in which they complete.
//
// It is UnorderedMap plus a reordering buffer: completions that arrive ahead of
// the oldest pending index are held until that index arrives. The returned
// sequence is lazy, finite and not restartable, and holds the pool until it is
// exhausted or closed.
func Map[T, R any](
	ctx context.Context, p *Pool, seq iter.Seq[T], fn func(context.Context, T) (R, error),
) (*Ordered[R], error) {
	u, err := UnorderedMap(ctx, p, seq, fn)
	if err != nil {
		return nil, err
	}
	return &Ordered[R]{src: u, pending: newReorderer[R]()}, nil
}

// Ordered is the result sequence of Map.
// It must be consumed by a single goroutine.
type Ordered[R any] struct {
	src     *Unordered[R]
	pending *reorderer[R]
}

// Next blocks until the result of the next element in input order is available.
// It returns false once the sequence is exhausted or failed; Err reports the outcome.
func (o *Ordered[R]) Next() (R, bool) {
	for {
		if v, ok := o.pending.pop(); ok {
			return v, true
		}
		i, v, ok := o.src.Next()
		if !ok {
			var zero R
			return zero, false
		}
		if out, ready := o.pending.accept(i, v); ready {
			return out, true
		}
	}
}

// All returns a range-over-func view of the remaining results.
// The sequence is closed when the loop ends, including on break.
func (o *Ordered[R]) All() iter.Seq[R] {
	return func(yield func(R) bool) {
		defer o.Close()
		for {
			v, ok := o.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Collect drains the sequence into a slice. On failure it returns the results
// that were already in order together with the error.
func (o *Ordered[R]) Collect() ([]R, error) {
	out := make([]R, 0)
	for v := range o.All() {
		out = append(out, v)
	}
	return out, o.Err()
}

// Err returns the error that ended the sequence, if any.
func (o *Ordered[R]) Err() error { return o.src.Err() }

// Close disconnects the consumer, waits for the job to finish and releases the
// pool. It is idempotent.
func (o *Ordered[R]) Close() error { return o.src.Close() }
