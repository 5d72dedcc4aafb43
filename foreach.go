package parallel

import (
	"context"
	"iter"

	"github.com/ygrebnov/errorc"
)

// ForEach applies fn to every element of seq on the pool's workers and blocks
// until all elements are processed or the operation stops early.
//
// Elements are pulled from seq lazily, on the supervisor goroutine only, as
// workers become idle; faster workers therefore receive more elements. There is
// no ordering between elements. seq does not need to be safe for concurrent use.
//
// If fn returns an error or panics, no further elements are handed out, the
// elements already running finish, and ForEach returns ErrElementFailed wrapping
// the first cause (tagged with its input index). The pool is poisoned afterwards.
// If ctx is done, ForEach stops handing out elements and returns ctx.Err().
func ForEach[T any](ctx context.Context, p *Pool, seq iter.Seq[T], fn func(context.Context, T) error) error {
	if seq == nil || fn == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("", "ForEach requires non-nil seq and fn"))
	}

	apply := func(c context.Context, v T) (struct{}, error) { return struct{}{}, fn(c, v) }
	handle := func(id WorkerID, it item[T]) error {
		done := p.instr.observe()
		_, err := call(ctx, apply, it.val)
		done(err)
		return newElementError(err, it.index, id)
	}

	d := newDistributor[T](ctx, p.Workers(), nil)
	return Run(p, d,
		func(d **distributor[T]) WorkFunc {
			dist := *d
			return func(id WorkerID) error { return dist.pull(id, handle) }
		},
		func(d *distributor[T]) error { return d.control(seq) },
	)
}
