package parallel

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"
)

// errDisconnected is returned by a worker handler when the consumer of a
// result sequence went away. The worker stops pulling; the job does not fail.
var errDisconnected = errors.New(Namespace + ": consumer disconnected")

// item is one sequence element tagged with its input position.
type item[T any] struct {
	index int
	val   T
}

// request is sent by a worker on the shared channel: either "give me the next
// element" or, once, "I am gone".
type request struct {
	id   WorkerID
	exit bool
}

// distributor implements pull-based work distribution. The controller side
// (control) is the only code that touches the input sequence and runs on the
// supervisor goroutine; the worker side (pull) runs on each worker.
type distributor[T any] struct {
	ctx      context.Context
	requests chan request
	inboxes  []chan item[T]

	// stop is closed by the consumer of a result sequence; nil for ForEach.
	stop <-chan struct{}
	// aborted is set by the first worker whose element failed.
	aborted atomic.Bool
}

func newDistributor[T any](ctx context.Context, workers int, stop <-chan struct{}) *distributor[T] {
	d := &distributor[T]{
		ctx:      ctx,
		requests: make(chan request, workers),
		inboxes:  make([]chan item[T], workers),
		stop:     stop,
	}
	for i := range d.inboxes {
		d.inboxes[i] = make(chan item[T], 1)
	}
	return d
}

// pull is the worker loop: request, await assignment, handle, request again.
// It returns when its inbox is closed (end of work) or the handler fails.
func (d *distributor[T]) pull(id WorkerID, handle func(WorkerID, item[T]) error) error {
	defer func() { d.requests <- request{id: id, exit: true} }()

	inbox := d.inboxes[id]
	for {
		d.requests <- request{id: id}
		it, ok := <-inbox
		if !ok {
			return nil
		}
		if err := handle(id, it); err != nil {
			if errors.Is(err, errDisconnected) {
				return nil
			}
			d.aborted.Store(true)
			return err
		}
	}
}

// control feeds seq to requesting workers until every worker has exited.
// It answers with the end marker (a closed inbox) once the sequence is
// exhausted, a worker failed, the consumer disconnected, or ctx is done.
func (d *distributor[T]) control(seq iter.Seq[T]) error {
	next, stop := iter.Pull(seq)
	defer stop()

	var (
		live      = len(d.inboxes)
		index     int
		exhausted bool
		cancelled bool
		seqErr    error
	)

	for live > 0 {
		req := <-d.requests
		if req.exit {
			live--
			continue
		}

		if !exhausted && d.halted() {
			exhausted = true
			cancelled = d.ctx.Err() != nil
		}
		if exhausted {
			close(d.inboxes[req.id])
			continue
		}

		v, ok, err := safeNext(next)
		if err != nil {
			seqErr = err
		}
		if !ok {
			exhausted = true
			close(d.inboxes[req.id])
			continue
		}

		d.inboxes[req.id] <- item[T]{index: index, val: v}
		index++
	}

	if seqErr != nil {
		return seqErr
	}
	if cancelled {
		return d.ctx.Err()
	}
	return nil
}

// halted reports whether no further elements should be handed out.
func (d *distributor[T]) halted() bool {
	if d.aborted.Load() || d.ctx.Err() != nil {
		return true
	}
	select {
	case <-d.stop:
		return true
	default:
		return false
	}
}

// safeNext advances the pulled sequence, turning a panic in the sequence into
// an error and the end of the sequence.
func safeNext[T any](next func() (T, bool)) (v T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, ok, err = zero, false, newPanicError(r)
		}
	}()
	v, ok = next()
	return v, ok, nil
}
