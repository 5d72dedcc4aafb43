package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

// PanicError is the cause recorded when a user function panics on a worker.
// It unwraps to ErrElementPanicked.
type PanicError struct {
	Value any
	stack []byte
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrElementPanicked.Error(), e.Value)
}

func (e *PanicError) Unwrap() error { return ErrElementPanicked }

// Stack returns the goroutine stack captured at recovery time.
func (e *PanicError) Stack() []byte { return e.stack }

// stackOf returns the captured stack if err carries a PanicError.
func stackOf(err error) []byte {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe.stack
	}
	return nil
}

// call runs fn(ctx, v) on the current goroutine and converts a panic into an error.
// The function is never abandoned mid-flight: a worker always finishes the element it holds.
func call[T, R any](ctx context.Context, fn func(context.Context, T) (R, error), v T) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			res, err = zero, newPanicError(r)
		}
	}()
	return fn(ctx, v)
}

// recoverWork runs w for worker id and converts a panic into an error.
func recoverWork(w WorkFunc, id WorkerID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	return w(id)
}
