package parallel

import (
	"errors"
	"fmt"
)

// ElementMetaError exposes correlation metadata for an element failure.
type ElementMetaError interface {
	error
	Unwrap() error
	ElementIndex() int
	Worker() WorkerID
}

// elementError tags a failure of the user function with the position of the
// element in the input sequence and the worker that processed it.
type elementError struct {
	err    error
	index  int
	worker WorkerID
}

func newElementError(err error, index int, worker WorkerID) error {
	if err == nil {
		return nil
	}
	return &elementError{err: err, index: index, worker: worker}
}

func (e *elementError) Error() string {
	return fmt.Sprintf("element %d: %s", e.index, e.err.Error())
}

func (e *elementError) Unwrap() error { return e.err }

func (e *elementError) ElementIndex() int { return e.index }

func (e *elementError) Worker() WorkerID { return e.worker }

func (e *elementError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "element(index=%d,worker=%d): %+v", e.index, e.worker, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractElementIndex returns the input index of the failed element if err carries one.
func ExtractElementIndex(err error) (int, bool) {
	var eme ElementMetaError
	if errors.As(err, &eme) {
		return eme.ElementIndex(), true
	}
	return 0, false
}

// ExtractWorker returns the worker that observed the failure if err carries one.
func ExtractWorker(err error) (WorkerID, bool) {
	var eme ElementMetaError
	if errors.As(err, &eme) {
		return eme.Worker(), true
	}
	return 0, false
}
