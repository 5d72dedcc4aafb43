package parallel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElementError(t *testing.T) {
	cause := errors.New("disk full")
	err := newElementError(cause, 7, 2)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "element 7: disk full", err.Error())

	tests := []struct {
		format string
		want   string
	}{
		{"%s", "element 7: disk full"},
		{"%v", "element 7: disk full"},
		{"%+v", "element(index=7,worker=2): disk full"},
		{"%q", `"element 7: disk full"`},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, fmt.Sprintf(tt.format, err), tt.format)
	}
}

func TestNewElementError_Nil(t *testing.T) {
	require.NoError(t, newElementError(nil, 3, 1))
}

func TestExtractElementMeta(t *testing.T) {
	wrapped := fmt.Errorf("%w: %w", ErrElementFailed, newElementError(errors.New("x"), 11, 4))

	idx, ok := ExtractElementIndex(wrapped)
	require.True(t, ok)
	require.Equal(t, 11, idx)

	w, ok := ExtractWorker(wrapped)
	require.True(t, ok)
	require.Equal(t, WorkerID(4), w)

	_, ok = ExtractElementIndex(errors.New("plain"))
	require.False(t, ok)
	_, ok = ExtractWorker(nil)
	require.False(t, ok)
}

func TestPanicError(t *testing.T) {
	err := newPanicError("kaboom")

	require.ErrorIs(t, err, ErrElementPanicked)
	require.Equal(t, ErrElementPanicked.Error()+": kaboom", err.Error())
	require.NotEmpty(t, stackOf(err))
	require.Nil(t, stackOf(errors.New("plain")))
}
