package parallel

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// feed pushes completions in the given index order and returns what the
// reorderer emitted, draining buffered values the way Ordered.Next does.
func feed(r *reorderer[int], order []int) []int {
	var out []int
	for _, i := range order {
		if v, ok := r.accept(i, i*10); ok {
			out = append(out, v)
		}
		for {
			v, ok := r.pop()
			if !ok {
				break
			}
			out = append(out, v)
		}
	}
	return out
}

func TestReorderer(t *testing.T) {
	tests := []struct {
		name         string
		order        []int
		want         []int
		wantBuffered int
	}{
		{"empty", nil, nil, 0},
		{"in order", []int{0, 1, 2, 3}, []int{0, 10, 20, 30}, 0},
		{"reversed", []int{3, 2, 1, 0}, []int{0, 10, 20, 30}, 0},
		{"interleaved", []int{1, 0, 3, 2, 4}, []int{0, 10, 20, 30, 40}, 0},
		{"gap holds later values", []int{0, 2, 3}, []int{0}, 2},
		{"missing head", []int{1, 2}, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReorderer[int]()
			got := feed(r, tt.order)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantBuffered, r.buffered())
		})
	}
}

func TestReorderer_FastPathSkipsHeap(t *testing.T) {
	r := newReorderer[string]()

	v, ok := r.accept(0, "a")
	require.True(t, ok)
	require.Equal(t, "a", v)
	require.Zero(t, r.buffered())
	require.Equal(t, 1, r.lookingFor)
}

func TestReorderer_BufferedIndexesAreNeverBehindCursor(t *testing.T) {
	const n = 500
	order := rand.Perm(n)

	r := newReorderer[int]()
	var out []int
	for _, i := range order {
		if v, ok := r.accept(i, i*10); ok {
			out = append(out, v)
		}
		for {
			v, ok := r.pop()
			if !ok {
				break
			}
			out = append(out, v)
		}
		for _, pk := range r.pending {
			require.GreaterOrEqual(t, pk.index, r.lookingFor)
		}
	}

	require.Len(t, out, n)
	for i, v := range out {
		require.Equal(t, i*10, v)
	}
	require.Zero(t, r.buffered())
}

func TestPacketHeap_PushRejectsForeignValues(t *testing.T) {
	var h packetHeap[int]
	require.Panics(t, func() { h.Push("not a packet") })
}
