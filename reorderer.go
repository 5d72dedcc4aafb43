package parallel

import "container/heap"

// reorderer restores input order over out-of-order completions.
//
// It keeps a min-heap of packets keyed by index and a cursor, lookingFor, that
// only increases. Every buffered packet has index >= lookingFor, so the heap
// minimum is the only candidate for the next emission.
//
// Not safe for concurrent use; owned by the consumer of an Ordered sequence.
type reorderer[R any] struct {
	pending    packetHeap[R]
	lookingFor int
}

func newReorderer[R any]() *reorderer[R] {
	return &reorderer[R]{}
}

// accept takes a completion. If it is the one the cursor waits for, it is
// returned directly without touching the heap.
func (r *reorderer[R]) accept(index int, v R) (R, bool) {
	if index == r.lookingFor {
		r.lookingFor++
		return v, true
	}
	heap.Push(&r.pending, packet[R]{index: index, val: v})
	var zero R
	return zero, false
}

// pop returns the buffered value at the cursor, if it has arrived.
func (r *reorderer[R]) pop() (R, bool) {
	if len(r.pending) == 0 || r.pending[0].index != r.lookingFor {
		var zero R
		return zero, false
	}
	pk := heap.Pop(&r.pending).(packet[R])
	r.lookingFor++
	return pk.val, true
}

// buffered returns the number of completions waiting for an earlier index.
func (r *reorderer[R]) buffered() int { return len(r.pending) }

// packetHeap is a min-heap of packets ordered by ascending index.
type packetHeap[R any] []packet[R]

func (h packetHeap[R]) Len() int           { return len(h) }
func (h packetHeap[R]) Less(i, j int) bool { return h[i].index < h[j].index }
func (h packetHeap[R]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// Push implements heap.Interface.
func (h *packetHeap[R]) Push(x any) {
	pk, ok := x.(packet[R])
	if !ok {
		panic("packetHeap.Push: invalid type assertion")
	}
	*h = append(*h, pk)
}

// Pop implements heap.Interface.
func (h *packetHeap[R]) Pop() any {
	old := *h
	n := len(old)
	pk := old[n-1]
	*h = old[:n-1]
	return pk
}
