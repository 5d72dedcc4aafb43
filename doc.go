// Package parallel provides a reusable, fixed-size pool of worker goroutines for
// running a function over every element of a sequence in parallel.
//
// Workers and one supervisor goroutine are spawned once by New and reused by
// every operation until Close, so repeated operations pay no spawn cost.
//
// Operations
//   - ForEach(ctx, pool, seq, fn): applies fn to every element; blocks until done.
//   - UnorderedMap(ctx, pool, seq, fn): lazy (index, result) pairs in completion order.
//   - Map(ctx, pool, seq, fn): lazy results in input order.
//   - Execute / Run: the low-level primitive the three above are built on, for
//     custom coordination protocols.
//
// Distribution
// Elements are pulled, not pushed: an idle worker asks the supervisor for the next
// element and the supervisor answers with one element or with the end marker. The
// input sequence (an iter.Seq) is advanced only on the supervisor goroutine, so it
// does not need to be safe for concurrent use.
//
// Borrowing
// Functions passed to an operation may freely reference the caller's local
// variables, including writing through pointers yielded by the sequence:
//
//	v := make([]int, 8)
//	err := parallel.ForEach(ctx, pool, pointers(v), func(_ context.Context, e *int) error {
//	    *e = 3
//	    return nil
//	})
//
// An operation holds its pool exclusively until it has fully completed: ForEach
// and Run return only after every worker is done with the job, and Map and
// UnorderedMap sequences release the pool when exhausted, when a range over All
// ends, or on Close. Starting another operation on the same pool meanwhile fails
// with ErrPoolBusy.
//
// Failures
// An error returned by fn, or a panic inside fn, fails the operation: no further
// elements are handed out and the operation reports ErrElementFailed wrapping the
// first cause, tagged with the element index (see ExtractElementIndex). A pool
// whose job failed is poisoned: later operations return ErrPoolPoisoned, and Close
// still releases it. Context cancellation stops the operation without poisoning.
//
// Defaults
//   - Logger: slog.Default()
//   - Metrics: metrics.NoopProvider
//   - Results buffer (Map/UnorderedMap): one slot per worker
package parallel
