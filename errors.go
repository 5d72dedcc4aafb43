package parallel

import "errors"

const Namespace = "parallel"

var (
	ErrInvalidConfig   = errors.New(Namespace + ": invalid configuration")
	ErrElementFailed   = errors.New(Namespace + ": element processing failed")
	ErrElementPanicked = errors.New(Namespace + ": element processing panicked")
	ErrPoolPoisoned    = errors.New(Namespace + ": pool is unusable after a failed job")
	ErrPoolBusy        = errors.New(Namespace + ": another job is in flight on this pool")
	ErrPoolClosed      = errors.New(Namespace + ": pool is closed")
)
