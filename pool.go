package parallel

import (
	"fmt"
	"log/slog"
	"sync"
)

// Pool is a fixed-size set of worker goroutines plus one supervisor goroutine,
// all spawned once by New and reused by every operation until Close.
//
// At most one job is in flight on a Pool at a time: an operation holds the pool
// exclusively until its JobHandle has been waited on (or its result sequence has
// been closed). Starting a second operation meanwhile fails with ErrPoolBusy.
type Pool struct {
	// noCopy prevents accidental copying of the pool.
	//go:nocopy
	nc noCopy

	cfg   config
	log   *slog.Logger
	instr *instruments

	jobs     chan *job    // nil job is the stop sentinel
	finished chan outcome // one outcome per job, plus the stop acknowledgement
	done     chan struct{}

	// mu is held from Execute until the returned handle has been waited on.
	mu     sync.Mutex
	poison error
	closed bool

	closeOnce sync.Once
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a pool with the given number of workers.
// It returns ErrInvalidConfig if workers is zero or an option is invalid.
func New(workers uint, opts ...Option) (*Pool, error) {
	cfg := defaultConfig(workers)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	log := cfg.Logger.With("workers", cfg.Workers)
	if cfg.Name != "" {
		log = log.With("pool", cfg.Name)
	}

	p := &Pool{
		cfg:      cfg,
		log:      log,
		instr:    newInstruments(cfg.Metrics),
		jobs:     make(chan *job),
		finished: make(chan outcome),
		done:     make(chan struct{}),
	}

	s := newSupervisor(int(cfg.Workers), p.jobs, p.finished, p.log, p.instr)
	go func() {
		defer close(p.done)
		s.run()
	}()

	return p, nil
}

// Workers returns the fixed number of workers.
func (p *Pool) Workers() int { return int(p.cfg.Workers) }

// Close stops the supervisor and all workers and blocks until they have exited.
// It waits for an outstanding job to be released first.
//
// Close is idempotent and safe for concurrent use. It must not be called from
// inside a function running on the pool.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		p.closed = true
		// A poisoned supervisor has already stopped its workers and exited.
		if p.poison == nil {
			p.jobs <- nil
			<-p.finished
		}
		<-p.done
		p.log.Debug("parallel: pool closed")
	})
	return nil
}

// submit acquires the pool exclusively and hands j to the supervisor.
// The lock is released by the returned handle.
func (p *Pool) submit(j *job) (*JobHandle, error) {
	if !p.mu.TryLock() {
		return nil, ErrPoolBusy
	}
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.poison != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrPoolPoisoned, p.poison)
	}

	p.instr.jobs.Add(1)
	p.jobs <- j
	p.log.Debug("parallel: job dispatched")
	return &JobHandle{pool: p}, nil
}

// release records the outcome of the in-flight job and unlocks the pool.
func (p *Pool) release(out outcome) {
	if out.poisoned {
		p.poison = out.err
		p.instr.jobsFailed.Add(1)
		p.log.Warn("parallel: job failed, pool is poisoned", "error", out.err)
	}
	p.mu.Unlock()
}
