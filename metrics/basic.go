package metrics

import (
	"sync"
	"sync/atomic"
)

// BasicProvider is an in-memory Provider intended for tests, examples and small programs.
// Instruments are created on first use and shared by name afterwards.
type BasicProvider struct {
	mu         sync.RWMutex
	counters   map[string]*BasicCounter
	updowns    map[string]*BasicUpDownCounter
	histograms map[string]*BasicHistogram
	meta       map[string]InstrumentConfig
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   make(map[string]*BasicCounter),
		updowns:    make(map[string]*BasicUpDownCounter),
		histograms: make(map[string]*BasicHistogram),
		meta:       make(map[string]InstrumentConfig),
	}
}

// lookup returns the instrument stored under name in m, creating it with mk if absent.
func lookup[I any](p *BasicProvider, m map[string]I, name string, opts []InstrumentOption, mk func() I) I {
	p.mu.RLock()
	inst, ok := m[name]
	p.mu.RUnlock()
	if ok {
		return inst
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if inst, ok = m[name]; ok {
		return inst
	}
	p.meta[name] = applyOptions(opts)
	inst = mk()
	m[name] = inst
	return inst
}

// Counter returns the counter registered under name.
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return lookup(p, p.counters, name, opts, func() *BasicCounter { return &BasicCounter{} })
}

// UpDownCounter returns the up/down counter registered under name.
func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return lookup(p, p.updowns, name, opts, func() *BasicUpDownCounter { return &BasicUpDownCounter{} })
}

// Histogram returns the histogram registered under name.
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return lookup(p, p.histograms, name, opts, func() *BasicHistogram { return &BasicHistogram{} })
}

// Config returns the metadata the instrument was registered with.
func (p *BasicProvider) Config(name string) (InstrumentConfig, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cfg, ok := p.meta[name]
	return cfg, ok
}

// CounterValue is a shortcut for reading a counter snapshot; zero when absent.
func (p *BasicProvider) CounterValue(name string) int64 {
	p.mu.RLock()
	c, ok := p.counters[name]
	p.mu.RUnlock()
	if !ok {
		return 0
	}
	return c.Snapshot()
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a thread-safe up/down counter that also remembers its peak.
type BasicUpDownCounter struct {
	val  atomic.Int64
	peak atomic.Int64
}

func (u *BasicUpDownCounter) Add(n int64) {
	v := u.val.Add(n)
	for {
		p := u.peak.Load()
		if v <= p || u.peak.CompareAndSwap(p, v) {
			return
		}
	}
}

// Snapshot returns the current value.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// Peak returns the highest value observed so far.
func (u *BasicUpDownCounter) Peak() int64 { return u.peak.Load() }

// BasicHistogram tracks count, sum, min and max. It keeps no buckets.
type BasicHistogram struct {
	mu   sync.Mutex
	snap HistSnapshot
}

// HistSnapshot is an immutable snapshot of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns Sum/Count, or zero for an empty snapshot.
func (s HistSnapshot) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Record adds a measurement to the histogram.
func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snap.Count == 0 || v < h.snap.Min {
		h.snap.Min = v
	}
	if h.snap.Count == 0 || v > h.snap.Max {
		h.snap.Max = v
	}
	h.snap.Count++
	h.snap.Sum += v
}

// Snapshot returns a copy of the histogram state.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}
