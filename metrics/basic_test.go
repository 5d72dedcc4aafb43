package metrics

import (
	"reflect"
	"runtime"
	"sync"
	"testing"
)

func TestBasicProvider_Counter_ReusedAndAccumulates(t *testing.T) {
	p := NewBasicProvider()

	c1 := p.Counter(ElementsTotal)
	c2 := p.Counter(ElementsTotal)

	if reflect.ValueOf(c1).Pointer() != reflect.ValueOf(c2).Pointer() {
		t.Fatalf("expected same counter instance for same name")
	}

	bc, ok := c1.(*BasicCounter)
	if !ok {
		t.Fatalf("expected *BasicCounter, got %T", c1)
	}

	c1.Add(3)
	c2.Add(2)
	if got := bc.Snapshot(); got != 5 {
		t.Fatalf("counter value = %d; want 5", got)
	}
	if got := p.CounterValue(ElementsTotal); got != 5 {
		t.Fatalf("CounterValue = %d; want 5", got)
	}
	if got := p.CounterValue("missing"); got != 0 {
		t.Fatalf("CounterValue(missing) = %d; want 0", got)
	}

	cOther := p.Counter(JobsTotal)
	if reflect.ValueOf(cOther).Pointer() == reflect.ValueOf(c1).Pointer() {
		t.Fatalf("expected different counter instance for different name")
	}
}

func TestBasicProvider_UpDownCounter_MovesAndTracksPeak(t *testing.T) {
	p := NewBasicProvider()
	u := p.UpDownCounter(WorkersBusy)
	bu := u.(*BasicUpDownCounter)

	u.Add(+3)
	u.Add(-1)
	u.Add(+10)
	u.Add(-12)
	if got := bu.Snapshot(); got != 0 {
		t.Fatalf("updown value = %d; want 0", got)
	}
	if got := bu.Peak(); got != 12 {
		t.Fatalf("updown peak = %d; want 12", got)
	}
}

func TestBasicProvider_Histogram_RecordsStats(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram(ElementDurationSecs)
	bh := h.(*BasicHistogram)

	if got := bh.Snapshot().Mean(); got != 0 {
		t.Fatalf("empty mean = %v; want 0", got)
	}

	h.Record(0.1)
	h.Record(0.3)
	h.Record(0.2)
	s := bh.Snapshot()
	if s.Count != 3 {
		t.Fatalf("count = %d; want 3", s.Count)
	}
	if s.Min != 0.1 || s.Max != 0.3 {
		t.Fatalf("min/max = (%v,%v); want (0.1,0.3)", s.Min, s.Max)
	}
	if s.Sum < 0.59 || s.Sum > 0.61 {
		t.Fatalf("sum = %v; want ~0.6", s.Sum)
	}
	if m := s.Mean(); m < 0.19 || m > 0.21 {
		t.Fatalf("mean = %v; want ~0.2", m)
	}
}

func TestBasicProvider_Config_StoredOnFirstRegistration(t *testing.T) {
	p := NewBasicProvider()
	p.Histogram(ElementDurationSecs, WithUnit("s"), WithDescription("per element"))
	p.Histogram(ElementDurationSecs, WithUnit("ms"))

	cfg, ok := p.Config(ElementDurationSecs)
	if !ok {
		t.Fatalf("expected stored config")
	}
	if cfg.Unit != "s" || cfg.Description != "per element" {
		t.Fatalf("config = %+v; want first registration", cfg)
	}
	if _, ok := p.Config("missing"); ok {
		t.Fatalf("unexpected config for unregistered name")
	}
}

func TestBasicProvider_Concurrent_GetSameInstrument(t *testing.T) {
	p := NewBasicProvider()
	n := 50
	ptrs := make([]uintptr, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer wg.Done()
			ptrs[idx] = reflect.ValueOf(p.Counter("shared")).Pointer()
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		if ptrs[i] != ptrs[0] {
			t.Fatalf("expected same pointer for all retrieved counters; mismatch at %d", i)
		}
	}
}

func TestBasicProvider_Concurrent_Record(t *testing.T) {
	p := NewBasicProvider()
	c := p.Counter("hits")
	h := p.Histogram("latency")

	workers := runtime.NumCPU() * 2
	iters := 500
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				c.Add(1)
				h.Record(float64((base%10)+i%10) / 100.0)
			}
		}(w)
	}
	wg.Wait()

	want := int64(workers * iters)
	if got := c.(*BasicCounter).Snapshot(); got != want {
		t.Fatalf("counter = %d; want %d", got, want)
	}
	s := h.(*BasicHistogram).Snapshot()
	if s.Count != want {
		t.Fatalf("hist count = %d; want %d", s.Count, want)
	}
	if s.Min < 0.0 || s.Min > 0.09 || s.Max < 0.0 || s.Max > 0.19 {
		t.Fatalf("min/max out of expected range: (%v,%v)", s.Min, s.Max)
	}
}

func TestNoopProvider_Discards(t *testing.T) {
	var p Provider = NewNoopProvider()
	p.Counter(JobsTotal).Add(1)
	p.UpDownCounter(WorkersBusy).Add(-1)
	p.Histogram(ElementDurationSecs).Record(1.5)
}
