package parallel

import (
	"time"

	"github.com/ygrebnov/parallel/metrics"
)

// instruments groups the metrics recorded by one pool.
type instruments struct {
	jobs          metrics.Counter
	jobsFailed    metrics.Counter
	elements      metrics.Counter
	elementErrors metrics.Counter
	busy          metrics.UpDownCounter
	duration      metrics.Histogram
}

func newInstruments(p metrics.Provider) *instruments {
	return &instruments{
		jobs:          p.Counter(metrics.JobsTotal, metrics.WithDescription("jobs submitted to the pool")),
		jobsFailed:    p.Counter(metrics.JobsFailedTotal, metrics.WithDescription("jobs that poisoned the pool")),
		elements:      p.Counter(metrics.ElementsTotal, metrics.WithDescription("sequence elements processed")),
		elementErrors: p.Counter(metrics.ElementErrorsTotal, metrics.WithDescription("elements whose function failed")),
		busy:          p.UpDownCounter(metrics.WorkersBusy, metrics.WithUnit("1")),
		duration:      p.Histogram(metrics.ElementDurationSecs, metrics.WithUnit("s")),
	}
}

// observe records one processed element; call the returned func when it is done.
func (in *instruments) observe() func(err error) {
	start := time.Now()
	in.busy.Add(1)
	return func(err error) {
		in.busy.Add(-1)
		in.duration.Record(time.Since(start).Seconds())
		in.elements.Add(1)
		if err != nil {
			in.elementErrors.Add(1)
		}
	}
}
