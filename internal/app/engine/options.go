package engine

import "time"

// DefaultQueueSize is the per-symbol event buffer used when none is configured.
const DefaultQueueSize = 1024

// Options represents configuration options for the Engine.
type Options struct {
	// QueueSize is the buffered event capacity of each symbol worker.
	QueueSize int
	// Metrics observes ingestion outcomes. Nil disables it.
	Metrics Metrics
	// Now stamps forced closures at shutdown.
	Now func() time.Time
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		QueueSize: DefaultQueueSize,
		Metrics:   noopMetrics{},
		Now:       time.Now,
	}
}

func (o *Options) withDefaults() *Options {
	out := DefaultEngineOptions()
	if o == nil {
		return out
	}
	if o.QueueSize > 0 {
		out.QueueSize = o.QueueSize
	}
	if o.Metrics != nil {
		out.Metrics = o.Metrics
	}
	if o.Now != nil {
		out.Now = o.Now
	}
	return out
}

// Metrics receives the engine's ingestion counters.
type Metrics interface {
	TickIngested(symbol string)
	TickDropped(symbol, reason string)
	SnapshotApplied(symbol string)
	PassRecovered(symbol string)
	EventsDiscarded(symbol string, count int)
	PassCompleted(symbol string, took time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) TickIngested(string)                 {}
func (noopMetrics) TickDropped(string, string)          {}
func (noopMetrics) SnapshotApplied(string)              {}
func (noopMetrics) PassRecovered(string)                {}
func (noopMetrics) EventsDiscarded(string, int)         {}
func (noopMetrics) PassCompleted(string, time.Duration) {}
