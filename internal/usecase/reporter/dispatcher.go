package reporter

import (
	"context"
	"fmt"
	"sync"
	"time"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
)

const (
	// DefaultBufferSize is the number of reports queued before producers block.
	DefaultBufferSize = 4096
	// DefaultSinkTimeout bounds a single sink call.
	DefaultSinkTimeout = 5 * time.Second
)

type report struct {
	ctx         context.Context
	kind        signalv1.EventKind
	signal      signalv1.Signal
	realizedPnL float64
}

// Dispatcher fans signal reports out to sinks from one goroutine, so every sink
// observes events in production order. It is itself a Sink: calls only enqueue.
type Dispatcher struct {
	sinks       []signalv1.Sink
	logger      logger.Interface
	sinkTimeout time.Duration

	reports chan report
	done    chan struct{}

	mu      sync.RWMutex
	started bool
	stopped bool
}

var _ signalv1.Sink = (*Dispatcher)(nil)

// Options represents configuration options for the Dispatcher.
type Options struct {
	BufferSize  int
	SinkTimeout time.Duration
}

// DefaultOptions returns the default dispatcher options.
func DefaultOptions() *Options {
	return &Options{
		BufferSize:  DefaultBufferSize,
		SinkTimeout: DefaultSinkTimeout,
	}
}

// NewDispatcher creates a dispatcher calling sinks in registration order.
func NewDispatcher(opts *Options, log logger.Interface, sinks ...signalv1.Sink) *Dispatcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.BufferSize < 1 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.SinkTimeout <= 0 {
		opts.SinkTimeout = DefaultSinkTimeout
	}

	return &Dispatcher{
		sinks:       sinks,
		logger:      log,
		sinkTimeout: opts.SinkTimeout,
		reports:     make(chan report, opts.BufferSize),
		done:        make(chan struct{}),
	}
}

// Start launches the delivery goroutine. Calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.run()
}

// OnSignalOpened queues an opened report.
func (d *Dispatcher) OnSignalOpened(ctx context.Context, signal signalv1.Signal) error {
	return d.enqueue(report{ctx: ctx, kind: signalv1.EventOpened, signal: signal})
}

// OnSignalClosed queues a closed report.
func (d *Dispatcher) OnSignalClosed(ctx context.Context, signal signalv1.Signal, realizedPnL float64) error {
	return d.enqueue(report{ctx: ctx, kind: signalv1.EventClosed, signal: signal, realizedPnL: realizedPnL})
}

// Stop stops intake and waits until every queued report reached the sinks or ctx ends.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.reports)
	if !d.started {
		d.started = true
		go d.run()
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("dispatcher stopped before draining",
			logger.Field{Key: "action", Value: "stop_dispatcher"},
			logger.Field{Key: "pending", Value: len(d.reports)},
		)
		return ctx.Err()
	}
}

func (d *Dispatcher) enqueue(r report) error {
	if r.ctx == nil {
		r.ctx = context.Background()
	}
	// sinks run after the caller returned, keep its values but not its deadline
	r.ctx = context.WithoutCancel(r.ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return errors.NewErrorDetails("dispatcher is stopped", string(errors.EngineStopped), "")
	}
	d.reports <- r
	return nil
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for r := range d.reports {
		for _, sink := range d.sinks {
			d.deliver(sink, r)
		}
	}
}

func (d *Dispatcher) deliver(sink signalv1.Sink, r report) {
	ctx, cancel := context.WithTimeout(r.ctx, d.sinkTimeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.ErrorContext(ctx, fmt.Errorf("sink panic: %v", rec),
				logger.Field{Key: "action", Value: "dispatch"},
				logger.Field{Key: "signal_id", Value: r.signal.ID},
			)
		}
	}()

	var err error
	switch r.kind {
	case signalv1.EventOpened:
		err = sink.OnSignalOpened(ctx, r.signal)
	case signalv1.EventClosed:
		err = sink.OnSignalClosed(ctx, r.signal, r.realizedPnL)
	}
	if err != nil {
		d.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "dispatch"},
			logger.Field{Key: "event", Value: r.kind},
			logger.Field{Key: "signal_id", Value: r.signal.ID},
			logger.Field{Key: "symbol", Value: r.signal.Symbol},
		)
	}
}
