package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	effectv1 "github.com/muhammadchandra19/signal-engine/internal/domain/effect/v1"
	marketv1 "github.com/muhammadchandra19/signal-engine/internal/domain/market/v1"
	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	windowv1 "github.com/muhammadchandra19/signal-engine/internal/domain/window/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/util"
)

type state int32

const (
	stateCreated state = iota
	stateRunning
	stateStopped
)

// event is one unit of work for a symbol worker. Exactly one of tick and snapshot is set.
type event struct {
	ctx      context.Context
	tick     *marketv1.Tick
	snapshot *marketv1.OrderbookSnapshot
}

// worker is the single goroutine owning the pass state of one symbol.
type worker struct {
	symbol string
	events chan event

	// fields below are only touched by the worker goroutine until it exits
	orderbook *marketv1.OrderbookSnapshot
	lastPrice float64
	hasPrice  bool
}

// Engine drives the per-symbol evaluation passes:
// ingest, classify, generate, open and evaluate, in that order, for every tick.
type Engine struct {
	aggregator windowv1.Aggregator
	classifier effectv1.Classifier
	generator  signalv1.Generator
	lifecycle  signalv1.Lifecycle
	sink       signalv1.Sink
	thresholds *config.ThresholdSet
	logger     logger.Interface
	opts       *Options

	state    atomic.Int32
	quit     chan struct{}
	quitOnce sync.Once

	mu      sync.RWMutex
	workers map[string]*worker
	wg      sync.WaitGroup
}

var _ marketv1.Handler = (*Engine)(nil)

// NewEngine creates a new evaluation engine. Call Start before feeding events.
func NewEngine(
	aggregator windowv1.Aggregator,
	classifier effectv1.Classifier,
	generator signalv1.Generator,
	lifecycle signalv1.Lifecycle,
	sink signalv1.Sink,
	thresholds *config.ThresholdSet,
	log logger.Interface,
	opts *Options,
) *Engine {
	return &Engine{
		aggregator: aggregator,
		classifier: classifier,
		generator:  generator,
		lifecycle:  lifecycle,
		sink:       sink,
		thresholds: thresholds,
		logger:     log,
		opts:       opts.withDefaults(),
		quit:       make(chan struct{}),
		workers:    make(map[string]*worker),
	}
}

// Start begins accepting events, and starts the sink when it has a Start method.
func (e *Engine) Start() error {
	if !e.state.CompareAndSwap(int32(stateCreated), int32(stateRunning)) {
		return errors.NewErrorDetails("engine cannot be restarted", string(errors.EngineStopped), "")
	}
	if s, ok := e.sink.(interface{ Start() }); ok {
		s.Start()
	}

	e.logger.Info("engine started",
		logger.Field{Key: "action", Value: "start"},
		logger.Field{Key: "configured_symbols", Value: e.thresholds.Symbols()},
		logger.Field{Key: "queue_size", Value: e.opts.QueueSize},
	)
	return nil
}

// IsRunning reports whether the engine accepts events.
func (e *Engine) IsRunning() bool {
	return state(e.state.Load()) == stateRunning
}

// OnTick queues a trade for its symbol. It blocks while the symbol queue is full.
func (e *Engine) OnTick(ctx context.Context, tick marketv1.Tick) error {
	if err := tick.Validate(); err != nil {
		e.opts.Metrics.TickDropped(tick.Symbol, string(errors.InvalidTick))
		return err
	}
	return e.enqueue(ctx, tick.Symbol, event{ctx: ctx, tick: &tick})
}

// OnOrderbookSnapshot queues a snapshot replacing the symbol's latest orderbook.
func (e *Engine) OnOrderbookSnapshot(ctx context.Context, snapshot marketv1.OrderbookSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	return e.enqueue(ctx, snapshot.Symbol, event{ctx: ctx, snapshot: &snapshot})
}

// ForceClose closes one open signal at price and reports it.
// It is rejected once the engine stopped, since shutdown has already closed every signal.
// Stop waits for calls admitted before it, so their closure is reported before the sink stops.
func (e *Engine) ForceClose(ctx context.Context, id string, price float64) (signalv1.ClosedSignal, error) {
	if err := e.admit(); err != nil {
		return signalv1.ClosedSignal{}, err
	}
	defer e.wg.Done()

	closed, err := e.lifecycle.ForceClose(id, price, e.opts.Now())
	if err != nil {
		e.logger.WarnContext(ctx, "force close rejected",
			logger.Field{Key: "action", Value: "force_close"},
			logger.Field{Key: "signal_id", Value: id},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		return signalv1.ClosedSignal{}, err
	}
	e.reportClosed(ctx, closed)
	return closed, nil
}

// admit registers an operator call with the worker group unless the engine is stopping.
// The quit check and wg.Add happen under e.mu, which Stop takes after closing quit.
func (e *Engine) admit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.IsRunning() {
		return errors.NewErrorDetails("engine is not running", string(errors.EngineStopped), "")
	}
	select {
	case <-e.quit:
		return errors.NewErrorDetails("engine is not running", string(errors.EngineStopped), "")
	default:
	}
	e.wg.Add(1)
	return nil
}

// Stop stops intake, lets in-flight passes finish, discards buffered events,
// force closes every open signal at its symbol's last price and flushes the sink.
func (e *Engine) Stop(ctx context.Context) error {
	if !e.state.CompareAndSwap(int32(stateRunning), int32(stateStopped)) {
		e.state.CompareAndSwap(int32(stateCreated), int32(stateStopped))
		e.quitOnce.Do(func() { close(e.quit) })
		return nil
	}
	e.quitOnce.Do(func() { close(e.quit) })

	// no worker is created and no force close admitted once quit is closed
	e.mu.Lock()
	workers := make([]*worker, 0, len(e.workers))
	for _, w := range e.workers {
		workers = append(workers, w)
	}
	e.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		e.logger.Warn("workers did not finish in time",
			logger.Field{Key: "action", Value: "stop"},
		)
		return ctx.Err()
	}

	at := e.opts.Now()
	forced := 0
	for _, w := range workers {
		if !w.hasPrice {
			continue
		}
		for _, closed := range e.lifecycle.ForceCloseAll(w.symbol, w.lastPrice, at) {
			e.reportClosed(util.WithSymbol(ctx, w.symbol), closed)
			forced++
		}
	}

	e.logger.Info("engine stopped",
		logger.Field{Key: "action", Value: "stop"},
		logger.Field{Key: "symbols", Value: len(workers)},
		logger.Field{Key: "forced_closures", Value: forced},
	)

	if s, ok := e.sink.(interface{ Stop(context.Context) error }); ok {
		return s.Stop(ctx)
	}
	return nil
}

func (e *Engine) enqueue(ctx context.Context, symbol string, ev event) error {
	if !e.IsRunning() {
		return errors.NewErrorDetails("engine is not accepting events", string(errors.EngineStopped), "")
	}

	w, err := e.workerFor(symbol)
	if err != nil {
		return err
	}

	select {
	case w.events <- ev:
		return nil
	case <-e.quit:
		return errors.NewErrorDetails("engine is not accepting events", string(errors.EngineStopped), "")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) workerFor(symbol string) (*worker, error) {
	e.mu.RLock()
	w, ok := e.workers[symbol]
	e.mu.RUnlock()
	if ok {
		return w, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workers[symbol]; ok {
		return w, nil
	}
	select {
	case <-e.quit:
		return nil, errors.NewErrorDetails("engine is not accepting events", string(errors.EngineStopped), "")
	default:
	}

	if _, ok := e.thresholds.For(symbol); !ok {
		e.logger.Warn("no thresholds configured, signals are disabled for symbol",
			logger.Field{Key: "action", Value: "register_symbol"},
			logger.Field{Key: "symbol", Value: symbol},
		)
	}

	w = &worker{symbol: symbol, events: make(chan event, e.opts.QueueSize)}
	e.workers[symbol] = w
	e.wg.Add(1)
	go e.run(w)
	return w, nil
}

func (e *Engine) run(w *worker) {
	defer e.wg.Done()
	for {
		// a stop request wins over buffered events
		select {
		case <-e.quit:
			e.discard(w)
			return
		default:
		}

		select {
		case <-e.quit:
			e.discard(w)
			return
		case ev := <-w.events:
			e.process(w, ev)
		}
	}
}

func (e *Engine) discard(w *worker) {
	n := len(w.events)
	if n == 0 {
		return
	}
	e.opts.Metrics.EventsDiscarded(w.symbol, n)
	e.logger.Warn("discarding buffered events",
		logger.Field{Key: "action", Value: "stop"},
		logger.Field{Key: "symbol", Value: w.symbol},
		logger.Field{Key: "discarded", Value: n},
	)
}

// process runs one pass. A panic is contained to the pass.
func (e *Engine) process(w *worker, ev event) {
	ctx := util.WithSymbol(ev.ctx, w.symbol)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			e.opts.Metrics.PassRecovered(w.symbol)
			e.logger.ErrorContext(ctx, fmt.Errorf("evaluation pass panicked: %v", rec),
				logger.Field{Key: "action", Value: "evaluate"},
				logger.Field{Key: "stack", Value: string(debug.Stack())},
			)
		}
		e.opts.Metrics.PassCompleted(w.symbol, time.Since(start))
	}()

	if ev.snapshot != nil {
		w.orderbook = ev.snapshot
		e.opts.Metrics.SnapshotApplied(w.symbol)
		return
	}
	e.pass(ctx, w, *ev.tick)
}

func (e *Engine) pass(ctx context.Context, w *worker, tick marketv1.Tick) {
	latest, err := e.aggregator.Ingest(tick)
	if err != nil {
		reason := string(errors.GeneralInternalServerError)
		if errors.ErrorCodeEquals(err, string(errors.OutOfOrderTick)) {
			reason = string(errors.OutOfOrderTick)
		} else if errors.ErrorCodeEquals(err, string(errors.InvalidTick)) {
			reason = string(errors.InvalidTick)
		}
		e.opts.Metrics.TickDropped(w.symbol, reason)
		return
	}
	e.opts.Metrics.TickIngested(w.symbol)
	// an older tick only feeds the window totals, signals follow the latest price
	if !latest {
		return
	}
	w.lastPrice = tick.Price
	w.hasPrice = true

	if thresholds, ok := e.thresholds.For(w.symbol); ok {
		e.generate(ctx, w, tick, thresholds)
	}

	for _, closed := range e.lifecycle.Evaluate(w.symbol, tick.Price, tick.Timestamp) {
		e.reportClosed(ctx, closed)
	}
}

func (e *Engine) generate(ctx context.Context, w *worker, tick marketv1.Tick, thresholds config.Thresholds) {
	current, _ := e.aggregator.CurrentWindow(w.symbol)
	effects := e.classifier.Classify(effectv1.Input{
		Symbol:    w.symbol,
		Current:   current,
		Sealed:    e.aggregator.Windows(w.symbol, thresholds.DirectionWindows),
		Orderbook: w.orderbook,
	}, thresholds)

	signal, ok := e.generator.Generate(signalv1.Candidate{
		Symbol:  w.symbol,
		Effects: effects,
		Price:   tick.Price,
		At:      tick.Timestamp,
	}, e.lifecycle, thresholds)
	if !ok {
		return
	}

	if err := e.lifecycle.Open(signal); err != nil {
		e.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "open"},
			logger.Field{Key: "signal_id", Value: signal.ID},
		)
		return
	}
	if err := e.sink.OnSignalOpened(ctx, signal); err != nil {
		e.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "report_opened"},
			logger.Field{Key: "signal_id", Value: signal.ID},
		)
	}
}

func (e *Engine) reportClosed(ctx context.Context, closed signalv1.ClosedSignal) {
	if err := e.sink.OnSignalClosed(ctx, closed.Signal, closed.RealizedPnL); err != nil {
		e.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "report_closed"},
			logger.Field{Key: "signal_id", Value: closed.Signal.ID},
		)
	}
}
