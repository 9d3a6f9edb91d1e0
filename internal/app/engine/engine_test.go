package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	marketv1 "github.com/muhammadchandra19/signal-engine/internal/domain/market/v1"
	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	signalv1_mock "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1/mock"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/aggregator"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/classifier"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/generator"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/lifecycle"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/interval"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	base     = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	stopTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	btcThresholds = config.Thresholds{
		WallVolumeThreshold:              100,
		WallRatio:                        2,
		ImpulseVolumeThreshold:           100,
		VolumeDeltaPriceThreshold:        5,
		DeltaPriceVelocityThreshold:      0.1,
		DirectionWindows:                 1,
		TakeProfitAmount:                 50,
		StopLossAmount:                   30,
		TradingFeeAmount:                 1,
		MaxConcurrentSignalsPerDirection: 1,
	}
)

type recordingSink struct {
	mu     sync.Mutex
	events []signalv1.Event
}

func (s *recordingSink) OnSignalOpened(_ context.Context, signal signalv1.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, signalv1.NewOpenedEvent(signal))
	return nil
}

func (s *recordingSink) OnSignalClosed(_ context.Context, signal signalv1.Signal, realizedPnL float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, signalv1.NewClosedEvent(signal, realizedPnL))
	return nil
}

func (s *recordingSink) snapshot() []signalv1.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]signalv1.Event(nil), s.events...)
}

type countingMetrics struct {
	noopMetrics
	handled   atomic.Int64
	recovered atomic.Int64
}

func (m *countingMetrics) PassRecovered(string)                { m.recovered.Add(1) }
func (m *countingMetrics) PassCompleted(string, time.Duration) { m.handled.Add(1) }

type fixture struct {
	engine    *Engine
	lifecycle *lifecycle.Manager
	agg       *aggregator.Aggregator
	sink      *recordingSink
	metrics   *countingMetrics
	fed       int64
}

func newFixture(t *testing.T, thresholds *config.ThresholdSet, gen signalv1.Generator) *fixture {
	t.Helper()
	return newFixtureWith(t, thresholds, gen, nil)
}

// newFixtureWith lets wrap decorate the lifecycle the engine sees; f.lifecycle stays the real manager.
func newFixtureWith(t *testing.T, thresholds *config.ThresholdSet, gen signalv1.Generator, wrap func(signalv1.Lifecycle) signalv1.Lifecycle) *fixture {
	t.Helper()
	log := logger.NewNop()
	if gen == nil {
		n := 0
		gen = generator.NewGenerator(generator.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sig-%d", n)
		}))
	}

	f := &fixture{
		lifecycle: lifecycle.NewManager(log),
		agg:       aggregator.NewAggregator(interval.Interval1m, 120, log),
		sink:      &recordingSink{},
		metrics:   &countingMetrics{},
	}
	var lc signalv1.Lifecycle = f.lifecycle
	if wrap != nil {
		lc = wrap(f.lifecycle)
	}
	f.engine = NewEngine(f.agg, classifier.NewClassifier(), gen, lc, f.sink, thresholds, log, &Options{
		QueueSize: 64,
		Metrics:   f.metrics,
		Now:       func() time.Time { return stopTime },
	})
	require.NoError(t, f.engine.Start())
	return f
}

func (f *fixture) tick(t *testing.T, symbol string, offset time.Duration, price, volume float64) {
	t.Helper()
	require.NoError(t, f.engine.OnTick(context.Background(), marketv1.Tick{
		Symbol:    symbol,
		Timestamp: base.Add(offset),
		Price:     price,
		Volume:    volume,
		Side:      marketv1.SideBuy,
	}))
	f.fed++
}

func (f *fixture) snapshot(t *testing.T, snapshot marketv1.OrderbookSnapshot) {
	t.Helper()
	require.NoError(t, f.engine.OnOrderbookSnapshot(context.Background(), snapshot))
	f.fed++
}

func (f *fixture) wait(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.metrics.handled.Load() == f.fed
	}, 2*time.Second, 5*time.Millisecond)
}

// bullishWindow seals one rising window so the next tick sees a buy direction.
func (f *fixture) bullishWindow(t *testing.T, symbol string) {
	f.tick(t, symbol, 0, 990, 1)
	f.tick(t, symbol, 30*time.Second, 1000, 1)
	f.tick(t, symbol, time.Minute, 1000, 1)
}

func btcOnly() *config.ThresholdSet {
	return config.NewThresholdSet(nil, map[string]config.Thresholds{"BTCUSD": btcThresholds})
}

func TestEngine_TakeProfitScenario(t *testing.T) {
	f := newFixture(t, btcOnly(), nil)

	f.bullishWindow(t, "BTCUSD")
	f.wait(t)
	assert.Equal(t, 1, f.lifecycle.OpenCount("BTCUSD", signalv1.DirectionBuy))

	f.tick(t, "BTCUSD", time.Minute+10*time.Second, 1051, 1)
	f.wait(t)
	require.NoError(t, f.engine.Stop(context.Background()))

	events := f.sink.snapshot()
	require.Len(t, events, 2)

	assert.Equal(t, signalv1.EventOpened, events[0].Kind)
	opened := events[0].Signal
	assert.Equal(t, "sig-1", opened.ID)
	assert.Equal(t, 1000.0, opened.OpenPrice)
	assert.Equal(t, 1050.0, opened.TakeProfitPrice)
	assert.Equal(t, 970.0, opened.StopLossPrice)
	assert.Equal(t, base.Add(time.Minute), opened.CreatedAt)

	assert.Equal(t, signalv1.EventClosed, events[1].Kind)
	assert.Equal(t, 1051.0, *events[1].Signal.ClosePrice)
	assert.Equal(t, 50.0, *events[1].RealizedPnL)
	assert.False(t, events[1].Signal.IsForcedClosure)
}

func TestEngine_StopLossScenario(t *testing.T) {
	f := newFixture(t, btcOnly(), nil)

	f.bullishWindow(t, "BTCUSD")
	f.tick(t, "BTCUSD", time.Minute+10*time.Second, 969, 1)
	f.wait(t)
	require.NoError(t, f.engine.Stop(context.Background()))

	events := f.sink.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, -32.0, *events[1].RealizedPnL)
	assert.Equal(t, signalv1.ClosureStopLoss, events[1].Signal.Reason())
}

func TestEngine_StopForceClosesAtLastPrice(t *testing.T) {
	f := newFixture(t, btcOnly(), nil)

	f.bullishWindow(t, "BTCUSD")
	f.tick(t, "BTCUSD", time.Minute+10*time.Second, 1010, 1)
	f.wait(t)
	require.NoError(t, f.engine.Stop(context.Background()))

	events := f.sink.snapshot()
	require.Len(t, events, 2)
	closed := events[1]
	assert.Equal(t, signalv1.EventClosed, closed.Kind)
	assert.True(t, closed.Signal.IsForcedClosure)
	assert.Equal(t, 1010.0, *closed.Signal.ClosePrice)
	assert.Equal(t, stopTime, *closed.Signal.ClosedAt)
	assert.Equal(t, 9.0, *closed.RealizedPnL)
	assert.Empty(t, f.lifecycle.OpenSignals("BTCUSD"))
}

func TestEngine_OlderTickDoesNotDriveSignals(t *testing.T) {
	f := newFixture(t, btcOnly(), nil)

	f.bullishWindow(t, "BTCUSD")
	f.tick(t, "BTCUSD", 80*time.Second, 1000, 1)
	// within the late tolerance and above take profit, but older than the latest tick
	f.tick(t, "BTCUSD", 55*time.Second, 1051, 1)
	f.wait(t)

	open := f.lifecycle.OpenSignals("BTCUSD")
	require.Len(t, open, 1)
	assert.Nil(t, open[0].ClosePrice)

	current, ok := f.agg.CurrentWindow("BTCUSD")
	require.True(t, ok)
	assert.Equal(t, 1000.0, current.PriceClose)
	assert.Equal(t, 1051.0, current.PriceHigh)

	require.NoError(t, f.engine.Stop(context.Background()))
	events := f.sink.snapshot()
	require.Len(t, events, 2)
	closed := events[1]
	assert.True(t, closed.Signal.IsForcedClosure)
	assert.Equal(t, 1000.0, *closed.Signal.ClosePrice, "shutdown closes at the latest price")
	assert.Equal(t, -1.0, *closed.RealizedPnL)
}

// blockingLifecycle holds ForceClose after the close happened until release is closed.
type blockingLifecycle struct {
	signalv1.Lifecycle
	entered chan struct{}
	release chan struct{}
}

func (l *blockingLifecycle) ForceClose(id string, price float64, at time.Time) (signalv1.ClosedSignal, error) {
	closed, err := l.Lifecycle.ForceClose(id, price, at)
	close(l.entered)
	<-l.release
	return closed, err
}

func TestEngine_StopWaitsForForceClose(t *testing.T) {
	blocking := &blockingLifecycle{entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixtureWith(t, btcOnly(), nil, func(lc signalv1.Lifecycle) signalv1.Lifecycle {
		blocking.Lifecycle = lc
		return blocking
	})

	f.bullishWindow(t, "BTCUSD")
	f.wait(t)
	require.Equal(t, 1, f.lifecycle.OpenCount("BTCUSD", signalv1.DirectionBuy))

	closeErr := make(chan error, 1)
	go func() {
		_, err := f.engine.ForceClose(context.Background(), "sig-1", 1020)
		closeErr <- err
	}()
	<-blocking.entered

	stopped := make(chan error, 1)
	go func() {
		stopped <- f.engine.Stop(context.Background())
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while a force close was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(blocking.release)
	require.NoError(t, <-closeErr)
	require.NoError(t, <-stopped)

	closedEvents := 0
	for _, ev := range f.sink.snapshot() {
		if ev.Kind == signalv1.EventClosed {
			closedEvents++
			assert.Equal(t, "sig-1", ev.Signal.ID)
			assert.Equal(t, 1020.0, *ev.Signal.ClosePrice)
		}
	}
	assert.Equal(t, 1, closedEvents)

	_, err := f.engine.ForceClose(context.Background(), "sig-1", 1020)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.EngineStopped)))
}

func TestEngine_ConcurrencyCap(t *testing.T) {
	capped := btcThresholds
	capped.MaxConcurrentSignalsPerDirection = 2
	f := newFixture(t, config.NewThresholdSet(nil, map[string]config.Thresholds{"BTCUSD": capped}), nil)

	f.bullishWindow(t, "BTCUSD")
	for i := range 30 {
		f.tick(t, "BTCUSD", time.Minute+time.Duration(i+1)*time.Second, 1000+float64(i%10), 0.1)
	}
	f.wait(t)

	assert.Equal(t, 2, f.lifecycle.OpenCount("BTCUSD", signalv1.DirectionBuy))
	opened := 0
	for _, ev := range f.sink.snapshot() {
		if ev.Kind == signalv1.EventOpened {
			opened++
		}
	}
	assert.Equal(t, 2, opened)
	require.NoError(t, f.engine.Stop(context.Background()))
}

func TestEngine_OpposingWallVetoes(t *testing.T) {
	f := newFixture(t, btcOnly(), nil)

	f.snapshot(t, marketv1.OrderbookSnapshot{
		Symbol:    "BTCUSD",
		Timestamp: base,
		Bids:      []marketv1.PriceLevel{{Price: 999, Volume: 1}},
		Asks:      []marketv1.PriceLevel{{Price: 1001, Volume: 500}},
	})
	f.bullishWindow(t, "BTCUSD")
	f.wait(t)
	require.NoError(t, f.engine.Stop(context.Background()))

	assert.Empty(t, f.sink.snapshot())
}

func TestEngine_SymbolWithoutThresholds(t *testing.T) {
	f := newFixture(t, btcOnly(), nil)

	f.bullishWindow(t, "ETHUSD")
	f.bullishWindow(t, "BTCUSD")
	f.wait(t)

	_, ok := f.agg.CurrentWindow("ETHUSD")
	assert.True(t, ok)
	assert.Len(t, f.agg.Windows("ETHUSD", 10), 1)
	assert.Equal(t, 0, f.lifecycle.OpenCount("ETHUSD", signalv1.DirectionBuy))
	assert.Equal(t, 1, f.lifecycle.OpenCount("BTCUSD", signalv1.DirectionBuy))
	require.NoError(t, f.engine.Stop(context.Background()))
}

func TestEngine_RecoversPanickingPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gen := signalv1_mock.NewMockGenerator(ctrl)
	gomock.InOrder(
		gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(signalv1.Candidate, signalv1.OpenCounter, config.Thresholds) (signalv1.Signal, bool) {
				panic("boom")
			},
		),
		gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(signalv1.Signal{}, false).AnyTimes(),
	)

	defaults := btcThresholds
	f := newFixture(t, config.NewThresholdSet(&defaults, nil), gen)

	f.tick(t, "BTCUSD", 0, 1000, 1)
	f.tick(t, "BTCUSD", time.Second, 1001, 1)
	f.tick(t, "ETHUSD", time.Second, 10, 1)
	f.wait(t)

	assert.Equal(t, int64(1), f.metrics.recovered.Load())
	current, ok := f.agg.CurrentWindow("BTCUSD")
	require.True(t, ok)
	assert.Equal(t, int64(2), current.TradeCount)
	_, ok = f.agg.CurrentWindow("ETHUSD")
	assert.True(t, ok)
	require.NoError(t, f.engine.Stop(context.Background()))
}

func TestEngine_ForceClose(t *testing.T) {
	f := newFixture(t, btcOnly(), nil)
	f.bullishWindow(t, "BTCUSD")
	f.wait(t)

	closed, err := f.engine.ForceClose(context.Background(), "sig-1", 1020)
	require.NoError(t, err)
	assert.Equal(t, 19.0, closed.RealizedPnL)

	_, err = f.engine.ForceClose(context.Background(), "sig-1", 1020)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.AlreadyClosed)))
	_, err = f.engine.ForceClose(context.Background(), "nope", 1020)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.UnknownSignal)))

	require.NoError(t, f.engine.Stop(context.Background()))
	assert.Len(t, f.sink.snapshot(), 2)

	_, err = f.engine.ForceClose(context.Background(), "sig-1", 1020)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.EngineStopped)))
}

func TestEngine_Lifecycle(t *testing.T) {
	log := logger.NewNop()
	e := NewEngine(
		aggregator.NewAggregator(interval.Interval1m, 10, log),
		classifier.NewClassifier(),
		generator.NewGenerator(),
		lifecycle.NewManager(log),
		&recordingSink{},
		btcOnly(),
		log,
		nil,
	)
	valid := marketv1.Tick{Symbol: "BTCUSD", Timestamp: base, Price: 1, Volume: 1, Side: marketv1.SideBuy}

	err := e.OnTick(context.Background(), valid)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.EngineStopped)))
	assert.False(t, e.IsRunning())

	require.NoError(t, e.Start())
	assert.True(t, e.IsRunning())

	err = e.OnTick(context.Background(), marketv1.Tick{Symbol: "BTCUSD", Timestamp: base, Price: -1, Volume: 1, Side: marketv1.SideBuy})
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidTick)))

	err = e.OnOrderbookSnapshot(context.Background(), marketv1.OrderbookSnapshot{
		Symbol:    "BTCUSD",
		Timestamp: base,
		Bids:      []marketv1.PriceLevel{{Price: 1, Volume: 1}, {Price: 2, Volume: 1}},
	})
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidOrderbookSnapshot)))

	require.NoError(t, e.Stop(context.Background()))
	require.NoError(t, e.Stop(context.Background()))
	assert.False(t, e.IsRunning())

	err = e.OnTick(context.Background(), valid)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.EngineStopped)))
	assert.Error(t, e.Start())
}

func TestEngine_BackpressureHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	gen := signalv1_mock.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(signalv1.Candidate, signalv1.OpenCounter, config.Thresholds) (signalv1.Signal, bool) {
			<-release
			return signalv1.Signal{}, false
		},
	).AnyTimes()

	log := logger.NewNop()
	e := NewEngine(
		aggregator.NewAggregator(interval.Interval1m, 10, log),
		classifier.NewClassifier(),
		gen,
		lifecycle.NewManager(log),
		&recordingSink{},
		btcOnly(),
		log,
		&Options{QueueSize: 1},
	)
	require.NoError(t, e.Start())

	tick := marketv1.Tick{Symbol: "BTCUSD", Timestamp: base, Price: 1, Volume: 1, Side: marketv1.SideBuy}
	// the first tick blocks the worker, the second fills the queue
	require.NoError(t, e.OnTick(context.Background(), tick))
	require.NoError(t, e.OnTick(context.Background(), tick))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.OnTick(ctx, tick), context.DeadlineExceeded)

	close(release)
	require.NoError(t, e.Stop(context.Background()))
}
