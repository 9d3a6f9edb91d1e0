package aggregator

import (
	"sort"
	"sync"
	"time"

	marketv1 "github.com/muhammadchandra19/signal-engine/internal/domain/market/v1"
	windowv1 "github.com/muhammadchandra19/signal-engine/internal/domain/window/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/interval"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
)

// series holds the windows of one symbol. Only one goroutine ingests into a series
// at a time; the lock lets other goroutines read consistent copies.
type series struct {
	mu        sync.RWMutex
	current   *windowv1.WindowStats
	sealed    []windowv1.WindowStats
	lastClose float64
	lastTick  time.Time
}

// Aggregator buckets ticks into fixed windows aligned to the interval duration.
type Aggregator struct {
	interval  interval.Interval
	retention int
	logger    logger.Interface

	mu     sync.RWMutex
	series map[string]*series
}

var _ windowv1.Aggregator = (*Aggregator)(nil)

// NewAggregator creates an aggregator keeping at most retention sealed windows per symbol.
func NewAggregator(iv interval.Interval, retention int, log logger.Interface) *Aggregator {
	if retention < 1 {
		retention = 1
	}
	return &Aggregator{
		interval:  iv,
		retention: retention,
		logger:    log,
		series:    make(map[string]*series),
	}
}

// Ingest folds tick into the active window of its symbol. latest reports whether
// tick is at or after every tick seen so far for the symbol; an older tick only adds
// volume and range and leaves the close price alone.
func (a *Aggregator) Ingest(tick marketv1.Tick) (latest bool, err error) {
	if err := tick.Validate(); err != nil {
		a.logger.Warn("dropping invalid tick",
			logger.Field{Key: "action", Value: "ingest"},
			logger.Field{Key: "symbol", Value: tick.Symbol},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		return false, err
	}

	s := a.seriesFor(tick.Symbol)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		s.current = a.openWindow(tick.Symbol, tick.Timestamp)
		s.advance(tick)
		return true, nil
	}

	switch {
	case tick.Timestamp.Before(s.current.Start):
		lateness := s.current.Start.Sub(tick.Timestamp)
		if lateness > a.interval.Duration {
			a.logger.Warn("dropping out of order tick",
				logger.Field{Key: "action", Value: "ingest"},
				logger.Field{Key: "symbol", Value: tick.Symbol},
				logger.Field{Key: "timestamp", Value: tick.Timestamp},
				logger.Field{Key: "window_start", Value: s.current.Start},
				logger.Field{Key: "lateness", Value: lateness.String()},
			)
			return false, errors.NewErrorDetails("tick is older than the active window tolerance", string(errors.OutOfOrderTick), "timestamp")
		}
		applyLate(s.current, tick)
		return false, nil

	case tick.Timestamp.Before(s.lastTick):
		applyLate(s.current, tick)
		return false, nil

	case !tick.Timestamp.Before(s.current.End):
		a.roll(s, tick.Timestamp)
	}

	s.advance(tick)
	return true, nil
}

// advance applies the newest tick of the series. Caller holds s.mu.
func (s *series) advance(tick marketv1.Tick) {
	apply(s.current, tick)
	s.lastClose = s.current.PriceClose
	s.lastTick = tick.Timestamp
}

// CurrentWindow returns a copy of the active window.
func (a *Aggregator) CurrentWindow(symbol string) (windowv1.WindowStats, bool) {
	s, ok := a.lookup(symbol)
	if !ok {
		return windowv1.WindowStats{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return windowv1.WindowStats{}, false
	}
	return *s.current, true
}

// Windows returns up to count most recent sealed windows, oldest first.
func (a *Aggregator) Windows(symbol string, count int) []windowv1.WindowStats {
	if count <= 0 {
		return []windowv1.WindowStats{}
	}
	s, ok := a.lookup(symbol)
	if !ok {
		return []windowv1.WindowStats{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	from := max(len(s.sealed)-count, 0)
	out := make([]windowv1.WindowStats, len(s.sealed)-from)
	copy(out, s.sealed[from:])
	return out
}

// Symbols returns every symbol seen so far in lexical order.
func (a *Aggregator) Symbols() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	symbols := make([]string, 0, len(a.series))
	for symbol := range a.series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func (a *Aggregator) lookup(symbol string) (*series, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.series[symbol]
	return s, ok
}

func (a *Aggregator) seriesFor(symbol string) *series {
	if s, ok := a.lookup(symbol); ok {
		return s
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.series[symbol]; ok {
		return s
	}
	s := &series{}
	a.series[symbol] = s
	return s
}

func (a *Aggregator) openWindow(symbol string, ts time.Time) *windowv1.WindowStats {
	start, end := a.interval.GetBucketRange(ts)
	return &windowv1.WindowStats{Symbol: symbol, Start: start, End: end}
}

// roll seals the active window, emits empty windows for skipped buckets and opens
// the bucket containing ts. Caller holds s.mu.
func (a *Aggregator) roll(s *series, ts time.Time) {
	symbol := s.current.Symbol
	previousStart := s.current.Start
	a.seal(s, *s.current)

	gaps := a.interval.BucketsBetween(previousStart, ts) - 1
	if gaps > 0 {
		// older gap windows would be evicted right away
		gaps = min(gaps, int64(a.retention))
		bucket := a.interval.CalculateBucketTime(ts)
		for i := gaps; i >= 1; i-- {
			start := bucket.Add(-time.Duration(i) * a.interval.Duration)
			a.seal(s, windowv1.WindowStats{
				Symbol:     symbol,
				Start:      start,
				End:        start.Add(a.interval.Duration),
				PriceOpen:  s.lastClose,
				PriceClose: s.lastClose,
				PriceHigh:  s.lastClose,
				PriceLow:   s.lastClose,
			})
		}
	}

	s.current = a.openWindow(symbol, ts)
}

func (a *Aggregator) seal(s *series, w windowv1.WindowStats) {
	w.Sealed = true
	s.sealed = append(s.sealed, w)
	if over := len(s.sealed) - a.retention; over > 0 {
		s.sealed = append(s.sealed[:0:0], s.sealed[over:]...)
	}
}

func apply(w *windowv1.WindowStats, tick marketv1.Tick) {
	if w.TradeCount == 0 {
		w.PriceOpen = tick.Price
		w.PriceHigh = tick.Price
		w.PriceLow = tick.Price
	}
	w.PriceClose = tick.Price
	applyLate(w, tick)
}

// applyLate counts a tick older than the newest one seen: volume and range only.
func applyLate(w *windowv1.WindowStats, tick marketv1.Tick) {
	if tick.Side == marketv1.SideBuy {
		w.BuyVolume += tick.Volume
	} else {
		w.SellVolume += tick.Volume
	}
	if tick.Price > w.PriceHigh {
		w.PriceHigh = tick.Price
	}
	if tick.Price < w.PriceLow {
		w.PriceLow = tick.Price
	}
	w.TradeCount++
}
