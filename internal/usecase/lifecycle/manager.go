package lifecycle

import (
	"sync"
	"time"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
)

// DefaultClosedRetention is how many closed signals per symbol stay readable through Get.
const DefaultClosedRetention = 1024

// book is the signal state of one symbol. Every transition of a signal of the
// symbol happens under mu, so a signal closes exactly once.
type book struct {
	mu     sync.Mutex
	open   []*signalv1.Signal
	counts map[signalv1.Direction]int
	closed []signalv1.Signal
}

// Manager owns every open signal and is the only place that closes one.
type Manager struct {
	logger          logger.Interface
	closedRetention int

	mu    sync.RWMutex
	books map[string]*book
	// index maps every id ever opened to its symbol; it is never pruned so
	// closed ids keep reporting AlreadyClosed.
	index map[string]string
}

var _ signalv1.Lifecycle = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithClosedRetention bounds the closed signals kept per symbol for Get.
func WithClosedRetention(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.closedRetention = n
		}
	}
}

// NewManager creates an empty lifecycle manager.
func NewManager(log logger.Interface, opts ...Option) *Manager {
	m := &Manager{
		logger:          log,
		closedRetention: DefaultClosedRetention,
		books:           make(map[string]*book),
		index:           make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open registers a new open signal.
func (m *Manager) Open(signal signalv1.Signal) error {
	if !signal.IsActive() {
		return errors.NewErrorDetails("signal is already closed", string(errors.AlreadyClosed), "close_price")
	}

	m.mu.Lock()
	if _, ok := m.index[signal.ID]; ok {
		m.mu.Unlock()
		return errors.NewErrorDetails("signal id is already registered", string(errors.DuplicateSignal), "id")
	}
	b := m.bookLocked(signal.Symbol)

	// the book is updated before the id becomes visible to ForceClose and Get
	b.mu.Lock()
	s := signal
	b.open = append(b.open, &s)
	b.counts[signal.Direction]++
	b.mu.Unlock()

	m.index[signal.ID] = signal.Symbol
	m.mu.Unlock()

	m.logger.Info("signal opened",
		logger.Field{Key: "action", Value: "open"},
		logger.Field{Key: "signal_id", Value: signal.ID},
		logger.Field{Key: "symbol", Value: signal.Symbol},
		logger.Field{Key: "direction", Value: signal.Direction},
		logger.Field{Key: "open_price", Value: signal.OpenPrice},
	)
	return nil
}

// Evaluate closes every open signal of symbol whose take-profit or stop-loss
// bound is reached at price. Re-evaluating the same price closes nothing new.
func (m *Manager) Evaluate(symbol string, price float64, at time.Time) []signalv1.ClosedSignal {
	b, ok := m.lookup(symbol)
	if !ok {
		return nil
	}

	b.mu.Lock()
	var closed []signalv1.ClosedSignal
	remaining := b.open[:0]
	for _, s := range b.open {
		if !s.ShouldClose(price) {
			remaining = append(remaining, s)
			continue
		}
		closed = append(closed, m.closeLocked(b, s, price, at, false))
	}
	clear(b.open[len(remaining):])
	b.open = remaining
	b.mu.Unlock()

	for _, c := range closed {
		m.logClosed("evaluate", c)
	}
	return closed
}

// ForceClose closes one open signal at price regardless of its bounds.
func (m *Manager) ForceClose(id string, price float64, at time.Time) (signalv1.ClosedSignal, error) {
	m.mu.RLock()
	symbol, ok := m.index[id]
	b := m.books[symbol]
	m.mu.RUnlock()
	if !ok {
		return signalv1.ClosedSignal{}, errors.NewErrorDetails("signal id was never opened", string(errors.UnknownSignal), "id")
	}

	b.mu.Lock()
	pos := -1
	for i, s := range b.open {
		if s.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		b.mu.Unlock()
		return signalv1.ClosedSignal{}, errors.NewErrorDetails("signal is already closed", string(errors.AlreadyClosed), "id")
	}
	closed := m.closeLocked(b, b.open[pos], price, at, true)
	b.open = append(b.open[:pos], b.open[pos+1:]...)
	b.mu.Unlock()

	m.logClosed("force_close", closed)
	return closed, nil
}

// ForceCloseAll force closes every open signal of symbol at price.
func (m *Manager) ForceCloseAll(symbol string, price float64, at time.Time) []signalv1.ClosedSignal {
	b, ok := m.lookup(symbol)
	if !ok {
		return nil
	}

	b.mu.Lock()
	closed := make([]signalv1.ClosedSignal, 0, len(b.open))
	for _, s := range b.open {
		closed = append(closed, m.closeLocked(b, s, price, at, true))
	}
	b.open = nil
	b.mu.Unlock()

	for _, c := range closed {
		m.logClosed("force_close_all", c)
	}
	return closed
}

// OpenCount returns the number of open signals for symbol in direction.
func (m *Manager) OpenCount(symbol string, direction signalv1.Direction) int {
	b, ok := m.lookup(symbol)
	if !ok {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[direction]
}

// OpenSignals returns copies of the open signals of symbol in opening order.
func (m *Manager) OpenSignals(symbol string) []signalv1.Signal {
	b, ok := m.lookup(symbol)
	if !ok {
		return []signalv1.Signal{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]signalv1.Signal, 0, len(b.open))
	for _, s := range b.open {
		out = append(out, *s)
	}
	return out
}

// Get returns a copy of an open or recently closed signal.
func (m *Manager) Get(id string) (signalv1.Signal, bool) {
	m.mu.RLock()
	symbol, ok := m.index[id]
	b := m.books[symbol]
	m.mu.RUnlock()
	if !ok {
		return signalv1.Signal{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.open {
		if s.ID == id {
			return *s, true
		}
	}
	for i := len(b.closed) - 1; i >= 0; i-- {
		if b.closed[i].ID == id {
			return b.closed[i], true
		}
	}
	return signalv1.Signal{}, false
}

// closeLocked stamps the closure on s and moves it to the closed history.
// Caller holds b.mu and removes s from b.open.
func (m *Manager) closeLocked(b *book, s *signalv1.Signal, price float64, at time.Time, forced bool) signalv1.ClosedSignal {
	closePrice := price
	closedAt := at
	s.ClosePrice = &closePrice
	s.ClosedAt = &closedAt
	s.IsForcedClosure = forced
	b.counts[s.Direction]--

	if m.closedRetention > 0 {
		b.closed = append(b.closed, *s)
		if over := len(b.closed) - m.closedRetention; over > 0 {
			b.closed = append(b.closed[:0:0], b.closed[over:]...)
		}
	}

	pnl, _ := s.RealizedPnL()
	return signalv1.ClosedSignal{Signal: *s, RealizedPnL: pnl}
}

func (m *Manager) logClosed(action string, c signalv1.ClosedSignal) {
	m.logger.Info("signal closed",
		logger.Field{Key: "action", Value: action},
		logger.Field{Key: "signal_id", Value: c.Signal.ID},
		logger.Field{Key: "symbol", Value: c.Signal.Symbol},
		logger.Field{Key: "direction", Value: c.Signal.Direction},
		logger.Field{Key: "close_price", Value: *c.Signal.ClosePrice},
		logger.Field{Key: "reason", Value: c.Signal.Reason()},
		logger.Field{Key: "realized_pnl", Value: c.RealizedPnL},
	)
}

func (m *Manager) lookup(symbol string) (*book, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[symbol]
	return b, ok
}

// bookLocked returns the book of symbol, creating it. Caller holds m.mu for writing.
func (m *Manager) bookLocked(symbol string) *book {
	b, ok := m.books[symbol]
	if !ok {
		b = &book{counts: make(map[signalv1.Direction]int)}
		m.books[symbol] = b
	}
	return b
}
