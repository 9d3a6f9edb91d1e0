package generator

import (
	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/oklog/ulid/v2"
)

// Generator opens at most one signal per pass when the market direction is
// confirmed and no opposing wall or impulse is present.
type Generator struct {
	newID func() string
}

var _ signalv1.Generator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithIDGenerator overrides the ULID based id source.
func WithIDGenerator(fn func() string) Option {
	return func(g *Generator) {
		g.newID = fn
	}
}

// NewGenerator creates a new signal generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		newID: func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a new open signal when the candidate justifies one.
func (g *Generator) Generate(candidate signalv1.Candidate, counter signalv1.OpenCounter, thresholds config.Thresholds) (signalv1.Signal, bool) {
	direction, ok := signalv1.DirectionFromAction(candidate.Effects.MarketDirection.Action)
	if !ok {
		return signalv1.Signal{}, false
	}

	action := direction.Action()
	if candidate.Effects.Wall.Action.Opposes(action) || candidate.Effects.Impulse.Action.Opposes(action) {
		return signalv1.Signal{}, false
	}

	if counter.OpenCount(candidate.Symbol, direction) >= thresholds.MaxConcurrentSignalsPerDirection {
		return signalv1.Signal{}, false
	}

	return g.newSignal(candidate, direction, thresholds), true
}

func (g *Generator) newSignal(candidate signalv1.Candidate, direction signalv1.Direction, thresholds config.Thresholds) signalv1.Signal {
	sign := 1.0
	if direction == signalv1.DirectionSell {
		sign = -1.0
	}

	return signalv1.Signal{
		ID:               g.newID(),
		Symbol:           candidate.Symbol,
		Direction:        direction,
		CreatedAt:        candidate.At,
		OpenPrice:        candidate.Price,
		TakeProfitPrice:  candidate.Price + sign*thresholds.TakeProfitAmount,
		StopLossPrice:    candidate.Price - sign*thresholds.StopLossAmount,
		TradingFeeAmount: thresholds.TradingFeeAmount,
	}
}
