package effectv1

import (
	marketv1 "github.com/muhammadchandra19/signal-engine/internal/domain/market/v1"
	windowv1 "github.com/muhammadchandra19/signal-engine/internal/domain/window/v1"
)

// Action is the qualitative outcome of an effect.
type Action string

const (
	// ActionWait means no actionable bias.
	ActionWait Action = "wait"
	// ActionBuy means a bullish bias.
	ActionBuy Action = "buy"
	// ActionSell means a bearish bias.
	ActionSell Action = "sell"
)

// Opposes reports whether a and b point in opposite directions.
func (a Action) Opposes(b Action) bool {
	return (a == ActionBuy && b == ActionSell) || (a == ActionSell && b == ActionBuy)
}

// Kind names the effect family.
type Kind string

const (
	// KindWall is derived from orderbook depth imbalance.
	KindWall Kind = "wall"
	// KindImpulse is derived from the active window volume delta.
	KindImpulse Kind = "impulse"
	// KindMarketDirection is derived from sealed window price movement.
	KindMarketDirection Kind = "market_direction"
)

// Effect is one classification result with the window it was computed from.
type Effect struct {
	Kind   Kind                 `json:"kind"`
	Symbol string               `json:"symbol"`
	Action Action               `json:"action"`
	Window windowv1.WindowStats `json:"window"`
}

// Effects is the full classification of one evaluation pass.
type Effects struct {
	Wall            Effect `json:"wall"`
	Impulse         Effect `json:"impulse"`
	MarketDirection Effect `json:"market_direction"`
}

// Input is the read-only state the classifier works on.
type Input struct {
	Symbol    string
	Current   windowv1.WindowStats
	Sealed    []windowv1.WindowStats
	Orderbook *marketv1.OrderbookSnapshot
}
