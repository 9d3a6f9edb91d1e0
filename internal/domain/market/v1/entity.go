package marketv1

import (
	"math"
	"time"

	"github.com/muhammadchandra19/signal-engine/pkg/errors"
)

// Side is the aggressor side of a trade.
type Side string

const (
	// SideBuy is a trade initiated by a buyer.
	SideBuy Side = "buy"
	// SideSell is a trade initiated by a seller.
	SideSell Side = "sell"
)

// Tick is a single normalized trade print.
type Tick struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	Side      Side      `json:"side"`
}

// Validate rejects ticks that cannot be aggregated.
func (t Tick) Validate() error {
	switch {
	case t.Symbol == "":
		return errors.NewErrorDetails("tick symbol is empty", string(errors.InvalidTick), "symbol")
	case t.Timestamp.IsZero():
		return errors.NewErrorDetails("tick timestamp is zero", string(errors.InvalidTick), "timestamp")
	case !finite(t.Price) || t.Price <= 0:
		return errors.NewErrorDetails("tick price must be a positive number", string(errors.InvalidTick), "price")
	case !finite(t.Volume) || t.Volume < 0:
		return errors.NewErrorDetails("tick volume must be a non-negative number", string(errors.InvalidTick), "volume")
	case t.Side != SideBuy && t.Side != SideSell:
		return errors.NewErrorDetails("tick side must be buy or sell", string(errors.InvalidTick), "side")
	}
	return nil
}

// PriceLevel is one aggregated orderbook level.
type PriceLevel struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// OrderbookSnapshot is a point in time view of the book.
// Bids are ordered best (highest) first, asks best (lowest) first.
type OrderbookSnapshot struct {
	Symbol    string       `json:"symbol"`
	Timestamp time.Time    `json:"timestamp"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
}

// Validate rejects snapshots with negative or unordered levels.
func (s OrderbookSnapshot) Validate() error {
	if s.Symbol == "" {
		return errors.NewErrorDetails("snapshot symbol is empty", string(errors.InvalidOrderbookSnapshot), "symbol")
	}
	if err := validateLevels(s.Bids, "bids", func(prev, next float64) bool { return next <= prev }); err != nil {
		return err
	}
	return validateLevels(s.Asks, "asks", func(prev, next float64) bool { return next >= prev })
}

// NearestBid returns the best bid level.
func (s OrderbookSnapshot) NearestBid() (PriceLevel, bool) {
	if len(s.Bids) == 0 {
		return PriceLevel{}, false
	}
	return s.Bids[0], true
}

// NearestAsk returns the best ask level.
func (s OrderbookSnapshot) NearestAsk() (PriceLevel, bool) {
	if len(s.Asks) == 0 {
		return PriceLevel{}, false
	}
	return s.Asks[0], true
}

func validateLevels(levels []PriceLevel, field string, ordered func(prev, next float64) bool) error {
	for i, level := range levels {
		if !finite(level.Price) || level.Price <= 0 || !finite(level.Volume) || level.Volume < 0 {
			return errors.NewErrorDetails("orderbook level has invalid price or volume", string(errors.InvalidOrderbookSnapshot), field)
		}
		if i > 0 && !ordered(levels[i-1].Price, level.Price) {
			return errors.NewErrorDetails("orderbook levels are not ordered best first", string(errors.InvalidOrderbookSnapshot), field)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EventType discriminates market events on the wire.
type EventType string

const (
	// EventTypeTrade carries a Tick.
	EventTypeTrade EventType = "trade"
	// EventTypeOrderbook carries an OrderbookSnapshot.
	EventTypeOrderbook EventType = "orderbook"
)

// MarketEvent is the transport envelope of the market topic.
type MarketEvent struct {
	Type      EventType          `json:"type"`
	Trade     *Tick              `json:"trade,omitempty"`
	Orderbook *OrderbookSnapshot `json:"orderbook,omitempty"`
}

// Symbol returns the symbol of the wrapped payload, used as the message key.
func (e MarketEvent) Symbol() string {
	switch {
	case e.Trade != nil:
		return e.Trade.Symbol
	case e.Orderbook != nil:
		return e.Orderbook.Symbol
	}
	return ""
}
