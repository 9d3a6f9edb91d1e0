package signalv1

import (
	"time"

	effectv1 "github.com/muhammadchandra19/signal-engine/internal/domain/effect/v1"
)

// Direction is the side a signal bets on.
type Direction string

const (
	// DirectionBuy profits when price rises.
	DirectionBuy Direction = "buy"
	// DirectionSell profits when price falls.
	DirectionSell Direction = "sell"
)

// Directions lists every direction, used to iterate per-direction counters.
var Directions = []Direction{DirectionBuy, DirectionSell}

// DirectionFromAction maps a buy or sell action to a direction.
func DirectionFromAction(action effectv1.Action) (Direction, bool) {
	switch action {
	case effectv1.ActionBuy:
		return DirectionBuy, true
	case effectv1.ActionSell:
		return DirectionSell, true
	}
	return "", false
}

// Action returns the effect action that agrees with the direction.
func (d Direction) Action() effectv1.Action {
	if d == DirectionBuy {
		return effectv1.ActionBuy
	}
	return effectv1.ActionSell
}

// Signal is a directional trading hypothesis with TP/SL exit bounds.
// ClosePrice is set exactly once when the signal leaves the open state.
type Signal struct {
	ID               string     `json:"id"`
	Symbol           string     `json:"symbol"`
	Direction        Direction  `json:"direction"`
	CreatedAt        time.Time  `json:"created_at"`
	OpenPrice        float64    `json:"open_price"`
	TakeProfitPrice  float64    `json:"take_profit_price"`
	StopLossPrice    float64    `json:"stop_loss_price"`
	TradingFeeAmount float64    `json:"trading_fee_amount"`
	ClosePrice       *float64   `json:"close_price,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	IsForcedClosure  bool       `json:"is_forced_closure,omitempty"`
}

// IsActive reports whether the signal is still open.
func (s Signal) IsActive() bool {
	return s.ClosePrice == nil
}

// RealizedPnL returns the direction-aware outcome net of fee; ok is false while open.
func (s Signal) RealizedPnL() (pnl float64, ok bool) {
	if s.ClosePrice == nil {
		return 0, false
	}
	closePrice := *s.ClosePrice
	if s.Direction == DirectionBuy {
		return closePrice - s.OpenPrice - s.TradingFeeAmount, true
	}
	return s.OpenPrice - closePrice - s.TradingFeeAmount, true
}

// ShouldClose reports whether price reaches the take-profit or stop-loss bound.
func (s Signal) ShouldClose(price float64) bool {
	if s.Direction == DirectionBuy {
		return price >= s.TakeProfitPrice || price <= s.StopLossPrice
	}
	return price <= s.TakeProfitPrice || price >= s.StopLossPrice
}

// ClosureReason names why a signal closed.
type ClosureReason string

const (
	// ClosureTakeProfit is a natural close at or beyond the take-profit bound.
	ClosureTakeProfit ClosureReason = "take_profit"
	// ClosureStopLoss is a natural close at or beyond the stop-loss bound.
	ClosureStopLoss ClosureReason = "stop_loss"
	// ClosureForced is a close requested by the caller.
	ClosureForced ClosureReason = "forced"
)

// Reason classifies a closed signal; empty while open.
func (s Signal) Reason() ClosureReason {
	switch {
	case s.ClosePrice == nil:
		return ""
	case s.IsForcedClosure:
		return ClosureForced
	case s.Direction == DirectionBuy && *s.ClosePrice >= s.TakeProfitPrice,
		s.Direction == DirectionSell && *s.ClosePrice <= s.TakeProfitPrice:
		return ClosureTakeProfit
	default:
		return ClosureStopLoss
	}
}

// ClosedSignal is a signal that just transitioned to closed, with its outcome.
type ClosedSignal struct {
	Signal      Signal  `json:"signal"`
	RealizedPnL float64 `json:"realized_pnl"`
}

// EventKind discriminates outbound signal events.
type EventKind string

const (
	// EventOpened is emitted once when a signal opens.
	EventOpened EventKind = "opened"
	// EventClosed is emitted once when a signal closes.
	EventClosed EventKind = "closed"
)

// Event is the serialized form outbound sinks persist or publish.
type Event struct {
	Kind        EventKind `json:"event"`
	OccurredAt  time.Time `json:"occurred_at"`
	Signal      Signal    `json:"signal"`
	RealizedPnL *float64  `json:"realized_pnl,omitempty"`
}

// NewOpenedEvent builds the event for a freshly opened signal.
func NewOpenedEvent(signal Signal) Event {
	return Event{Kind: EventOpened, OccurredAt: signal.CreatedAt, Signal: signal}
}

// NewClosedEvent builds the event for a closed signal.
func NewClosedEvent(signal Signal, realizedPnL float64) Event {
	occurredAt := signal.CreatedAt
	if signal.ClosedAt != nil {
		occurredAt = *signal.ClosedAt
	}
	return Event{Kind: EventClosed, OccurredAt: occurredAt, Signal: signal, RealizedPnL: &realizedPnL}
}
