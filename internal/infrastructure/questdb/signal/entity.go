package signal

import (
	"time"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
)

// Event is one row of the signal_events table.
type Event struct {
	Timestamp        time.Time `json:"timestamp"`
	SignalID         string    `json:"signal_id"`
	Symbol           string    `json:"symbol"`
	Direction        string    `json:"direction"`
	Event            string    `json:"event"`
	CreatedAt        time.Time `json:"created_at"`
	OpenPrice        float64   `json:"open_price"`
	TakeProfitPrice  float64   `json:"take_profit_price"`
	StopLossPrice    float64   `json:"stop_loss_price"`
	TradingFeeAmount float64   `json:"trading_fee_amount"`
	ClosePrice       *float64  `json:"close_price,omitempty"`
	RealizedPnL      *float64  `json:"realized_pnl,omitempty"`
	Forced           bool      `json:"forced"`
}

// FromSignalEvent maps a domain event to its row.
func FromSignalEvent(e signalv1.Event) *Event {
	return &Event{
		Timestamp:        e.OccurredAt,
		SignalID:         e.Signal.ID,
		Symbol:           e.Signal.Symbol,
		Direction:        string(e.Signal.Direction),
		Event:            string(e.Kind),
		CreatedAt:        e.Signal.CreatedAt,
		OpenPrice:        e.Signal.OpenPrice,
		TakeProfitPrice:  e.Signal.TakeProfitPrice,
		StopLossPrice:    e.Signal.StopLossPrice,
		TradingFeeAmount: e.Signal.TradingFeeAmount,
		ClosePrice:       e.Signal.ClosePrice,
		RealizedPnL:      e.RealizedPnL,
		Forced:           e.Signal.IsForcedClosure,
	}
}

func (e *Event) values() []any {
	return []any{
		e.Timestamp,
		e.SignalID,
		e.Symbol,
		e.Direction,
		e.Event,
		e.CreatedAt,
		e.OpenPrice,
		e.TakeProfitPrice,
		e.StopLossPrice,
		e.TradingFeeAmount,
		e.ClosePrice,
		e.RealizedPnL,
		e.Forced,
	}
}

// Filter represents the filter criteria for signal history.
type Filter struct {
	Symbol   string
	SignalID string
	From     *time.Time
	To       *time.Time
	Limit    int
}
