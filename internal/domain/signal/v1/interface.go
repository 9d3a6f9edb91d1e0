package signalv1

import (
	"context"
	"time"

	effectv1 "github.com/muhammadchandra19/signal-engine/internal/domain/effect/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=signalv1_mock

// OpenCounter is the read view the generator uses to enforce concurrency caps.
type OpenCounter interface {
	OpenCount(symbol string, direction Direction) int
}

// Candidate is the pass state the generator decides on.
type Candidate struct {
	Symbol  string
	Effects effectv1.Effects
	Price   float64
	At      time.Time
}

// Generator decides whether a pass justifies a new signal.
type Generator interface {
	Generate(candidate Candidate, counter OpenCounter, thresholds config.Thresholds) (Signal, bool)
}

// Lifecycle owns open signals and is the only component that closes them.
type Lifecycle interface {
	OpenCounter
	Open(signal Signal) error
	Evaluate(symbol string, price float64, at time.Time) []ClosedSignal
	ForceClose(id string, price float64, at time.Time) (ClosedSignal, error)
	ForceCloseAll(symbol string, price float64, at time.Time) []ClosedSignal
	OpenSignals(symbol string) []Signal
	Get(id string) (Signal, bool)
}

// Sink is the outbound reporting port.
// OnSignalClosed is called exactly once per signal.
type Sink interface {
	OnSignalOpened(ctx context.Context, signal Signal) error
	OnSignalClosed(ctx context.Context, signal Signal, realizedPnL float64) error
}

// Repository persists signal events.
type Repository interface {
	Store(ctx context.Context, event Event) error
	StoreBatch(ctx context.Context, events []Event) error
}

// MessageWriter is the subset of kafka.Writer used by the signal publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
