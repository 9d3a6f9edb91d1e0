package marketv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Handler is the inbound port driven by the transport.
// Calls for one symbol are expected in non-decreasing timestamp order.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=marketv1_mock
type Handler interface {
	OnTick(ctx context.Context, tick Tick) error
	OnOrderbookSnapshot(ctx context.Context, snapshot OrderbookSnapshot) error
}

// MessageReader is the subset of kafka.Reader used by the market reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
