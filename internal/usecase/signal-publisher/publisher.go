package signalpublisher

import (
	"context"
	"encoding/json"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/util"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka Publisher for signal events, keyed by symbol so
// the events of one symbol stay ordered within a partition.
type Publisher struct {
	writer signalv1.MessageWriter
	logger logger.Interface
}

var _ signalv1.Sink = (*Publisher)(nil)

// NewKafkaWriter creates the writer of the signal topic.
func NewKafkaWriter(cfg config.SignalKafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewPublisher creates a new signal event publisher.
func NewPublisher(writer signalv1.MessageWriter, log logger.Interface) *Publisher {
	return &Publisher{
		writer: writer,
		logger: log,
	}
}

// OnSignalOpened publishes an opened event.
func (p *Publisher) OnSignalOpened(ctx context.Context, signal signalv1.Signal) error {
	return p.publish(ctx, signalv1.NewOpenedEvent(signal))
}

// OnSignalClosed publishes a closed event carrying the realized outcome.
func (p *Publisher) OnSignalClosed(ctx context.Context, signal signalv1.Signal, realizedPnL float64) error {
	return p.publish(ctx, signalv1.NewClosedEvent(signal, realizedPnL))
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, event signalv1.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.TracerFromError(err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Signal.Symbol),
		Value: value,
	}
	if id := util.GetRequestID(ctx); id != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "x-request-id", Value: []byte(id)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "publish_signal_event"},
			logger.Field{Key: "event", Value: event.Kind},
			logger.Field{Key: "signal_id", Value: event.Signal.ID},
		)
		return errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err)
	}
	return nil
}
