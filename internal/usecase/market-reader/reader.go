package marketreader

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"time"

	marketv1 "github.com/muhammadchandra19/signal-engine/internal/domain/market/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/util"
	"github.com/segmentio/kafka-go"
)

// RequestIDHeader is the message header carrying an upstream request id.
const RequestIDHeader = "x-request-id"

const fetchRetryDelay = 200 * time.Millisecond

// Reader consumes the market topic and drives the inbound handler.
type Reader struct {
	reader  marketv1.MessageReader
	handler marketv1.Handler
	logger  logger.Interface
}

// NewKafkaReader creates the consumer group reader of the market topic.
func NewKafkaReader(cfg config.MarketKafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.LastOffset,
	})
}

// NewReader creates a new market event reader.
func NewReader(reader marketv1.MessageReader, handler marketv1.Handler, log logger.Interface) *Reader {
	return &Reader{
		reader:  reader,
		handler: handler,
		logger:  log,
	}
}

// Start consumes until ctx ends, the reader is closed or the handler stops accepting events.
// A message is committed once it was handed over or found unusable.
func (r *Reader) Start(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting market reader", logger.Field{
		Key:   "action",
		Value: "market_reader_start",
	})

	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				r.logger.InfoContext(ctx, "market reader stopped", logger.Field{
					Key:   "action",
					Value: "market_reader_stop",
				})
				return nil
			}
			r.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.Field{
				Key:   "action",
				Value: "fetch_message",
			})
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		msgCtx := util.WithRequestID(ctx, requestID(msg))
		if err := r.handle(msgCtx, msg); err != nil {
			if errors.ErrorCodeEquals(err, string(errors.EngineStopped)) || ctx.Err() != nil {
				// left uncommitted so the next consumer picks it up
				r.logger.WarnContext(msgCtx, "market reader halted before handing over message",
					logger.Field{Key: "action", Value: "handle_message"},
					logger.Field{Key: "offset", Value: msg.Offset},
				)
				return nil
			}
			r.logger.WarnContext(msgCtx, "skipping market event",
				logger.Field{Key: "action", Value: "handle_message"},
				logger.Field{Key: "partition", Value: msg.Partition},
				logger.Field{Key: "offset", Value: msg.Offset},
				logger.Field{Key: "reason", Value: err.Error()},
			)
		}

		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			r.logger.ErrorContext(msgCtx, err, logger.Field{
				Key:   "action",
				Value: "commit_message",
			})
		}
	}
}

// Stop closes the underlying reader, which ends Start.
func (r *Reader) Stop() error {
	r.logger.Info("stopping market reader", logger.Field{
		Key:   "action",
		Value: "market_reader_stop",
	})
	return r.reader.Close()
}

func (r *Reader) handle(ctx context.Context, msg kafka.Message) error {
	event, err := Decode(msg.Value)
	if err != nil {
		return err
	}

	ctx = util.WithSymbol(ctx, event.Symbol())
	switch event.Type {
	case marketv1.EventTypeTrade:
		return r.handler.OnTick(ctx, *event.Trade)
	default:
		return r.handler.OnOrderbookSnapshot(ctx, *event.Orderbook)
	}
}

// Decode parses a market topic payload and checks the envelope is consistent.
func Decode(value []byte) (marketv1.MarketEvent, error) {
	var event marketv1.MarketEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return marketv1.MarketEvent{}, errors.NewErrorDetails("payload is not a market event: "+err.Error(), string(errors.MalformedMarketEvent), "")
	}

	switch event.Type {
	case marketv1.EventTypeTrade:
		if event.Trade == nil {
			return marketv1.MarketEvent{}, errors.NewErrorDetails("trade event without trade payload", string(errors.MalformedMarketEvent), "trade")
		}
	case marketv1.EventTypeOrderbook:
		if event.Orderbook == nil {
			return marketv1.MarketEvent{}, errors.NewErrorDetails("orderbook event without orderbook payload", string(errors.MalformedMarketEvent), "orderbook")
		}
	default:
		return marketv1.MarketEvent{}, errors.NewErrorDetails("unknown market event type", string(errors.MalformedMarketEvent), "type")
	}
	return event, nil
}

func requestID(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == RequestIDHeader {
			return string(h.Value)
		}
	}
	return ""
}
