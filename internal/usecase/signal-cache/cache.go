package signalcache

import (
	"context"
	"encoding/json"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/redis"
)

const (
	openKeyPrefix = "signals:open:"
	// ClosedChannel receives one closed event per signal.
	ClosedChannel = "signals:closed"
)

// Cache mirrors the open signals of every symbol into a Redis hash
// and announces closures on a pub/sub channel.
type Cache struct {
	client redis.Client
	logger logger.Interface
}

var _ signalv1.Sink = (*Cache)(nil)

// NewCache creates a new Redis backed signal view.
func NewCache(client redis.Client, log logger.Interface) *Cache {
	return &Cache{
		client: client,
		logger: log,
	}
}

// OnSignalOpened stores the signal under its symbol's open hash.
func (c *Cache) OnSignalOpened(ctx context.Context, signal signalv1.Signal) error {
	value, err := json.Marshal(signal)
	if err != nil {
		return errors.TracerFromError(err)
	}

	if _, err := c.client.HSet(ctx, c.openKey(signal.Symbol), map[string]any{signal.ID: value}); err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "cache_open_signal"},
			logger.Field{Key: "signal_id", Value: signal.ID},
		)
		return err
	}
	return nil
}

// OnSignalClosed removes the signal from the open hash and publishes the closed event.
func (c *Cache) OnSignalClosed(ctx context.Context, signal signalv1.Signal, realizedPnL float64) error {
	if _, err := c.client.HDel(ctx, c.openKey(signal.Symbol), signal.ID); err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "cache_close_signal"},
			logger.Field{Key: "signal_id", Value: signal.ID},
		)
		return err
	}

	value, err := json.Marshal(signalv1.NewClosedEvent(signal, realizedPnL))
	if err != nil {
		return errors.TracerFromError(err)
	}
	if _, err := c.client.Publish(ctx, c.client.Key(ClosedChannel), value); err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "publish_closed_signal"},
			logger.Field{Key: "signal_id", Value: signal.ID},
		)
		return err
	}
	return nil
}

func (c *Cache) openKey(symbol string) string {
	return c.client.Key(openKeyPrefix + symbol)
}
