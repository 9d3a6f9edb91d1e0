package redis

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger logger.Interface
	config *Config
	rdb    redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger logger.Interface, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

// validate collects every invalid setting so a misconfiguration is reported at once.
func (c *client) validate() error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	}

	baseErr := errors.NewBaseError()
	add := func(message, field string) {
		baseErr.AddErrorDetails(errors.NewErrorDetails(message, string(errors.RedisConfigError), field))
	}

	if len(c.config.Addrs) == 0 {
		add("Redis addresses are empty", "addrs")
	}
	if c.config.Mode != Standalone && c.config.Mode != Cluster {
		add("Invalid Redis mode", "mode")
	}
	if c.config.ConnectTimeout <= 0 {
		add("Invalid Redis connect timeout", "connect_timeout")
	}
	if c.config.PoolSize <= 0 {
		add("Invalid Redis pool size", "pool_size")
	}
	if c.config.MaxIdleConns < 0 {
		add("Invalid Redis max idle connections", "max_idle_conns")
	}
	if c.config.ConnMaxLifetime <= 0 {
		add("Invalid Redis connection max lifetime", "conn_max_lifetime")
	}
	if c.config.ConnMaxIdleTime <= 0 {
		add("Invalid Redis connection max idle time", "conn_max_idle_time")
	}
	if c.config.PoolTimeout <= 0 {
		add("Invalid Redis pool timeout", "pool_timeout")
	}
	if c.config.MaxRetries < 0 {
		add("Invalid Redis max retries", "max_retries")
	}
	if c.config.MinRetryBackoff < 0 {
		add("Invalid Redis minimum retry backoff", "min_retry_backoff")
	}
	if c.config.MaxRetryBackoff < 0 {
		add("Invalid Redis maximum retry backoff", "max_retry_backoff")
	}

	if baseErr.HasDetails() {
		return baseErr
	}
	return nil
}

func (c *client) options() *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:           c.config.Addrs,
		Username:        c.config.Username,
		Password:        c.config.Password,
		DB:              c.config.DB,
		MaxRetries:      c.config.MaxRetries,
		MinRetryBackoff: c.config.MinRetryBackoff,
		MaxRetryBackoff: c.config.MaxRetryBackoff,
		DialTimeout:     c.config.ConnectTimeout,
		ReadTimeout:     c.config.ConnectTimeout,
		WriteTimeout:    c.config.ConnectTimeout,
		PoolSize:        c.config.PoolSize,
		PoolTimeout:     c.config.PoolTimeout,
		MinIdleConns:    c.config.MinIdleConns,
		MaxIdleConns:    c.config.MaxIdleConns,
		ConnMaxLifetime: c.config.ConnMaxLifetime,
		ConnMaxIdleTime: c.config.ConnMaxIdleTime,
	}
}

// Connect validates the config, dials and pings. A previous connection is replaced.
func (c *client) Connect(ctx context.Context) error {
	if err := c.validate(); err != nil {
		return err
	}

	var rdb redis.UniversalClient
	if c.config.Mode == Cluster {
		rdb = redis.NewClusterClient(c.options().Cluster())
	} else {
		// standalone talks to the first address only
		rdb = redis.NewClient(c.options().Simple())
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return errors.NewTracer(string(errors.RedisConnectionError)).Wrap(err)
	}

	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	c.rdb = rdb
	return nil
}

// Reconnect retries Connect up to ReconnectMaxRetries times with exponential backoff
// plus up to one second of jitter. It returns false when every attempt failed or ctx ended.
func (c *client) Reconnect(ctx context.Context) bool {
	if c.config == nil {
		return false
	}

	for attempt := 1; attempt <= c.config.ReconnectMaxRetries; attempt++ {
		backoff := c.config.MinRetryBackoff << (attempt - 1)
		if backoff <= 0 || backoff > c.config.MaxRetryBackoff {
			backoff = c.config.MaxRetryBackoff
		}
		delay := backoff + rand.N(time.Second)

		c.logger.Info("reconnecting to redis",
			logger.Field{Key: "action", Value: "reconnect_redis"},
			logger.Field{Key: "attempt", Value: attempt},
			logger.Field{Key: "delay", Value: delay.String()},
		)

		select {
		case <-ctx.Done():
			c.logger.Warn("redis reconnect cancelled",
				logger.Field{Key: "action", Value: "reconnect_redis"},
				logger.Field{Key: "reason", Value: ctx.Err().Error()},
			)
			return false
		case <-time.After(delay):
		}

		connectCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
		err := c.Connect(connectCtx)
		cancel()
		if err == nil {
			c.logger.Info("reconnected to redis",
				logger.Field{Key: "action", Value: "reconnect_redis"},
				logger.Field{Key: "attempt", Value: attempt},
			)
			return true
		}
		if !errors.ErrorCodeEquals(err, string(errors.RedisConnectionError)) {
			// configuration problems do not heal by waiting
			c.logger.Error(err, logger.Field{Key: "action", Value: "reconnect_redis"})
			return false
		}
		c.logger.Error(errors.TracerFromError(err),
			logger.Field{Key: "action", Value: "reconnect_redis"},
			logger.Field{Key: "attempt", Value: attempt},
		)
	}

	return false
}

func (c *client) Disconnect(_ context.Context) error {
	if c.rdb == nil {
		return nil
	}
	err := c.rdb.Close()
	c.rdb = nil
	if err != nil {
		return errors.NewTracer(string(errors.RedisDisconnectionError)).Wrap(err)
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return errors.NewErrorDetails("redis is not connected", string(errors.RedisPingError), "ping")
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.NewTracer(string(errors.RedisPingError)).Wrap(err)
	}
	return nil
}

func (c *client) Key(key string) string {
	return c.config.PrefixKey + key
}

func (c *client) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	affected, err := c.rdb.HSet(ctx, key, values).Result()
	if err != nil {
		return 0, errors.NewTracer(string(errors.RedisHSetError)).Wrap(err)
	}
	return affected, nil
}

func (c *client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	deleted, err := c.rdb.HDel(ctx, key, fields...).Result()
	if err != nil {
		return 0, errors.NewTracer(string(errors.RedisHDelError)).Wrap(err)
	}
	return deleted, nil
}

// Publish sends message to channel and returns the number of receivers.
// Zero receivers is not an error.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	received, err := c.rdb.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, errors.NewTracer(string(errors.RedisPublishError)).Wrap(err)
	}
	return received, nil
}
