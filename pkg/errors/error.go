package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// InvalidTick represents a tick with malformed or negative values.
	InvalidTick ErrorCode = "invalid_tick"
	// OutOfOrderTick represents a tick older than the active window tolerance.
	OutOfOrderTick ErrorCode = "out_of_order_tick"
	// InvalidOrderbookSnapshot represents a snapshot with malformed levels.
	InvalidOrderbookSnapshot ErrorCode = "invalid_orderbook_snapshot"

	// UnknownSignal represents a lookup of a signal id that was never opened.
	UnknownSignal ErrorCode = "unknown_signal"
	// AlreadyClosed represents a close request on a signal that is no longer active.
	AlreadyClosed ErrorCode = "already_closed"
	// DuplicateSignal represents an attempt to open a signal id twice.
	DuplicateSignal ErrorCode = "duplicate_signal"

	// ConfigurationMissing represents absent or invalid threshold configuration.
	ConfigurationMissing ErrorCode = "configuration_missing"

	// EngineStopped represents an event delivered after the engine stopped accepting input.
	EngineStopped ErrorCode = "engine_stopped"

	// InvalidRequest represents an API request with missing or malformed parameters.
	InvalidRequest ErrorCode = "invalid_request"
	// HistoryDisabled represents a history query while the history sink is off.
	HistoryDisabled ErrorCode = "history_disabled"

	// MalformedMarketEvent represents a transport payload that cannot be decoded.
	MalformedMarketEvent ErrorCode = "malformed_market_event"
	// KafkaPublishError represents an error when writing to a kafka topic.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
	// RedisHDelError represents an error when deleting fields from a hash in Redis.
	RedisHDelError ErrorCode = "redis_hdel_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
)

// BaseError collects several ErrorDetails so a validation reports every problem at once.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError creates a BaseError holding details.
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

func (b *BaseError) AddErrorDetails(details ...*ErrorDetails) {
	b.details = append(b.details, details...)
}

func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error renders one "code: ...; error: ...; field: ..." line per detail.
func (b *BaseError) Error() string {
	lines := make([]string, 0, len(b.details)+1)
	lines = append(lines, "Error on")
	for _, d := range b.details {
		lines = append(lines, fmt.Sprintf("code: %s; error: %s; field: %s", d.Code, d.Message, d.Field))
	}
	return strings.Join(lines, "\n")
}

// PrependFields prefixes the field of every detail that has one.
func (b *BaseError) PrependFields(prefix string) {
	for _, d := range b.details {
		if d.Field != "" {
			d.Field = prefix + d.Field
		}
	}
}

// IsAllCodeEqual reports whether there is at least one detail and all of them carry code.
func (b *BaseError) IsAllCodeEqual(code string) bool {
	for _, d := range b.details {
		if d.Code != code {
			return false
		}
	}
	return len(b.details) > 0
}

// IsAnyCodeEqual reports whether some detail carries code.
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.details {
		if d.Code == code {
			return true
		}
	}
	return false
}
