package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/signal-engine/pkg/questdb"
	"github.com/muhammadchandra19/signal-engine/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App         AppConfig         `envPrefix:"APP_"`
	Engine      EngineConfig      `envPrefix:"ENGINE_"`
	MarketKafka MarketKafkaConfig `envPrefix:"MARKET_KAFKA_"`
	SignalKafka SignalKafkaConfig `envPrefix:"SIGNAL_KAFKA_"`
	Sinks       SinksConfig       `envPrefix:"SINKS_"`
	Redis       redis.Config      `envPrefix:"REDIS_"`
	QuestDB     questdb.Config    `envPrefix:"QUESTDB_"`
}

// AppConfig represents the process level configuration.
type AppConfig struct {
	Name        string   `env:"NAME" envDefault:"signal-engine"`
	Environment string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":9100"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// EngineConfig represents the evaluation loop configuration.
type EngineConfig struct {
	WindowDuration   time.Duration `env:"WINDOW_DURATION" envDefault:"1m"`
	Retention        int           `env:"RETENTION" envDefault:"120"`
	QueueSize        int           `env:"QUEUE_SIZE" envDefault:"1024"`
	ReportBufferSize int           `env:"REPORT_BUFFER_SIZE" envDefault:"4096"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	ThresholdsFile   string        `env:"THRESHOLDS_FILE" envDefault:"thresholds.yaml"`

	MaxConcurrentSignalsPerDirection int `env:"MAX_CONCURRENT_SIGNALS_PER_DIRECTION" envDefault:"1"`
}

// MarketKafkaConfig represents the inbound market event topic.
type MarketKafkaConfig struct {
	Brokers       []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string        `env:"TOPIC" envDefault:"market-events"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"signal-engine"`
	MinBytes      int           `env:"MIN_BYTES" envDefault:"1"`
	MaxBytes      int           `env:"MAX_BYTES" envDefault:"10000000"`
	MaxWait       time.Duration `env:"MAX_WAIT" envDefault:"500ms"`
}

// SignalKafkaConfig represents the outbound signal event topic.
type SignalKafkaConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"true"`
	Brokers      []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic        string        `env:"TOPIC" envDefault:"signals"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
}

// SinksConfig toggles the optional signal sinks.
type SinksConfig struct {
	Cache                bool          `env:"CACHE_ENABLED" envDefault:"true"`
	History              bool          `env:"HISTORY_ENABLED" envDefault:"true"`
	HistoryBatchSize     int           `env:"HISTORY_BATCH_SIZE" envDefault:"64"`
	HistoryFlushInterval time.Duration `env:"HISTORY_FLUSH_INTERVAL" envDefault:"1s"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT" envDefault:"5s"`
}

// Load loads the configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadInto parses environment variables into any env-tagged struct.
func LoadInto[T any](cfg *T) error {
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}
