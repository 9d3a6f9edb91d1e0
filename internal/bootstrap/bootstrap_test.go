package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	redis_mock "github.com/muhammadchandra19/signal-engine/pkg/redis/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "signal-engine", HTTPAddr: "127.0.0.1:0"},
		Engine: config.EngineConfig{
			WindowDuration:   time.Minute,
			Retention:        16,
			QueueSize:        8,
			ReportBufferSize: 8,
			ShutdownTimeout:  time.Second,
		},
		MarketKafka: config.MarketKafkaConfig{
			Brokers:       []string{"127.0.0.1:9092"},
			Topic:         "market-events",
			ConsumerGroup: "signal-engine-test",
			MinBytes:      1,
			MaxBytes:      1024,
			MaxWait:       10 * time.Millisecond,
		},
		Sinks: config.SinksConfig{
			HistoryBatchSize: 4,
			SinkTimeout:      time.Second,
		},
	}
}

func testThresholds() *config.ThresholdSet {
	return config.NewThresholdSet(&config.Thresholds{
		WallVolumeThreshold:              10,
		WallRatio:                        2,
		ImpulseVolumeThreshold:           100,
		DirectionWindows:                 3,
		TakeProfitAmount:                 50,
		StopLossAmount:                   30,
		TradingFeeAmount:                 1,
		MaxConcurrentSignalsPerDirection: 1,
	}, nil)
}

func health(t *testing.T, b *Bootstrap) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	b.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec.Code, rec.Body.String()
}

func TestBootstrap_Init(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	testCases := []struct {
		name     string
		mockFn   func(cfg *BootstrapConfig)
		assertFn func(t *testing.T, b *Bootstrap)
	}{
		{
			name:   "optional sinks disabled",
			mockFn: func(cfg *BootstrapConfig) {},
			assertFn: func(t *testing.T, b *Bootstrap) {
				assert.Nil(t, b.Usecase.Publisher)
				assert.Nil(t, b.Usecase.Cache)
				assert.Nil(t, b.Usecase.Recorder)
				assert.Nil(t, b.Repository.SignalRepository)
				assert.Empty(t, b.closers)

				rec := httptest.NewRecorder()
				b.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/symbols/BTCUSD/history", nil))
				assert.Equal(t, http.StatusNotImplemented, rec.Code)

				code, body := health(t, b)
				assert.Equal(t, http.StatusServiceUnavailable, code)
				assert.Contains(t, body, "engine: engine is not running")

				require.NoError(t, b.Engine.Start())
				code, _ = health(t, b)
				assert.Equal(t, http.StatusOK, code)
			},
		},
		{
			name: "redis cache wired with health check",
			mockFn: func(cfg *BootstrapConfig) {
				rclient := redis_mock.NewMockClient(ctrl)
				rclient.EXPECT().Ping(gomock.Any()).Return(fmt.Errorf("connection refused"))
				cfg.Redis = rclient
			},
			assertFn: func(t *testing.T, b *Bootstrap) {
				assert.NotNil(t, b.Usecase.Cache)

				require.NoError(t, b.Engine.Start())
				code, body := health(t, b)
				assert.Equal(t, http.StatusServiceUnavailable, code)
				assert.Contains(t, body, "redis: connection refused")
				assert.NotContains(t, body, "engine:")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := BootstrapConfig{
				Config:     testConfig(),
				Thresholds: testThresholds(),
				Logger:     logger.NewNop(),
			}
			tc.mockFn(&cfg)

			b := &Bootstrap{}
			require.NoError(t, b.Init(cfg))
			defer func() {
				_ = b.Reader.Stop()
				_ = b.Engine.Stop(context.Background())
			}()

			assert.NotNil(t, b.Engine)
			assert.NotNil(t, b.Usecase.Dispatcher)
			tc.assertFn(t, b)
		})
	}
}

func TestBootstrap_InitInvalidWindow(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.WindowDuration = 0

	b := &Bootstrap{}
	err := b.Init(BootstrapConfig{Config: cfg, Thresholds: testThresholds(), Logger: logger.NewNop()})
	assert.Error(t, err)
}
