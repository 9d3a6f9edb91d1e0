package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/httplib/healthcheck"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Engine(t *testing.T) {
	c := NewCollector()

	c.TickIngested("BTCUSD")
	c.TickIngested("BTCUSD")
	c.TickDropped("BTCUSD", "out_of_order_tick")
	c.SnapshotApplied("ETHUSD")
	c.PassRecovered("BTCUSD")
	c.EventsDiscarded("BTCUSD", 3)
	c.PassCompleted("BTCUSD", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticksIngested.WithLabelValues("BTCUSD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ticksDropped.WithLabelValues("BTCUSD", "out_of_order_tick")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshots.WithLabelValues("ETHUSD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.passRecovered.WithLabelValues("BTCUSD")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.eventsDiscarded.WithLabelValues("BTCUSD")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.passDuration))
}

func TestCollector_Sink(t *testing.T) {
	c := NewCollector()
	ctx := context.Background()

	signal := signalv1.Signal{
		ID:              "a",
		Symbol:          "BTCUSD",
		Direction:       signalv1.DirectionBuy,
		OpenPrice:       1000,
		TakeProfitPrice: 1050,
		StopLossPrice:   970,
	}
	require.NoError(t, c.OnSignalOpened(ctx, signal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.openSignals.WithLabelValues("BTCUSD", "buy")))

	closePrice := 1051.0
	signal.ClosePrice = &closePrice
	require.NoError(t, c.OnSignalClosed(ctx, signal, 50))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.signalsOpened.WithLabelValues("BTCUSD", "buy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signalsClosed.WithLabelValues("BTCUSD", "buy", "take_profit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.openSignals.WithLabelValues("BTCUSD", "buy")))
}

func TestNewServer(t *testing.T) {
	c := NewCollector()
	c.TickIngested("BTCUSD")

	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	testCases := []struct {
		name     string
		checks   map[string]healthcheck.Check
		path     string
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "metrics",
			path: "/metrics",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `signal_engine_ticks_ingested_total{symbol="BTCUSD"} 1`)
			},
		},
		{
			name: "api is mounted",
			path: "/api/v1/signals/a",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusTeapot, rec.Code)
			},
		},
		{
			name: "healthy",
			path: "/health",
			checks: map[string]healthcheck.Check{
				"engine": func(context.Context) error { return nil },
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
			},
		},
		{
			name: "unhealthy",
			path: "/health",
			checks: map[string]healthcheck.Check{
				"redis": func(context.Context) error { return fmt.Errorf("connection refused") },
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
				assert.True(t, strings.HasPrefix(rec.Body.String(), "redis: connection refused"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(":0", c, healthcheck.HealthCheck{Checks: tc.checks, Timeout: time.Second}, api)

			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			tc.assertFn(t, rec)
		})
	}
}
