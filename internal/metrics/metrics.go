package metrics

import (
	"context"
	"net/http"
	"time"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/httplib/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "signal_engine"

// Collector holds the engine counters. It observes the evaluation loop and is
// registered as a signal sink, so it sees every opened and closed signal.
type Collector struct {
	registry *prometheus.Registry

	ticksIngested   *prometheus.CounterVec
	ticksDropped    *prometheus.CounterVec
	snapshots       *prometheus.CounterVec
	passRecovered   *prometheus.CounterVec
	eventsDiscarded *prometheus.CounterVec
	passDuration    *prometheus.HistogramVec
	signalsOpened   *prometheus.CounterVec
	signalsClosed   *prometheus.CounterVec
	openSignals     *prometheus.GaugeVec
	realizedPnL     *prometheus.SummaryVec
}

var _ signalv1.Sink = (*Collector)(nil)

// NewCollector creates the collector and registers it on a dedicated registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ticksIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ticks_ingested_total", Help: "Ticks folded into a window"},
			[]string{"symbol"},
		),
		ticksDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ticks_dropped_total", Help: "Ticks rejected before aggregation"},
			[]string{"symbol", "reason"},
		),
		snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "orderbook_snapshots_total", Help: "Orderbook snapshots applied"},
			[]string{"symbol"},
		),
		passRecovered: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "pass_panics_total", Help: "Evaluation passes that panicked and were recovered"},
			[]string{"symbol"},
		),
		eventsDiscarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "events_discarded_total", Help: "Buffered events discarded at shutdown"},
			[]string{"symbol"},
		),
		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pass_duration_seconds",
				Help:      "Duration of one evaluation pass",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"symbol"},
		),
		signalsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "signals_opened_total", Help: "Signals opened"},
			[]string{"symbol", "direction"},
		),
		signalsClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "signals_closed_total", Help: "Signals closed by closure reason"},
			[]string{"symbol", "direction", "reason"},
		),
		openSignals: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "open_signals", Help: "Currently open signals"},
			[]string{"symbol", "direction"},
		),
		realizedPnL: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  namespace,
				Name:       "realized_pnl",
				Help:       "Realized outcome of closed signals, net of fee",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"symbol", "direction"},
		),
	}

	c.registry.MustRegister(
		c.ticksIngested, c.ticksDropped, c.snapshots, c.passRecovered, c.eventsDiscarded,
		c.passDuration, c.signalsOpened, c.signalsClosed, c.openSignals, c.realizedPnL,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) TickIngested(symbol string) {
	c.ticksIngested.WithLabelValues(symbol).Inc()
}

func (c *Collector) TickDropped(symbol, reason string) {
	c.ticksDropped.WithLabelValues(symbol, reason).Inc()
}

func (c *Collector) SnapshotApplied(symbol string) {
	c.snapshots.WithLabelValues(symbol).Inc()
}

func (c *Collector) PassRecovered(symbol string) {
	c.passRecovered.WithLabelValues(symbol).Inc()
}

func (c *Collector) EventsDiscarded(symbol string, count int) {
	c.eventsDiscarded.WithLabelValues(symbol).Add(float64(count))
}

func (c *Collector) PassCompleted(symbol string, took time.Duration) {
	c.passDuration.WithLabelValues(symbol).Observe(took.Seconds())
}

// OnSignalOpened counts an opened signal.
func (c *Collector) OnSignalOpened(_ context.Context, signal signalv1.Signal) error {
	direction := string(signal.Direction)
	c.signalsOpened.WithLabelValues(signal.Symbol, direction).Inc()
	c.openSignals.WithLabelValues(signal.Symbol, direction).Inc()
	return nil
}

// OnSignalClosed counts a closed signal and observes its outcome.
func (c *Collector) OnSignalClosed(_ context.Context, signal signalv1.Signal, realizedPnL float64) error {
	direction := string(signal.Direction)
	c.signalsClosed.WithLabelValues(signal.Symbol, direction, string(signal.Reason())).Inc()
	c.openSignals.WithLabelValues(signal.Symbol, direction).Dec()
	c.realizedPnL.WithLabelValues(signal.Symbol, direction).Observe(realizedPnL)
	return nil
}

// NewServer returns the HTTP server exposing /metrics and /health.
// api, when not nil, is mounted under /api/.
func NewServer(addr string, c *Collector, health healthcheck.HealthCheck, api http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry}))
	if api != nil {
		mux.Handle("/api/", api)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           health.Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
