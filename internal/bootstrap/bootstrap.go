package bootstrap

import (
	"context"
	"net/http"

	"github.com/muhammadchandra19/signal-engine/internal/api"
	"github.com/muhammadchandra19/signal-engine/internal/app/engine"
	"github.com/muhammadchandra19/signal-engine/internal/metrics"
	marketreader "github.com/muhammadchandra19/signal-engine/internal/usecase/market-reader"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/questdb"
	"github.com/muhammadchandra19/signal-engine/pkg/redis"
)

// Bootstrap holds every wired component of the signal engine process.
type Bootstrap struct {
	Config     *config.Config
	Thresholds *config.ThresholdSet
	Logger     logger.Interface

	Repository Repository
	Usecase    Usecase

	Engine  *engine.Engine
	Reader  *marketreader.Reader
	Metrics *metrics.Collector
	API     *api.Server
	Server  *http.Server

	Redis   redis.Client
	QuestDB questdb.QuestDBClient

	// closers release outbound resources in registration order at shutdown
	closers []func(ctx context.Context) error
}

// BootstrapConfig carries the already connected infrastructure.
// Redis and QuestDB are nil when their sinks are disabled.
type BootstrapConfig struct {
	Config     *config.Config
	Thresholds *config.ThresholdSet
	Logger     logger.Interface
	Redis      redis.Client
	QuestDB    questdb.QuestDBClient
}

// Init wires the repository, usecase and engine layers.
func (b *Bootstrap) Init(cfg BootstrapConfig) error {
	b.Config = cfg.Config
	b.Thresholds = cfg.Thresholds
	b.Logger = cfg.Logger
	b.Redis = cfg.Redis
	b.QuestDB = cfg.QuestDB
	b.Metrics = metrics.NewCollector()

	b.registerRepository()
	if err := b.registerUsecase(); err != nil {
		return err
	}
	b.registerServer()
	return nil
}

func (b *Bootstrap) registerServer() {
	checks := map[string]healthcheck.Check{
		"engine": func(context.Context) error {
			if !b.Engine.IsRunning() {
				return errNotRunning
			}
			return nil
		},
	}
	if b.Redis != nil {
		checks["redis"] = b.Redis.Ping
	}
	if b.QuestDB != nil {
		checks["questdb"] = b.QuestDB.Ping
	}

	// a nil *signalInfra.Repository must stay an untyped nil interface
	var history api.HistoryReader
	if b.Repository.SignalRepository != nil {
		history = b.Repository.SignalRepository
	}
	b.API = api.NewServer(b.Engine, b.Usecase.Lifecycle, b.Usecase.Aggregator, history, b.Logger)

	b.Server = metrics.NewServer(b.Config.App.HTTPAddr, b.Metrics, healthcheck.HealthCheck{
		Checks:  checks,
		Timeout: 2 * b.Config.Sinks.SinkTimeout,
	}, b.API.Handler(b.Config.App.CORSOrigins))
}
