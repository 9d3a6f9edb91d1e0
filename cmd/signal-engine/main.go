package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/signal-engine/internal/bootstrap"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/questdb"
	"github.com/muhammadchandra19/signal-engine/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	opts := []logger.Option{
		logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
		logger.WithInitialFields(
			logger.NewField("app", cfg.App.Name),
			logger.NewField("environment", cfg.App.Environment),
		),
	}
	if cfg.App.Environment == "development" {
		opts = append(opts, logger.WithConsoleEncoding())
	}

	log, err = logger.NewLogger(opts...)
	if err != nil {
		panic(err)
	}
}

func main() {
	defer func() { _ = log.Sync() }()
	if err := run(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "run"})
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	thresholds, err := config.LoadThresholds(cfg.Engine.ThresholdsFile, cfg.Engine.MaxConcurrentSignalsPerDirection)
	if err != nil {
		return err
	}

	bootstrapCfg := bootstrap.BootstrapConfig{
		Config:     cfg,
		Thresholds: thresholds,
		Logger:     log,
	}

	if cfg.Sinks.Cache {
		rclient := redis.NewClient(log, &cfg.Redis)
		if err := rclient.Connect(ctx); err != nil {
			log.Error(errors.TracerFromError(err), logger.Field{Key: "action", Value: "connect_redis"})
			if !rclient.Reconnect(ctx) {
				return err
			}
		}
		bootstrapCfg.Redis = rclient
	}

	if cfg.Sinks.History {
		qclient, err := questdb.NewClient(ctx, cfg.QuestDB)
		if err != nil {
			return err
		}
		bootstrapCfg.QuestDB = qclient
	}

	app := &bootstrap.Bootstrap{}
	if err := app.Init(bootstrapCfg); err != nil {
		return err
	}

	return app.Run(ctx)
}
