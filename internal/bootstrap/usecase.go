package bootstrap

import (
	"context"

	"github.com/muhammadchandra19/signal-engine/internal/app/engine"
	effectv1 "github.com/muhammadchandra19/signal-engine/internal/domain/effect/v1"
	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	windowv1 "github.com/muhammadchandra19/signal-engine/internal/domain/window/v1"
	"github.com/muhammadchandra19/signal-engine/internal/metrics"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/aggregator"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/classifier"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/generator"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/lifecycle"
	marketreader "github.com/muhammadchandra19/signal-engine/internal/usecase/market-reader"
	"github.com/muhammadchandra19/signal-engine/internal/usecase/reporter"
	signalcache "github.com/muhammadchandra19/signal-engine/internal/usecase/signal-cache"
	signalhistory "github.com/muhammadchandra19/signal-engine/internal/usecase/signal-history"
	signalpublisher "github.com/muhammadchandra19/signal-engine/internal/usecase/signal-publisher"
	"github.com/muhammadchandra19/signal-engine/pkg/interval"
)

// Usecase holds the core components and the outbound sinks.
type Usecase struct {
	Aggregator windowv1.Aggregator
	Classifier effectv1.Classifier
	Generator  signalv1.Generator
	Lifecycle  signalv1.Lifecycle

	Dispatcher *reporter.Dispatcher
	Publisher  *signalpublisher.Publisher
	Cache      *signalcache.Cache
	Recorder   *signalhistory.Recorder
}

var _ engine.Metrics = (*metrics.Collector)(nil)

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() error {
	iv, err := interval.FromDuration(b.Config.Engine.WindowDuration)
	if err != nil {
		return err
	}

	b.Usecase.Aggregator = aggregator.NewAggregator(iv, b.Config.Engine.Retention, b.Logger)
	b.Usecase.Classifier = classifier.NewClassifier()
	b.Usecase.Generator = generator.NewGenerator()
	b.Usecase.Lifecycle = lifecycle.NewManager(b.Logger)

	// the collector goes first so counters never lag behind the external sinks
	sinks := []signalv1.Sink{b.Metrics}

	if b.Config.SignalKafka.Enabled {
		writer := signalpublisher.NewKafkaWriter(b.Config.SignalKafka)
		b.Usecase.Publisher = signalpublisher.NewPublisher(writer, b.Logger)
		sinks = append(sinks, b.Usecase.Publisher)
		b.closers = append(b.closers, func(context.Context) error { return b.Usecase.Publisher.Close() })
	}
	if b.Redis != nil {
		b.Usecase.Cache = signalcache.NewCache(b.Redis, b.Logger)
		sinks = append(sinks, b.Usecase.Cache)
	}
	if b.Repository.SignalRepository != nil {
		b.Usecase.Recorder = signalhistory.NewRecorder(b.Repository.SignalRepository, b.Config.Sinks.HistoryBatchSize, b.Logger)
		sinks = append(sinks, b.Usecase.Recorder)
		b.closers = append(b.closers, b.Usecase.Recorder.Flush)
	}

	b.Usecase.Dispatcher = reporter.NewDispatcher(&reporter.Options{
		BufferSize:  b.Config.Engine.ReportBufferSize,
		SinkTimeout: b.Config.Sinks.SinkTimeout,
	}, b.Logger, sinks...)

	b.Engine = engine.NewEngine(
		b.Usecase.Aggregator,
		b.Usecase.Classifier,
		b.Usecase.Generator,
		b.Usecase.Lifecycle,
		b.Usecase.Dispatcher,
		b.Thresholds,
		b.Logger,
		&engine.Options{
			QueueSize: b.Config.Engine.QueueSize,
			Metrics:   b.Metrics,
		},
	)

	b.Reader = marketreader.NewReader(marketreader.NewKafkaReader(b.Config.MarketKafka), b.Engine, b.Logger)
	return nil
}
