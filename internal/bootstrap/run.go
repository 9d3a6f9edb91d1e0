package bootstrap

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"

	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
)

var errNotRunning = errors.NewErrorDetails("engine is not running", string(errors.EngineStopped), "")

// Run starts every component and blocks until ctx ends or the market reader returns,
// then shuts everything down within the configured shutdown timeout.
func (b *Bootstrap) Run(ctx context.Context) error {
	if err := b.Engine.Start(); err != nil {
		return err
	}

	go func() {
		if err := b.Server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			b.Logger.Error(errors.TracerFromError(err), logger.Field{Key: "action", Value: "serve_http"})
		}
	}()

	var background sync.WaitGroup
	recorderCtx, stopRecorder := context.WithCancel(context.WithoutCancel(ctx))
	if b.Usecase.Recorder != nil {
		background.Add(1)
		go func() {
			defer background.Done()
			b.Usecase.Recorder.Run(recorderCtx, b.Config.Sinks.HistoryFlushInterval)
		}()
	}

	readerCtx, stopReader := context.WithCancel(ctx)
	defer stopReader()
	readerDone := make(chan error, 1)
	go func() {
		readerDone <- b.Reader.Start(readerCtx)
	}()

	b.Logger.Info("signal engine started",
		logger.Field{Key: "action", Value: "start"},
		logger.Field{Key: "http_addr", Value: b.Config.App.HTTPAddr},
		logger.Field{Key: "window", Value: b.Config.Engine.WindowDuration.String()},
	)

	var readerErr error
	select {
	case <-ctx.Done():
	case readerErr = <-readerDone:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.Config.Engine.ShutdownTimeout)
	defer cancel()

	// intake first, so nothing reaches the engine once it starts stopping
	stopReader()
	if err := b.Reader.Stop(); err != nil {
		b.Logger.Error(err, logger.Field{Key: "action", Value: "stop_reader"})
	}

	err := b.Engine.Stop(shutdownCtx)
	if err != nil {
		b.Logger.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}

	stopRecorder()
	background.Wait()
	b.close(shutdownCtx)

	if b.Redis != nil {
		if err := b.Redis.Disconnect(shutdownCtx); err != nil {
			b.Logger.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
		}
	}
	if b.QuestDB != nil {
		b.QuestDB.Close()
	}

	if err := b.Server.Shutdown(shutdownCtx); err != nil {
		b.Logger.Error(err, logger.Field{Key: "action", Value: "stop_http"})
	}

	b.Logger.Info("signal engine stopped", logger.Field{Key: "action", Value: "stop"})
	return stderrors.Join(readerErr, err)
}

func (b *Bootstrap) close(ctx context.Context) {
	for _, closer := range b.closers {
		if err := closer(ctx); err != nil {
			b.Logger.Error(err, logger.Field{Key: "action", Value: "close"})
		}
	}
}
