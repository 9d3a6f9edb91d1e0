package signalhistory

import (
	"context"
	"sync"
	"time"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
)

const (
	// DefaultBatchSize is the number of pending events that triggers a write.
	DefaultBatchSize = 64
	// DefaultFlushInterval is used by Run when no positive interval is given.
	DefaultFlushInterval = time.Second
)

// Recorder persists every reported signal event through the repository.
// Events are buffered and written in batches; a failed write is logged and dropped.
type Recorder struct {
	repository signalv1.Repository
	logger     logger.Interface
	batchSize  int

	mu      sync.Mutex
	pending []signalv1.Event
}

var _ signalv1.Sink = (*Recorder)(nil)

// NewRecorder creates a recorder writing once batchSize events are pending.
func NewRecorder(repository signalv1.Repository, batchSize int, log logger.Interface) *Recorder {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Recorder{
		repository: repository,
		logger:     log,
		batchSize:  batchSize,
	}
}

// OnSignalOpened records an opened event.
func (r *Recorder) OnSignalOpened(ctx context.Context, signal signalv1.Signal) error {
	return r.add(ctx, signalv1.NewOpenedEvent(signal))
}

// OnSignalClosed records a closed event.
func (r *Recorder) OnSignalClosed(ctx context.Context, signal signalv1.Signal, realizedPnL float64) error {
	return r.add(ctx, signalv1.NewClosedEvent(signal, realizedPnL))
}

// Run flushes pending events every interval until ctx ends, then flushes once more.
func (r *Recorder) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = r.Flush(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			_ = r.Flush(ctx)
		}
	}
}

// Flush writes every pending event.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	return r.write(ctx, batch)
}

func (r *Recorder) add(ctx context.Context, event signalv1.Event) error {
	r.mu.Lock()
	r.pending = append(r.pending, event)
	if len(r.pending) < r.batchSize {
		r.mu.Unlock()
		return nil
	}
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	return r.write(ctx, batch)
}

func (r *Recorder) write(ctx context.Context, batch []signalv1.Event) error {
	var err error
	switch len(batch) {
	case 0:
		return nil
	case 1:
		err = r.repository.Store(ctx, batch[0])
	default:
		err = r.repository.StoreBatch(ctx, batch)
	}

	if err != nil {
		r.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "store_signal_events"},
			logger.Field{Key: "dropped", Value: len(batch)},
		)
	}
	return err
}
