package signalhistory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	signalv1_mock "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1/mock"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignal(id string) signalv1.Signal {
	return signalv1.Signal{
		ID:        id,
		Symbol:    "BTCUSD",
		Direction: signalv1.DirectionBuy,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		OpenPrice: 1000,
	}
}

func TestRecorder(t *testing.T) {
	testCases := []struct {
		name     string
		record   func(ctx context.Context, r *Recorder) error
		mockFn   func(repo *signalv1_mock.MockRepository)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "batch size reached",
			record: func(ctx context.Context, r *Recorder) error {
				require.NoError(t, r.OnSignalOpened(ctx, testSignal("a")))
				return r.OnSignalClosed(ctx, testSignal("a"), 50)
			},
			mockFn: func(repo *signalv1_mock.MockRepository) {
				repo.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, events []signalv1.Event) error {
					require.Len(t, events, 2)
					assert.Equal(t, signalv1.EventOpened, events[0].Kind)
					assert.Equal(t, signalv1.EventClosed, events[1].Kind)
					assert.Equal(t, 50.0, *events[1].RealizedPnL)
					return nil
				})
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "flush single event",
			record: func(ctx context.Context, r *Recorder) error {
				require.NoError(t, r.OnSignalOpened(ctx, testSignal("a")))
				return r.Flush(ctx)
			},
			mockFn: func(repo *signalv1_mock.MockRepository) {
				repo.EXPECT().Store(gomock.Any(), signalv1.NewOpenedEvent(testSignal("a"))).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "flush nothing pending",
			record: func(ctx context.Context, r *Recorder) error {
				return r.Flush(ctx)
			},
			mockFn: func(repo *signalv1_mock.MockRepository) {},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "failed write is dropped",
			record: func(ctx context.Context, r *Recorder) error {
				require.NoError(t, r.OnSignalOpened(ctx, testSignal("a")))
				err := r.OnSignalOpened(ctx, testSignal("b"))
				require.Error(t, err)
				return r.Flush(ctx)
			},
			mockFn: func(repo *signalv1_mock.MockRepository) {
				repo.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).Return(fmt.Errorf("questdb unavailable"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := signalv1_mock.NewMockRepository(ctrl)
			tc.mockFn(repo)

			r := NewRecorder(repo, 2, logger.NewNop())
			tc.assertFn(t, tc.record(context.Background(), r))
		})
	}
}

func TestRecorder_RunFlushesOnExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := signalv1_mock.NewMockRepository(ctrl)
	stored := make(chan struct{})
	repo.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ signalv1.Event) error {
		assert.NoError(t, ctx.Err())
		close(stored)
		return nil
	})

	r := NewRecorder(repo, 10, logger.NewNop())
	require.NoError(t, r.OnSignalOpened(context.Background(), testSignal("a")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()

	<-done
	select {
	case <-stored:
	default:
		t.Fatal("pending event was not flushed")
	}
}
