package signalpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	signalv1_mock "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1/mock"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/util"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedSignal() signalv1.Signal {
	closePrice := 1051.0
	closedAt := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	return signalv1.Signal{
		ID:               "01HQ",
		Symbol:           "BTCUSD",
		Direction:        signalv1.DirectionBuy,
		CreatedAt:        time.Date(2024, 3, 1, 10, 1, 0, 0, time.UTC),
		OpenPrice:        1000,
		TakeProfitPrice:  1050,
		StopLossPrice:    970,
		TradingFeeAmount: 1,
		ClosePrice:       &closePrice,
		ClosedAt:         &closedAt,
	}
}

func TestPublisher(t *testing.T) {
	testCases := []struct {
		name     string
		publish  func(ctx context.Context, p *Publisher) error
		mockFn   func(writer *signalv1_mock.MockMessageWriter)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "opened event",
			publish: func(ctx context.Context, p *Publisher) error {
				s := closedSignal()
				s.ClosePrice, s.ClosedAt = nil, nil
				return p.OnSignalOpened(ctx, s)
			},
			mockFn: func(writer *signalv1_mock.MockMessageWriter) {
				writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
					require.Len(t, msgs, 1)
					assert.Equal(t, []byte("BTCUSD"), msgs[0].Key)
					assert.Equal(t, []kafka.Header{{Key: "x-request-id", Value: []byte("req-1")}}, msgs[0].Headers)

					var event signalv1.Event
					require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
					assert.Equal(t, signalv1.EventOpened, event.Kind)
					assert.Nil(t, event.RealizedPnL)
					assert.True(t, event.Signal.IsActive())
					return nil
				})
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "closed event",
			publish: func(ctx context.Context, p *Publisher) error {
				return p.OnSignalClosed(ctx, closedSignal(), 50)
			},
			mockFn: func(writer *signalv1_mock.MockMessageWriter) {
				writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
					var event map[string]any
					require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
					assert.Equal(t, "closed", event["event"])
					assert.Equal(t, 50.0, event["realized_pnl"])
					assert.Equal(t, "2024-03-01T10:05:00Z", event["occurred_at"])
					return nil
				})
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "write failure",
			publish: func(ctx context.Context, p *Publisher) error {
				return p.OnSignalClosed(ctx, closedSignal(), 50)
			},
			mockFn: func(writer *signalv1_mock.MockMessageWriter) {
				writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(fmt.Errorf("leader not available"))
			},
			assertFn: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "kafka_publish_error")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			writer := signalv1_mock.NewMockMessageWriter(ctrl)
			tc.mockFn(writer)

			p := NewPublisher(writer, logger.NewNop())
			ctx := util.WithRequestID(context.Background(), "req-1")
			tc.assertFn(t, tc.publish(ctx, p))
		})
	}
}
