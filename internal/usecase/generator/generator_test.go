package generator

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	effectv1 "github.com/muhammadchandra19/signal-engine/internal/domain/effect/v1"
	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	signalv1_mock "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1/mock"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	at         = time.Date(2024, 3, 1, 10, 0, 30, 0, time.UTC)
	thresholds = config.Thresholds{
		TakeProfitAmount:                 50,
		StopLossAmount:                   30,
		TradingFeeAmount:                 1,
		MaxConcurrentSignalsPerDirection: 2,
	}
)

func effectsFor(direction, wall, impulse effectv1.Action) effectv1.Effects {
	return effectv1.Effects{
		Wall:            effectv1.Effect{Kind: effectv1.KindWall, Symbol: "BTCUSD", Action: wall},
		Impulse:         effectv1.Effect{Kind: effectv1.KindImpulse, Symbol: "BTCUSD", Action: impulse},
		MarketDirection: effectv1.Effect{Kind: effectv1.KindMarketDirection, Symbol: "BTCUSD", Action: direction},
	}
}

func TestGenerator_Generate(t *testing.T) {
	testCases := []struct {
		name     string
		effects  effectv1.Effects
		mockFn   func(counter *signalv1_mock.MockOpenCounter)
		assertFn func(t *testing.T, signal signalv1.Signal, ok bool)
	}{
		{
			name:    "buy on confirmed direction",
			effects: effectsFor(effectv1.ActionBuy, effectv1.ActionWait, effectv1.ActionBuy),
			mockFn: func(counter *signalv1_mock.MockOpenCounter) {
				counter.EXPECT().OpenCount("BTCUSD", signalv1.DirectionBuy).Return(0)
			},
			assertFn: func(t *testing.T, signal signalv1.Signal, ok bool) {
				require.True(t, ok)
				assert.Equal(t, signalv1.Signal{
					ID:               "sig-1",
					Symbol:           "BTCUSD",
					Direction:        signalv1.DirectionBuy,
					CreatedAt:        at,
					OpenPrice:        1000,
					TakeProfitPrice:  1050,
					StopLossPrice:    970,
					TradingFeeAmount: 1,
				}, signal)
				assert.True(t, signal.IsActive())
			},
		},
		{
			name:    "sell mirrors the offsets",
			effects: effectsFor(effectv1.ActionSell, effectv1.ActionSell, effectv1.ActionWait),
			mockFn: func(counter *signalv1_mock.MockOpenCounter) {
				counter.EXPECT().OpenCount("BTCUSD", signalv1.DirectionSell).Return(1)
			},
			assertFn: func(t *testing.T, signal signalv1.Signal, ok bool) {
				require.True(t, ok)
				assert.Equal(t, signalv1.DirectionSell, signal.Direction)
				assert.Equal(t, 950.0, signal.TakeProfitPrice)
				assert.Equal(t, 1030.0, signal.StopLossPrice)
			},
		},
		{
			name:    "waiting direction opens nothing",
			effects: effectsFor(effectv1.ActionWait, effectv1.ActionBuy, effectv1.ActionBuy),
			mockFn:  func(counter *signalv1_mock.MockOpenCounter) {},
			assertFn: func(t *testing.T, signal signalv1.Signal, ok bool) {
				assert.False(t, ok)
			},
		},
		{
			name:    "opposing wall vetoes",
			effects: effectsFor(effectv1.ActionBuy, effectv1.ActionSell, effectv1.ActionBuy),
			mockFn:  func(counter *signalv1_mock.MockOpenCounter) {},
			assertFn: func(t *testing.T, signal signalv1.Signal, ok bool) {
				assert.False(t, ok)
			},
		},
		{
			name:    "opposing impulse vetoes",
			effects: effectsFor(effectv1.ActionSell, effectv1.ActionWait, effectv1.ActionBuy),
			mockFn:  func(counter *signalv1_mock.MockOpenCounter) {},
			assertFn: func(t *testing.T, signal signalv1.Signal, ok bool) {
				assert.False(t, ok)
			},
		},
		{
			name:    "cap reached",
			effects: effectsFor(effectv1.ActionBuy, effectv1.ActionWait, effectv1.ActionWait),
			mockFn: func(counter *signalv1_mock.MockOpenCounter) {
				counter.EXPECT().OpenCount("BTCUSD", signalv1.DirectionBuy).Return(2)
			},
			assertFn: func(t *testing.T, signal signalv1.Signal, ok bool) {
				assert.False(t, ok)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			counter := signalv1_mock.NewMockOpenCounter(ctrl)
			tc.mockFn(counter)

			g := NewGenerator(WithIDGenerator(func() string { return "sig-1" }))
			signal, ok := g.Generate(signalv1.Candidate{
				Symbol:  "BTCUSD",
				Effects: tc.effects,
				Price:   1000,
				At:      at,
			}, counter, thresholds)
			tc.assertFn(t, signal, ok)
		})
	}
}

func TestGenerator_DefaultIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	counter := signalv1_mock.NewMockOpenCounter(ctrl)
	counter.EXPECT().OpenCount(gomock.Any(), gomock.Any()).Return(0).Times(2)

	g := NewGenerator()
	candidate := signalv1.Candidate{Symbol: "BTCUSD", Effects: effectsFor(effectv1.ActionBuy, effectv1.ActionWait, effectv1.ActionWait), Price: 10, At: at}

	first, ok := g.Generate(candidate, counter, thresholds)
	require.True(t, ok)
	second, ok := g.Generate(candidate, counter, thresholds)
	require.True(t, ok)

	_, err := ulid.ParseStrict(first.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
