package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	marketv1 "github.com/muhammadchandra19/signal-engine/internal/domain/market/v1"
	marketreader "github.com/muhammadchandra19/signal-engine/internal/usecase/market-reader"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
)

// walk is a random price path for one symbol.
type walk struct {
	symbol string
	price  float64
	drift  float64
}

// next moves the price by a bounded random step and returns a trade at the new price.
func (w *walk) next(now time.Time, volatility float64) marketv1.Tick {
	step := (rand.Float64() - 0.5 + w.drift) * volatility
	w.price = max(w.price+step, volatility)
	w.price = float64(int(w.price*100)) / 100

	side := marketv1.SideBuy
	if step < 0 {
		side = marketv1.SideSell
	}

	// Trade size between 0.01 and 5.0
	volume := 0.01 + rand.Float64()*4.99
	volume = float64(int(volume*1000)) / 1000

	return marketv1.Tick{
		Symbol:    w.symbol,
		Timestamp: now,
		Price:     w.price,
		Volume:    volume,
		Side:      side,
	}
}

// book builds a snapshot around the current price; a large level is placed now and then
// to exercise the wall detection.
func (w *walk) book(now time.Time, depth int, spread float64) marketv1.OrderbookSnapshot {
	snapshot := marketv1.OrderbookSnapshot{
		Symbol:    w.symbol,
		Timestamp: now,
		Bids:      make([]marketv1.PriceLevel, 0, depth),
		Asks:      make([]marketv1.PriceLevel, 0, depth),
	}

	for i := range depth {
		offset := spread * float64(i+1)
		snapshot.Bids = append(snapshot.Bids, marketv1.PriceLevel{
			Price:  float64(int((w.price-offset)*100)) / 100,
			Volume: levelVolume(),
		})
		snapshot.Asks = append(snapshot.Asks, marketv1.PriceLevel{
			Price:  float64(int((w.price+offset)*100)) / 100,
			Volume: levelVolume(),
		})
	}
	return snapshot
}

func levelVolume() float64 {
	volume := 1 + rand.Float64()*9
	if rand.Float64() < 0.1 {
		volume *= 5
	}
	return float64(int(volume*1000)) / 1000
}

func main() {
	var (
		brokers    = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic      = flag.String("topic", "market-events", "Kafka topic name")
		symbols    = flag.String("symbols", "BTCUSD,ETHUSD", "Symbols to emit (comma-separated)")
		basePrice  = flag.Float64("base-price", 3945.5, "Starting price for every symbol")
		volatility = flag.Float64("volatility", 2.5, "Maximum price step per trade")
		delay      = flag.Duration("delay", 100*time.Millisecond, "Delay between trades")
		count      = flag.Int("count", 1000, "Number of trades per symbol, 0 runs until interrupted")
		bookEvery  = flag.Int("book-every", 10, "Emit an orderbook snapshot every N trades")
		depth      = flag.Int("depth", 5, "Orderbook levels per side")
		spread     = flag.Float64("spread", 0.5, "Distance between orderbook levels")
		timeStep   = flag.Duration("time-step", 0, "Advance event time by this step per trade instead of using the wall clock")
	)
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	walks := make([]*walk, 0)
	for _, symbol := range strings.Split(*symbols, ",") {
		if symbol = strings.TrimSpace(symbol); symbol == "" {
			continue
		}
		walks = append(walks, &walk{symbol: symbol, price: *basePrice, drift: (rand.Float64() - 0.5) * 0.2})
	}
	if len(walks) == 0 {
		log.Warn("no symbols to emit", logger.Field{Key: "action", Value: "produce"})
		os.Exit(2)
	}

	log.Info("producing market events",
		logger.Field{Key: "brokers", Value: *brokers},
		logger.Field{Key: "topic", Value: *topic},
		logger.Field{Key: "symbols", Value: len(walks)},
	)

	clock := time.Now().UTC()
	sent := 0
produce:
	for i := 0; *count == 0 || i < *count; i++ {
		now := time.Now().UTC()
		if *timeStep > 0 {
			clock = clock.Add(*timeStep)
			now = clock
		}

		messages := make([]kafka.Message, 0, 2*len(walks))
		for _, w := range walks {
			tick := w.next(now, *volatility)
			messages = append(messages, message(w.symbol, marketv1.MarketEvent{Type: marketv1.EventTypeTrade, Trade: &tick}))

			if *bookEvery > 0 && i%*bookEvery == 0 {
				snapshot := w.book(now, *depth, *spread)
				messages = append(messages, message(w.symbol, marketv1.MarketEvent{Type: marketv1.EventTypeOrderbook, Orderbook: &snapshot}))
			}
		}

		if err := writer.WriteMessages(ctx, messages...); err != nil {
			if ctx.Err() != nil {
				break produce
			}
			log.Error(err, logger.Field{Key: "action", Value: "produce"})
			continue
		}
		sent += len(messages)

		if (i+1)%100 == 0 {
			log.Info("progress", logger.Field{Key: "trades", Value: i + 1}, logger.Field{Key: "messages", Value: sent})
		}

		select {
		case <-ctx.Done():
			break produce
		case <-time.After(*delay):
		}
	}

	log.Info("finished producing", logger.Field{Key: "messages", Value: sent})
}

func message(symbol string, event marketv1.MarketEvent) kafka.Message {
	// marshalling a MarketEvent of plain fields cannot fail
	value, _ := json.Marshal(event)
	return kafka.Message{
		Key:   []byte(symbol),
		Value: value,
		Headers: []kafka.Header{
			{Key: marketreader.RequestIDHeader, Value: []byte(uuid.NewString())},
		},
	}
}
