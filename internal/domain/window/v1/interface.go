package windowv1

import (
	marketv1 "github.com/muhammadchandra19/signal-engine/internal/domain/market/v1"
)

// Aggregator maintains rolling per-symbol windows.
// Ingest for one symbol must not be called concurrently; reads are safe from any goroutine.
type Aggregator interface {
	// Ingest folds tick into the active window of its symbol, sealing and gap-filling windows as needed.
	// latest is false for a tick older than the newest tick already ingested for the symbol.
	Ingest(tick marketv1.Tick) (latest bool, err error)
	// CurrentWindow returns a copy of the active window.
	CurrentWindow(symbol string) (WindowStats, bool)
	// Windows returns up to count most recent sealed windows, oldest first.
	Windows(symbol string, count int) []WindowStats
	// Symbols returns every symbol seen so far.
	Symbols() []string
}
