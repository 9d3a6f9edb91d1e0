package classifier

import (
	effectv1 "github.com/muhammadchandra19/signal-engine/internal/domain/effect/v1"
	windowv1 "github.com/muhammadchandra19/signal-engine/internal/domain/window/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
)

// Classifier is the threshold based effect classifier.
type Classifier struct{}

var _ effectv1.Classifier = (*Classifier)(nil)

// NewClassifier creates a new classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify computes every effect for one pass.
func (c *Classifier) Classify(input effectv1.Input, thresholds config.Thresholds) effectv1.Effects {
	return effectv1.Effects{
		Wall:            Wall(input, thresholds),
		Impulse:         Impulse(input, thresholds),
		MarketDirection: MarketDirection(input, thresholds),
	}
}

// Wall compares the nearest bid and ask volumes.
// A side is a wall when it exceeds the volume threshold and outweighs the other side by WallRatio.
// A missing level counts as zero volume.
func Wall(input effectv1.Input, thresholds config.Thresholds) effectv1.Effect {
	effect := effectv1.Effect{Kind: effectv1.KindWall, Symbol: input.Symbol, Action: effectv1.ActionWait, Window: input.Current}
	if input.Orderbook == nil {
		return effect
	}

	bid, _ := input.Orderbook.NearestBid()
	ask, _ := input.Orderbook.NearestAsk()

	switch {
	case bid.Volume > thresholds.WallVolumeThreshold && bid.Volume > ask.Volume*thresholds.WallRatio:
		effect.Action = effectv1.ActionBuy
	case ask.Volume > thresholds.WallVolumeThreshold && ask.Volume > bid.Volume*thresholds.WallRatio:
		effect.Action = effectv1.ActionSell
	}
	return effect
}

// Impulse compares the active window volume delta against the impulse threshold.
func Impulse(input effectv1.Input, thresholds config.Thresholds) effectv1.Effect {
	effect := effectv1.Effect{Kind: effectv1.KindImpulse, Symbol: input.Symbol, Action: effectv1.ActionWait, Window: input.Current}

	delta := input.Current.VolumeDelta()
	switch {
	case delta > thresholds.ImpulseVolumeThreshold:
		effect.Action = effectv1.ActionBuy
	case -delta > thresholds.ImpulseVolumeThreshold:
		effect.Action = effectv1.ActionSell
	}
	return effect
}

// MarketDirection looks at the last DirectionWindows sealed windows. It carries the most
// recent sealed window it used.
func MarketDirection(input effectv1.Input, thresholds config.Thresholds) effectv1.Effect {
	effect := effectv1.Effect{Kind: effectv1.KindMarketDirection, Symbol: input.Symbol, Action: effectv1.ActionWait}

	windows := input.Sealed
	if n := thresholds.DirectionWindows; n > 0 && len(windows) > n {
		windows = windows[len(windows)-n:]
	}
	if len(windows) == 0 {
		effect.Window = input.Current
		return effect
	}
	effect.Window = windows[len(windows)-1]

	metrics := Measure(windows)
	switch {
	case metrics.Velocity > thresholds.DeltaPriceVelocityThreshold &&
		metrics.VolumeWeightedDelta > thresholds.VolumeDeltaPriceThreshold:
		effect.Action = effectv1.ActionBuy
	case metrics.Velocity < -thresholds.DeltaPriceVelocityThreshold &&
		metrics.VolumeWeightedDelta < -thresholds.VolumeDeltaPriceThreshold:
		effect.Action = effectv1.ActionSell
	}
	return effect
}

// DirectionMetrics are the raw numbers MarketDirection thresholds.
type DirectionMetrics struct {
	// Velocity is the price change per second across the windows.
	Velocity float64
	// VolumeWeightedDelta is the per-window price change weighted by window volume.
	VolumeWeightedDelta float64
}

// Measure computes DirectionMetrics over chronologically ordered windows.
func Measure(windows []windowv1.WindowStats) DirectionMetrics {
	if len(windows) == 0 {
		return DirectionMetrics{}
	}

	first, last := windows[0], windows[len(windows)-1]

	var metrics DirectionMetrics
	if elapsed := last.End.Sub(first.Start).Seconds(); elapsed > 0 {
		metrics.Velocity = (last.PriceClose - first.PriceOpen) / elapsed
	}

	var weighted, volume float64
	for _, w := range windows {
		weighted += w.PriceChange() * w.Volume()
		volume += w.Volume()
	}
	if volume > 0 {
		metrics.VolumeWeightedDelta = weighted / volume
	}
	return metrics
}
