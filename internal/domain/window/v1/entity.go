package windowv1

import "time"

// WindowStats summarizes the ticks of one symbol over [Start, End).
type WindowStats struct {
	Symbol     string    `json:"symbol"`
	Start      time.Time `json:"window_start"`
	End        time.Time `json:"window_end"`
	BuyVolume  float64   `json:"buy_volume"`
	SellVolume float64   `json:"sell_volume"`
	PriceOpen  float64   `json:"price_open"`
	PriceClose float64   `json:"price_close"`
	PriceHigh  float64   `json:"price_high"`
	PriceLow   float64   `json:"price_low"`
	TradeCount int64     `json:"trade_count"`
	Sealed     bool      `json:"sealed"`
}

// Volume is the total traded volume of the window.
func (w WindowStats) Volume() float64 {
	return w.BuyVolume + w.SellVolume
}

// VolumeDelta is buy volume minus sell volume.
func (w WindowStats) VolumeDelta() float64 {
	return w.BuyVolume - w.SellVolume
}

// PriceChange is close minus open.
func (w WindowStats) PriceChange() float64 {
	return w.PriceClose - w.PriceOpen
}

// IsEmpty reports whether no tick landed in the window.
func (w WindowStats) IsEmpty() bool {
	return w.TradeCount == 0
}

// Contains reports whether ts falls inside [Start, End).
func (w WindowStats) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}
