package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultWallRatio is the factor by which the nearest level must outweigh the opposite side.
	DefaultWallRatio = 2.0
	// DefaultDirectionWindows is the number of sealed windows the direction is computed over.
	DefaultDirectionWindows = 3
)

// Thresholds is the resolved per-symbol threshold set consumed by the classifier and generator.
type Thresholds struct {
	WallVolumeThreshold              float64 `yaml:"wall_volume_threshold"`
	WallRatio                        float64 `yaml:"wall_ratio"`
	ImpulseVolumeThreshold           float64 `yaml:"impulse_volume_threshold"`
	VolumeDeltaPriceThreshold        float64 `yaml:"volume_delta_price_threshold"`
	DeltaPriceVelocityThreshold      float64 `yaml:"delta_price_velocity_threshold"`
	DirectionWindows                 int     `yaml:"direction_windows"`
	TakeProfitAmount                 float64 `yaml:"take_profit_amount"`
	StopLossAmount                   float64 `yaml:"stop_loss_amount"`
	TradingFeeAmount                 float64 `yaml:"trading_fee_amount"`
	MaxConcurrentSignalsPerDirection int     `yaml:"max_concurrent_signals_per_direction"`
}

// thresholdsOverride mirrors Thresholds with optional fields so partial blocks can be merged.
type thresholdsOverride struct {
	WallVolumeThreshold              *float64 `yaml:"wall_volume_threshold"`
	WallRatio                        *float64 `yaml:"wall_ratio"`
	ImpulseVolumeThreshold           *float64 `yaml:"impulse_volume_threshold"`
	VolumeDeltaPriceThreshold        *float64 `yaml:"volume_delta_price_threshold"`
	DeltaPriceVelocityThreshold      *float64 `yaml:"delta_price_velocity_threshold"`
	DirectionWindows                 *int     `yaml:"direction_windows"`
	TakeProfitAmount                 *float64 `yaml:"take_profit_amount"`
	StopLossAmount                   *float64 `yaml:"stop_loss_amount"`
	TradingFeeAmount                 *float64 `yaml:"trading_fee_amount"`
	MaxConcurrentSignalsPerDirection *int     `yaml:"max_concurrent_signals_per_direction"`
}

type thresholdsFile struct {
	MaxConcurrentSignalsPerDirection *int                          `yaml:"max_concurrent_signals_per_direction"`
	Defaults                         *thresholdsOverride           `yaml:"defaults"`
	Symbols                          map[string]thresholdsOverride `yaml:"symbols"`
}

func (o thresholdsOverride) apply(t Thresholds) Thresholds {
	if o.WallVolumeThreshold != nil {
		t.WallVolumeThreshold = *o.WallVolumeThreshold
	}
	if o.WallRatio != nil {
		t.WallRatio = *o.WallRatio
	}
	if o.ImpulseVolumeThreshold != nil {
		t.ImpulseVolumeThreshold = *o.ImpulseVolumeThreshold
	}
	if o.VolumeDeltaPriceThreshold != nil {
		t.VolumeDeltaPriceThreshold = *o.VolumeDeltaPriceThreshold
	}
	if o.DeltaPriceVelocityThreshold != nil {
		t.DeltaPriceVelocityThreshold = *o.DeltaPriceVelocityThreshold
	}
	if o.DirectionWindows != nil {
		t.DirectionWindows = *o.DirectionWindows
	}
	if o.TakeProfitAmount != nil {
		t.TakeProfitAmount = *o.TakeProfitAmount
	}
	if o.StopLossAmount != nil {
		t.StopLossAmount = *o.StopLossAmount
	}
	if o.TradingFeeAmount != nil {
		t.TradingFeeAmount = *o.TradingFeeAmount
	}
	if o.MaxConcurrentSignalsPerDirection != nil {
		t.MaxConcurrentSignalsPerDirection = *o.MaxConcurrentSignalsPerDirection
	}
	return t
}

// Validate reports every invalid field as a configuration_missing detail.
func (t Thresholds) Validate() error {
	baseErr := errors.NewBaseError()
	code := string(errors.ConfigurationMissing)

	nonNegative := map[string]float64{
		"wall_volume_threshold":          t.WallVolumeThreshold,
		"impulse_volume_threshold":       t.ImpulseVolumeThreshold,
		"volume_delta_price_threshold":   t.VolumeDeltaPriceThreshold,
		"delta_price_velocity_threshold": t.DeltaPriceVelocityThreshold,
		"trading_fee_amount":             t.TradingFeeAmount,
	}
	positive := map[string]float64{
		"wall_ratio":         t.WallRatio,
		"take_profit_amount": t.TakeProfitAmount,
		"stop_loss_amount":   t.StopLossAmount,
	}

	for _, field := range sortedKeys(nonNegative) {
		if v := nonNegative[field]; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			baseErr.AddErrorDetails(errors.NewErrorDetails("must be a finite non-negative number", code, field))
		}
	}
	for _, field := range sortedKeys(positive) {
		if v := positive[field]; v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			baseErr.AddErrorDetails(errors.NewErrorDetails("must be a finite positive number", code, field))
		}
	}
	if t.DirectionWindows < 1 {
		baseErr.AddErrorDetails(errors.NewErrorDetails("must be at least 1", code, "direction_windows"))
	}
	if t.MaxConcurrentSignalsPerDirection < 1 {
		baseErr.AddErrorDetails(errors.NewErrorDetails("must be at least 1", code, "max_concurrent_signals_per_direction"))
	}

	if baseErr.HasDetails() {
		return baseErr
	}
	return nil
}

// ThresholdSet resolves thresholds per symbol. It is immutable after construction.
type ThresholdSet struct {
	defaults *Thresholds
	symbols  map[string]Thresholds
}

// NewThresholdSet builds a set from already resolved thresholds. defaults may be nil.
func NewThresholdSet(defaults *Thresholds, symbols map[string]Thresholds) *ThresholdSet {
	copied := make(map[string]Thresholds, len(symbols))
	for symbol, t := range symbols {
		copied[symbol] = t
	}
	return &ThresholdSet{defaults: defaults, symbols: copied}
}

// For returns the thresholds configured for symbol, falling back to the defaults block.
func (s *ThresholdSet) For(symbol string) (Thresholds, bool) {
	if t, ok := s.symbols[symbol]; ok {
		return t, true
	}
	if s.defaults != nil {
		return *s.defaults, true
	}
	return Thresholds{}, false
}

// Symbols returns the explicitly configured symbols in lexical order.
func (s *ThresholdSet) Symbols() []string {
	symbols := make([]string, 0, len(s.symbols))
	for symbol := range s.symbols {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// LoadThresholds reads the YAML threshold file at path.
// maxConcurrent is the global cap applied where neither the file nor a block sets one.
func LoadThresholds(path string, maxConcurrent int) (*ThresholdSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewTracer(string(errors.ConfigurationMissing)).Wrap(fmt.Errorf("read thresholds %s: %w", path, err))
	}
	return ParseThresholds(data, maxConcurrent)
}

// ParseThresholds decodes, merges and validates a threshold document.
// Resolution order per field: symbol block, defaults block, file-level cap, built-in defaults.
func ParseThresholds(data []byte, maxConcurrent int) (*ThresholdSet, error) {
	var file thresholdsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewTracer(string(errors.ConfigurationMissing)).Wrap(fmt.Errorf("decode thresholds: %w", err))
	}

	if file.Defaults == nil && len(file.Symbols) == 0 {
		return nil, errors.NewErrorDetails("no thresholds configured", string(errors.ConfigurationMissing), "symbols")
	}

	base := Thresholds{
		WallRatio:                        DefaultWallRatio,
		DirectionWindows:                 DefaultDirectionWindows,
		MaxConcurrentSignalsPerDirection: maxConcurrent,
	}
	if file.MaxConcurrentSignalsPerDirection != nil {
		base.MaxConcurrentSignalsPerDirection = *file.MaxConcurrentSignalsPerDirection
	}

	baseErr := errors.NewBaseError()

	var defaults *Thresholds
	if file.Defaults != nil {
		resolved := file.Defaults.apply(base)
		if err := resolved.Validate(); err != nil {
			collect(baseErr, err, "defaults.")
		}
		defaults = &resolved
		base = resolved
	}

	symbols := make(map[string]Thresholds, len(file.Symbols))
	for _, symbol := range sortedKeys(file.Symbols) {
		resolved := file.Symbols[symbol].apply(base)
		if err := resolved.Validate(); err != nil {
			collect(baseErr, err, symbol+".")
		}
		symbols[symbol] = resolved
	}

	if baseErr.HasDetails() {
		return nil, baseErr
	}

	return NewThresholdSet(defaults, symbols), nil
}

func collect(dst *errors.BaseError, err error, prefix string) {
	src, ok := err.(*errors.BaseError)
	if !ok {
		return
	}
	src.PrependFields(prefix)
	dst.AddErrorDetails(src.GetDetails()...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
