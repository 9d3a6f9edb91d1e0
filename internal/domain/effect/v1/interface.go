package effectv1

import "github.com/muhammadchandra19/signal-engine/pkg/config"

// Classifier derives effects from aggregated state. Implementations must be pure.
type Classifier interface {
	Classify(input Input, thresholds config.Thresholds) Effects
}
