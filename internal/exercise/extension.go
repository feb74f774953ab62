package exercise

import (
	"fmt"

	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/geometry"
)

// extensionBand is the ratio span over which extension confidence scales 0 to 1.
const extensionBand = 0.15

// NewExtensionDetector creates a detector for cervical extension (looking
// upward). Baseline: median nose-to-mid-shoulder distance; detected when the
// live distance stretches beyond the threshold multiple of the baseline.
func NewExtensionDetector(config Config) Detector {
	return newStateDetector(CervicalExtension, config, &extensionAlgo{
		threshold: config.ExtensionThreshold,
	})
}

type extensionAlgo struct {
	threshold float64
	samples   []float64
	baseline  float64
}

func (a *extensionAlgo) collect(ls *detector.LandmarkSet) {
	a.samples = append(a.samples, geometry.Distance(ls.Nose, ls.MidShoulder()))
}

func (a *extensionAlgo) finalize() {
	a.baseline = geometry.Median(a.samples)
}

func (a *extensionAlgo) reset() {
	a.samples = nil
	a.baseline = 0
}

func (a *extensionAlgo) evaluate(ls *detector.LandmarkSet) (bool, float64, Metrics) {
	current := geometry.Distance(ls.Nose, ls.MidShoulder())
	ratio := geometry.Ratio(current, a.baseline)

	detected := ratio > a.threshold
	var confidence float64
	if detected {
		confidence = geometry.Clamp((ratio-a.threshold)/extensionBand, 0, 1)
	}

	return detected, confidence, Metrics{
		"distance_ratio": ratio,
		"threshold":      a.threshold,
	}
}

func (a *extensionAlgo) message(detected bool, m Metrics) string {
	ratio := m["distance_ratio"].(float64)
	if detected {
		return fmt.Sprintf("Extension detected - keep tilting your head back (ratio: %.2f)", ratio)
	}
	return fmt.Sprintf("Tilt your head back to look upward (ratio: %.2f)", ratio)
}
