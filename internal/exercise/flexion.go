package exercise

import (
	"fmt"

	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/geometry"
)

// flexionBand is the ratio span over which flexion confidence scales 0 to 1.
const flexionBand = 0.15

// NewFlexionDetector creates a detector for cervical flexion (chin-to-chest).
// Baseline: median nose-to-mid-shoulder distance; detected when the live
// distance drops below the threshold fraction of the baseline.
func NewFlexionDetector(config Config) Detector {
	return newStateDetector(CervicalFlexion, config, &flexionAlgo{
		threshold: config.FlexionThreshold,
	})
}

type flexionAlgo struct {
	threshold float64
	samples   []float64
	baseline  float64
}

func (a *flexionAlgo) collect(ls *detector.LandmarkSet) {
	a.samples = append(a.samples, geometry.Distance(ls.Nose, ls.MidShoulder()))
}

func (a *flexionAlgo) finalize() {
	a.baseline = geometry.Median(a.samples)
}

func (a *flexionAlgo) reset() {
	a.samples = nil
	a.baseline = 0
}

func (a *flexionAlgo) evaluate(ls *detector.LandmarkSet) (bool, float64, Metrics) {
	current := geometry.Distance(ls.Nose, ls.MidShoulder())
	ratio := geometry.Ratio(current, a.baseline)

	detected := ratio < a.threshold
	var confidence float64
	if detected {
		confidence = geometry.Clamp((a.threshold-ratio)/flexionBand, 0, 1)
	}

	return detected, confidence, Metrics{
		"distance_ratio": ratio,
		"threshold":      a.threshold,
	}
}

func (a *flexionAlgo) message(detected bool, m Metrics) string {
	ratio := m["distance_ratio"].(float64)
	if detected {
		return fmt.Sprintf("Flexion detected - keep lowering your chin (ratio: %.2f)", ratio)
	}
	return fmt.Sprintf("Lower your chin toward your chest (ratio: %.2f)", ratio)
}
