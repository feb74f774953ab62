package exercise

import (
	"fmt"
	"math"

	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/geometry"
)

// tiltBand is the ratio-difference span over which tilt confidence scales 0 to 1.
const tiltBand = 0.3

// NewLateralTiltDetector creates a detector for lateral neck tilt. Baselines:
// median nose-to-ear distance per side; detected when the two sides' ratios
// diverge beyond the threshold. The side whose ratio shrank gives the
// direction.
func NewLateralTiltDetector(config Config) Detector {
	return newStateDetector(LateralNeckTilt, config, &tiltAlgo{
		threshold: config.TiltThreshold,
	})
}

type tiltAlgo struct {
	threshold     float64
	leftSamples   []float64
	rightSamples  []float64
	baselineLeft  float64
	baselineRight float64
}

func (a *tiltAlgo) collect(ls *detector.LandmarkSet) {
	a.leftSamples = append(a.leftSamples, geometry.Distance(ls.Nose, ls.LeftEar))
	a.rightSamples = append(a.rightSamples, geometry.Distance(ls.Nose, ls.RightEar))
}

func (a *tiltAlgo) finalize() {
	a.baselineLeft = geometry.Median(a.leftSamples)
	a.baselineRight = geometry.Median(a.rightSamples)
}

func (a *tiltAlgo) reset() {
	a.leftSamples = nil
	a.rightSamples = nil
	a.baselineLeft = 0
	a.baselineRight = 0
}

func (a *tiltAlgo) evaluate(ls *detector.LandmarkSet) (bool, float64, Metrics) {
	leftRatio := geometry.Ratio(geometry.Distance(ls.Nose, ls.LeftEar), a.baselineLeft)
	rightRatio := geometry.Ratio(geometry.Distance(ls.Nose, ls.RightEar), a.baselineRight)
	diff := math.Abs(leftRatio - rightRatio)

	detected := diff > a.threshold
	var confidence float64
	if detected {
		confidence = geometry.Clamp(diff/tiltBand, 0, 1)
	}

	direction := "right"
	if leftRatio < rightRatio {
		direction = "left"
	}

	return detected, confidence, Metrics{
		"ratio_diff": diff,
		"direction":  direction,
		"threshold":  a.threshold,
	}
}

func (a *tiltAlgo) message(detected bool, m Metrics) string {
	diff := m["ratio_diff"].(float64)
	if detected {
		return fmt.Sprintf("%s tilt detected (difference: %.2f)", capitalize(m["direction"].(string)), diff)
	}
	return fmt.Sprintf("Tilt your head further to the side (difference: %.2f)", diff)
}
