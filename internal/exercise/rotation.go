package exercise

import (
	"fmt"
	"math"

	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/geometry"
)

// rotationBand is the ratio span over which rotation confidence scales 0 to 1.
const rotationBand = 1.0

// NewRotationDetector creates a detector for neck rotation. Baselines:
// median horizontal nose-to-ear offset per side; turning the head grows one
// side's offset, so detection fires when either ratio exceeds the threshold.
// The side with the larger ratio gives the direction.
//
// The horizontal offset is measured in pixels and is not scale invariant, so
// sensitivity varies with distance to the camera. Kept as-is to match the
// observed detection behavior.
func NewRotationDetector(config Config) Detector {
	return newStateDetector(NeckRotation, config, &rotationAlgo{
		threshold: config.RotationThreshold,
	})
}

type rotationAlgo struct {
	threshold     float64
	leftSamples   []float64
	rightSamples  []float64
	baselineLeft  float64
	baselineRight float64
}

func (a *rotationAlgo) collect(ls *detector.LandmarkSet) {
	a.leftSamples = append(a.leftSamples, math.Abs(ls.Nose.X-ls.LeftEar.X))
	a.rightSamples = append(a.rightSamples, math.Abs(ls.Nose.X-ls.RightEar.X))
}

func (a *rotationAlgo) finalize() {
	a.baselineLeft = geometry.Median(a.leftSamples)
	a.baselineRight = geometry.Median(a.rightSamples)
}

func (a *rotationAlgo) reset() {
	a.leftSamples = nil
	a.rightSamples = nil
	a.baselineLeft = 0
	a.baselineRight = 0
}

func (a *rotationAlgo) evaluate(ls *detector.LandmarkSet) (bool, float64, Metrics) {
	leftRatio := geometry.Ratio(math.Abs(ls.Nose.X-ls.LeftEar.X), a.baselineLeft)
	rightRatio := geometry.Ratio(math.Abs(ls.Nose.X-ls.RightEar.X), a.baselineRight)
	maxRatio := math.Max(leftRatio, rightRatio)

	detected := maxRatio > a.threshold
	var confidence float64
	if detected {
		confidence = geometry.Clamp((maxRatio-a.threshold)/rotationBand, 0, 1)
	}

	direction := "left"
	if leftRatio > rightRatio {
		direction = "right"
	}

	return detected, confidence, Metrics{
		"max_ratio": maxRatio,
		"direction": direction,
		"threshold": a.threshold,
	}
}

func (a *rotationAlgo) message(detected bool, m Metrics) string {
	ratio := m["max_ratio"].(float64)
	if detected {
		return fmt.Sprintf("%s rotation detected (ratio: %.2f)", capitalize(m["direction"].(string)), ratio)
	}
	return fmt.Sprintf("Turn your head further to the side (ratio: %.2f)", ratio)
}
