package exercise

import (
	"fmt"
	"math"

	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/geometry"
)

// chinTuckDepthThreshold is the minimum vertical depth ratio for a tuck.
// Retracting the chin pulls the nose back over the spine, shrinking the
// horizontal nose-to-ear offset while deepening the vertical drop.
const chinTuckDepthThreshold = 1.05

// NewChinTuckDetector creates a detector for chin tucks. Baselines: median
// horizontal and vertical offsets between the nose and the ear midpoint,
// tracked independently; both conditions must hold for a detection.
func NewChinTuckDetector(config Config) Detector {
	return newStateDetector(ChinTuck, config, &chinTuckAlgo{
		threshold: config.ChinTuckThreshold,
	})
}

type chinTuckAlgo struct {
	threshold      float64
	offsetSamples  []float64
	depthSamples   []float64
	baselineOffset float64
	baselineDepth  float64
}

func (a *chinTuckAlgo) collect(ls *detector.LandmarkSet) {
	midEar := ls.MidEar()
	a.offsetSamples = append(a.offsetSamples, math.Abs(ls.Nose.X-midEar.X))
	a.depthSamples = append(a.depthSamples, math.Abs(ls.Nose.Y-midEar.Y))
}

func (a *chinTuckAlgo) finalize() {
	a.baselineOffset = geometry.Median(a.offsetSamples)
	a.baselineDepth = geometry.Median(a.depthSamples)
}

func (a *chinTuckAlgo) reset() {
	a.offsetSamples = nil
	a.depthSamples = nil
	a.baselineOffset = 0
	a.baselineDepth = 0
}

func (a *chinTuckAlgo) evaluate(ls *detector.LandmarkSet) (bool, float64, Metrics) {
	midEar := ls.MidEar()
	offsetRatio := geometry.Ratio(math.Abs(ls.Nose.X-midEar.X), a.baselineOffset)
	depthRatio := geometry.Ratio(math.Abs(ls.Nose.Y-midEar.Y), a.baselineDepth)

	detected := offsetRatio < a.threshold && depthRatio > chinTuckDepthThreshold
	var confidence float64
	if detected {
		confidence = geometry.Clamp(
			(a.threshold-offsetRatio)+(depthRatio-chinTuckDepthThreshold), 0, 1)
	}

	return detected, confidence, Metrics{
		"offset_ratio": offsetRatio,
		"depth_ratio":  depthRatio,
		"threshold":    a.threshold,
	}
}

func (a *chinTuckAlgo) message(detected bool, m Metrics) string {
	offset := m["offset_ratio"].(float64)
	if detected {
		return fmt.Sprintf("Chin tuck detected (offset: %.2f, depth: %.2f)",
			offset, m["depth_ratio"].(float64))
	}
	return fmt.Sprintf("Pull your chin straight back (offset: %.2f)", offset)
}
