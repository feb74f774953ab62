package exercise

import (
	"math"
	"testing"

	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/geometry"
)

// earsLevel returns a pose with the ears level at y=0, 20px either side of
// the nose, so both nose-to-ear distances and horizontal offsets are 20.
func earsLevel() *detector.LandmarkSet {
	return &detector.LandmarkSet{
		Nose:          geometry.Point{X: 0, Y: 0},
		LeftEar:       geometry.Point{X: 20, Y: 0},
		RightEar:      geometry.Point{X: -20, Y: 0},
		LeftShoulder:  geometry.Point{X: 60, Y: 100},
		RightShoulder: geometry.Point{X: -60, Y: 100},
	}
}

func TestLateralTiltDetector(t *testing.T) {
	config := DefaultConfig()
	config.Smoothing = 1.0

	newCalibrated := func(t *testing.T) Detector {
		det := NewLateralTiltDetector(config)
		calibrate(t, det, earsLevel(), config.CalibrationFrames)
		return det
	}

	t.Run("detects tilt toward the left ear", func(t *testing.T) {
		det := newCalibrated(t)

		// Nose shifts toward the left ear: left distance 18, right 22,
		// ratios 0.9 and 1.1, difference 0.2 > 0.15.
		tilted := earsLevel()
		tilted.Nose = geometry.Point{X: 2, Y: 0}

		result := det.Detect(tilted)
		if !result.Detected {
			t.Fatalf("expected detection, got %+v", result)
		}
		if dir := result.Metrics["direction"]; dir != "left" {
			t.Errorf("expected direction left, got %v", dir)
		}

		want := 0.2 / tiltBand
		if math.Abs(result.Confidence-want) > 1e-6 {
			t.Errorf("expected confidence %f, got %f", want, result.Confidence)
		}
	})

	t.Run("detects tilt toward the right ear", func(t *testing.T) {
		det := newCalibrated(t)

		tilted := earsLevel()
		tilted.Nose = geometry.Point{X: -5, Y: 0}

		result := det.Detect(tilted)
		if !result.Detected {
			t.Fatalf("expected detection, got %+v", result)
		}
		if dir := result.Metrics["direction"]; dir != "right" {
			t.Errorf("expected direction right, got %v", dir)
		}
	})

	t.Run("symmetric pose is not a tilt", func(t *testing.T) {
		det := newCalibrated(t)

		result := det.Detect(earsLevel())
		if result.Detected {
			t.Errorf("expected no detection, got %+v", result)
		}
		diff := result.Metrics["ratio_diff"].(float64)
		if math.Abs(diff) > 1e-6 {
			t.Errorf("expected ratio difference 0, got %f", diff)
		}
	})
}
