package exercise

import (
	"math"
	"testing"

	"github.com/ayusman/greeva/internal/geometry"
)

func TestRotationDetector(t *testing.T) {
	config := DefaultConfig()
	config.Smoothing = 1.0

	newCalibrated := func(t *testing.T) Detector {
		det := NewRotationDetector(config)
		calibrate(t, det, earsLevel(), config.CalibrationFrames)
		return det
	}

	t.Run("detects head turned past threshold", func(t *testing.T) {
		det := newCalibrated(t)

		// Baseline horizontal offsets are 20 per side. Nose at x=15 keeps
		// the left offset at 5 but stretches the right offset to 35, a
		// ratio of 1.75 > 1.5.
		turned := earsLevel()
		turned.Nose = geometry.Point{X: 15, Y: 0}

		result := det.Detect(turned)
		if !result.Detected {
			t.Fatalf("expected detection, got %+v", result)
		}

		maxRatio := result.Metrics["max_ratio"].(float64)
		if math.Abs(maxRatio-1.75) > 1e-6 {
			t.Errorf("expected max ratio 1.75, got %f", maxRatio)
		}
		if dir := result.Metrics["direction"]; dir != "left" {
			t.Errorf("expected direction left, got %v", dir)
		}

		want := (1.75 - 1.5) / rotationBand
		if math.Abs(result.Confidence-want) > 1e-6 {
			t.Errorf("expected confidence %f, got %f", want, result.Confidence)
		}
	})

	t.Run("direction follows the stretched side", func(t *testing.T) {
		det := newCalibrated(t)

		turned := earsLevel()
		turned.Nose = geometry.Point{X: -15, Y: 0}

		result := det.Detect(turned)
		if !result.Detected {
			t.Fatalf("expected detection, got %+v", result)
		}
		if dir := result.Metrics["direction"]; dir != "right" {
			t.Errorf("expected direction right, got %v", dir)
		}
	})

	t.Run("facing forward is not a rotation", func(t *testing.T) {
		det := newCalibrated(t)

		result := det.Detect(earsLevel())
		if result.Detected {
			t.Errorf("expected no detection, got %+v", result)
		}
	})
}
