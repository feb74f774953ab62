package exercise

import (
	"math"
	"testing"

	"github.com/ayusman/greeva/internal/geometry"
)

func TestExtensionDetector(t *testing.T) {
	config := DefaultConfig()
	config.Smoothing = 1.0

	newCalibrated := func(t *testing.T) Detector {
		det := NewExtensionDetector(config)
		calibrate(t, det, neutralLandmarks(), config.CalibrationFrames)
		return det
	}

	t.Run("detects head tilted back", func(t *testing.T) {
		det := newCalibrated(t)

		// Baseline distance 100, live distance 130 -> ratio 1.3 > 1.15
		extended := neutralLandmarks()
		extended.LeftShoulder = geometry.Point{X: 0, Y: 130}
		extended.RightShoulder = geometry.Point{X: 0, Y: 130}

		result := det.Detect(extended)
		if !result.Detected {
			t.Fatalf("expected detection, got %+v", result)
		}

		// (1.3 - 1.15) / 0.15 = 1.0 exactly at the clamp boundary
		if math.Abs(result.Confidence-1.0) > 1e-6 {
			t.Errorf("expected confidence 1.0, got %f", result.Confidence)
		}
	})

	t.Run("mild extension scales confidence", func(t *testing.T) {
		det := newCalibrated(t)

		// Ratio 1.21 -> confidence (1.21-1.15)/0.15 = 0.4
		extended := neutralLandmarks()
		extended.LeftShoulder = geometry.Point{X: 0, Y: 121}
		extended.RightShoulder = geometry.Point{X: 0, Y: 121}

		result := det.Detect(extended)
		if !result.Detected {
			t.Fatalf("expected detection, got %+v", result)
		}
		want := (1.21 - 1.15) / 0.15
		if math.Abs(result.Confidence-want) > 1e-6 {
			t.Errorf("expected confidence %f, got %f", want, result.Confidence)
		}
	})

	t.Run("flexed pose is not extension", func(t *testing.T) {
		det := newCalibrated(t)

		flexed := neutralLandmarks()
		flexed.LeftShoulder = geometry.Point{X: 0, Y: 80}
		flexed.RightShoulder = geometry.Point{X: 0, Y: 80}

		result := det.Detect(flexed)
		if result.Detected {
			t.Errorf("expected no detection for shortened distance, got %+v", result)
		}
	})
}
