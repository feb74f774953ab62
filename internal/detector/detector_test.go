package detector

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/greeva/internal/geometry"
)

const epsilon = 1e-9

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func dist(a, b geometry.Point) float64 {
	return geometry.Distance(a, b)
}

func TestExtractLandmarks(t *testing.T) {
	t.Run("scales normalized coordinates to pixels", func(t *testing.T) {
		result := NeutralPoseResult()
		ls := ExtractLandmarks(result, 480, 640)

		if ls == nil {
			t.Fatal("expected landmarks, got nil")
		}

		wantX := result.Keypoints[Nose].X * 640
		wantY := result.Keypoints[Nose].Y * 480
		if math.Abs(ls.Nose.X-wantX) > epsilon {
			t.Errorf("expected nose X %f, got %f", wantX, ls.Nose.X)
		}
		if math.Abs(ls.Nose.Y-wantY) > epsilon {
			t.Errorf("expected nose Y %f, got %f", wantY, ls.Nose.Y)
		}
	})

	t.Run("nil result returns nil", func(t *testing.T) {
		if ls := ExtractLandmarks(nil, 480, 640); ls != nil {
			t.Error("expected nil landmarks for nil result")
		}
	})

	t.Run("empty keypoints returns nil", func(t *testing.T) {
		if ls := ExtractLandmarks(EmptyPoseResult(), 480, 640); ls != nil {
			t.Error("expected nil landmarks for empty result")
		}
	})

	t.Run("truncated keypoints returns nil", func(t *testing.T) {
		// Keypoints end before the right shoulder index
		result := &PoseResult{Keypoints: make([]Keypoint, RightShoulder)}
		if ls := ExtractLandmarks(result, 480, 640); ls != nil {
			t.Error("expected nil landmarks for truncated result")
		}
	})
}

func TestLandmarkSet_IsVisible(t *testing.T) {
	t.Run("valid landmarks are visible", func(t *testing.T) {
		ls := ExtractLandmarks(NeutralPoseResult(), 480, 640)
		if !ls.IsVisible() {
			t.Error("expected valid landmarks to be visible")
		}
	})

	t.Run("nil set is not visible", func(t *testing.T) {
		var ls *LandmarkSet
		if ls.IsVisible() {
			t.Error("expected nil landmarks to be invisible")
		}
	})

	t.Run("negative coordinate rejected", func(t *testing.T) {
		ls := ExtractLandmarks(NeutralPoseResult(), 480, 640)
		ls.LeftEar.X = -10
		if ls.IsVisible() {
			t.Error("expected landmarks with negative coordinate to be invisible")
		}
	})

	t.Run("NaN coordinate rejected", func(t *testing.T) {
		ls := ExtractLandmarks(NeutralPoseResult(), 480, 640)
		ls.RightShoulder.Y = math.NaN()
		if ls.IsVisible() {
			t.Error("expected landmarks with NaN coordinate to be invisible")
		}
	})
}

func TestLandmarkSet_Midpoints(t *testing.T) {
	ls := &LandmarkSet{
		LeftEar:       pt(60, 30),
		RightEar:      pt(40, 30),
		LeftShoulder:  pt(80, 100),
		RightShoulder: pt(20, 100),
	}

	mid := ls.MidShoulder()
	if mid.X != 50 || mid.Y != 100 {
		t.Errorf("expected mid-shoulder (50, 100), got (%f, %f)", mid.X, mid.Y)
	}

	mid = ls.MidEar()
	if mid.X != 50 || mid.Y != 30 {
		t.Errorf("expected mid-ear (50, 30), got (%f, %f)", mid.X, mid.Y)
	}
}

func TestMockPoseDetector(t *testing.T) {
	t.Run("returns nil result by default", func(t *testing.T) {
		mock := NewMockPoseDetector()

		result, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != nil {
			t.Errorf("expected nil result, got %v", result)
		}
	})

	t.Run("returns configured result", func(t *testing.T) {
		mock := NewMockPoseDetector()
		mock.SetResult(NeutralPoseResult())

		result, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result == nil || len(result.Keypoints) != NumLandmarks {
			t.Errorf("expected %d keypoints, got %v", NumLandmarks, result)
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockPoseDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		result, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if result != nil {
			t.Errorf("expected nil result when error is set, got %v", result)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		mock := NewMockPoseDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements PoseDetector interface", func(t *testing.T) {
		var _ PoseDetector = (*MockPoseDetector)(nil)
	})
}

func TestFlexedPoseResult(t *testing.T) {
	neutral := ExtractLandmarks(NeutralPoseResult(), 480, 640)
	flexed := ExtractLandmarks(FlexedPoseResult(), 480, 640)

	neutralDist := dist(neutral.Nose, neutral.MidShoulder())
	flexedDist := dist(flexed.Nose, flexed.MidShoulder())

	if flexedDist >= neutralDist*0.85 {
		t.Errorf("expected flexed nose-to-shoulder distance well below neutral, got %f vs %f",
			flexedDist, neutralDist)
	}
}
