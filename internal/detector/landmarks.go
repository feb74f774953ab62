// Package detector provides pose detection interfaces and landmark types for
// cervical exercise recognition.
package detector

import (
	"math"

	"github.com/ayusman/greeva/internal/geometry"
)

// Pose landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftEar       = 7
	RightEar      = 8
	LeftShoulder  = 11
	RightShoulder = 12
	NumLandmarks  = 33
)

// Keypoint represents a single pose keypoint in normalized coordinates as
// produced by the pose model, with its visibility score.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// PoseResult represents the raw output of a pose model for one frame.
// An empty Keypoints slice means no person was detected.
type PoseResult struct {
	Keypoints []Keypoint `json:"keypoints"`
	Score     float64    `json:"score"`
}

// LandmarkSet holds the five keypoints the exercise detectors consume,
// in pixel coordinates for one frame.
type LandmarkSet struct {
	Nose          geometry.Point `json:"nose"`
	LeftEar       geometry.Point `json:"left_ear"`
	RightEar      geometry.Point `json:"right_ear"`
	LeftShoulder  geometry.Point `json:"left_shoulder"`
	RightShoulder geometry.Point `json:"right_shoulder"`
}

// ExtractLandmarks converts a raw pose result into a LandmarkSet in pixel
// coordinates by scaling each normalized keypoint by the frame dimensions.
// Returns nil when the model produced no detection or too few keypoints to
// cover the shoulders; both are normal outcomes meaning "no person visible",
// never errors.
func ExtractLandmarks(result *PoseResult, height, width int) *LandmarkSet {
	if result == nil || len(result.Keypoints) == 0 {
		return nil
	}
	if len(result.Keypoints) <= RightShoulder {
		return nil
	}

	w := float64(width)
	h := float64(height)
	at := func(i int) geometry.Point {
		kp := result.Keypoints[i]
		return geometry.Point{X: kp.X * w, Y: kp.Y * h}
	}

	return &LandmarkSet{
		Nose:          at(Nose),
		LeftEar:       at(LeftEar),
		RightEar:      at(RightEar),
		LeftShoulder:  at(LeftShoulder),
		RightShoulder: at(RightShoulder),
	}
}

// IsVisible reports whether every landmark has finite, non-negative
// coordinates. Callers that need a stricter confidence gate than plain
// absence can use this; the exercise detectors themselves do not.
func (ls *LandmarkSet) IsVisible() bool {
	if ls == nil {
		return false
	}
	for _, p := range ls.Points() {
		if p.X < 0 || p.Y < 0 {
			return false
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// Points returns the five landmarks in a fixed order:
// nose, left ear, right ear, left shoulder, right shoulder.
func (ls *LandmarkSet) Points() [5]geometry.Point {
	return [5]geometry.Point{
		ls.Nose, ls.LeftEar, ls.RightEar, ls.LeftShoulder, ls.RightShoulder,
	}
}

// MidShoulder returns the midpoint between the two shoulders.
func (ls *LandmarkSet) MidShoulder() geometry.Point {
	return geometry.Midpoint(ls.LeftShoulder, ls.RightShoulder)
}

// MidEar returns the midpoint between the two ears.
func (ls *LandmarkSet) MidEar() geometry.Point {
	return geometry.Midpoint(ls.LeftEar, ls.RightEar)
}
