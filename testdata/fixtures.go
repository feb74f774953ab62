// Package testdata provides canned pose sequences for tests.
package testdata

import "github.com/ayusman/greeva/internal/detector"

// NeutralSequence returns n frames of a neutral upright pose, enough to
// drive a detector through calibration when n matches the configured
// calibration frame count.
func NeutralSequence(n int) []*detector.PoseResult {
	frames := make([]*detector.PoseResult, n)
	for i := range frames {
		frames[i] = detector.NeutralPoseResult()
	}
	return frames
}

// FlexionSequence returns n frames of a pose with the chin lowered toward
// the chest.
func FlexionSequence(n int) []*detector.PoseResult {
	frames := make([]*detector.PoseResult, n)
	for i := range frames {
		frames[i] = detector.FlexedPoseResult()
	}
	return frames
}

// AbsentSequence returns n frames where no person is visible.
func AbsentSequence(n int) []*detector.PoseResult {
	frames := make([]*detector.PoseResult, n)
	for i := range frames {
		frames[i] = detector.EmptyPoseResult()
	}
	return frames
}
