package detector

import (
	"gocv.io/x/gocv"
)

// MockPoseDetector is a test implementation of the PoseDetector interface.
// It allows tests to control the detection results.
type MockPoseDetector struct {
	result *PoseResult
	err    error
}

// NewMockPoseDetector creates a new MockPoseDetector instance.
func NewMockPoseDetector() *MockPoseDetector {
	return &MockPoseDetector{}
}

// SetResult sets the pose result that will be returned by Detect.
func (m *MockPoseDetector) SetResult(result *PoseResult) {
	m.result = result
}

// SetError sets the error that will be returned by Detect.
func (m *MockPoseDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured result or error.
func (m *MockPoseDetector) Detect(frame *gocv.Mat) (*PoseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// Close is a no-op for the mock detector.
func (m *MockPoseDetector) Close() error {
	return nil
}

// NeutralPoseResult returns a preset PoseResult representing a person facing
// the camera with the head upright. Coordinates are normalized; the geometry
// is symmetric so both ears sit at the same distance from the nose.
func NeutralPoseResult() *PoseResult {
	keypoints := make([]Keypoint, NumLandmarks)
	for i := range keypoints {
		keypoints[i] = Keypoint{X: 0.5, Y: 0.5, Visibility: 0.9}
	}

	keypoints[Nose] = Keypoint{X: 0.50, Y: 0.30, Visibility: 0.99}
	keypoints[LeftEar] = Keypoint{X: 0.56, Y: 0.32, Visibility: 0.95}
	keypoints[RightEar] = Keypoint{X: 0.44, Y: 0.32, Visibility: 0.95}
	keypoints[LeftShoulder] = Keypoint{X: 0.62, Y: 0.55, Visibility: 0.98}
	keypoints[RightShoulder] = Keypoint{X: 0.38, Y: 0.55, Visibility: 0.98}

	return &PoseResult{Keypoints: keypoints, Score: 0.97}
}

// FlexedPoseResult returns a preset PoseResult with the chin lowered toward
// the chest: the nose has moved noticeably closer to the shoulder midline
// than in NeutralPoseResult.
func FlexedPoseResult() *PoseResult {
	result := NeutralPoseResult()
	result.Keypoints[Nose] = Keypoint{X: 0.50, Y: 0.42, Visibility: 0.99}
	result.Keypoints[LeftEar] = Keypoint{X: 0.56, Y: 0.42, Visibility: 0.9}
	result.Keypoints[RightEar] = Keypoint{X: 0.44, Y: 0.42, Visibility: 0.9}
	return result
}

// EmptyPoseResult returns a PoseResult with no keypoints, representing a
// frame where the model found no person.
func EmptyPoseResult() *PoseResult {
	return &PoseResult{}
}
