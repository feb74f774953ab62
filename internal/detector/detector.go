package detector

import "gocv.io/x/gocv"

// PoseDetector defines the interface for pose estimation implementations.
type PoseDetector interface {
	// Detect analyzes a video frame and returns the detected pose.
	// Returns a result with no keypoints if no person is detected.
	Detect(frame *gocv.Mat) (*PoseResult, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ModelComplexity selects the MediaPipe pose model variant (0-2).
	ModelComplexity int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		ModelComplexity: 1,
	}
}
