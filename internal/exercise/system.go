package exercise

import (
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/greeva/internal/detector"
)

// System coordinates one detector per exercise type. Every incoming frame's
// landmarks are fed to all detectors and the per-exercise results collected;
// a failure inside one detector never suppresses the others' results.
type System struct {
	config    Config
	detectors map[Type]Detector

	mu      sync.Mutex
	frames  int
	started time.Time
}

// Stats summarizes a detection session.
type Stats struct {
	TotalFrames         int           `json:"total_frames"`
	SessionDuration     time.Duration `json:"session_duration"`
	FramesPerSecond     float64       `json:"frames_per_second"`
	CalibratedDetectors int           `json:"calibrated_detectors"`
	TotalDetectors      int           `json:"total_detectors"`
}

// NewSystem creates a System with one detector per exercise type.
// The configuration is validated eagerly; an invalid config is the only
// fatal condition in the engine.
func NewSystem(config Config) (*System, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection config: %w", err)
	}

	return &System{
		config: config,
		detectors: map[Type]Detector{
			CervicalFlexion:   NewFlexionDetector(config),
			CervicalExtension: NewExtensionDetector(config),
			LateralNeckTilt:   NewLateralTiltDetector(config),
			NeckRotation:      NewRotationDetector(config),
			ChinTuck:          NewChinTuckDetector(config),
		},
		started: time.Now(),
	}, nil
}

// Detect extracts landmarks from a raw pose result once and runs every
// exercise detector against them, returning a result per exercise type.
func (s *System) Detect(result *detector.PoseResult, height, width int) map[Type]Result {
	return s.DetectLandmarks(detector.ExtractLandmarks(result, height, width))
}

// DetectLandmarks runs every exercise detector against an already-extracted
// landmark set. A nil set yields an error result per exercise.
func (s *System) DetectLandmarks(ls *detector.LandmarkSet) map[Type]Result {
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()

	results := make(map[Type]Result, len(s.detectors))
	for typ, det := range s.detectors {
		results[typ] = runDetector(typ, det, ls)
	}
	return results
}

// runDetector isolates one detector invocation so a panic in a single
// detector degrades to an error result for that exercise only.
func runDetector(typ Type, det Detector, ls *detector.LandmarkSet) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Type:      typ,
				Status:    StatusError,
				Message:   fmt.Sprintf("Detection error: %v", r),
				Timestamp: time.Now(),
			}
		}
	}()
	return det.Detect(ls)
}

// ResetAll returns every detector to the calibrating state and zeroes the
// session counters.
func (s *System) ResetAll() {
	for _, det := range s.detectors {
		det.Reset()
	}

	s.mu.Lock()
	s.frames = 0
	s.started = time.Now()
	s.mu.Unlock()
}

// Stats returns session-level counters for dashboards.
func (s *System) Stats() Stats {
	s.mu.Lock()
	frames := s.frames
	duration := time.Since(s.started)
	s.mu.Unlock()

	fps := 0.0
	if seconds := duration.Seconds(); seconds > 0 {
		fps = float64(frames) / seconds
	}

	calibrated := 0
	for _, det := range s.detectors {
		if det.Calibration().Complete {
			calibrated++
		}
	}

	return Stats{
		TotalFrames:         frames,
		SessionDuration:     duration,
		FramesPerSecond:     fps,
		CalibratedDetectors: calibrated,
		TotalDetectors:      len(s.detectors),
	}
}

// IsFullyCalibrated reports whether every detector has completed calibration.
func (s *System) IsFullyCalibrated() bool {
	for _, det := range s.detectors {
		if !det.Calibration().Complete {
			return false
		}
	}
	return true
}

// CalibrationProgress returns a calibration snapshot per exercise type.
func (s *System) CalibrationProgress() map[Type]Calibration {
	progress := make(map[Type]Calibration, len(s.detectors))
	for typ, det := range s.detectors {
		progress[typ] = det.Calibration()
	}
	return progress
}

// Detector returns the detector for the given exercise type, or nil if the
// type is unknown.
func (s *System) Detector(typ Type) Detector {
	return s.detectors[typ]
}
