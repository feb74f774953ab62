// Package exercise implements the cervical exercise detection engine:
// per-exercise calibration and detection state machines plus the system
// coordinating them across incoming frames.
package exercise

import (
	"strings"
	"time"
)

// Type identifies one of the five supported cervical exercises.
type Type string

const (
	// CervicalFlexion is the chin-to-chest movement.
	CervicalFlexion Type = "cervical_flexion"
	// CervicalExtension is the look-upward movement.
	CervicalExtension Type = "cervical_extension"
	// LateralNeckTilt is the ear-to-shoulder movement, either side.
	LateralNeckTilt Type = "lateral_neck_tilt"
	// NeckRotation is turning the head left or right.
	NeckRotation Type = "neck_rotation"
	// ChinTuck is the chin retraction movement.
	ChinTuck Type = "chin_tuck"
)

// AllTypes returns every exercise type in a fixed order.
func AllTypes() []Type {
	return []Type{
		CervicalFlexion,
		CervicalExtension,
		LateralNeckTilt,
		NeckRotation,
		ChinTuck,
	}
}

// DisplayName returns a human-readable name for the exercise.
func (t Type) DisplayName() string {
	switch t {
	case CervicalFlexion:
		return "Cervical Flexion (Chin-to-chest)"
	case CervicalExtension:
		return "Cervical Extension (Look upward)"
	case LateralNeckTilt:
		return "Lateral Neck Tilt (Left and Right)"
	case NeckRotation:
		return "Neck Rotation (Turn head left/right)"
	case ChinTuck:
		return "Chin Tuck (Retract chin)"
	default:
		return string(t)
	}
}

// Status represents the lifecycle state a detector reports for one frame.
type Status string

const (
	// StatusCalibrating means the detector is still collecting baseline samples.
	StatusCalibrating Status = "calibrating"
	// StatusReady is emitted exactly once, on the frame that completes calibration.
	StatusReady Status = "ready"
	// StatusDetected means the exercise is currently being performed.
	StatusDetected Status = "detected"
	// StatusNotDetected means the exercise is not currently being performed.
	StatusNotDetected Status = "not_detected"
	// StatusError means no pose was available or detection failed for this frame.
	StatusError Status = "error"
)

// capitalize upper-cases the first letter of a direction word for messages.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Metrics carries named diagnostic values produced alongside a detection,
// such as the live ratio and the threshold it is compared against.
type Metrics map[string]any

// Result is the outcome of running one detector against one frame.
// Results are value objects: produced fresh every frame, never mutated.
type Result struct {
	Type       Type      `json:"exercise_type"`
	Detected   bool      `json:"detected"`
	Confidence float64   `json:"confidence"`
	Status     Status    `json:"status"`
	Message    string    `json:"status_message"`
	Metrics    Metrics   `json:"metrics,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
