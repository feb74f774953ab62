package exercise

import (
	"fmt"
	"time"

	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/geometry"
)

// Detector is the per-exercise state machine. Implementations calibrate a
// baseline over the first frames, then report detection state and a smoothed
// confidence for every subsequent frame. Detect always returns a Result and
// never panics across the API boundary; faults become error Results.
type Detector interface {
	// Detect runs one frame through the state machine. A nil landmark set
	// always yields an error Result and leaves the calibration untouched.
	Detect(ls *detector.LandmarkSet) Result

	// Reset returns the detector to the calibrating state, discarding the
	// baseline and confidence history. Thresholds are unaffected.
	Reset()

	// Type returns the exercise this detector recognizes.
	Type() Type

	// Calibration returns a snapshot of the calibration progress.
	Calibration() Calibration
}

// algorithm is the exercise-specific part of a detector: what to sample
// during calibration, how to finalize the baseline, and how to score a
// calibrated frame.
type algorithm interface {
	// collect feeds one calibration frame into the baseline accumulator.
	collect(ls *detector.LandmarkSet)

	// finalize computes the baseline value(s) from the collected samples.
	// Called exactly once, on the frame that completes calibration.
	finalize()

	// reset discards collected samples and finalized baselines.
	reset()

	// evaluate scores a calibrated frame: detected flag, raw confidence in
	// [0,1] (exactly 0 when not detected), and diagnostic metrics.
	evaluate(ls *detector.LandmarkSet) (bool, float64, Metrics)

	// message renders the user-facing status line for a scored frame.
	message(detected bool, m Metrics) string
}

// stateDetector implements the lifecycle shared by all five exercises:
// calibrating, then ready exactly once, then detected/not detected, with
// errors reachable from any state.
type stateDetector struct {
	typ            Type
	config         Config
	calibration    Calibration
	prevConfidence float64
	algo           algorithm
}

func newStateDetector(typ Type, config Config, algo algorithm) *stateDetector {
	return &stateDetector{
		typ:    typ,
		config: config,
		calibration: Calibration{
			FramesRequired: config.CalibrationFrames,
		},
		algo: algo,
	}
}

// Detect implements the Detector interface.
func (d *stateDetector) Detect(ls *detector.LandmarkSet) (result Result) {
	now := time.Now()

	if ls == nil {
		return Result{
			Type:      d.typ,
			Status:    StatusError,
			Message:   "No pose detected - make sure you are visible to the camera",
			Timestamp: now,
		}
	}

	if !d.calibration.Complete {
		return d.calibrate(ls, now)
	}

	// A malformed landmark set must not take down the per-frame loop;
	// convert any panic from the scoring path into an error Result.
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Type:      d.typ,
				Status:    StatusError,
				Message:   fmt.Sprintf("Detection error: %v", r),
				Timestamp: now,
			}
		}
	}()

	detected, confidence, metrics := d.algo.evaluate(ls)

	smoothed := geometry.Smooth(confidence, d.prevConfidence, d.config.Smoothing)
	d.prevConfidence = smoothed

	status := StatusNotDetected
	if detected {
		status = StatusDetected
	}

	return Result{
		Type:       d.typ,
		Detected:   detected,
		Confidence: smoothed,
		Status:     status,
		Message:    d.algo.message(detected, metrics),
		Metrics:    metrics,
		Timestamp:  now,
	}
}

// calibrate accumulates one baseline sample and reports progress. The frame
// that reaches the required count finalizes the baseline and reports ready.
func (d *stateDetector) calibrate(ls *detector.LandmarkSet, now time.Time) Result {
	d.calibration.FramesCollected++
	d.algo.collect(ls)

	if d.calibration.FramesCollected >= d.calibration.FramesRequired {
		d.algo.finalize()
		d.calibration.Complete = true
		return Result{
			Type:      d.typ,
			Status:    StatusReady,
			Message:   "Calibration complete - start exercising now",
			Timestamp: now,
		}
	}

	return Result{
		Type:   d.typ,
		Status: StatusCalibrating,
		Message: fmt.Sprintf("Calibrating... %.0f%% (%d/%d)",
			d.calibration.Progress(),
			d.calibration.FramesCollected,
			d.calibration.FramesRequired),
		Timestamp: now,
	}
}

// Reset implements the Detector interface.
func (d *stateDetector) Reset() {
	d.calibration.FramesCollected = 0
	d.calibration.Complete = false
	d.prevConfidence = 0
	d.algo.reset()
}

// Type implements the Detector interface.
func (d *stateDetector) Type() Type {
	return d.typ
}

// Calibration implements the Detector interface.
func (d *stateDetector) Calibration() Calibration {
	return d.calibration
}
