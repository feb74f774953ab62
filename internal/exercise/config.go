package exercise

import "fmt"

// Config holds the detection thresholds and shared calibration settings for
// the exercise detectors. It is supplied at construction and immutable for a
// detector's lifetime; changing thresholds requires a reset with a new config.
type Config struct {
	// FlexionThreshold is the nose-to-shoulder ratio below which flexion is detected.
	FlexionThreshold float64
	// ExtensionThreshold is the nose-to-shoulder ratio above which extension is detected.
	ExtensionThreshold float64
	// TiltThreshold is the minimum left/right ear ratio difference for a tilt.
	TiltThreshold float64
	// RotationThreshold is the minimum nose-to-ear offset ratio for a rotation.
	RotationThreshold float64
	// ChinTuckThreshold is the offset ratio below which a chin tuck is detected.
	ChinTuckThreshold float64

	// CalibrationFrames is the number of valid frames needed to establish baselines.
	CalibrationFrames int
	// Smoothing is the exponential smoothing factor applied to confidence values.
	Smoothing float64
}

// DefaultConfig returns a Config with the standard thresholds.
func DefaultConfig() Config {
	return Config{
		FlexionThreshold:   0.85,
		ExtensionThreshold: 1.15,
		TiltThreshold:      0.15,
		RotationThreshold:  1.5,
		ChinTuckThreshold:  0.8,
		CalibrationFrames:  15,
		Smoothing:          0.3,
	}
}

// Validate checks the configuration for values that would break detection.
// Misconfiguration is rejected eagerly at construction rather than surfacing
// as per-frame errors.
func (c Config) Validate() error {
	if c.CalibrationFrames <= 0 {
		return fmt.Errorf("calibration frames must be positive, got %d", c.CalibrationFrames)
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing factor must be in (0, 1], got %g", c.Smoothing)
	}
	for name, v := range map[string]float64{
		"flexion":   c.FlexionThreshold,
		"extension": c.ExtensionThreshold,
		"tilt":      c.TiltThreshold,
		"rotation":  c.RotationThreshold,
		"chin tuck": c.ChinTuckThreshold,
	} {
		if v <= 0 {
			return fmt.Errorf("%s threshold must be positive, got %g", name, v)
		}
	}
	return nil
}
