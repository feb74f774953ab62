package exercise

// Calibration tracks baseline acquisition progress for one detector.
type Calibration struct {
	FramesCollected int  `json:"frames_collected"`
	FramesRequired  int  `json:"frames_required"`
	Complete        bool `json:"is_complete"`
}

// Progress returns the calibration progress as a percentage, capped at 100.
func (c Calibration) Progress() float64 {
	if c.FramesRequired <= 0 {
		return 0
	}
	progress := float64(c.FramesCollected) / float64(c.FramesRequired) * 100
	if progress > 100 {
		return 100
	}
	return progress
}
