package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/greeva/internal/exercise"
)

// runPipeline is the main detection loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (low FPS)
// 2. On motion detected, switch to active mode (full FPS)
// 3. Run pose detection on the frame
// 4. Feed the landmarks to every exercise detector
// 5. Publish results to the snapshot and any registered handler
// 6. After 2s no motion, switch back to idle mode
func (a *App) runPipeline() {
	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(a.config.IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(a.config.IdleFPS)
					frameInterval = time.Second / time.Duration(a.config.IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// Keep the stream snapshot fresh in both modes
			a.updateFrame(frame)

			// Skip pose detection when idle
			if !activeMode {
				frame.Close()
				continue
			}

			// Step 2: Pose detection
			pose := a.PoseDetector()
			result, err := pose.Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				continue
			}

			// Step 3: Exercise detection
			height, width := a.camera.FrameSize()
			results := a.system.Detect(result, height, width)

			// Step 4: Publish
			for _, handler := range a.recordResults(results) {
				handler(results)
			}
		}
	}
}

// updateFrame stores a JPEG snapshot of the frame for the MJPEG stream.
func (a *App) updateFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())

	a.mu.Lock()
	a.latestFrame = data
	a.mu.Unlock()
}

// recordResults updates the latest snapshot and the session aggregates,
// and returns the registered results handlers.
func (a *App) recordResults(results map[exercise.Type]exercise.Result) []ResultsHandler {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.frames++
	for typ, res := range results {
		a.latest[typ] = res

		agg := a.agg[typ]
		if agg == nil {
			agg = &sessionAgg{}
			a.agg[typ] = agg
		}
		// Count rising edges so a held position is one detection
		if res.Detected && !agg.prevDetected {
			agg.detections++
		}
		agg.prevDetected = res.Detected
		if res.Confidence > agg.peak {
			agg.peak = res.Confidence
		}
	}

	return a.onResults
}
