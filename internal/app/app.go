// Package app provides the main application logic for the Greeva exercise detection system.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/greeva/internal/capture"
	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/exercise"
	"github.com/ayusman/greeva/internal/store"
)

// Pipeline timing constants.
const (
	// DefaultIdleFPS is the frame rate when no motion is detected.
	DefaultIdleFPS = 2
	// DefaultActiveFPS is the frame rate during active detection.
	DefaultActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
	// DefaultMotionThreshold is the percentage of changed pixels that counts as motion.
	DefaultMotionThreshold = 1.0
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	CameraWidth  int
	CameraHeight int
	MotionThresh float64
	IdleFPS      int
	ActiveFPS    int
	Pose         detector.Config
	Exercise     exercise.Config
}

// ResultsHandler receives the per-exercise results of each processed frame.
type ResultsHandler func(map[exercise.Type]exercise.Result)

// sessionAgg accumulates per-exercise outcomes over the current session.
type sessionAgg struct {
	detections   int
	peak         float64
	prevDetected bool
}

// App is the main application that orchestrates the camera, pose detection
// and the exercise engine.
type App struct {
	config Config
	camera capture.Camera
	motion *capture.MotionDetector
	pose   detector.PoseDetector
	system *exercise.System

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	onResults []ResultsHandler

	latest      map[exercise.Type]exercise.Result
	latestFrame []byte

	sessionID    string
	sessionStart time.Time
	frames       int
	agg          map[exercise.Type]*sessionAgg
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.MotionThresh <= 0 {
		config.MotionThresh = DefaultMotionThreshold
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultActiveFPS
	}

	system, err := exercise.NewSystem(config.Exercise)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  config,
		camera:  capture.NewCameraWithSize(config.CameraID, config.CameraWidth, config.CameraHeight),
		motion:  capture.NewMotionDetector(config.MotionThresh),
		system:  system,
		enabled: false,
		latest:  make(map[exercise.Type]exercise.Result),
		agg:     make(map[exercise.Type]*sessionAgg),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Pose); err == nil {
		a.pose = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.pose = detector.NewMockPoseDetector()
	}

	return a, nil
}

// SetEnabled enables or disables exercise detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether exercise detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetPoseDetector sets the pose detector implementation to use.
func (a *App) SetPoseDetector(d detector.PoseDetector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pose = d
}

// PoseDetector returns the pose detector.
func (a *App) PoseDetector() detector.PoseDetector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pose
}

// AddResultsHandler registers a handler invoked with the results of each
// processed frame. Used by the server and tray to receive live updates.
func (a *App) AddResultsHandler(h ResultsHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onResults = append(a.onResults, h)
}

// Start begins the detection pipeline and opens a new session.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(a.config.IdleFPS)

	a.sessionID = uuid.New().String()
	a.sessionStart = time.Now()
	a.frames = 0
	a.agg = make(map[exercise.Type]*sessionAgg)

	if a.config.Store != nil {
		sess := &store.Session{ID: a.sessionID, StartedAt: a.sessionStart}
		if err := a.config.Store.Sessions().Create(sess); err != nil {
			log.Printf("Failed to record session start: %v", err)
		}
	}

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline, persists the session and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	a.saveSessionLocked()

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the pose detector if set
	if a.pose != nil {
		if err := a.pose.Close(); err != nil {
			log.Printf("Error closing pose detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// saveSessionLocked persists the current session outcome. Caller must hold a.mu.
func (a *App) saveSessionLocked() {
	if a.config.Store == nil || a.sessionID == "" {
		return
	}

	sessions := a.config.Store.Sessions()
	if err := sessions.Finish(a.sessionID, time.Now(), a.frames); err != nil {
		log.Printf("Failed to record session end: %v", err)
		return
	}

	results := make([]*store.SessionResult, 0, len(a.agg))
	for typ, agg := range a.agg {
		results = append(results, &store.SessionResult{
			ExerciseType:   string(typ),
			Detections:     agg.detections,
			PeakConfidence: agg.peak,
		})
	}
	if err := sessions.SaveResults(a.sessionID, results); err != nil {
		log.Printf("Failed to record session results: %v", err)
	}
	a.sessionID = ""
}

// ResetCalibration resets every exercise detector back to the calibrating state.
func (a *App) ResetCalibration() {
	a.system.ResetAll()
	log.Println("Calibration reset")
}

// LatestResults returns a copy of the most recent per-exercise results.
func (a *App) LatestResults() map[exercise.Type]exercise.Result {
	a.mu.RLock()
	defer a.mu.RUnlock()

	results := make(map[exercise.Type]exercise.Result, len(a.latest))
	for typ, res := range a.latest {
		results[typ] = res
	}
	return results
}

// LatestFrame returns the most recent camera frame encoded as JPEG,
// or nil when no frame has been captured yet.
func (a *App) LatestFrame() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latestFrame
}

// SessionID returns the identifier of the current session, or an empty
// string when the pipeline is not running.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// System returns the exercise detection engine.
func (a *App) System() *exercise.System {
	return a.system
}
