package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/greeva/internal/capture"
	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/exercise"
	"github.com/ayusman/greeva/internal/store"
)

func newTestApp(t *testing.T, s *store.Store) *App {
	t.Helper()

	a, err := New(Config{
		Store:    s,
		Exercise: exercise.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Inject mocks so no camera or MediaPipe is needed
	a.camera = capture.NewMockCamera(nil, false)
	a.SetPoseDetector(detector.NewMockPoseDetector())
	return a
}

func TestApp_New_AppliesDefaults(t *testing.T) {
	a, err := New(Config{Exercise: exercise.DefaultConfig()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.config.MotionThresh != DefaultMotionThreshold {
		t.Errorf("motion threshold = %v, want %v", a.config.MotionThresh, DefaultMotionThreshold)
	}
	if a.config.IdleFPS != DefaultIdleFPS {
		t.Errorf("idle fps = %d, want %d", a.config.IdleFPS, DefaultIdleFPS)
	}
	if a.config.ActiveFPS != DefaultActiveFPS {
		t.Errorf("active fps = %d, want %d", a.config.ActiveFPS, DefaultActiveFPS)
	}
}

func TestApp_New_RejectsInvalidExerciseConfig(t *testing.T) {
	cfg := exercise.DefaultConfig()
	cfg.Smoothing = -1

	if _, err := New(Config{Exercise: cfg}); err == nil {
		t.Fatal("expected error for invalid exercise config")
	}
}

func TestApp_EnableDisable(t *testing.T) {
	a, err := New(Config{Exercise: exercise.DefaultConfig()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.IsEnabled() {
		t.Error("detection should start disabled")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("detection should be enabled after SetEnabled(true)")
	}
	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("detection should be disabled after SetEnabled(false)")
	}
}

func TestApp_RecordResults_Aggregates(t *testing.T) {
	a, err := New(Config{Exercise: exercise.DefaultConfig()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	detected := map[exercise.Type]exercise.Result{
		exercise.CervicalFlexion: {
			Type: exercise.CervicalFlexion, Detected: true, Confidence: 0.7,
			Status: exercise.StatusDetected,
		},
	}
	notDetected := map[exercise.Type]exercise.Result{
		exercise.CervicalFlexion: {
			Type: exercise.CervicalFlexion, Detected: false, Confidence: 0.2,
			Status: exercise.StatusNotDetected,
		},
	}

	// Held detection over two frames counts once
	a.recordResults(detected)
	a.recordResults(detected)
	a.recordResults(notDetected)
	a.recordResults(detected)

	if a.frames != 4 {
		t.Errorf("frames = %d, want 4", a.frames)
	}

	agg := a.agg[exercise.CervicalFlexion]
	if agg == nil {
		t.Fatal("expected aggregate for cervical flexion")
	}
	if agg.detections != 2 {
		t.Errorf("detections = %d, want 2 (rising edges only)", agg.detections)
	}
	if agg.peak != 0.7 {
		t.Errorf("peak confidence = %v, want 0.7", agg.peak)
	}
}

func TestApp_LatestResults_ReturnsCopy(t *testing.T) {
	a, err := New(Config{Exercise: exercise.DefaultConfig()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a.recordResults(map[exercise.Type]exercise.Result{
		exercise.ChinTuck: {Type: exercise.ChinTuck, Confidence: 0.5},
	})

	results := a.LatestResults()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// Mutating the returned map must not affect the snapshot
	delete(results, exercise.ChinTuck)
	if len(a.LatestResults()) != 1 {
		t.Error("LatestResults should return a copy")
	}
}

func TestApp_ResultsHandler_Invoked(t *testing.T) {
	a, err := New(Config{Exercise: exercise.DefaultConfig()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var got map[exercise.Type]exercise.Result
	a.AddResultsHandler(func(r map[exercise.Type]exercise.Result) {
		got = r
	})

	results := map[exercise.Type]exercise.Result{
		exercise.NeckRotation: {Type: exercise.NeckRotation},
	}
	handlers := a.recordResults(results)
	if len(handlers) != 1 {
		t.Fatalf("expected 1 registered handler, got %d", len(handlers))
	}
	handlers[0](results)

	if got == nil {
		t.Fatal("handler was not invoked")
	}
	if _, ok := got[exercise.NeckRotation]; !ok {
		t.Error("handler received wrong results")
	}
}

func TestApp_SessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := newTestApp(t, s)
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	sessionID := a.SessionID()
	if sessionID == "" {
		t.Fatal("expected a session id after Start")
	}

	// Record some activity before stopping
	a.recordResults(map[exercise.Type]exercise.Result{
		exercise.CervicalExtension: {
			Type: exercise.CervicalExtension, Detected: true, Confidence: 0.9,
		},
	})

	time.Sleep(50 * time.Millisecond)
	a.Stop()

	sess, err := s.Sessions().GetByID(sessionID)
	if err != nil {
		t.Fatalf("session should be persisted: %v", err)
	}
	if sess.EndedAt == nil {
		t.Error("stopped session should have an end time")
	}
	if sess.Frames != 1 {
		t.Errorf("session frames = %d, want 1", sess.Frames)
	}
	if len(sess.Results) != 1 {
		t.Fatalf("expected 1 session result, got %d", len(sess.Results))
	}
	if sess.Results[0].ExerciseType != string(exercise.CervicalExtension) {
		t.Errorf("result exercise = %q, want %q",
			sess.Results[0].ExerciseType, exercise.CervicalExtension)
	}
	if sess.Results[0].PeakConfidence != 0.9 {
		t.Errorf("peak confidence = %v, want 0.9", sess.Results[0].PeakConfidence)
	}

	if a.SessionID() != "" {
		t.Error("session id should be cleared after Stop")
	}
}

func TestApp_Start_Twice_IsNoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a := newTestApp(t, nil)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	first := a.SessionID()
	if err := a.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if a.SessionID() != first {
		t.Error("second Start should not begin a new session")
	}
}
