package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ayusman/greeva/internal/app"
	"github.com/ayusman/greeva/internal/config"
	"github.com/ayusman/greeva/internal/detector"
	"github.com/ayusman/greeva/internal/exercise"
	"github.com/ayusman/greeva/internal/server"
	"github.com/ayusman/greeva/internal/store"
	"github.com/ayusman/greeva/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	fmt.Println("Greeva - Neck Exercise Detection")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the store
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = config.DefaultDatabasePath()
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build the detection pipeline
	a, err := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.Camera.Device,
		CameraWidth:  cfg.Camera.Width,
		CameraHeight: cfg.Camera.Height,
		IdleFPS:      cfg.Camera.IdleFPS,
		ActiveFPS:    cfg.Camera.ActiveFPS,
		Pose: detector.Config{
			MinConfidence:   cfg.Pose.MinDetectionConfidence,
			MinTrackingConf: cfg.Pose.MinTrackingConfidence,
			ModelComplexity: cfg.Pose.ModelComplexity,
		},
		Exercise: exercise.Config{
			FlexionThreshold:   cfg.Exercise.FlexionThreshold,
			ExtensionThreshold: cfg.Exercise.ExtensionThreshold,
			TiltThreshold:      cfg.Exercise.TiltThreshold,
			RotationThreshold:  cfg.Exercise.RotationThreshold,
			ChinTuckThreshold:  cfg.Exercise.ChinTuckThreshold,
			CalibrationFrames:  cfg.Exercise.CalibrationFrames,
			Smoothing:          cfg.Exercise.Smoothing,
		},
	})
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure the server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Restore the persisted toggle state, defaulting to enabled
	enabled := true
	if v, err := st.Settings().Get("detection_enabled"); err == nil {
		enabled = v == "true"
	}
	a.SetEnabled(enabled)

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	if *noTray {
		// Block forever; the server goroutine owns the process
		select {}
	}

	runTray(a, st, addr)
	a.Stop()
}

// runTray wires the system tray to the pipeline and blocks until quit.
func runTray(a *app.App, st *store.Store, addr string) {
	t := tray.New()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if err := st.Settings().Set("detection_enabled", strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to persist toggle state: %v", err)
		}
	})
	t.OnRecalibrate(func() {
		a.ResetCalibration()
	})
	t.OnDashboard(func() {
		openBrowser("http://" + addr)
	})

	// Reflect the last detected exercise in the menu
	a.AddResultsHandler(func(results map[exercise.Type]exercise.Result) {
		for typ, res := range results {
			if res.Detected {
				t.SetLastExercise(typ.DisplayName())
			}
		}
	})

	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		log.Printf("Open %s in your browser", url)
		return
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.greeva/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".greeva", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
