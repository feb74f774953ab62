// Package config loads the Greeva application configuration from YAML
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Camera   CameraConfig   `yaml:"camera"`
	Pose     PoseConfig     `yaml:"pose"`
	Exercise ExerciseConfig `yaml:"exercise"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CameraConfig struct {
	Device    int `yaml:"device"`
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	ActiveFPS int `yaml:"active_fps"`
	IdleFPS   int `yaml:"idle_fps"`
}

type PoseConfig struct {
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
	ModelComplexity        int     `yaml:"model_complexity"`
}

type ExerciseConfig struct {
	CalibrationFrames  int     `yaml:"calibration_frames"`
	Smoothing          float64 `yaml:"smoothing"`
	FlexionThreshold   float64 `yaml:"flexion_threshold"`
	ExtensionThreshold float64 `yaml:"extension_threshold"`
	TiltThreshold      float64 `yaml:"tilt_threshold"`
	RotationThreshold  float64 `yaml:"rotation_threshold"`
	ChinTuckThreshold  float64 `yaml:"chin_tuck_threshold"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Camera: CameraConfig{
			Device:    0,
			Width:     640,
			Height:    480,
			ActiveFPS: 15,
			IdleFPS:   2,
		},
		Pose: PoseConfig{
			MinDetectionConfidence: 0.5,
			MinTrackingConfidence:  0.5,
			ModelComplexity:        1,
		},
		Exercise: ExerciseConfig{
			CalibrationFrames:  15,
			Smoothing:          0.3,
			FlexionThreshold:   0.85,
			ExtensionThreshold: 1.15,
			TiltThreshold:      0.15,
			RotationThreshold:  1.5,
			ChinTuckThreshold:  0.8,
		},
	}
}

// DefaultDatabasePath returns the database location under the user's
// Greeva directory.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".greeva", "greeva.db"), nil
}

// Load builds the configuration starting from defaults, layering in a YAML
// file when path is non-empty, then applying environment variable overrides.
// Env vars use the prefix GREEVA_ and underscore-separated paths:
//
//	GREEVA_SERVER_HOST, GREEVA_SERVER_PORT,
//	GREEVA_CAMERA_DEVICE, GREEVA_CAMERA_ACTIVE_FPS, GREEVA_CAMERA_IDLE_FPS,
//	GREEVA_POSE_MODEL_COMPLEXITY, GREEVA_DB_PATH
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GREEVA_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GREEVA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GREEVA_CAMERA_DEVICE"); v != "" {
		if device, err := strconv.Atoi(v); err == nil {
			cfg.Camera.Device = device
		}
	}
	if v := os.Getenv("GREEVA_CAMERA_ACTIVE_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil {
			cfg.Camera.ActiveFPS = fps
		}
	}
	if v := os.Getenv("GREEVA_CAMERA_IDLE_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil {
			cfg.Camera.IdleFPS = fps
		}
	}
	if v := os.Getenv("GREEVA_POSE_MODEL_COMPLEXITY"); v != "" {
		if complexity, err := strconv.Atoi(v); err == nil {
			cfg.Pose.ModelComplexity = complexity
		}
	}
	if v := os.Getenv("GREEVA_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Camera.Device < 0 {
		return fmt.Errorf("camera.device must not be negative, got %d", c.Camera.Device)
	}
	if c.Camera.ActiveFPS <= 0 {
		return fmt.Errorf("camera.active_fps must be positive, got %d", c.Camera.ActiveFPS)
	}
	if c.Camera.IdleFPS <= 0 {
		return fmt.Errorf("camera.idle_fps must be positive, got %d", c.Camera.IdleFPS)
	}
	if c.Pose.ModelComplexity < 0 || c.Pose.ModelComplexity > 2 {
		return fmt.Errorf("pose.model_complexity must be 0, 1 or 2, got %d", c.Pose.ModelComplexity)
	}
	if c.Pose.MinDetectionConfidence <= 0 || c.Pose.MinDetectionConfidence > 1 {
		return fmt.Errorf("pose.min_detection_confidence must be in (0, 1], got %g", c.Pose.MinDetectionConfidence)
	}
	if c.Pose.MinTrackingConfidence <= 0 || c.Pose.MinTrackingConfidence > 1 {
		return fmt.Errorf("pose.min_tracking_confidence must be in (0, 1], got %g", c.Pose.MinTrackingConfidence)
	}
	if c.Exercise.CalibrationFrames <= 0 {
		return fmt.Errorf("exercise.calibration_frames must be positive, got %d", c.Exercise.CalibrationFrames)
	}
	if c.Exercise.Smoothing <= 0 || c.Exercise.Smoothing > 1 {
		return fmt.Errorf("exercise.smoothing must be in (0, 1], got %g", c.Exercise.Smoothing)
	}
	return nil
}
