// Package simulation provides the configuration of the dose visualization.
// Values are loaded from an optional JSON file laid over built-in defaults.
package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config holds all tunables of the viewer
type Config struct {
	// Window setup
	Window WindowConfig `json:"window"`

	// Dose field generation and shading
	Dose DoseConfig `json:"dose"`

	// Initial scene contents
	Scene SceneConfig `json:"scene"`

	// Camera placement
	Camera CameraConfig `json:"camera"`

	// Scene lighting
	Lighting LightingConfig `json:"lighting"`

	// Heads-up readout
	HUD HUDConfig `json:"hud"`
}

// WindowConfig defines the native window
type WindowConfig struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Title     string `json:"title"`
	Resizable bool   `json:"resizable"`
}

// DoseConfig defines the falloff model and the volume overlay
type DoseConfig struct {
	GridSize       int     `json:"grid_size"`       // Samples per axis (e.g., 64)
	TumorWeight    float64 `json:"tumor_weight"`    // Numerator of the tumor term
	TumorSteepness float64 `json:"tumor_steepness"` // Distance multiplier of the tumor term
	BeamWeight     float64 `json:"beam_weight"`     // Numerator of each beam term
	BeamSteepness  float64 `json:"beam_steepness"`  // Distance multiplier of each beam term

	// IntensityScalesDose multiplies every beam term by the beam intensity.
	// Off by default: intensity then only affects the beam visuals.
	IntensityScalesDose bool `json:"intensity_scales_dose"`

	Threshold float64    `json:"threshold"`  // Samples below this are discarded (0-1)
	Opacity   float64    `json:"opacity"`    // Alpha multiplier per slice
	LowColor  [3]float64 `json:"low_color"`  // Color at dose 0 (RGB 0-1)
	HighColor [3]float64 `json:"high_color"` // Color at dose 1 (RGB 0-1)
}

// SceneConfig defines the initial tumor, beams and labels
type SceneConfig struct {
	Tumor         [3]float64   `json:"tumor"`
	TumorRadius   float64      `json:"tumor_radius"`
	Beams         [][3]float64 `json:"beams"`
	BeamIntensity float64      `json:"beam_intensity"`
	Label         string       `json:"label"`
	ShowBody      bool         `json:"show_body"`
}

// CameraConfig defines the orbit camera start pose
type CameraConfig struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	FOV      float64    `json:"fov"` // Vertical field of view in degrees
}

// LightingConfig defines the ambient and point lights
type LightingConfig struct {
	Ambient        float64    `json:"ambient"`
	PointPosition  [3]float64 `json:"point_position"`
	PointIntensity float64    `json:"point_intensity"`
}

// HUDConfig defines what the heads-up readout shows and where
type HUDConfig struct {
	ShowDoseBar bool    `json:"show_dose_bar"`
	ShowTiming  bool    `json:"show_timing"`
	ShowFPS     bool    `json:"show_fps"`
	Position    string  `json:"position"` // "top-left", "top-right", "bottom-left", "bottom-right"
	Opacity     float64 `json:"opacity"`  // Background opacity (0-1)
}

// DefaultConfig returns the configuration of the demo scene
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    800,
			Title:     "Advanced 3D Radiotherapy Simulation",
			Resizable: true,
		},
		Dose: DoseConfig{
			GridSize:       64,
			TumorWeight:    1,
			TumorSteepness: 10,
			BeamWeight:     0.5,
			BeamSteepness:  5,
			Threshold:      0.5,
			Opacity:        0.5,
			LowColor:       [3]float64{1, 0, 0},
			HighColor:      [3]float64{0, 1, 0},
		},
		Scene: SceneConfig{
			Tumor:       [3]float64{0, 0, 0},
			TumorRadius: 0.1,
			Beams: [][3]float64{
				{1, 1, 1},
				{-1, -1, -1},
			},
			BeamIntensity: 1,
			Label:         "Advanced 3D Radiotherapy Simulation",
			ShowBody:      true,
		},
		Camera: CameraConfig{
			Position: [3]float64{3, 3, 3},
			Target:   [3]float64{0, 0, 0},
			FOV:      75,
		},
		Lighting: LightingConfig{
			Ambient:        0.5,
			PointPosition:  [3]float64{10, 10, 10},
			PointIntensity: 1,
		},
		HUD: HUDConfig{
			ShowDoseBar: true,
			ShowTiming:  true,
			ShowFPS:     true,
			Position:    "top-left",
			Opacity:     0.7,
		},
	}
}

// LoadConfig loads the config from a JSON file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config %s: %w", path, err)
	}

	return config, nil
}

// Validate reports every out-of-range value in the config
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Dose.GridSize < 2 || c.Dose.GridSize > 256 {
		errs = append(errs, fmt.Errorf("grid_size %d out of range [2, 256]", c.Dose.GridSize))
	}
	if c.Dose.TumorWeight < 0 || c.Dose.BeamWeight < 0 {
		errs = append(errs, errors.New("dose weights must not be negative"))
	}
	if c.Dose.TumorSteepness < 0 || c.Dose.BeamSteepness < 0 {
		errs = append(errs, errors.New("dose steepness must not be negative"))
	}
	if c.Dose.Threshold < 0 || c.Dose.Threshold > 1 {
		errs = append(errs, fmt.Errorf("threshold %.2f out of range [0, 1]", c.Dose.Threshold))
	}
	if c.Scene.BeamIntensity < 0 || c.Scene.BeamIntensity > 2 {
		errs = append(errs, fmt.Errorf("beam_intensity %.2f out of range [0, 2]", c.Scene.BeamIntensity))
	}
	if c.Scene.TumorRadius <= 0 {
		errs = append(errs, errors.New("tumor_radius must be positive"))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %.1f out of range (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Position == c.Camera.Target {
		errs = append(errs, errors.New("camera position must differ from target"))
	}
	switch c.HUD.Position {
	case "top-left", "top-right", "bottom-left", "bottom-right":
	default:
		errs = append(errs, fmt.Errorf("hud position %q is not a corner", c.HUD.Position))
	}
	if c.HUD.Opacity < 0 || c.HUD.Opacity > 1 {
		errs = append(errs, fmt.Errorf("hud opacity %.2f out of range [0, 1]", c.HUD.Opacity))
	}

	return errors.Join(errs...)
}
