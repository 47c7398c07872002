package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"manipulators/internal/manipulators"
	"manipulators/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the editor and manipulator settings.
type Config struct {
	// Handle sizes, colors and drag behaviour
	Manipulators ManipulatorsConfig `yaml:"manipulators"`

	// Grid and angle snapping
	Snapping manipulators.Snapping `yaml:"snapping"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Window and file locations
	Editor EditorConfig `yaml:"editor"`
}

// ManipulatorsConfig mirrors manipulators.Style with colors given by name.
type ManipulatorsConfig struct {
	AxisLength       float32 `yaml:"axis_length"`
	ShaftRadius      float32 `yaml:"shaft_radius"`
	ConeLength       float32 `yaml:"cone_length"`
	ConeRadius       float32 `yaml:"cone_radius"`
	ScaleBoxSize     float32 `yaml:"scale_box_size"`
	PlanarSize       float32 `yaml:"planar_size"`
	PlanarOffset     float32 `yaml:"planar_offset"`
	RingRadius       float32 `yaml:"ring_radius"`
	RingMinorRadius  float32 `yaml:"ring_minor_radius"`
	HitPadding       float32 `yaml:"hit_padding"`
	RingHitPadding   float32 `yaml:"ring_hit_padding"`
	ScreenSizePixels float32 `yaml:"screen_size_pixels"` // 0 = fixed world size

	AxisColors   [3]string `yaml:"axis_colors"`
	PlanarColor  string    `yaml:"planar_color"`
	UniformColor string    `yaml:"uniform_color"`
	HoverColor   string    `yaml:"hover_color"`
	ActiveColor  string    `yaml:"active_color"`

	ScaleSensitivity float32 `yaml:"scale_sensitivity"`
	MinScaleFactor   float32 `yaml:"min_scale_factor"`

	Mode  string `yaml:"mode"`  // translate, rotate, scale
	Space string `yaml:"space"` // world, local
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// EditorConfig configures the raylib host.
type EditorConfig struct {
	Title        string `yaml:"title"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	TargetFPS    int    `yaml:"target_fps"`
	ScenePath    string `yaml:"scene"` // empty = demo scene
	PrefsPath    string `yaml:"prefs"`
	DemoSeed     int64  `yaml:"demo_seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	style := manipulators.DefaultStyle()
	return &Config{
		Manipulators: ManipulatorsConfig{
			AxisLength:       style.AxisLength,
			ShaftRadius:      style.ShaftRadius,
			ConeLength:       style.ConeLength,
			ConeRadius:       style.ConeRadius,
			ScaleBoxSize:     style.ScaleBoxSize,
			PlanarSize:       style.PlanarSize,
			PlanarOffset:     style.PlanarOffset,
			RingRadius:       style.RingRadius,
			RingMinorRadius:  style.RingMinorRadius,
			HitPadding:       style.HitPadding,
			RingHitPadding:   style.RingHitPadding,
			ScreenSizePixels: 110,
			AxisColors: [3]string{
				world.ColorName(style.AxisColors[0]),
				world.ColorName(style.AxisColors[1]),
				world.ColorName(style.AxisColors[2]),
			},
			PlanarColor:      world.ColorName(style.PlanarColor),
			UniformColor:     world.ColorName(style.UniformColor),
			HoverColor:       world.ColorName(style.HoverColor),
			ActiveColor:      world.ColorName(style.ActiveColor),
			ScaleSensitivity: 0.5,
			MinScaleFactor:   0.1,
			Mode:             "translate",
			Space:            "world",
		},
		Snapping: manipulators.Snapping{
			Enabled:      false,
			GridSize:     0.5,
			AngleDegrees: 15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Editor: EditorConfig{
			Title:        "Manipulators",
			WindowWidth:  1280,
			WindowHeight: 720,
			TargetFPS:    60,
			PrefsPath:    "editor_prefs.json",
			DemoSeed:     1,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("MANIP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if scene := os.Getenv("MANIP_SCENE"); scene != "" {
		c.Editor.ScenePath = scene
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	m := c.Manipulators
	sizes := []struct {
		name  string
		value float32
	}{
		{"axis_length", m.AxisLength},
		{"shaft_radius", m.ShaftRadius},
		{"cone_length", m.ConeLength},
		{"cone_radius", m.ConeRadius},
		{"scale_box_size", m.ScaleBoxSize},
		{"planar_size", m.PlanarSize},
		{"ring_radius", m.RingRadius},
		{"ring_minor_radius", m.RingMinorRadius},
		{"scale_sensitivity", m.ScaleSensitivity},
		{"min_scale_factor", m.MinScaleFactor},
	}
	for _, s := range sizes {
		if s.value <= 0 {
			return fmt.Errorf("%w: manipulators.%s must be positive, got %g", ErrInvalidConfig, s.name, s.value)
		}
	}
	if m.ConeLength >= m.AxisLength {
		return fmt.Errorf("%w: manipulators.cone_length %g must be shorter than axis_length %g", ErrInvalidConfig, m.ConeLength, m.AxisLength)
	}
	if m.PlanarOffset < 0 || m.HitPadding < 0 || m.RingHitPadding < 0 || m.ScreenSizePixels < 0 {
		return fmt.Errorf("%w: manipulators offsets and paddings must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	if _, err := manipulators.ParseMode(m.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if m.Space != "world" && m.Space != "local" {
		return fmt.Errorf("%w: manipulators.space %q (valid: world, local)", ErrInvalidConfig, m.Space)
	}

	if c.Snapping.GridSize < 0 || c.Snapping.AngleDegrees < 0 || c.Snapping.AngleDegrees > 180 {
		return fmt.Errorf("%w: snapping grid_size %g, angle_degrees %g", ErrInvalidConfig, c.Snapping.GridSize, c.Snapping.AngleDegrees)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("%w: logging.format %q (valid: json, console)", ErrInvalidConfig, c.Logging.Format)
	}

	if c.Editor.WindowWidth <= 0 || c.Editor.WindowHeight <= 0 {
		return fmt.Errorf("%w: editor window %dx%d", ErrInvalidConfig, c.Editor.WindowWidth, c.Editor.WindowHeight)
	}
	return nil
}

// Style converts the manipulator settings, resolving color names.
func (c *Config) Style() (manipulators.Style, error) {
	m := c.Manipulators
	style := manipulators.Style{
		AxisLength:       m.AxisLength,
		ShaftRadius:      m.ShaftRadius,
		ConeLength:       m.ConeLength,
		ConeRadius:       m.ConeRadius,
		ScaleBoxSize:     m.ScaleBoxSize,
		PlanarSize:       m.PlanarSize,
		PlanarOffset:     m.PlanarOffset,
		RingRadius:       m.RingRadius,
		RingMinorRadius:  m.RingMinorRadius,
		HitPadding:       m.HitPadding,
		RingHitPadding:   m.RingHitPadding,
		ScreenSizePixels: m.ScreenSizePixels,
	}

	colors := []struct {
		field string
		name  string
		dst   *rl.Color
	}{
		{"axis_colors[0]", m.AxisColors[0], &style.AxisColors[0]},
		{"axis_colors[1]", m.AxisColors[1], &style.AxisColors[1]},
		{"axis_colors[2]", m.AxisColors[2], &style.AxisColors[2]},
		{"planar_color", m.PlanarColor, &style.PlanarColor},
		{"uniform_color", m.UniformColor, &style.UniformColor},
		{"hover_color", m.HoverColor, &style.HoverColor},
		{"active_color", m.ActiveColor, &style.ActiveColor},
	}
	for _, col := range colors {
		rc, ok := world.LookupColor(col.name)
		if !ok {
			return manipulators.Style{}, fmt.Errorf("%w: manipulators.%s: unknown color %q", ErrInvalidConfig, col.field, col.name)
		}
		*col.dst = rc
	}
	return style, nil
}

// ReferenceSpace returns the configured handle orientation.
func (c *Config) ReferenceSpace() manipulators.ReferenceSpace {
	if c.Manipulators.Space == "local" {
		return manipulators.SpaceLocal
	}
	return manipulators.SpaceWorld
}
