// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/glowfield/noise"
	"github.com/pthm-cable/glowfield/particles"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig    `yaml:"screen"`
	Camera     CameraConfig    `yaml:"camera"`
	Physics    PhysicsConfig   `yaml:"physics"`
	Particles  ParticlesConfig `yaml:"particles"`
	Noise      NoiseConfig     `yaml:"noise"`
	Generators []string        `yaml:"generators"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
	GPU        GPUConfig       `yaml:"gpu"`
	UI         UIConfig        `yaml:"ui"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Background string `yaml:"background"` // hex color
}

// CameraConfig holds the initial view and control rates.
type CameraConfig struct {
	Distance   float64 `yaml:"distance"`
	FOV        float64 `yaml:"fov"`
	OrbitSpeed float64 `yaml:"orbit_speed"` // radians per pixel of drag
	ZoomStep   float64 `yaml:"zoom_step"`   // distance factor per wheel notch
}

// PhysicsConfig holds stepping parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // fixed step used in headless mode
}

// ParticlesConfig holds the initial parameter snapshot.
type ParticlesConfig struct {
	Count        int     `yaml:"count"`
	Size         float64 `yaml:"size"`
	Speed        float64 `yaml:"speed"`
	Palette      string  `yaml:"palette"`
	Shape        string  `yaml:"shape"`
	EmissionRate float64 `yaml:"emission_rate"` // particles per second
	Lifetime     float64 `yaml:"lifetime"`      // seconds
	Gravity      float64 `yaml:"gravity"`
	Turbulence   float64 `yaml:"turbulence"`
	WindX        float64 `yaml:"wind_x"`
	WindZ        float64 `yaml:"wind_z"`
	Playing      bool    `yaml:"playing"`
}

// NoiseConfig selects the turbulence field.
type NoiseConfig struct {
	Kind string `yaml:"kind"` // perlin, simplex or fractal
	Seed int64  `yaml:"seed"` // 0 picks a seed from the clock
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// GPUConfig holds point sprite shading constants.
type GPUConfig struct {
	PointScale float64 `yaml:"point_scale"`
	MaskRadius float64 `yaml:"mask_radius"`
	AlphaScale float64 `yaml:"alpha_scale"`
}

// UIConfig holds overlay defaults.
type UIConfig struct {
	ShowControls bool `yaml:"show_controls"`
	ShowFPS      bool `yaml:"show_fps"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32         // Physics.DT as float32
	ScreenW32 float32         // Screen.Width as float32
	ScreenH32 float32         // Screen.Height as float32
	Shape     particles.Shape // parsed Particles.Shape
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	shape, err := particles.ParseShape(c.Particles.Shape)
	if err != nil {
		return fmt.Errorf("%w: particles.shape: %w", ErrInvalid, err)
	}
	c.Derived.Shape = shape

	if len(c.Generators) == 0 {
		c.Generators = []string{"particles"}
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("%w: physics.dt must be positive", ErrInvalid)
	}
	if c.Camera.Distance <= 0 || c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera distance %v fov %v", ErrInvalid, c.Camera.Distance, c.Camera.FOV)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: particles: %w", ErrInvalid, err)
	}
	if _, err := noise.New(c.Noise.Kind, 0); err != nil {
		return fmt.Errorf("%w: noise: %w", ErrInvalid, err)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return fmt.Errorf("%w: telemetry.stats_window must be positive", ErrInvalid)
	}
	if c.GPU.PointScale <= 0 || c.GPU.MaskRadius <= 0 || c.GPU.AlphaScale < 0 {
		return fmt.Errorf("%w: gpu constants", ErrInvalid)
	}
	return nil
}

// Params returns the initial particle parameter snapshot.
func (c *Config) Params() particles.Params {
	p := c.Particles
	return particles.Params{
		Count:        p.Count,
		Size:         p.Size,
		Speed:        p.Speed,
		Palette:      p.Palette,
		Shape:        c.Derived.Shape,
		EmissionRate: p.EmissionRate,
		Lifetime:     p.Lifetime,
		Gravity:      p.Gravity,
		Turbulence:   p.Turbulence,
		WindX:        p.WindX,
		WindZ:        p.WindZ,
		Playing:      p.Playing,
	}
}

// SetParams writes a snapshot back into the particles section so
// WriteYAML captures the values the user ended with.
func (c *Config) SetParams(p particles.Params) {
	c.Particles = ParticlesConfig{
		Count:        p.Count,
		Size:         p.Size,
		Speed:        p.Speed,
		Palette:      p.Palette,
		Shape:        p.Shape.String(),
		EmissionRate: p.EmissionRate,
		Lifetime:     p.Lifetime,
		Gravity:      p.Gravity,
		Turbulence:   p.Turbulence,
		WindX:        p.WindX,
		WindZ:        p.WindZ,
		Playing:      p.Playing,
	}
	c.Derived.Shape = p.Shape
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
