// Package app wires the scene, renderer, UI and telemetry into the frame
// loop shared by the window and headless hosts.
package app

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/glowfield/camera"
	"github.com/pthm-cable/glowfield/config"
	"github.com/pthm-cable/glowfield/noise"
	"github.com/pthm-cable/glowfield/particles"
	"github.com/pthm-cable/glowfield/renderer"
	"github.com/pthm-cable/glowfield/scene"
	"github.com/pthm-cable/glowfield/shading"
	"github.com/pthm-cable/glowfield/telemetry"
	"github.com/pthm-cable/glowfield/ui"
)

// Options configures app initialization.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	RestorePath    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// App holds the complete runtime state.
type App struct {
	cfg     *config.Config
	rngSeed int64
	seeds   *rand.Rand // per-engine seeds, so rebuilt layers stay reproducible
	field   noise.Field

	scene  *scene.Scene
	params particles.Params

	// Rendering (nil in headless mode)
	pipeline   *shading.Pipeline
	renderers  map[string]*renderer.ParticleRenderer
	sprites    []renderer.Sprite
	background *renderer.Background
	camera     *camera.Camera
	controls   *ui.ControlsPanel
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	snapshotDir   string

	// State
	tick           int32
	simTime        float64
	stepsPerUpdate int
	headless       bool
	showPerf       bool
	showFPS        bool
	lastErr        error
	lastAlive      int
	screenW        float32
	screenH        float32
}

// NewAppWithOptions creates a new app with the given options.
func NewAppWithOptions(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	noiseSeed := cfg.Noise.Seed
	if noiseSeed == 0 {
		noiseSeed = opts.Seed
	}
	field, err := noise.New(cfg.Noise.Kind, noiseSeed)
	if err != nil {
		return nil, fmt.Errorf("creating noise field: %w", err)
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	a := &App{
		cfg:            cfg,
		rngSeed:        opts.Seed,
		seeds:          rand.New(rand.NewSource(opts.Seed)),
		field:          field,
		scene:          scene.New(),
		params:         cfg.Params(),
		renderers:      make(map[string]*renderer.ParticleRenderer),
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		stepsPerUpdate: stepsPerUpdate,
		headless:       opts.Headless,
		showFPS:        cfg.UI.ShowFPS,
		screenW:        cfg.Derived.ScreenW32,
		screenH:        cfg.Derived.ScreenH32,
	}
	a.scene.Register(scene.GeneratorParticles, a.newEngine)

	if _, err := a.scene.Reconcile(cfg.Generators, a.params); err != nil {
		return nil, fmt.Errorf("building generators: %w", err)
	}

	a.pipeline = shading.New(
		shading.WithPointScale(float32(cfg.GPU.PointScale)),
		shading.WithMaskRadius(float32(cfg.GPU.MaskRadius)),
		shading.WithAlphaScale(float32(cfg.GPU.AlphaScale)),
	)
	var layoutErr error
	a.scene.Each(func(g *scene.Generator, _ *scene.Layer) {
		if err := a.pipeline.Validate(g.Engine.Bridge().Layout()); err != nil && layoutErr == nil {
			layoutErr = err
		}
	})
	if layoutErr != nil {
		return nil, fmt.Errorf("validating pipeline: %w", layoutErr)
	}

	if !opts.Headless {
		a.camera = camera.New(a.screenW, a.screenH)
		a.resetCamera()
		a.background = renderer.NewBackground(cfg.Screen.Background)
		a.controls = ui.NewControlsPanel(10, 10, 260)
		a.controls.SetVisible(cfg.UI.ShowControls)
		a.hud = ui.NewHUD()
		a.perfPanel = ui.NewPerfPanel(10, int32(a.screenH)-150)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		a.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	if opts.RestorePath != "" {
		if err := a.restoreSnapshot(opts.RestorePath); err != nil {
			return nil, err
		}
	}

	slog.Info("app initialized",
		"seed", opts.Seed,
		"layers", a.scene.Names(),
		"count", a.params.Count,
		"noise", cfg.Noise.Kind,
		"headless", opts.Headless,
	)
	return a, nil
}

// newEngine is the particles generator factory.
func (a *App) newEngine(p particles.Params) (*particles.Engine, error) {
	return particles.NewEngine(p,
		particles.WithNoise(a.field),
		particles.WithSeed(a.seeds.Int63()),
	)
}

// SetStatsCallback registers a function called on every telemetry flush.
func (a *App) SetStatsCallback(fn func(telemetry.WindowStats)) {
	a.statsCallback = fn
}

// Tick returns the number of frames stepped so far.
func (a *App) Tick() int32 {
	return a.tick
}

// SimTime returns the accumulated simulation time in seconds.
func (a *App) SimTime() float64 {
	return a.simTime
}

// Params returns the current parameter snapshot.
func (a *App) Params() particles.Params {
	return a.params
}

// SetParams replaces the parameter snapshot. A Count change takes effect
// on the next step.
func (a *App) SetParams(p particles.Params) {
	a.params = p
}

// Scene returns the generator layers.
func (a *App) Scene() *scene.Scene {
	return a.scene
}

// Alive returns the live particle count across layers after the last step.
func (a *App) Alive() int {
	return a.lastAlive
}

// Unload releases resources and flushes output files. The final parameter
// snapshot is written back into the config.
func (a *App) Unload() {
	for _, r := range a.renderers {
		r.Unload()
	}
	a.cfg.SetParams(a.params)
	if a.outputManager != nil {
		if err := a.outputManager.WriteConfig(a.cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		if err := a.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}

func (a *App) resetCamera() {
	a.camera.Reset()
	a.camera.SetDistance(float32(a.cfg.Camera.Distance))
	a.camera.FOV = float32(a.cfg.Camera.FOV)
}
