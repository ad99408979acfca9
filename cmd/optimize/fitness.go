package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/glowfield/app"
	"github.com/pthm-cable/glowfield/config"
	"github.com/pthm-cable/glowfield/telemetry"
)

// Targets describe the field the tuner is steering toward.
type Targets struct {
	Occupancy float64 // fraction of slots alive
	Radius    float64 // mean distance of live particles from the origin
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	targets     Targets
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targets:     targets,
		statsWindow: 2.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// A seed that fails to build scores zero quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(x, s)
			if err != nil {
				return
			}
			qualities[idx] = fe.computeQuality(windows)
		}(i, seed)
	}
	wg.Wait()

	quality := stat.Mean(qualities, nil)
	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()
	return -quality
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.WindowStats, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	a, err := app.NewAppWithOptions(app.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
	})
	if err != nil {
		return nil, err
	}
	defer a.Unload()

	var windows []telemetry.WindowStats
	a.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})
	for a.Tick() < fe.maxTicks {
		a.UpdateHeadless()
	}
	return windows, nil
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Generators = append([]string(nil), fe.baseConfig.Generators...)
	return &cfg
}

// Quality component weights.
const (
	qualityWeightOccupancy = 0.40
	qualityWeightRadius    = 0.30
	qualityWeightStability = 0.15
	qualityWeightFill      = 0.15

	qualityWarmupWindows = 2 // skip first N windows while the pool fills
)

// computeQuality computes field quality in [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var occSum, radiusSum, fillSum float64
	alive := make([]float64, 0, len(valid))
	for _, w := range valid {
		occSum += gaussian(w.Occupancy, fe.targets.Occupancy, 0.15)
		if w.Alive > 0 {
			radiusSum += gaussian(w.RadiusMean, fe.targets.Radius, 0.5*fe.targets.Radius)
		}
		fillSum += clamp01(w.BudgetFill)
		alive = append(alive, float64(w.Alive))
	}
	n := float64(len(valid))

	// Steady pools score high; a field that pulses in and out does not.
	stabilityScore := 0.0
	if mean, std := stat.MeanStdDev(alive, nil); len(alive) >= 2 && mean > 0 {
		cv := std / mean
		stabilityScore = math.Exp(-cv * cv)
	}

	quality := qualityWeightOccupancy*occSum/n +
		qualityWeightRadius*radiusSum/n +
		qualityWeightStability*stabilityScore +
		qualityWeightFill*fillSum/n
	return clamp01(quality)
}

func gaussian(x, center, width float64) float64 {
	if width <= 0 {
		return 0
	}
	d := (x - center) / width
	return math.Exp(-d * d)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
