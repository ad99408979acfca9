// Package telemetry provides particle field health tracking, performance
// sampling, snapshots and CSV output.
package telemetry

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/glowfield/particles"
)

// Collector accumulates step results within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	steps     int
	skipped   int
	spawned   int
	expired   int
	budget    int
	paramErrs int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep folds one engine step result into the window.
func (c *Collector) RecordStep(res particles.StepResult) {
	c.steps++
	if res.Skipped != particles.SkipNone {
		c.skipped++
		return
	}
	c.spawned += res.Spawned
	c.expired += res.Expired
	c.budget += res.Budget
	if res.Err != nil {
		c.paramErrs++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// Life and radius distributions are sampled from the live slots of every
// pool at window end.
func (c *Collector) Flush(currentTick int32, pools []*particles.Pool) WindowStats {
	var capacity int
	var lives, radii []float64
	for _, p := range pools {
		capacity += p.Len()
		for i := 0; i < p.Len(); i++ {
			if !p.Alive(i) {
				continue
			}
			lives = append(lives, float64(p.Life[i]))
			radii = append(radii, p.Radius(i))
		}
	}

	lifeMean, lifeStd, lifeP10, lifeP50, lifeP90 := ComputeDistribution(lives)
	radiusMean, _, _, _, _ := ComputeDistribution(radii)

	var occupancy float64
	if capacity > 0 {
		occupancy = float64(len(lives)) / float64(capacity)
	}
	var fill float64
	if c.budget > 0 {
		fill = float64(c.spawned) / float64(c.budget)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Layers:    len(pools),
		Capacity:  capacity,
		Alive:     len(lives),
		Occupancy: occupancy,

		Steps:      c.steps,
		Skipped:    c.skipped,
		Spawned:    c.spawned,
		Expired:    c.expired,
		Budget:     c.budget,
		Shortfall:  c.budget - c.spawned,
		BudgetFill: fill,
		ParamErrs:  c.paramErrs,

		LifeMean: lifeMean,
		LifeStd:  lifeStd,
		LifeP10:  lifeP10,
		LifeP50:  lifeP50,
		LifeP90:  lifeP90,

		RadiusMean: radiusMean,
		RadiusMax:  maxOf(radii),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.steps = 0
	c.skipped = 0
	c.spawned = 0
	c.expired = 0
	c.budget = 0
	c.paramErrs = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}
