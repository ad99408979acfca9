package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowfield/particles"
	"github.com/pthm-cable/glowfield/renderer"
	"github.com/pthm-cable/glowfield/scene"
	"github.com/pthm-cable/glowfield/telemetry"
)

// Update runs input handling and the simulation steps for one window
// frame. The tick is closed by Draw.
func (a *App) Update() {
	a.handleInput()

	a.perfCollector.StartTick()
	dt := float64(rl.GetFrameTime())
	for i := 0; i < a.stepsPerUpdate; i++ {
		a.advance(dt)
	}
	a.upload()
}

// UpdateHeadless runs stepsPerUpdate fixed-dt steps without graphics.
func (a *App) UpdateHeadless() {
	a.perfCollector.StartTick()
	for i := 0; i < a.stepsPerUpdate; i++ {
		a.advance(a.cfg.Physics.DT)
	}
	a.flushTelemetry()
	a.perfCollector.EndTick()
}

// advance steps every layer once with the current snapshot.
func (a *App) advance(dt float64) {
	a.perfCollector.StartPhase(telemetry.PhaseStep)

	a.reconcile()

	results := a.scene.Step(dt, a.simTime, a.params)
	a.lastErr = nil
	a.lastAlive = 0
	for _, r := range results {
		a.collector.RecordStep(r.StepResult)
		a.lastAlive += r.Alive
		if r.Err != nil {
			a.lastErr = r.Err
		}
	}
	if a.lastErr != nil && a.tick%60 == 0 {
		slog.Warn("parameter rejected", "tick", a.tick, "error", a.lastErr)
	}

	if clamped, ok := particles.ClampStep(dt); ok && a.params.Playing {
		a.simTime += clamped
	}
	a.tick++
}

// reconcile rebuilds layers whose pool no longer matches params.Count.
// A failed rebuild restores the previous count.
func (a *App) reconcile() {
	current := 0
	a.scene.Each(func(g *scene.Generator, _ *scene.Layer) {
		if current == 0 {
			current = g.Engine.Count()
		}
	})
	if current == a.params.Count && a.scene.Len() == len(a.cfg.Generators) {
		return
	}
	if _, err := a.scene.Reconcile(a.cfg.Generators, a.params); err != nil {
		slog.Error("failed to rebuild generators", "count", a.params.Count, "error", err)
		if current > 0 {
			a.params.Count = current
		}
	}
}

// upload pushes dirty bridge buffers to each layer's renderer.
func (a *App) upload() {
	a.perfCollector.StartPhase(telemetry.PhaseUpload)

	a.scene.Each(func(g *scene.Generator, _ *scene.Layer) {
		r, ok := a.renderers[g.Name]
		if !ok {
			r = renderer.NewParticleRenderer(a.pipeline)
			a.renderers[g.Name] = r
		}
		if _, err := g.Engine.Bridge().Upload(r); err != nil {
			slog.Error("upload failed", "layer", g.Name, "error", err)
		}
	})
}
