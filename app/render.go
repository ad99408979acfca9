package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowfield/scene"
	"github.com/pthm-cable/glowfield/telemetry"
	"github.com/pthm-cable/glowfield/ui"
)

const controlsLegend = "[Space] Play/Pause  [H] Panel  [S] Snapshot  [P] Perf  [Drag] Orbit  [Wheel] Zoom  [Home] Reset  [</>] Steps"

// Draw renders the frame and closes the tick opened by Update.
func (a *App) Draw() {
	a.perfCollector.RecordFrame()
	a.perfCollector.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	a.background.Draw()

	a.scene.Each(func(g *scene.Generator, l *scene.Layer) {
		if !l.Visible {
			return
		}
		r, ok := a.renderers[g.Name]
		if !ok {
			return
		}
		a.sprites = r.Project(a.camera, float32(a.params.Size), float32(a.simTime), a.sprites)
		r.Draw(a.sprites)
	})

	a.drawUI()
	rl.EndDrawing()

	a.flushTelemetry()
	a.perfCollector.EndTick()
}

// drawUI renders the panel, HUD and legend, and applies panel edits.
func (a *App) drawUI() {
	changes := a.controls.Draw(&a.params)
	if changes.Rebuild {
		a.reconcile()
	}
	if changes.Snapshot {
		a.saveSnapshot()
	}
	if changes.ResetCamera {
		a.resetCamera()
	}

	a.hud.Draw(a.hudData(), int32(a.screenW))
	if a.showPerf {
		a.perfPanel.Draw(a.perfCollector.Stats())
	}
	a.hud.DrawControls(int32(a.screenH), controlsLegend)
}

// hudData gathers the HUD readout from the scene.
func (a *App) hudData() ui.HUDData {
	d := ui.HUDData{
		Title:   "glowfield",
		Alive:   a.lastAlive,
		Layers:  a.scene.Len(),
		Palette: a.params.Palette,
		Shape:   a.params.Shape.String(),
		Tick:    a.tick,
		Paused:  !a.params.Playing,
		Err:     a.lastErr,
	}
	if a.showFPS && !a.headless {
		d.FPS = rl.GetFPS()
	}
	a.scene.Each(func(g *scene.Generator, _ *scene.Layer) {
		d.Capacity += g.Engine.Count()
	})
	return d
}
