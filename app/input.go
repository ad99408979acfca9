package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.togglePlaying()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.showPerf = !a.showPerf
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.saveSnapshot()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && a.stepsPerUpdate > 1 {
		a.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && a.stepsPerUpdate < 10 {
		a.stepsPerUpdate++
	}

	a.handleCameraInput()
}

// togglePlaying flips the play state in the parameter snapshot.
func (a *App) togglePlaying() {
	a.params.Playing = !a.params.Playing
	if a.params.Playing {
		slog.Info("resumed", "tick", a.tick)
	} else {
		slog.Info("paused", "tick", a.tick)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW = w
	a.screenH = h

	a.camera.Resize(w, h)
	a.perfPanel.SetPosition(10, int32(h)-150)
}

// handleCameraInput processes orbit and zoom controls.
func (a *App) handleCameraInput() {
	// Drag to orbit, unless the drag started on the controls panel
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !a.controls.Contains(mouse.X, mouse.Y) {
		delta := rl.GetMouseDelta()
		speed := float32(a.cfg.Camera.OrbitSpeed)
		a.camera.Orbit(-delta.X*speed, delta.Y*speed)
	}

	// Arrow keys orbit at a fixed rate
	const keyOrbit = 0.02
	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Orbit(0, -keyOrbit)
	}

	step := float32(a.cfg.Camera.ZoomStep)
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		a.camera.ZoomBy(step)
	} else if wheel < 0 {
		a.camera.ZoomBy(1 / step)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(step)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(1 / step)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		a.resetCamera()
	}
}
