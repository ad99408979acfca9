package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowfield/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	Alive    int
	Capacity int
	Layers   int
	Palette  string
	Shape    string
	Tick     int32
	FPS      int32
	Paused   bool
	Err      error // last parameter error, if any
}

// Occupancy returns the live fraction of the pool.
func (d HUDData) Occupancy() float32 {
	if d.Capacity <= 0 {
		return 0
	}
	return float32(d.Alive) / float32(d.Capacity)
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-right corner.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	const width = 240
	x := screenWidth - width - 10
	y := int32(10)

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 25
	y = h.renderer.DrawLabelValue(x, y, "Alive", fmt.Sprintf("%d / %d", data.Alive, data.Capacity))
	y = h.renderer.DrawBar(x, y, "Pool", data.Occupancy(), width)
	y = h.renderer.DrawLabelValue(x, y, "Layers", fmt.Sprintf("%d", data.Layers))
	y = h.renderer.DrawLabelValue(x, y, "Palette", data.Palette)
	y = h.renderer.DrawLabelValue(x, y, "Shape", data.Shape)
	y = h.renderer.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d | FPS: %d", data.Tick, data.FPS))

	statusText, statusColor := "Running", rl.LightGray
	if data.Paused {
		statusText, statusColor = "PAUSED", rl.Yellow
	}
	rl.DrawText(statusText, x, y, 16, statusColor)
	y += 20

	if data.Err != nil {
		rl.DrawText(data.Err.Error(), x, y, 12, h.renderer.Theme.WarnColor)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (max %s)", stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for i, avg := range stats.PhaseAvg {
		pct := stats.PhasePct[i]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", telemetry.Phase(i), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
