// Noise field preview tool - interactive visualization of the turbulence
// field the integrator samples, with sliders.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/glowfield/noise"
	"github.com/pthm-cable/glowfield/particles"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

var kinds = []noise.Kind{noise.KindPerlin, noise.KindSimplex, noise.KindFractal}

// axisNames label the velocity component each rotated sample drives.
var axisNames = []string{"X", "Y", "Z"}

// PreviewParams holds the slice being shown.
type PreviewParams struct {
	Kind   int     // index into kinds
	Seed   float32 // slider value, truncated
	Extent float32 // half-width of the slice in world units
	Time   float32 // clock, scaled like the integrator
	Axis   int     // velocity component
}

func defaultParams() PreviewParams {
	return PreviewParams{Extent: particles.ShapeRadius * 2, Seed: 1}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Noise Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	field, _ := noise.New(string(kinds[params.Kind]), int64(params.Seed))

	grid := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	animating := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			params.Time += rl.GetFrameTime()
			needsRegen = true
		}

		if needsRegen {
			sampleSlice(grid, field, params)
			updateTexture(texture, grid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Emission radius for scale
		center := float32(10 + previewSize/2)
		rl.DrawCircleLines(int32(center), int32(center), particles.ShapeRadius/params.Extent*previewSize/2, rl.White)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f  Std: %.3f",
			floats.Min(grid), floats.Max(grid), stat.Mean(grid, nil), stat.StdDev(grid, nil)),
			15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f  (noise t = %.2f)", params.Time, float64(params.Time)*particles.NoiseTemporalScale), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Turbulence Field", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Extent (world half-width)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newExtent := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "50",
			params.Extent, 1, 50,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Extent), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newExtent != params.Extent {
			params.Extent = newExtent
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Time", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newTime := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "120",
			params.Time, 0, 120,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Time), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newTime != params.Time {
			params.Time = newTime
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1000",
			params.Seed, 0, 1000,
		)
		rl.DrawText(fmt.Sprintf("%d", int64(params.Seed)), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != int64(params.Seed) {
			params.Seed = newSeed
			field, _ = noise.New(string(kinds[params.Kind]), int64(params.Seed))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Kind: "+string(kinds[params.Kind])) {
			params.Kind = (params.Kind + 1) % len(kinds)
			field, _ = noise.New(string(kinds[params.Kind]), int64(params.Seed))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Axis: "+axisNames[params.Axis]) {
			params.Axis = (params.Axis + 1) % len(axisNames)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			field, _ = noise.New(string(kinds[params.Kind]), int64(params.Seed))
			animating = false
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := fmt.Sprintf("noise:\n  kind: %s\n  seed: %d", kinds[params.Kind], int64(params.Seed))
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// sampleSlice fills grid with the z=0 slice of the turbulence component the
// integrator would add for a particle at each world position.
func sampleSlice(grid []float64, field noise.Field, params PreviewParams) {
	nt := float64(params.Time) * particles.NoiseTemporalScale
	extent := float64(params.Extent)
	for y := 0; y < gridSize; y++ {
		wy := extent * (1 - 2*(float64(y)+0.5)/gridSize)
		ny := wy * particles.NoiseSpatialScale
		for x := 0; x < gridSize; x++ {
			wx := extent * (2*(float64(x)+0.5)/gridSize - 1)
			nx := wx * particles.NoiseSpatialScale

			var v float64
			switch params.Axis {
			case 0:
				v = field.Sample(nx, ny, nt)
			case 1:
				v = field.Sample(ny, nt, nx)
			default:
				v = field.Sample(nt, nx, ny)
			}
			grid[y*gridSize+x] = v
		}
	}
}

var (
	negColor, _  = colorful.Hex("#3A86FF")
	zeroColor, _ = colorful.Hex("#101010")
	posColor, _  = colorful.Hex("#FB5607")
)

// updateTexture maps [-1, 1] onto a diverging blue/black/orange ramp.
func updateTexture(texture rl.Texture2D, grid []float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		var c colorful.Color
		if v < 0 {
			c = zeroColor.BlendLab(negColor, clamp01(-v))
		} else {
			c = zeroColor.BlendLab(posColor, clamp01(v))
		}
		r, g, b := c.Clamped().RGB255()
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
