// Package termview renders particle layers onto a terminal grid. Each
// cell accumulates the colour of every particle that lands in it, the
// character-cell analogue of additive blending, and the glyph reflects
// how many particles hit the cell.
package termview

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/glowfield/camera"
	"github.com/pthm-cable/glowfield/palette"
	"github.com/pthm-cable/glowfield/particles"
)

// CellAspect is the height of a terminal cell relative to its width.
const CellAspect = 2

// glyphRamp maps hit counts to glyphs, sparse to dense.
var glyphRamp = []rune{'.', ':', '+', '*', '#', '@'}

// Glyph returns the glyph for a cell hit by n particles. n <= 0 is blank.
func Glyph(n int) rune {
	if n <= 0 {
		return ' '
	}
	// 1, 2-3, 4-7, 8-15, 16-31, 32+
	i := 0
	for n > 1 && i < len(glyphRamp)-1 {
		n >>= 1
		i++
	}
	return glyphRamp[i]
}

// Cell is one accumulated grid cell.
type Cell struct {
	Hits  int
	Color palette.RGB // additive sum, not clamped
}

// Frame is a W×H grid of accumulated cells.
type Frame struct {
	W, H  int
	cells []Cell

	// AlphaScale weights each particle's contribution by its life.
	AlphaScale float32
}

// NewFrame allocates a frame for a terminal of w columns and h rows.
func NewFrame(w, h int) *Frame {
	f := &Frame{AlphaScale: 0.5}
	f.Resize(w, h)
	return f
}

// Resize reallocates the grid and clears it.
func (f *Frame) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	f.W, f.H = w, h
	f.cells = make([]Cell, w*h)
}

// Clear zeroes every cell.
func (f *Frame) Clear() {
	clear(f.cells)
}

// At returns the cell at column x, row y.
func (f *Frame) At(x, y int) Cell {
	return f.cells[y*f.W+x]
}

// Add folds one particle into the cell at (x, y). Out-of-range cells are
// ignored.
func (f *Frame) Add(x, y int, c palette.RGB, life float32) {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return
	}
	a := life * f.AlphaScale
	cell := &f.cells[y*f.W+x]
	cell.Hits++
	cell.Color.R += c.R * a
	cell.Color.G += c.G * a
	cell.Color.B += c.B * a
}

// Project adds every live particle of pool, as seen by cam. The camera
// viewport is set to the grid with rows stretched by CellAspect so the
// field keeps its proportions. Returns the number of particles plotted.
func (f *Frame) Project(cam *camera.Camera, pool *particles.Pool) int {
	cam.Resize(float32(f.W), float32(f.H*CellAspect))
	mvp := cam.Projection().Mul4(cam.View())

	plotted := 0
	for i := 0; i < pool.Len(); i++ {
		life := pool.Life[i]
		if life <= 0 {
			continue
		}
		x, y, z := pool.Position(i)
		clip := mvp.Mul4x1(mgl32.Vec4{x, y, z, 1})
		w := clip.W()
		if w <= 0 {
			continue
		}
		nz := clip.Z() / w
		if nz < -1 || nz > 1 {
			continue
		}
		sx := (clip.X()/w + 1) / 2 * float32(f.W)
		sy := (1 - clip.Y()/w) / 2 * float32(f.H)
		if sx < 0 || sy < 0 {
			continue
		}
		col, row := int(sx), int(sy)
		if col >= f.W || row >= f.H {
			continue
		}
		f.Add(col, row, pool.Color(i), life)
		plotted++
	}
	return plotted
}
