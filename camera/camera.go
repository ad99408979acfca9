// Package camera provides the perspective orbit camera looking at the
// particle field.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Stock view: eye at (0,0,15) looking at the origin with a 75° vertical
// field of view.
const (
	DefaultDistance = 15.0
	DefaultFOV      = 75.0
	DefaultNear     = 0.1
	DefaultFar      = 1000.0
)

// maxElevation keeps the eye off the poles so LookAt's up vector stays valid.
const maxElevation = math.Pi/2 - 0.01

// Camera orbits a target point. Azimuth rotates around +Y starting from +Z,
// elevation tilts toward +Y.
type Camera struct {
	Target mgl32.Vec3

	Azimuth, Elevation float32 // radians
	Distance           float32

	FOV       float32 // vertical, degrees
	Near, Far float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	MinDistance, MaxDistance float32
}

// New creates the stock camera for a viewport.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		Distance:    DefaultDistance,
		FOV:         DefaultFOV,
		Near:        DefaultNear,
		Far:         DefaultFar,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: 2,
		MaxDistance: 100,
	}
}

// Position returns the eye position in world coordinates.
func (c *Camera) Position() mgl32.Vec3 {
	az, el := float64(c.Azimuth), float64(c.Elevation)
	d := float64(c.Distance)
	offset := mgl32.Vec3{
		float32(d * math.Cos(el) * math.Sin(az)),
		float32(d * math.Sin(el)),
		float32(d * math.Cos(el) * math.Cos(az)),
	}
	return c.Target.Add(offset)
}

// View returns the world-to-eye matrix. The particle field has no model
// transform, so this is also the model-view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the current viewport.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// Aspect returns the viewport aspect ratio (1 for a degenerate viewport).
func (c *Camera) Aspect() float32 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// WorldToScreen projects a world point to pixel coordinates with y down.
// ok is false when the point is behind the eye or outside the depth range.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (sx, sy float32, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return 0, 0, false
	}
	nx, ny, nz := clip.X()/w, clip.Y()/w, clip.Z()/w
	if nz < -1 || nz > 1 {
		return 0, 0, false
	}
	sx = (nx + 1) / 2 * c.ViewportW
	sy = (1 - ny) / 2 * c.ViewportH
	return sx, sy, true
}

// IsVisible returns true if a sphere at p with given radius could be on
// screen (conservative check for culling).
func (c *Camera) IsVisible(p mgl32.Vec3, radius float32) bool {
	eye := c.View().Mul4x1(p.Vec4(1))
	depth := -eye.Z()
	if depth+radius < c.Near || depth-radius > c.Far {
		return false
	}
	halfH := depth * float32(math.Tan(float64(mgl32.DegToRad(c.FOV))/2))
	halfW := halfH * c.Aspect()
	return absf(eye.X()) <= halfW+radius && absf(eye.Y()) <= halfH+radius
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Orbit rotates the eye around the target by the given angles in radians.
// Elevation is clamped short of the poles.
func (c *Camera) Orbit(dAzimuth, dElevation float32) {
	c.Azimuth = float32(math.Mod(float64(c.Azimuth+dAzimuth), 2*math.Pi))
	c.Elevation = clamp(c.Elevation+dElevation, -maxElevation, maxElevation)
}

// SetDistance sets the eye distance, clamped to min/max.
func (c *Camera) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the eye distance by factor (factor > 1 moves closer).
func (c *Camera) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Reset returns the camera to the stock view.
func (c *Camera) Reset() {
	c.Target = mgl32.Vec3{}
	c.Azimuth = 0
	c.Elevation = 0
	c.Distance = DefaultDistance
	c.FOV = DefaultFOV
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
