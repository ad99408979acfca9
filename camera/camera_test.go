package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	pos := cam.Position()
	if !near(pos.X(), 0) || !near(pos.Y(), 0) || !near(pos.Z(), 15) {
		t.Errorf("expected eye at (0, 0, 15), got %v", pos)
	}
	if cam.FOV != 75 {
		t.Errorf("expected fov 75, got %f", cam.FOV)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720)

	// Target should map to screen center
	sx, sy, ok := cam.WorldToScreen(mgl32.Vec3{})
	if !ok {
		t.Fatal("origin should project")
	}
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWorldToScreenAxes(t *testing.T) {
	cam := New(1280, 720)

	sx, _, _ := cam.WorldToScreen(mgl32.Vec3{1, 0, 0})
	if sx <= 640 {
		t.Errorf("+X should land right of center, got x=%f", sx)
	}
	_, sy, _ := cam.WorldToScreen(mgl32.Vec3{0, 1, 0})
	if sy >= 360 {
		t.Errorf("+Y should land above center, got y=%f", sy)
	}

	// Nearer points spread further from center.
	farX, _, _ := cam.WorldToScreen(mgl32.Vec3{1, 0, -5})
	nearX, _, _ := cam.WorldToScreen(mgl32.Vec3{1, 0, 5})
	if nearX <= farX {
		t.Errorf("perspective: near x %f should exceed far x %f", nearX, farX)
	}
}

func TestWorldToScreenBehindEye(t *testing.T) {
	cam := New(1280, 720)
	if _, _, ok := cam.WorldToScreen(mgl32.Vec3{0, 0, 20}); ok {
		t.Error("point behind the eye should not project")
	}
}

func TestOrbit(t *testing.T) {
	cam := New(1280, 720)
	cam.Orbit(math.Pi/2, 0)

	pos := cam.Position()
	if !near(pos.X(), 15) || !near(pos.Z(), 0) {
		t.Errorf("quarter orbit: expected eye at (15, 0, 0), got %v", pos)
	}

	cam.Orbit(0, 10)
	if cam.Elevation >= math.Pi/2 {
		t.Errorf("elevation should stay below the pole, got %f", cam.Elevation)
	}
	cam.Orbit(0, -20)
	if cam.Elevation <= -math.Pi/2 {
		t.Errorf("elevation should stay above the pole, got %f", cam.Elevation)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.ZoomBy(2)
	if !near(cam.Distance, 7.5) {
		t.Errorf("expected distance 7.5, got %f", cam.Distance)
	}

	cam.SetDistance(0.1) // Below min
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MinDistance, cam.Distance)
	}

	cam.SetDistance(1e6) // Above max
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MaxDistance, cam.Distance)
	}

	before := cam.Distance
	cam.ZoomBy(0)
	if cam.Distance != before {
		t.Error("zero factor should be ignored")
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720)

	if !cam.IsVisible(mgl32.Vec3{}, 1) {
		t.Error("target should be visible")
	}
	if cam.IsVisible(mgl32.Vec3{1000, 0, 0}, 1) {
		t.Error("far sideways point should not be visible")
	}
	if cam.IsVisible(mgl32.Vec3{0, 0, 30}, 1) {
		t.Error("point behind the eye should not be visible")
	}
	// Just outside the frustum edge but within radius.
	if !cam.IsVisible(mgl32.Vec3{21, 0, 0}, 5) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720)
	cam.Orbit(1, 0.5)
	cam.ZoomBy(3)
	cam.Target = mgl32.Vec3{1, 2, 3}

	cam.Reset()

	pos := cam.Position()
	if !near(pos.X(), 0) || !near(pos.Y(), 0) || !near(pos.Z(), 15) {
		t.Errorf("expected eye at (0, 0, 15), got %v", pos)
	}
}

func TestAspect(t *testing.T) {
	if a := New(1280, 0).Aspect(); a != 1 {
		t.Errorf("degenerate viewport aspect = %f, want 1", a)
	}
	if a := New(1600, 800).Aspect(); a != 2 {
		t.Errorf("aspect = %f, want 2", a)
	}
}
