package particles

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/glowfield/palette"
)

func TestEmitBudget(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		dt   float64
		want int
	}{
		{"60fps at 5000/s", 5000, 1.0 / 60.0, 83},
		{"30fps at 100/s", 100, 1.0 / 30.0, 3},
		{"exact integer", 120, 0.5, 60},
		{"below one", 10, 1.0 / 60.0, 0},
		{"zero rate", 0, 1.0 / 60.0, 0},
		{"negative rate", -100, 1.0 / 60.0, 0},
		{"zero dt", 5000, 0, 0},
		{"nan", math.NaN(), 1, 0},
		{"inf", math.Inf(1), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmitBudget(tt.rate, tt.dt); got != tt.want {
				t.Errorf("EmitBudget(%v, %v) = %d, want %d", tt.rate, tt.dt, got, tt.want)
			}
		})
	}
}

func TestSpawnSphereOnSurface(t *testing.T) {
	p, em := newTestPool(t, 500, ShapePoint, 9)
	colors, _ := palette.Lookup(palette.Default)

	for i := 0; i < p.Len(); i++ {
		em.Spawn(p, i, ShapeSphere, colors)
		if r := p.Radius(i); math.Abs(r-ShapeRadius) > 1e-4 {
			t.Fatalf("slot %d radius = %v, want %v", i, r, ShapeRadius)
		}
		if p.Life[i] != 1 {
			t.Fatalf("slot %d life = %v, want 1", i, p.Life[i])
		}
	}
}

func TestSpawnBoxWithinBounds(t *testing.T) {
	p, em := newTestPool(t, 500, ShapePoint, 10)
	colors, _ := palette.Lookup(palette.Default)

	for i := 0; i < p.Len(); i++ {
		em.Spawn(p, i, ShapeBox, colors)
		x, y, z := p.Position(i)
		for _, c := range []float32{x, y, z} {
			if c < -ShapeRadius || c > ShapeRadius {
				t.Fatalf("slot %d coordinate %v outside [-5,5]", i, c)
			}
		}
	}
}

func TestSpawnPointAtOrigin(t *testing.T) {
	p, em := newTestPool(t, 20, ShapeBox, 12)
	colors, _ := palette.Lookup(palette.Default)

	for i := 0; i < p.Len(); i++ {
		em.Spawn(p, i, ShapePoint, colors)
		if x, y, z := p.Position(i); x != 0 || y != 0 || z != 0 {
			t.Fatalf("slot %d at (%v,%v,%v), want origin", i, x, y, z)
		}
	}
}

func TestSpawnSpiralMatchesGoldenAngle(t *testing.T) {
	p, em := newTestPool(t, 1, ShapePoint, 1)
	colors, _ := palette.Lookup(palette.Default)

	// Reset both the emitter and a reference source to the same seed and
	// replay the draws by hand.
	em.rng = rand.New(rand.NewSource(2024))
	ref := rand.New(rand.NewSource(2024))

	for k := 0; k < 50; k++ {
		em.Spawn(p, 0, ShapeSpiral, colors)

		u, v := ref.Float64(), ref.Float64()
		r := math.Sqrt(u) * ShapeRadius
		theta := v * Phi * 2 * math.Pi
		a := ref.Float64() * 2 * math.Pi
		speed := MinSpawnSpeed + ref.Float64()*(MaxSpawnSpeed-MinSpawnSpeed)
		vz := (ref.Float64() - 0.5) * speed

		x, y, z := p.Position(0)
		if x != float32(math.Cos(theta)*r) || y != float32(math.Sin(theta)*r) || z != 0 {
			t.Fatalf("spawn %d position (%v,%v,%v) does not match golden-angle draw", k, x, y, z)
		}
		vx, vy, gotVZ := p.Velocity(0)
		if vx != float32(math.Cos(a)*speed) || vy != float32(math.Sin(a)*speed) || gotVZ != float32(vz) {
			t.Fatalf("spawn %d velocity does not match draws", k)
		}
	}
}

func TestSpawnSpiralReproducible(t *testing.T) {
	colors, _ := palette.Lookup(palette.Default)
	a := allocPool(2)
	b := allocPool(2)
	emA := NewEmitter(rand.New(rand.NewSource(77)))
	emB := NewEmitter(rand.New(rand.NewSource(77)))

	for slot := 0; slot < 2; slot++ {
		emA.Spawn(a, slot, ShapeSpiral, colors)
		emB.Spawn(b, slot, ShapeSpiral, colors)
	}
	if !equalBits(a.Positions, b.Positions) || !equalBits(a.Velocities, b.Velocities) {
		t.Error("identically seeded spiral spawns diverged")
	}
	for slot := 0; slot < 2; slot++ {
		if _, _, z := a.Position(slot); z != 0 {
			t.Errorf("spiral spawn %d not planar: z=%v", slot, z)
		}
		if r := a.Radius(slot); r > ShapeRadius+1e-5 {
			t.Errorf("spiral spawn %d radius %v exceeds %v", slot, r, ShapeRadius)
		}
	}
}

func TestSpawnVelocityRange(t *testing.T) {
	p, em := newTestPool(t, 1000, ShapePoint, 13)
	colors, _ := palette.Lookup(palette.Default)

	for i := 0; i < p.Len(); i++ {
		em.Spawn(p, i, ShapeBox, colors)
		vx, vy, vz := p.Velocity(i)
		planar := math.Hypot(float64(vx), float64(vy))
		if planar < MinSpawnSpeed-1e-6 || planar > MaxSpawnSpeed+1e-6 {
			t.Fatalf("slot %d planar speed %v outside [0.1,0.3]", i, planar)
		}
		if math.Abs(float64(vz)) > 0.5*planar+1e-6 {
			t.Fatalf("slot %d vz %v exceeds half the speed %v", i, vz, planar)
		}
	}
}

func killAll(p *Pool) {
	for i := range p.Life {
		p.Life[i] = 0
	}
}

func TestEmitSpawnsUpToBudget(t *testing.T) {
	p, em := newTestPool(t, 100, ShapePoint, 4)
	colors, _ := palette.Lookup(palette.Default)
	killAll(p)

	spawned, _ := em.Emit(p, 10, ShapePoint, colors)
	if spawned != 10 {
		t.Errorf("spawned = %d, want 10", spawned)
	}
	if got := p.AliveCount(); got != 10 {
		t.Errorf("AliveCount = %d, want 10", got)
	}
	// Slots 0..9 were scanned from cursor 0.
	for i := 0; i < 10; i++ {
		if !p.Alive(i) {
			t.Errorf("slot %d should be alive", i)
		}
	}
	if em.Cursor() != 10 {
		t.Errorf("cursor = %d, want 10", em.Cursor())
	}
}

func TestEmitCursorAdvancesByBudgetNotSpawns(t *testing.T) {
	p, em := newTestPool(t, 20, ShapePoint, 4)
	colors, _ := palette.Lookup(palette.Default)

	// Everything alive except slot 15.
	for i := range p.Life {
		p.Life[i] = 1
	}
	p.Life[15] = 0

	spawned, _ := em.Emit(p, 5, ShapePoint, colors)
	if spawned != 1 {
		t.Errorf("spawned = %d, want 1 (shortfall dropped)", spawned)
	}
	if em.Cursor() != 5 {
		t.Errorf("cursor = %d, want 5", em.Cursor())
	}

	// Budget larger than the pool wraps the cursor modulo Len.
	em.Emit(p, 47, ShapePoint, colors)
	if em.Cursor() != (5+47)%20 {
		t.Errorf("cursor = %d, want %d", em.Cursor(), (5+47)%20)
	}
}

func TestEmitZeroBudgetIsNoop(t *testing.T) {
	p, em := newTestPool(t, 10, ShapePoint, 4)
	killAll(p)
	before := snapshotPool(p)
	colors, _ := palette.Lookup(palette.Default)

	if spawned, _ := em.Emit(p, 0, ShapePoint, colors); spawned != 0 {
		t.Errorf("spawned = %d, want 0", spawned)
	}
	if !before.equal(p) || em.Cursor() != 0 {
		t.Error("zero budget must not touch the pool or cursor")
	}
}

func TestEmitReportsColorChange(t *testing.T) {
	p, em := newTestPool(t, 10, ShapePoint, 4)
	killAll(p)

	same, _ := palette.Lookup(palette.Default)
	if _, changed := em.Emit(p, 3, ShapePoint, same); changed {
		t.Error("respawning with the construction palette must not change colors")
	}

	other, _ := palette.Lookup("chakra")
	_, changed := em.Emit(p, 3, ShapePoint, other)
	if !changed {
		t.Error("respawning with a new palette should report a color change")
	}
	if got := p.Color(3); got != other[3%len(other)] {
		t.Errorf("slot 3 color = %+v, want %+v", got, other[3])
	}
}
