package particles

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/glowfield/noise"
	"github.com/pthm-cable/glowfield/palette"
)

func TestNewEngineRejectsInvalidConstruction(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"zero count", func(p *Params) { p.Count = 0 }, ErrInvalidCount},
		{"unknown palette", func(p *Params) { p.Palette = "neon" }, palette.ErrUnknownPalette},
		{"unknown shape", func(p *Params) { p.Shape = Shape(9) }, ErrUnknownShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := calmParams(10, ShapePoint)
			tt.mutate(&params)
			_, err := NewEngine(params, WithSeed(1))
			if !errors.Is(err, tt.want) {
				t.Errorf("NewEngine error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEngineLifeNeverExceedsOne(t *testing.T) {
	params := DefaultParams()
	params.Count = 500
	params.EmissionRate = 3000
	e := newTestEngine(t, params, 21)

	for step := 0; step < 300; step++ {
		e.Step(1.0/60.0, float64(step)/60.0, params)
		for i, l := range e.Pool().Life {
			if l > 1 {
				t.Fatalf("step %d: life[%d] = %v > 1", step, i, l)
			}
		}
	}
}

func TestEnginePauseLeavesPoolIdentical(t *testing.T) {
	params := DefaultParams()
	params.Count = 300
	e := newTestEngine(t, params, 5)

	for i := 0; i < 20; i++ {
		e.Step(1.0/60.0, float64(i)/60.0, params)
	}
	e.Bridge().Upload(UploadFunc(func(Attribute) error { return nil }))
	before := snapshotPool(e.Pool())
	cursor := e.emitter.Cursor()

	paused := params
	paused.Playing = false
	for k := 0; k < 50; k++ {
		res := e.Step(1.0/60.0, float64(20+k)/60.0, paused)
		if res.Skipped != SkipPaused {
			t.Fatalf("paused step reported %v", res.Skipped)
		}
	}

	if !before.equal(e.Pool()) {
		t.Error("pause modified the pool")
	}
	if e.emitter.Cursor() != cursor {
		t.Error("pause moved the emission cursor")
	}
	if e.Bridge().DynamicDirty() || e.Bridge().StaticDirty() {
		t.Error("pause marked buffers dirty")
	}
}

func TestEngineDegenerateDeltaIsNoop(t *testing.T) {
	params := DefaultParams()
	params.Count = 100
	e := newTestEngine(t, params, 6)
	before := snapshotPool(e.Pool())

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if res := e.Step(dt, 1, params); res.Skipped != SkipBadDelta {
			t.Errorf("Step(%v) skipped = %v, want bad_delta", dt, res.Skipped)
		}
	}
	bad := params
	bad.Lifetime = 0
	if res := e.Step(1.0/60.0, 1, bad); res.Skipped != SkipBadLifetime {
		t.Errorf("zero lifetime skipped = %v, want bad_lifetime", res.Skipped)
	}

	if !before.equal(e.Pool()) {
		t.Error("degenerate steps modified the pool")
	}
	for i, v := range e.Pool().Positions {
		if math.IsNaN(float64(v)) {
			t.Fatalf("NaN leaked into position %d", i)
		}
	}
}

func TestEngineClampedDeltaMatchesBoundary(t *testing.T) {
	params := DefaultParams()
	params.Count = 400
	params.EmissionRate = 900

	a := newTestEngine(t, params, 99)
	b := newTestEngine(t, params, 99)

	ra := a.Step(1.0, 2.5, params)
	rb := b.Step(1.0/30.0, 2.5, params)

	if ra != rb {
		t.Errorf("results differ: %+v vs %+v", ra, rb)
	}
	if !snapshotPool(a.Pool()).equal(b.Pool()) {
		t.Error("dt=1 and dt=1/30 produced different pools")
	}
}

func TestEngineNoEmissionExpiresEverything(t *testing.T) {
	params := calmParams(1000, ShapeSphere)
	params.Turbulence = 0.5
	params.Gravity = -1
	e := newTestEngine(t, params, 8)

	dt := 1.0 / 30.0
	var frozen poolCopy
	frozenAt := -1
	for step := 0; step < 10000; step++ {
		res := e.Step(dt, float64(step)*dt, params)
		if res.Spawned != 0 {
			t.Fatalf("step %d spawned %d with zero emission rate", step, res.Spawned)
		}
		if frozenAt < 0 && e.Pool().AliveCount() == 0 {
			frozenAt = step
			frozen = snapshotPool(e.Pool())
		}
	}

	if frozenAt < 0 {
		t.Fatal("particles never all expired")
	}
	// Lifetime 5s at 30 steps/s: everything is dead within ~150 steps.
	if frozenAt > 155 {
		t.Errorf("last particle expired at step %d, want <= 155", frozenAt)
	}
	if !frozen.equal(e.Pool()) {
		t.Error("dead pool changed after all particles expired")
	}
}

func TestEngineEndToEndPointEmission(t *testing.T) {
	params := Params{
		Count:        100,
		Size:         1,
		Speed:        1,
		Palette:      palette.Default,
		Shape:        ShapePoint,
		EmissionRate: 100,
		Lifetime:     5,
		Playing:      true,
	}
	e, err := NewEngine(params, WithSeed(31), WithNoise(noise.Constant(0)))
	if err != nil {
		t.Fatal(err)
	}

	// Max spawn speed is 0.3 planar plus 0.15 along z, and nothing
	// accelerates a particle, so a particle cannot outrun speed*lifetime
	// (plus the extra integration on its expiry step and float32 aging).
	maxV := MaxSpawnSpeed * math.Sqrt(1.25)
	bound := maxV*params.Speed*(params.Lifetime+3*MaxStep) + 1e-4

	p := e.Pool()
	respawned := make([]bool, p.Len())
	prev := append([]float32(nil), p.Life...)

	for step := 0; step < 600; step++ {
		e.Step(1.0, float64(step)*MaxStep, params)
		for i := 0; i < p.Len(); i++ {
			if p.Life[i] > prev[i] {
				respawned[i] = true
			}
			if r := p.Radius(i); r > bound {
				t.Fatalf("step %d: slot %d at radius %v beyond bound %v", step, i, r, bound)
			}
		}
		copy(prev, p.Life)
	}

	for i, ok := range respawned {
		if !ok {
			t.Errorf("slot %d never expired and respawned", i)
		}
	}
}

func TestEnginePaletteChangeAffectsOnlyRespawns(t *testing.T) {
	params := calmParams(50, ShapePoint)
	params.EmissionRate = 75
	e := newTestEngine(t, params, 17)
	p := e.Pool()

	// Keep slot 0 alive and kill the rest so the next pass respawns them.
	for i := range p.Life {
		p.Life[i] = 0
	}
	p.Life[0] = 1
	original := p.Color(0)

	e.Bridge().Upload(UploadFunc(func(Attribute) error { return nil }))

	next := params
	next.Palette = "chakra"
	res := e.Step(1.0/30.0, 0, next)
	if res.Err != nil {
		t.Fatalf("unexpected err: %v", res.Err)
	}
	if res.Spawned != 2 {
		t.Fatalf("spawned %d, want budget 2", res.Spawned)
	}

	if p.Color(0) != original {
		t.Error("palette change recolored a live particle")
	}
	chakra, _ := palette.Lookup("chakra")
	if got := p.Color(1); got != chakra[1] {
		t.Errorf("respawned slot 1 color = %+v, want %+v", got, chakra[1])
	}
	if !e.Bridge().StaticDirty() {
		t.Error("color change must mark the static buffers dirty")
	}
	if e.Palette() != "chakra" {
		t.Errorf("Palette() = %q", e.Palette())
	}
}

func TestEngineUnknownPaletteKeepsPrevious(t *testing.T) {
	params := calmParams(10, ShapePoint)
	e := newTestEngine(t, params, 2)

	bad := params
	bad.Palette = "neon"
	res := e.Step(1.0/60.0, 0, bad)
	if !errors.Is(res.Err, palette.ErrUnknownPalette) {
		t.Errorf("Err = %v, want ErrUnknownPalette", res.Err)
	}
	if e.Palette() != palette.Default {
		t.Errorf("palette switched to %q", e.Palette())
	}
}

func TestEngineSyncAppliesValidFieldAlongsideRejected(t *testing.T) {
	params := calmParams(10, ShapePoint)

	tests := []struct {
		name        string
		palette     string
		shape       Shape
		wantErr     error
		wantPalette string
		wantShape   Shape
	}{
		{"unknown palette, new shape", "neon", ShapeBox, palette.ErrUnknownPalette, palette.Default, ShapeBox},
		{"new palette, unknown shape", "chakra", Shape(99), ErrUnknownShape, "chakra", ShapePoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, params, 4)
			next := params
			next.Palette = tt.palette
			next.Shape = tt.shape

			res := e.Step(1.0/60.0, 0, next)
			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if e.Palette() != tt.wantPalette {
				t.Errorf("Palette() = %q, want %q", e.Palette(), tt.wantPalette)
			}
			if e.Shape() != tt.wantShape {
				t.Errorf("Shape() = %v, want %v", e.Shape(), tt.wantShape)
			}
		})
	}

	e := newTestEngine(t, params, 4)
	both := params
	both.Palette = "neon"
	both.Shape = Shape(99)
	res := e.Step(1.0/60.0, 0, both)
	if !errors.Is(res.Err, palette.ErrUnknownPalette) || !errors.Is(res.Err, ErrUnknownShape) {
		t.Errorf("Err = %v, want both palette and shape errors", res.Err)
	}
}

func TestEngineShapeChangeAffectsOnlyRespawns(t *testing.T) {
	params := calmParams(20, ShapePoint)
	params.EmissionRate = 315
	e := newTestEngine(t, params, 3)
	p := e.Pool()
	for i := range p.Life {
		p.Life[i] = 0
	}

	next := params
	next.Shape = ShapeSphere
	e.Step(1.0/30.0, 0, next)

	for i := 0; i < 10; i++ {
		if r := p.Radius(i); math.Abs(r-ShapeRadius) > 0.05 {
			t.Errorf("respawned slot %d radius %v, want ~5 (one step of drift)", i, r)
		}
	}
	if e.Shape() != ShapeSphere {
		t.Errorf("Shape() = %v", e.Shape())
	}
}

func TestStepResultAliveMatchesPool(t *testing.T) {
	params := DefaultParams()
	params.Count = 800
	e := newTestEngine(t, params, 44)

	for i := 0; i < 120; i++ {
		res := e.Step(1.0/60.0, float64(i)/60.0, params)
		if got := e.Pool().AliveCount(); res.Alive != got {
			t.Fatalf("step %d: result alive %d, pool alive %d", i, res.Alive, got)
		}
	}
}

func TestParseShape(t *testing.T) {
	for _, name := range []string{"point", "Sphere", " box ", "SPIRAL"} {
		s, err := ParseShape(name)
		if err != nil {
			t.Errorf("ParseShape(%q): %v", name, err)
			continue
		}
		if s.String() == "" {
			t.Errorf("empty name for %q", name)
		}
	}
	if _, err := ParseShape("torus"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("expected ErrUnknownShape, got %v", err)
	}
	if ShapeSpiral.Next() != ShapePoint {
		t.Error("Next should wrap")
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"count", func(p *Params) { p.Count = -1 }},
		{"size", func(p *Params) { p.Size = 0 }},
		{"speed", func(p *Params) { p.Speed = math.NaN() }},
		{"lifetime", func(p *Params) { p.Lifetime = -2 }},
		{"rate", func(p *Params) { p.EmissionRate = -1 }},
		{"turbulence", func(p *Params) { p.Turbulence = -0.1 }},
		{"gravity", func(p *Params) { p.Gravity = math.Inf(-1) }},
		{"palette", func(p *Params) { p.Palette = "" }},
		{"shape", func(p *Params) { p.Shape = 200 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func BenchmarkEngineStep(b *testing.B) {
	params := DefaultParams()
	e, err := NewEngine(params, WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		e.Step(1.0/60.0, float64(n)/60.0, params)
	}
}
