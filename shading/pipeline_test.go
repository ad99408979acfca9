package shading

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/glowfield/particles"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func stockUniforms() Uniforms {
	return Uniforms{
		ModelView:    mgl32.Translate3D(0, 0, -15),
		Projection:   mgl32.Perspective(mgl32.DegToRad(75), 16.0/9.0, 0.1, 1000),
		ParticleSize: 1,
	}
}

func TestNewDefaults(t *testing.T) {
	p := New()
	if p.Blend != BlendAdditive {
		t.Errorf("blend = %v, want additive", p.Blend)
	}
	if p.DepthWrite || !p.DepthTest || !p.Transparent {
		t.Errorf("depth write %v, depth test %v, transparent %v", p.DepthWrite, p.DepthTest, p.Transparent)
	}
	if p.PointScale != 300 || p.MaskRadius != 0.475 || p.AlphaScale != 0.5 {
		t.Errorf("constants = %v %v %v", p.PointScale, p.MaskRadius, p.AlphaScale)
	}
	for _, b := range p.Bindings {
		if !strings.Contains(p.VertexSource, " "+b.Name+";") {
			t.Errorf("vertex source does not declare %s", b.Name)
		}
	}
	for _, u := range p.Uniforms {
		if !strings.Contains(p.VertexSource+p.FragmentSource, u) {
			t.Errorf("uniform %s not used by either stage", u)
		}
	}
}

func TestOptions(t *testing.T) {
	p := New(
		WithPointScale(150),
		WithMaskRadius(0.3),
		WithAlphaScale(1),
		WithBlend(BlendAlpha),
		WithDepthWrite(true),
	)
	if p.PointScale != 150 || p.MaskRadius != 0.3 || p.AlphaScale != 1 {
		t.Errorf("constants = %v %v %v", p.PointScale, p.MaskRadius, p.AlphaScale)
	}
	if p.Blend != BlendAlpha || !p.DepthWrite {
		t.Errorf("blend %v depth write %v", p.Blend, p.DepthWrite)
	}
}

func TestValidateAgainstBridgeLayout(t *testing.T) {
	e, err := particles.NewEngine(particles.DefaultParams(), particles.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	layout := e.Bridge().Layout()

	if err := New().Validate(layout); err != nil {
		t.Fatalf("stock pipeline rejected bridge layout: %v", err)
	}

	if err := New().Validate(layout[:2]); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("missing attribute: got %v", err)
	}

	bad := append([]particles.Attribute(nil), layout...)
	bad[2].Components = 3
	if err := New().Validate(bad); !errors.Is(err, ErrComponentMismatch) {
		t.Errorf("component mismatch: got %v", err)
	}

	if err := New(WithMaskRadius(0)).Validate(layout); !errors.Is(err, ErrInvalidPipeline) {
		t.Errorf("zero mask radius: got %v", err)
	}
}

func TestShadeVertexPointSize(t *testing.T) {
	p := New()
	tests := []struct {
		name         string
		z            float32
		size         float32
		particleSize float32
		want         float32
	}{
		{"origin", 0, 1, 1, 20},
		{"closer doubles", 7.5, 1, 1, 40},
		{"size scales", 0, 2, 1, 40},
		{"uniform scales", 0, 1, 0.5, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := stockUniforms()
			u.ParticleSize = tt.particleSize
			out := p.ShadeVertex(Vertex{Position: mgl32.Vec3{0, 0, tt.z}, Size: tt.size, Life: 1}, u)
			if !out.Visible() {
				t.Fatal("point should be visible")
			}
			if !approx(out.PointSize, tt.want, 1e-3) {
				t.Errorf("point size = %v, want %v", out.PointSize, tt.want)
			}
		})
	}
}

func TestShadeVertexBehindCamera(t *testing.T) {
	out := New().ShadeVertex(Vertex{Position: mgl32.Vec3{0, 0, 20}, Size: 1}, stockUniforms())
	if out.Visible() || out.PointSize != 0 {
		t.Errorf("behind camera: visible %v size %v", out.Visible(), out.PointSize)
	}
}

func TestShadeVertexProjectsCenter(t *testing.T) {
	out := New().ShadeVertex(Vertex{Size: 1, Color: mgl32.Vec3{1, 0.5, 0}, Life: 0.8}, stockUniforms())
	ndc := out.NDC()
	if !approx(ndc.X(), 0, 1e-6) || !approx(ndc.Y(), 0, 1e-6) {
		t.Errorf("origin projected to %v, want screen center", ndc)
	}
	if out.Color != (mgl32.Vec3{1, 0.5, 0}) || out.Life != 0.8 {
		t.Errorf("varyings not passed through: %+v", out)
	}
}

func TestShadeFragmentMask(t *testing.T) {
	p := New()
	in := Varyings{Color: mgl32.Vec3{1, 0.2, 0.4}, Life: 0.6}

	tests := []struct {
		name string
		pc   mgl32.Vec2
		keep bool
	}{
		{"center", mgl32.Vec2{0.5, 0.5}, true},
		{"inside edge", mgl32.Vec2{0.5 + 0.47, 0.5}, true},
		{"outside edge", mgl32.Vec2{0.5 + 0.48, 0.5}, false},
		{"corner", mgl32.Vec2{0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rgba, ok := p.ShadeFragment(in, tt.pc)
			if ok != tt.keep {
				t.Fatalf("kept = %v, want %v", ok, tt.keep)
			}
			if !ok {
				return
			}
			want := mgl32.Vec4{1, 0.2, 0.4, 0.3}
			if !rgba.ApproxEqualThreshold(want, 1e-6) {
				t.Errorf("rgba = %v, want %v", rgba, want)
			}
		})
	}
}

func TestComposite(t *testing.T) {
	add := New()
	got := add.Composite(mgl32.Vec3{0.5, 0.9, 0}, mgl32.Vec4{1, 1, 0.4, 0.5})
	want := mgl32.Vec3{1, 1, 0.2}
	if !got.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("additive = %v, want %v", got, want)
	}

	alpha := New(WithBlend(BlendAlpha))
	got = alpha.Composite(mgl32.Vec3{1, 0, 0}, mgl32.Vec4{0, 0, 1, 0.25})
	want = mgl32.Vec3{0.75, 0, 0.25}
	if !got.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("alpha = %v, want %v", got, want)
	}
}

func TestCoverageApproximatesDisc(t *testing.T) {
	got := New().Coverage(200)
	want := math.Pi * 0.475 * 0.475
	if math.Abs(got-want) > 0.01 {
		t.Errorf("coverage = %v, want ~%v", got, want)
	}
}

func TestVertexAt(t *testing.T) {
	e, err := particles.NewEngine(particles.DefaultParams(), particles.WithSeed(4))
	if err != nil {
		t.Fatal(err)
	}
	pool := e.Pool()
	v := VertexAt(pool, 7)
	x, y, z := pool.Position(7)
	if v.Position != (mgl32.Vec3{x, y, z}) || v.Size != pool.Sizes[7] || v.Life != pool.Life[7] {
		t.Errorf("VertexAt(7) = %+v", v)
	}
}
