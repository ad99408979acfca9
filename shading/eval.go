package shading

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/glowfield/particles"
)

// Uniforms holds per-draw uniform values.
type Uniforms struct {
	ModelView    mgl32.Mat4
	Projection   mgl32.Mat4
	ParticleSize float32
	Time         float32
}

// Vertex is one particle as the vertex stage sees it.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Size     float32
	Life     float32
}

// VertexAt reads slot i of the pool.
func VertexAt(p *particles.Pool, i int) Vertex {
	i3 := i * 3
	return Vertex{
		Position: mgl32.Vec3{p.Positions[i3], p.Positions[i3+1], p.Positions[i3+2]},
		Color:    mgl32.Vec3{p.Colors[i3], p.Colors[i3+1], p.Colors[i3+2]},
		Size:     p.Sizes[i],
		Life:     p.Life[i],
	}
}

// Varyings is the vertex stage output.
type Varyings struct {
	Clip      mgl32.Vec4
	ViewZ     float32
	PointSize float32
	Color     mgl32.Vec3
	Life      float32
}

// Visible reports whether the point lies in front of the camera.
func (v Varyings) Visible() bool {
	return v.ViewZ < 0
}

// NDC returns the clip position after the perspective divide.
func (v Varyings) NDC() mgl32.Vec3 {
	if v.Clip.W() == 0 {
		return mgl32.Vec3{}
	}
	return v.Clip.Vec3().Mul(1 / v.Clip.W())
}

// ShadeVertex evaluates the vertex stage. Points on or behind the eye plane
// get a zero point size.
func (p *Pipeline) ShadeVertex(in Vertex, u Uniforms) Varyings {
	mv := u.ModelView.Mul4x1(in.Position.Vec4(1))
	out := Varyings{
		Clip:  u.Projection.Mul4x1(mv),
		ViewZ: mv.Z(),
		Color: in.Color,
		Life:  in.Life,
	}
	if out.Visible() {
		out.PointSize = in.Size * u.ParticleSize * (p.PointScale / -out.ViewZ)
	}
	return out
}

// ShadeFragment evaluates the fragment stage at pointCoord (0..1 across the
// sprite). The second result is false when the fragment is discarded.
func (p *Pipeline) ShadeFragment(in Varyings, pointCoord mgl32.Vec2) (mgl32.Vec4, bool) {
	if pointCoord.Sub(mgl32.Vec2{0.5, 0.5}).Len() > p.MaskRadius {
		return mgl32.Vec4{}, false
	}
	return in.Color.Vec4(in.Life * p.AlphaScale), true
}

// Composite blends src onto dst using the pipeline's blend mode. Channels
// saturate at 1.
func (p *Pipeline) Composite(dst mgl32.Vec3, src mgl32.Vec4) mgl32.Vec3 {
	a := src.W()
	var out mgl32.Vec3
	for c := 0; c < 3; c++ {
		switch p.Blend {
		case BlendAlpha:
			out[c] = dst[c]*(1-a) + src[c]*a
		default:
			out[c] = dst[c] + src[c]*a
		}
		out[c] = saturate(out[c])
	}
	return out
}

// Coverage returns the fraction of an n×n sprite grid kept by the mask.
func (p *Pipeline) Coverage(n int) float64 {
	if n <= 0 {
		return 0
	}
	kept := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			pc := mgl32.Vec2{(float32(x) + 0.5) / float32(n), (float32(y) + 0.5) / float32(n)}
			if _, ok := p.ShadeFragment(Varyings{}, pc); ok {
				kept++
			}
		}
	}
	return float64(kept) / float64(n*n)
}

func saturate(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
