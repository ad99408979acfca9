// Package shading describes the two-stage point sprite program that draws
// the particle pool, and evaluates both stages on the CPU so hosts without
// a programmable pipeline (and tests) get the same pixels.
package shading

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/glowfield/particles"
)

// Stock program constants.
const (
	DefaultPointScale = 300.0
	DefaultMaskRadius = 0.475
	DefaultAlphaScale = 0.5
)

// Uniform names shared by both stages.
const (
	UniformModelView    = "uModelView"
	UniformProjection   = "uProjection"
	UniformParticleSize = "uParticleSize"
	UniformTime         = "uTime"
	UniformPointScale   = "uPointScale"
	UniformMaskRadius   = "uMaskRadius"
	UniformAlphaScale   = "uAlphaScale"
)

var (
	ErrMissingAttribute  = errors.New("attribute missing from layout")
	ErrComponentMismatch = errors.New("attribute component count mismatch")
	ErrInvalidPipeline   = errors.New("invalid pipeline")
)

// BlendMode selects how fragments composite onto the framebuffer.
type BlendMode uint8

const (
	BlendAdditive BlendMode = iota
	BlendAlpha
)

func (m BlendMode) String() string {
	switch m {
	case BlendAdditive:
		return "additive"
	case BlendAlpha:
		return "alpha"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(m))
	}
}

// Binding ties a vertex attribute name to a shader input location.
type Binding struct {
	Name       string
	Components int
	Location   uint32
}

// Pipeline is the declarative description of the particle program. It holds
// no GPU handles; renderers compile it however their backend requires. The
// raylib host evaluates both stages on the CPU (ShadeVertex, ShadeFragment)
// and draws baked sprites, so the GLSL sources and depth state only reach a
// GPU in cmd/spritedebug -check-glsl.
type Pipeline struct {
	VertexSource   string
	FragmentSource string
	Bindings       []Binding
	Uniforms       []string

	Blend       BlendMode
	DepthWrite  bool
	DepthTest   bool
	Transparent bool

	PointScale float32
	MaskRadius float32
	AlphaScale float32
}

// Option configures New.
type Option func(*Pipeline)

// WithPointScale sets the numerator of the perspective size attenuation.
func WithPointScale(k float32) Option {
	return func(p *Pipeline) { p.PointScale = k }
}

// WithMaskRadius sets the radius (in point coordinates) beyond which
// fragments are discarded.
func WithMaskRadius(r float32) Option {
	return func(p *Pipeline) { p.MaskRadius = r }
}

// WithAlphaScale sets the factor applied to life to get fragment alpha.
func WithAlphaScale(a float32) Option {
	return func(p *Pipeline) { p.AlphaScale = a }
}

// WithBlend sets the blend mode.
func WithBlend(m BlendMode) Option {
	return func(p *Pipeline) { p.Blend = m }
}

// WithDepthWrite toggles depth writes.
func WithDepthWrite(enabled bool) Option {
	return func(p *Pipeline) { p.DepthWrite = enabled }
}

// New returns the particle program: additive, transparent, depth tested
// without depth writes.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Bindings: []Binding{
			{Name: particles.AttrPosition, Components: 3, Location: 0},
			{Name: particles.AttrColor, Components: 3, Location: 1},
			{Name: particles.AttrSize, Components: 1, Location: 2},
			{Name: particles.AttrLife, Components: 1, Location: 3},
		},
		Uniforms: []string{
			UniformModelView,
			UniformProjection,
			UniformParticleSize,
			UniformTime,
			UniformPointScale,
			UniformMaskRadius,
			UniformAlphaScale,
		},
		Blend:       BlendAdditive,
		DepthWrite:  false,
		DepthTest:   true,
		Transparent: true,
		PointScale:  DefaultPointScale,
		MaskRadius:  DefaultMaskRadius,
		AlphaScale:  DefaultAlphaScale,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validate checks the pipeline's own constants and that every binding is
// present in layout with the same component count.
func (p *Pipeline) Validate(layout []particles.Attribute) error {
	if p.PointScale <= 0 || p.MaskRadius <= 0 || p.AlphaScale < 0 {
		return fmt.Errorf("%w: point scale %v, mask radius %v, alpha scale %v",
			ErrInvalidPipeline, p.PointScale, p.MaskRadius, p.AlphaScale)
	}

	byName := make(map[string]particles.Attribute, len(layout))
	for _, a := range layout {
		byName[a.Name] = a
	}
	for _, b := range p.Bindings {
		a, ok := byName[b.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAttribute, b.Name)
		}
		if a.Components != b.Components {
			return fmt.Errorf("%w: %s has %d, binding wants %d",
				ErrComponentMismatch, b.Name, a.Components, b.Components)
		}
	}
	return nil
}

// Binding returns the binding for name.
func (p *Pipeline) Binding(name string) (Binding, bool) {
	for _, b := range p.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}
