// Package renderer draws the particle layers with raylib.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/glowfield/camera"
	"github.com/pthm-cable/glowfield/particles"
	"github.com/pthm-cable/glowfield/shading"
)

// minPointSize keeps distant particles from vanishing entirely.
const minPointSize = 0.5

// ParticleRenderer keeps its own copy of every uploaded attribute and draws
// the live particles as additive point sprites. The vertex stage runs on the
// CPU through the pipeline; the fragment mask is baked into the sprite.
type ParticleRenderer struct {
	pipeline *shading.Pipeline

	buffers map[string][]float32
	count   int
	uploads int

	sprite      rl.Texture2D
	initialized bool
}

// NewParticleRenderer creates a renderer for pipeline.
func NewParticleRenderer(pipeline *shading.Pipeline) *ParticleRenderer {
	return &ParticleRenderer{
		pipeline: pipeline,
		buffers:  make(map[string][]float32, len(pipeline.Bindings)),
	}
}

// Init loads the sprite texture (must be called after raylib window is created).
func (r *ParticleRenderer) Init() {
	if r.initialized {
		return
	}
	r.sprite = loadSprite(r.pipeline)
	r.initialized = true
}

// UploadAttribute implements particles.Uploader.
func (r *ParticleRenderer) UploadAttribute(a particles.Attribute) error {
	b, ok := r.pipeline.Binding(a.Name)
	if !ok {
		return fmt.Errorf("no binding for attribute %s", a.Name)
	}
	if a.Components != b.Components {
		return fmt.Errorf("%w: %s", shading.ErrComponentMismatch, a.Name)
	}
	dst := r.buffers[a.Name]
	if len(dst) != len(a.Data) {
		dst = make([]float32, len(a.Data))
	}
	copy(dst, a.Data)
	r.buffers[a.Name] = dst
	r.count = len(a.Data) / a.Components
	r.uploads++
	return nil
}

// Uploads returns how many attribute uploads were accepted.
func (r *ParticleRenderer) Uploads() int {
	return r.uploads
}

// Sprite is one projected particle ready to draw.
type Sprite struct {
	X, Y  float32 // screen pixels, y down
	Size  float32 // point size in pixels
	Color rl.Color
	Depth float32 // distance along the view axis
}

// Project runs the vertex and fragment stages over the uploaded buffers
// and returns the sprites that are alive and in front of the camera.
func (r *ParticleRenderer) Project(cam *camera.Camera, particleSize, t float32, out []Sprite) []Sprite {
	out = out[:0]
	pos := r.buffers[particles.AttrPosition]
	col := r.buffers[particles.AttrColor]
	size := r.buffers[particles.AttrSize]
	life := r.buffers[particles.AttrLife]
	if len(pos) < 3*r.count || len(col) < 3*r.count || len(size) < r.count || len(life) < r.count {
		return out
	}

	u := shading.Uniforms{
		ModelView:    cam.View(),
		Projection:   cam.Projection(),
		ParticleSize: particleSize,
		Time:         t,
	}
	center := mgl32.Vec2{0.5, 0.5}
	for i := 0; i < r.count; i++ {
		if life[i] <= 0 {
			continue
		}
		i3 := i * 3
		v := r.pipeline.ShadeVertex(shading.Vertex{
			Position: mgl32.Vec3{pos[i3], pos[i3+1], pos[i3+2]},
			Color:    mgl32.Vec3{col[i3], col[i3+1], col[i3+2]},
			Size:     size[i],
			Life:     life[i],
		}, u)
		if !v.Visible() {
			continue
		}
		ndc := v.NDC()
		if ndc.Z() < -1 || ndc.Z() > 1 {
			continue
		}
		rgba, _ := r.pipeline.ShadeFragment(v, center)
		ps := v.PointSize
		if ps < minPointSize {
			ps = minPointSize
		}
		out = append(out, Sprite{
			X:     (ndc.X() + 1) / 2 * cam.ViewportW,
			Y:     (1 - ndc.Y()) / 2 * cam.ViewportH,
			Size:  ps,
			Color: toColor(rgba),
			Depth: -v.ViewZ,
		})
	}
	return out
}

// Draw blends sprites onto the framebuffer with the pipeline's blend mode.
func (r *ParticleRenderer) Draw(sprites []Sprite) {
	if !r.initialized {
		r.Init()
	}

	mode := rl.BlendAdditive
	if r.pipeline.Blend == shading.BlendAlpha {
		mode = rl.BlendAlpha
	}
	rl.BeginBlendMode(mode)

	src := rl.Rectangle{X: 0, Y: 0, Width: SpriteSize, Height: SpriteSize}
	for _, s := range sprites {
		half := s.Size / 2
		dst := rl.Rectangle{X: s.X - half, Y: s.Y - half, Width: s.Size, Height: s.Size}
		rl.DrawTexturePro(r.sprite, src, dst, rl.Vector2{}, 0, s.Color)
	}

	rl.EndBlendMode()
}

// Unload frees resources.
func (r *ParticleRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.sprite)
		r.initialized = false
	}
}

func toColor(c mgl32.Vec4) rl.Color {
	return rl.Color{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: channel(c[3])}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
