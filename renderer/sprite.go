package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/glowfield/shading"
)

// SpriteSize is the resolution of the point sprite texture.
const SpriteSize = 64

// SpritePixels evaluates the fragment stage mask over an n×n grid with a
// white, fully alive input. Alpha is the coverage (0 or 255); color comes
// from the draw tint.
func SpritePixels(p *shading.Pipeline, n int) []color.RGBA {
	pixels := make([]color.RGBA, n*n)
	in := shading.Varyings{Color: mgl32.Vec3{1, 1, 1}, Life: 1}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			pc := mgl32.Vec2{(float32(x) + 0.5) / float32(n), (float32(y) + 0.5) / float32(n)}
			if _, ok := p.ShadeFragment(in, pc); ok {
				pixels[y*n+x] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
		}
	}
	return pixels
}

// loadSprite uploads the mask as a bilinear filtered texture (must be
// called after the raylib window is created).
func loadSprite(p *shading.Pipeline) rl.Texture2D {
	img := rl.GenImageColor(SpriteSize, SpriteSize, rl.Blank)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	rl.SetTextureFilter(tex, rl.FilterBilinear)
	rl.UpdateTexture(tex, SpritePixels(p, SpriteSize))
	return tex
}
