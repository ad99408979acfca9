// Sprite debug tool - renders the point sprite mask, or one simulated
// frame of the particle field, to a PNG file for inspection.
//
// Usage:
//
//	go run ./cmd/spritedebug -mode sprite -out sprite.png
//	go run ./cmd/spritedebug -mode frame -steps 300 -out frame.png
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowfield/camera"
	"github.com/pthm-cable/glowfield/config"
	"github.com/pthm-cable/glowfield/particles"
	"github.com/pthm-cable/glowfield/renderer"
	"github.com/pthm-cable/glowfield/shading"
)

func main() {
	mode := flag.String("mode", "sprite", "What to render: sprite or frame")
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	size := flag.Int("size", 256, "Sprite mask resolution (sprite mode)")
	width := flag.Int("width", 1280, "Render width (frame mode)")
	height := flag.Int("height", 720, "Render height (frame mode)")
	steps := flag.Int("steps", 300, "Simulation steps before capture (frame mode)")
	seed := flag.Int64("seed", 1, "RNG seed")
	checkGLSL := flag.Bool("check-glsl", false, "Compile the GLSL point sprite program (frame mode)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	pipeline := shading.New(
		shading.WithPointScale(float32(cfg.GPU.PointScale)),
		shading.WithMaskRadius(float32(cfg.GPU.MaskRadius)),
		shading.WithAlphaScale(float32(cfg.GPU.AlphaScale)),
	)

	var err error
	switch *mode {
	case "sprite":
		err = renderSprite(pipeline, *size, *outPath)
	case "frame":
		err = renderFrame(cfg, pipeline, *width, *height, *steps, *seed, *checkGLSL, *outPath)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// renderSprite writes the fragment stage coverage mask. No window needed.
func renderSprite(p *shading.Pipeline, n int, outPath string) error {
	pixels := renderer.SpritePixels(p, n)
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for i, c := range pixels {
		img.Set(i%n, i/n, c)
	}

	rimg := rl.NewImageFromImage(img)
	defer rl.UnloadImage(rimg)
	if !rl.ExportImage(*rimg, outPath) {
		return fmt.Errorf("failed to export %s", outPath)
	}
	fmt.Printf("Sprite mask rendered to: %s (%dx%d, coverage %.1f%%)\n", outPath, n, n, p.Coverage(n)*100)
	return nil
}

// renderFrame steps an engine and draws it the same way the window host does.
func renderFrame(cfg *config.Config, p *shading.Pipeline, width, height, steps int, seed int64, checkGLSL bool, outPath string) error {
	params := cfg.Params()
	engine, err := particles.NewEngine(params, particles.WithSeed(seed))
	if err != nil {
		return err
	}
	if err := p.Validate(engine.Bridge().Layout()); err != nil {
		return err
	}

	dt := cfg.Physics.DT
	for i := 0; i < steps; i++ {
		engine.Step(dt, float64(i)*dt, params)
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(width), int32(height), "Sprite Debug")
	defer rl.CloseWindow()

	if checkGLSL {
		shader := rl.LoadShaderFromMemory(p.VertexSource, p.FragmentSource)
		if shader.ID == 0 {
			return fmt.Errorf("point sprite GLSL failed to compile")
		}
		rl.UnloadShader(shader)
		fmt.Println("Point sprite GLSL compiled")
	}

	r := renderer.NewParticleRenderer(p)
	r.Init()
	defer r.Unload()
	if _, err := engine.Bridge().Upload(r); err != nil {
		return err
	}

	cam := camera.New(float32(width), float32(height))
	cam.SetDistance(float32(cfg.Camera.Distance))
	cam.FOV = float32(cfg.Camera.FOV)
	sprites := r.Project(cam, float32(params.Size), float32(float64(steps)*dt), nil)

	target := rl.LoadRenderTexture(int32(width), int32(height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	renderer.NewBackground(cfg.Screen.Background).Draw()
	r.Draw(sprites)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)
	defer rl.UnloadImage(img)

	if !rl.ExportImage(*img, outPath) {
		return fmt.Errorf("failed to export %s", outPath)
	}
	fmt.Printf("Frame rendered to: %s (%dx%d, %d sprites after %d steps)\n", outPath, width, height, len(sprites), steps)
	return nil
}
