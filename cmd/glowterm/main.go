// Command glowterm runs the particle field in a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/glowfield/camera"
	"github.com/pthm-cable/glowfield/config"
	"github.com/pthm-cable/glowfield/noise"
	"github.com/pthm-cable/glowfield/palette"
	"github.com/pthm-cable/glowfield/particles"
	"github.com/pthm-cable/glowfield/scene"
	"github.com/pthm-cable/glowfield/termview"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	count := flag.Int("count", 3000, "Particle count (terminal grids are small)")
	fps := flag.Int("fps", 30, "Target frames per second")
	logFile := flag.String("log", "", "Write JSON logs to this file (stdout belongs to the screen)")
	flag.Parse()

	if err := run(*configPath, *seed, *count, *fps, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "glowterm: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, count, fps int, logFile string) error {
	logOut := os.Stderr
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	noiseSeed := cfg.Noise.Seed
	if noiseSeed == 0 {
		noiseSeed = seed
	}
	field, err := noise.New(cfg.Noise.Kind, noiseSeed)
	if err != nil {
		return err
	}

	params := cfg.Params()
	if count > 0 {
		params.Count = count
	}

	sc := scene.New(particles.WithNoise(field), particles.WithSeed(seed))
	if _, err := sc.Reconcile(cfg.Generators, params); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	cam := camera.New(1, 1)
	cam.SetDistance(float32(cfg.Camera.Distance))
	cam.FOV = float32(cfg.Camera.FOV)
	view := termview.NewView(screen, cam)

	if fps < 1 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	// PollEvent blocks, so input is read on its own goroutine.
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	var simTime float64
	var lastErr error
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !handleKey(ev, &params, cam) {
					return nil
				}
			case *tcell.EventResize:
				view.Resize()
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			lastErr = nil
			alive := 0
			for _, r := range sc.Step(dt, simTime, params) {
				alive += r.Alive
				if r.Err != nil {
					lastErr = r.Err
				}
			}
			simTime = advanceClock(simTime, dt, params.Playing)

			pools := make([]*particles.Pool, 0, sc.Len())
			sc.Each(func(g *scene.Generator, l *scene.Layer) {
				if l.Visible {
					pools = append(pools, g.Engine.Pool())
				}
			})
			view.Draw(pools, status(params, alive, lastErr))
		}
	}
}

// advanceClock moves the turbulence clock by the step the engines actually
// took. It stands still while paused so the field resumes where it stopped.
func advanceClock(t, dt float64, playing bool) float64 {
	if !playing {
		return t
	}
	if clamped, ok := particles.ClampStep(dt); ok {
		return t + clamped
	}
	return t
}

// handleKey applies one key press. Returns false to quit.
func handleKey(ev *tcell.EventKey, p *particles.Params, cam *camera.Camera) bool {
	const orbitStep = 0.1
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		cam.Orbit(-orbitStep, 0)
	case tcell.KeyRight:
		cam.Orbit(orbitStep, 0)
	case tcell.KeyUp:
		cam.Orbit(0, orbitStep)
	case tcell.KeyDown:
		cam.Orbit(0, -orbitStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			p.Playing = !p.Playing
		case 'c':
			p.Palette = palette.Next(p.Palette)
		case 's':
			p.Shape = p.Shape.Next()
		case '+', '=':
			cam.ZoomBy(1.1)
		case '-':
			cam.ZoomBy(1 / 1.1)
		case ']':
			p.EmissionRate *= 1.25
		case '[':
			p.EmissionRate /= 1.25
		case 'r':
			cam.Reset()
		}
	}
	return true
}

func status(p particles.Params, alive int, err error) string {
	state := "running"
	if !p.Playing {
		state = "paused"
	}
	s := fmt.Sprintf("%s | alive %d/%d | %s %s | rate %.0f/s | [space] pause [c] palette [s] shape [+/-] zoom [arrows] orbit [q] quit",
		state, alive, p.Count, p.Palette, p.Shape, p.EmissionRate)
	if err != nil {
		s += " | " + err.Error()
	}
	return s
}
