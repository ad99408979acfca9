package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/glowfield/particles"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := cfg.Params()
	want := particles.DefaultParams()
	if p != want {
		t.Errorf("default params = %+v, want %+v", p, want)
	}
	if cfg.Camera.Distance != 15 || cfg.Camera.FOV != 75 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if len(cfg.Generators) != 1 || cfg.Generators[0] != "particles" {
		t.Errorf("generators = %v", cfg.Generators)
	}
	if cfg.Derived.ScreenW32 != 1280 || cfg.Derived.DT32 <= 0 {
		t.Errorf("derived = %+v", cfg.Derived)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
particles:
  count: 500
  shape: box
  palette: chakra
noise:
  kind: simplex
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := cfg.Params()
	if p.Count != 500 || p.Shape != particles.ShapeBox || p.Palette != "chakra" {
		t.Errorf("overlay not applied: %+v", p)
	}
	// Untouched fields keep their defaults.
	if p.Lifetime != 5 || p.EmissionRate != 2000 {
		t.Errorf("defaults lost: %+v", p)
	}
	if cfg.Noise.Kind != "simplex" {
		t.Errorf("noise kind = %q", cfg.Noise.Kind)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"shape", "particles:\n  shape: torus\n"},
		{"palette", "particles:\n  palette: neon\n"},
		{"count", "particles:\n  count: 0\n"},
		{"lifetime", "particles:\n  lifetime: -1\n"},
		{"noise", "noise:\n  kind: worley\n"},
		{"screen", "screen:\n  width: 0\n"},
		{"stats window", "telemetry:\n  stats_window: 0\n"},
		{"gpu", "gpu:\n  mask_radius: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Params()
	p.Shape = particles.ShapeSphere
	p.Turbulence = 2.5
	cfg.SetParams(p)

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Params() != p {
		t.Errorf("reloaded params = %+v, want %+v", back.Params(), p)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	global = nil
	defer func() {
		if recover() == nil {
			t.Error("Cfg should panic before Init")
		}
	}()
	Cfg()
}

func TestInit(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	if Cfg().Particles.Count != 10000 {
		t.Errorf("count = %d", Cfg().Particles.Count)
	}
}
