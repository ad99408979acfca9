package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/glowfield/particles"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrSnapshotMismatch is returned when a layer snapshot does not fit a pool.
var ErrSnapshotMismatch = errors.New("snapshot does not match pool")

// Snapshot holds the state of every generator layer at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	Params ParamsState  `json:"params"`
	Layers []LayerState `json:"layers"`
}

// ParamsState is the JSON form of the parameter snapshot.
type ParamsState struct {
	Count        int     `json:"count"`
	Size         float64 `json:"size"`
	Speed        float64 `json:"speed"`
	Palette      string  `json:"palette"`
	Shape        string  `json:"shape"`
	EmissionRate float64 `json:"emission_rate"`
	Lifetime     float64 `json:"lifetime"`
	Gravity      float64 `json:"gravity"`
	Turbulence   float64 `json:"turbulence"`
	WindX        float64 `json:"wind_x"`
	WindZ        float64 `json:"wind_z"`
	Playing      bool    `json:"playing"`
}

// LayerState holds one pool's arrays.
type LayerState struct {
	Name       string    `json:"name"`
	Positions  []float32 `json:"positions"`
	Velocities []float32 `json:"velocities"`
	Life       []float32 `json:"life"`
	Sizes      []float32 `json:"sizes"`
	Colors     []float32 `json:"colors"`
}

// NewParamsState converts a snapshot to its JSON form.
func NewParamsState(p particles.Params) ParamsState {
	return ParamsState{
		Count:        p.Count,
		Size:         p.Size,
		Speed:        p.Speed,
		Palette:      p.Palette,
		Shape:        p.Shape.String(),
		EmissionRate: p.EmissionRate,
		Lifetime:     p.Lifetime,
		Gravity:      p.Gravity,
		Turbulence:   p.Turbulence,
		WindX:        p.WindX,
		WindZ:        p.WindZ,
		Playing:      p.Playing,
	}
}

// ToParams converts back to a parameter snapshot.
func (ps ParamsState) ToParams() (particles.Params, error) {
	shape, err := particles.ParseShape(ps.Shape)
	if err != nil {
		return particles.Params{}, err
	}
	return particles.Params{
		Count:        ps.Count,
		Size:         ps.Size,
		Speed:        ps.Speed,
		Palette:      ps.Palette,
		Shape:        shape,
		EmissionRate: ps.EmissionRate,
		Lifetime:     ps.Lifetime,
		Gravity:      ps.Gravity,
		Turbulence:   ps.Turbulence,
		WindX:        ps.WindX,
		WindZ:        ps.WindZ,
		Playing:      ps.Playing,
	}, nil
}

// CaptureLayer copies a pool's arrays.
func CaptureLayer(name string, p *particles.Pool) LayerState {
	clone := func(s []float32) []float32 { return append([]float32(nil), s...) }
	return LayerState{
		Name:       name,
		Positions:  clone(p.Positions),
		Velocities: clone(p.Velocities),
		Life:       clone(p.Life),
		Sizes:      clone(p.Sizes),
		Colors:     clone(p.Colors),
	}
}

// Restore copies the layer arrays back into an engine's pool and marks
// every buffer for upload.
func (ls LayerState) Restore(e *particles.Engine) error {
	p := e.Pool()
	n := p.Len()
	if len(ls.Life) != n || len(ls.Sizes) != n ||
		len(ls.Positions) != 3*n || len(ls.Velocities) != 3*n || len(ls.Colors) != 3*n {
		return fmt.Errorf("%w: layer %s has %d slots, pool has %d", ErrSnapshotMismatch, ls.Name, len(ls.Life), n)
	}
	copy(p.Positions, ls.Positions)
	copy(p.Velocities, ls.Velocities)
	copy(p.Life, ls.Life)
	copy(p.Sizes, ls.Sizes)
	copy(p.Colors, ls.Colors)
	e.Bridge().MarkDynamic()
	e.Bridge().MarkStatic()
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
