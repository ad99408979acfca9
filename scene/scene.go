// Package scene holds the active generator layers. Each layer is an ECS
// entity carrying its own particle engine, so layers can be added, removed
// and rebuilt while the frame loop keeps running.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/glowfield/particles"
)

// GeneratorParticles is the stock generator kind.
const GeneratorParticles = "particles"

var (
	ErrUnknownGenerator   = errors.New("unknown generator")
	ErrDuplicateGenerator = errors.New("generator already active")
)

// Generator is the component holding a layer's engine.
type Generator struct {
	Name   string
	Engine *particles.Engine
}

// Layer is the component holding a layer's draw order and last result.
type Layer struct {
	Order   int
	Visible bool
	Last    particles.StepResult
}

// Factory builds an engine for a generator kind.
type Factory func(params particles.Params) (*particles.Engine, error)

// Result pairs a layer name with its step outcome.
type Result struct {
	Name string
	particles.StepResult
}

// Scene owns the ECS world of generator layers.
type Scene struct {
	world  *ecs.World
	mapper *ecs.Map2[Generator, Layer]
	filter *ecs.Filter2[Generator, Layer]
	layers *ecs.Map1[Layer]
	gens   *ecs.Map1[Generator]

	byName    map[string]ecs.Entity
	factories map[string]Factory
	nextOrder int
}

// New creates an empty scene with the particles generator registered.
// opts are passed to every particle engine the scene builds.
func New(opts ...particles.Option) *Scene {
	world := ecs.NewWorld()
	s := &Scene{
		world:     world,
		mapper:    ecs.NewMap2[Generator, Layer](world),
		filter:    ecs.NewFilter2[Generator, Layer](world),
		layers:    ecs.NewMap1[Layer](world),
		gens:      ecs.NewMap1[Generator](world),
		byName:    make(map[string]ecs.Entity),
		factories: make(map[string]Factory),
	}
	s.Register(GeneratorParticles, func(params particles.Params) (*particles.Engine, error) {
		return particles.NewEngine(params, opts...)
	})
	return s
}

// Register installs (or replaces) the factory for a generator name.
func (s *Scene) Register(name string, f Factory) {
	s.factories[name] = f
}

// Add activates a generator layer on top of the existing ones.
func (s *Scene) Add(name string, params particles.Params) error {
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateGenerator, name)
	}
	f, ok := s.factories[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
	}
	engine, err := f(params)
	if err != nil {
		return fmt.Errorf("adding generator %s: %w", name, err)
	}

	gen := Generator{Name: name, Engine: engine}
	layer := Layer{Order: s.nextOrder, Visible: true}
	s.nextOrder++
	s.byName[name] = s.mapper.NewEntity(&gen, &layer)

	slog.Info("generator added", "name", name, "count", engine.Count(), "order", layer.Order)
	return nil
}

// Remove deactivates a generator layer. Returns false if it was not active.
func (s *Scene) Remove(name string) bool {
	e, ok := s.byName[name]
	if !ok {
		return false
	}
	s.mapper.Remove(e)
	delete(s.byName, name)
	slog.Info("generator removed", "name", name)
	return true
}

// Len returns the number of active layers.
func (s *Scene) Len() int {
	return len(s.byName)
}

// Names returns active layer names in draw order.
func (s *Scene) Names() []string {
	names := make([]string, 0, len(s.byName))
	s.Each(func(g *Generator, _ *Layer) {
		names = append(names, g.Name)
	})
	return names
}

// Engine returns the engine of an active layer.
func (s *Scene) Engine(name string) (*particles.Engine, bool) {
	e, ok := s.byName[name]
	if !ok || !s.world.Alive(e) {
		return nil, false
	}
	return s.gens.Get(e).Engine, true
}

// SetVisible shows or hides a layer without pausing it.
func (s *Scene) SetVisible(name string, visible bool) bool {
	e, ok := s.byName[name]
	if !ok {
		return false
	}
	s.layers.Get(e).Visible = visible
	return true
}

// Step advances every layer with the same snapshot and returns the results
// in draw order.
func (s *Scene) Step(dt, t float64, params particles.Params) []Result {
	results := make([]Result, 0, len(s.byName))
	s.Each(func(g *Generator, l *Layer) {
		l.Last = g.Engine.Step(dt, t, params)
		results = append(results, Result{Name: g.Name, StepResult: l.Last})
	})
	return results
}

type entry struct {
	gen   *Generator
	layer *Layer
}

// Each calls fn for every layer in draw order. fn must not add or remove
// layers.
func (s *Scene) Each(fn func(g *Generator, l *Layer)) {
	entries := make([]entry, 0, len(s.byName))
	query := s.filter.Query()
	for query.Next() {
		g, l := query.Get()
		entries = append(entries, entry{gen: g, layer: l})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].layer.Order < entries[j].layer.Order
	})
	for _, en := range entries {
		fn(en.gen, en.layer)
	}
}

// Reconcile makes the active layers match names: missing generators are
// added, extra ones removed, and engines whose pool capacity differs from
// params.Count are rebuilt. Returns the number of engines built.
func (s *Scene) Reconcile(names []string, params particles.Params) (int, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var stale []string
	var rebuild []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		g, _ := query.Get()
		switch {
		case !want[g.Name]:
			stale = append(stale, g.Name)
		case g.Engine.Count() != params.Count:
			rebuild = append(rebuild, query.Entity())
		}
	}

	for _, n := range stale {
		s.Remove(n)
	}

	built := 0
	for _, e := range rebuild {
		g := s.gens.Get(e)
		engine, err := s.factories[g.Name](params)
		if err != nil {
			return built, fmt.Errorf("rebuilding generator %s: %w", g.Name, err)
		}
		slog.Info("generator rebuilt", "name", g.Name, "old_count", g.Engine.Count(), "count", params.Count)
		g.Engine = engine
		built++
	}

	for _, n := range names {
		if _, ok := s.byName[n]; ok {
			continue
		}
		if err := s.Add(n, params); err != nil {
			return built, err
		}
		built++
	}
	return built, nil
}
