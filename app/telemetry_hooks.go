package app

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/glowfield/particles"
	"github.com/pthm-cable/glowfield/scene"
	"github.com/pthm-cable/glowfield/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (a *App) flushTelemetry() {
	a.perfCollector.StartPhase(telemetry.PhaseTelemetry)

	if !a.collector.ShouldFlush(a.tick) {
		return
	}

	stats := a.collector.Flush(a.tick, a.pools())
	perfStats := a.perfCollector.Stats()

	if a.statsCallback != nil {
		a.statsCallback(stats)
	}

	if a.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if a.outputManager != nil {
		if err := a.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := a.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// pools returns every layer's pool in draw order.
func (a *App) pools() []*particles.Pool {
	pools := make([]*particles.Pool, 0, a.scene.Len())
	a.scene.Each(func(g *scene.Generator, _ *scene.Layer) {
		pools = append(pools, g.Engine.Pool())
	})
	return pools
}

// createSnapshot builds a snapshot from the current state.
func (a *App) createSnapshot() *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Seed:    a.rngSeed,
		Tick:    a.tick,
		Params:  telemetry.NewParamsState(a.params),
	}
	a.scene.Each(func(g *scene.Generator, _ *scene.Layer) {
		s.Layers = append(s.Layers, telemetry.CaptureLayer(g.Name, g.Engine.Pool()))
	})
	return s
}

// saveSnapshot writes the current state to the snapshot directory, or the
// output directory when no snapshot directory was given.
func (a *App) saveSnapshot() (string, error) {
	s := a.createSnapshot()

	var path string
	var err error
	switch {
	case a.snapshotDir != "":
		path, err = telemetry.SaveSnapshot(s, a.snapshotDir)
	case a.outputManager != nil:
		path, err = a.outputManager.WriteSnapshot(s)
	default:
		path, err = telemetry.SaveSnapshot(s, "snapshots")
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return "", err
	}

	slog.Info("snapshot saved", "path", path, "tick", a.tick)
	return path, nil
}

// restoreSnapshot replaces the parameter snapshot and every layer's pool
// with the contents of a snapshot file.
func (a *App) restoreSnapshot(path string) error {
	s, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	params, err := s.Params.ToParams()
	if err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}

	names := make([]string, len(s.Layers))
	for i, ls := range s.Layers {
		names[i] = ls.Name
	}
	if _, err := a.scene.Reconcile(names, params); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	for _, ls := range s.Layers {
		e, ok := a.scene.Engine(ls.Name)
		if !ok {
			return fmt.Errorf("restoring %s: layer %s missing", path, ls.Name)
		}
		if err := ls.Restore(e); err != nil {
			return fmt.Errorf("restoring %s: %w", path, err)
		}
	}

	a.params = params
	a.tick = s.Tick
	a.cfg.Generators = names
	slog.Info("snapshot restored", "path", path, "tick", s.Tick, "layers", len(names))
	return nil
}
