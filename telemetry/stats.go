package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pool occupancy at window end
	Layers    int     `csv:"layers"`
	Capacity  int     `csv:"capacity"`
	Alive     int     `csv:"alive"`
	Occupancy float64 `csv:"occupancy"`

	// Steps during window
	Steps      int     `csv:"steps"`
	Skipped    int     `csv:"skipped"`
	Spawned    int     `csv:"spawned"`
	Expired    int     `csv:"expired"`
	Budget     int     `csv:"budget"`
	Shortfall  int     `csv:"shortfall"`   // budget not met because no dead slot was found
	BudgetFill float64 `csv:"budget_fill"` // spawned / budget
	ParamErrs  int     `csv:"param_errors"`

	// Life distribution of live slots (sampled at window end)
	LifeMean float64 `csv:"life_mean"`
	LifeStd  float64 `csv:"life_std"`
	LifeP10  float64 `csv:"life_p10"`
	LifeP50  float64 `csv:"life_p50"`
	LifeP90  float64 `csv:"life_p90"`

	// Spread of live slots from the origin
	RadiusMean float64 `csv:"radius_mean"`
	RadiusMax  float64 `csv:"radius_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation between closest ranks
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, population std, and percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("layers", s.Layers),
		slog.Int("capacity", s.Capacity),
		slog.Int("alive", s.Alive),
		slog.Float64("occupancy", s.Occupancy),
		slog.Int("steps", s.Steps),
		slog.Int("skipped", s.Skipped),
		slog.Int("spawned", s.Spawned),
		slog.Int("expired", s.Expired),
		slog.Int("budget", s.Budget),
		slog.Int("shortfall", s.Shortfall),
		slog.Float64("budget_fill", s.BudgetFill),
		slog.Int("param_errors", s.ParamErrs),
		slog.Float64("life_mean", s.LifeMean),
		slog.Float64("life_std", s.LifeStd),
		slog.Float64("life_p10", s.LifeP10),
		slog.Float64("life_p50", s.LifeP50),
		slog.Float64("life_p90", s.LifeP90),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_max", s.RadiusMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
