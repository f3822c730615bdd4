package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64 `csv:"-"`
	WindowEndFrame   int64 `csv:"window_end"`
	Frames           int   `csv:"frames"`

	// Population and geometry at window end
	Particles      int     `csv:"particles"`
	ViewportWidth  float64 `csv:"viewport_w"`
	ViewportHeight float64 `csv:"viewport_h"`
	Repopulations  int     `csv:"repopulations"`

	// Events during window
	Resets        int     `csv:"resets"`
	LinksMean     float64 `csv:"links_mean"`
	LinksMax      int     `csv:"links_max"`
	PairsPerFrame int     `csv:"pairs_per_frame"`
	PointerActive float64 `csv:"pointer_active"` // fraction of frames with a live pointer

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// ComputeSpeedStats returns mean, sample standard deviation and the
// empirical 10th/50th/90th percentiles of values.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Int("frames", s.Frames),
		slog.Int("particles", s.Particles),
		slog.Float64("viewport_w", s.ViewportWidth),
		slog.Float64("viewport_h", s.ViewportHeight),
		slog.Int("repopulations", s.Repopulations),
		slog.Int("resets", s.Resets),
		slog.Float64("links_mean", s.LinksMean),
		slog.Int("links_max", s.LinksMax),
		slog.Int("pairs_per_frame", s.PairsPerFrame),
		slog.Float64("pointer_active", s.PointerActive),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
