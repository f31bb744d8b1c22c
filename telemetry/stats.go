package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Rock     int `csv:"rock"`
	Paper    int `csv:"paper"`
	Scissors int `csv:"scissors"`

	// Conversions during window, by the kind the target became
	Conversions  int `csv:"conversions"`
	RockWins     int `csv:"rock_wins"`
	PaperWins    int `csv:"paper_wins"`
	ScissorsWins int `csv:"scissors_wins"`
	SkippedPairs int `csv:"skipped_pairs"`

	// Sensor and containment events during window
	DangerEvents   int `csv:"danger_events"`
	BoundaryEvents int `csv:"boundary_events"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Kinds with at least one agent
	KindsAlive int `csv:"kinds_alive"`
}

// Total returns the population at window end.
func (s WindowStats) Total() int {
	return s.Rock + s.Paper + s.Scissors
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

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistStats calculates mean and percentiles of values.
func ComputeDistStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("rock", s.Rock),
		slog.Int("paper", s.Paper),
		slog.Int("scissors", s.Scissors),
		slog.Int("conversions", s.Conversions),
		slog.Int("rock_wins", s.RockWins),
		slog.Int("paper_wins", s.PaperWins),
		slog.Int("scissors_wins", s.ScissorsWins),
		slog.Int("skipped_pairs", s.SkippedPairs),
		slog.Int("danger_events", s.DangerEvents),
		slog.Int("boundary_events", s.BoundaryEvents),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Int("kinds_alive", s.KindsAlive),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"rock", s.Rock,
		"paper", s.Paper,
		"scissors", s.Scissors,
		"conversions", s.Conversions,
		"rock_wins", s.RockWins,
		"paper_wins", s.PaperWins,
		"scissors_wins", s.ScissorsWins,
		"skipped_pairs", s.SkippedPairs,
		"danger_events", s.DangerEvents,
		"boundary_events", s.BoundaryEvents,
		"speed_mean", s.SpeedMean,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"kinds_alive", s.KindsAlive,
	)
}
