// Package telemetry aggregates per-window simulation statistics and
// writes them to structured logs and CSV.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	Population    int     `csv:"population"`
	Births        int     `csv:"births"`
	RadiusMean    float64 `csv:"radius_mean"`
	RadiusStd     float64 `csv:"radius_std"`
	RadiusP10     float64 `csv:"radius_p10"`
	RadiusP50     float64 `csv:"radius_p50"`
	RadiusP90     float64 `csv:"radius_p90"`
	RadiusMin     float64 `csv:"radius_min"`
	StepMicros    float64 `csv:"step_us"`
}

// Compute builds window stats from the radii of the live population.
// radii is sorted in place.
func Compute(windowEnd int64, population, births int, radii []float64, stepAvg time.Duration) WindowStats {
	s := WindowStats{
		WindowEndTick: windowEnd,
		Population:    population,
		Births:        births,
		StepMicros:    float64(stepAvg.Microseconds()),
	}
	if len(radii) == 0 {
		return s
	}

	sort.Float64s(radii)
	s.RadiusMean = stat.Mean(radii, nil)
	if len(radii) > 1 {
		s.RadiusStd = stat.StdDev(radii, nil)
	}
	s.RadiusP10 = stat.Quantile(0.10, stat.Empirical, radii, nil)
	s.RadiusP50 = stat.Quantile(0.50, stat.Empirical, radii, nil)
	s.RadiusP90 = stat.Quantile(0.90, stat.Empirical, radii, nil)
	s.RadiusMin = radii[0]
	return s
}

// Log emits the window stats through slog.
func (s WindowStats) Log() {
	slog.Info("window stats",
		"tick", s.WindowEndTick,
		"population", s.Population,
		"births", s.Births,
		"radius_mean", s.RadiusMean,
		"radius_std", s.RadiusStd,
		"radius_p50", s.RadiusP50,
		"radius_min", s.RadiusMin,
		"step_us", s.StepMicros,
	)
}
