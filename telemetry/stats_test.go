package telemetry

import (
	"math"
	"testing"
	"time"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestComputeKnownDistribution(t *testing.T) {
	radii := []float64{10, 3, 7, 1, 9, 5, 2, 8, 4, 6}
	s := Compute(300, 10, 4, radii, 250*time.Microsecond)

	if s.WindowEndTick != 300 || s.Population != 10 || s.Births != 4 {
		t.Fatalf("carried fields wrong: %+v", s)
	}
	approx(t, "mean", s.RadiusMean, 5.5)
	approx(t, "std", s.RadiusStd, math.Sqrt(82.5/9))
	approx(t, "p10", s.RadiusP10, 1)
	approx(t, "p50", s.RadiusP50, 5)
	approx(t, "p90", s.RadiusP90, 9)
	approx(t, "min", s.RadiusMin, 1)
	approx(t, "step_us", s.StepMicros, 250)

	// radii is sorted in place by Compute.
	for i := 1; i < len(radii); i++ {
		if radii[i-1] > radii[i] {
			t.Fatalf("radii not sorted after Compute: %v", radii)
		}
	}
}

func TestComputeSingleSample(t *testing.T) {
	s := Compute(1, 1, 0, []float64{60}, 0)

	approx(t, "mean", s.RadiusMean, 60)
	approx(t, "std", s.RadiusStd, 0)
	approx(t, "p50", s.RadiusP50, 60)
	approx(t, "min", s.RadiusMin, 60)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(0, 0, 0, nil, time.Millisecond)

	if s.RadiusMean != 0 || s.RadiusStd != 0 || s.RadiusMin != 0 {
		t.Errorf("empty window should zero radius stats: %+v", s)
	}
	approx(t, "step_us", s.StepMicros, 1000)
}
