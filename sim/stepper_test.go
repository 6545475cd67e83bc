package sim

import (
	"math"
	"testing"
)

// testStepper builds a stepper over a small arena with the given cap and
// first particle.
func testStepper(t *testing.T, capacity int, splitRatio float32, p Particle) (*Stepper, *Store, *Counter) {
	t.Helper()
	store := NewStore(capacity)
	counter := NewCounter(capacity, 1)
	store.Write(0, p)
	st := NewStepper(store, counter, 800, 600, splitRatio, 7, DefaultParallelThreshold)
	return st, store, counter
}

func TestIntegration(t *testing.T) {
	st, store, _ := testStepper(t, 1, 0.8, Particle{X: 100, Y: 100, VX: 3, VY: -2, Radius: 10})

	st.Step(0)

	p := store.Read(0)
	if p.X != 103 || p.Y != 98 {
		t.Errorf("expected position (103, 98), got (%g, %g)", p.X, p.Y)
	}
}

func TestWallReflection(t *testing.T) {
	cases := []struct {
		name           string
		p              Particle
		wantX, wantY   float32
		wantVX, wantVY float32
	}{
		{
			name:  "left wall clamps tangent and forces vx positive",
			p:     Particle{X: 12, Y: 300, VX: -5, VY: 1, Radius: 10},
			wantX: 10, wantY: 301, wantVX: 5, wantVY: 1,
		},
		{
			name:  "right wall forces vx negative",
			p:     Particle{X: 793, Y: 300, VX: 4, VY: 0, Radius: 10},
			wantX: 790, wantY: 300, wantVX: -4, wantVY: 0,
		},
		{
			name:  "top wall forces vy positive",
			p:     Particle{X: 400, Y: 11, VX: 0, VY: -3, Radius: 10},
			wantX: 400, wantY: 10, wantVX: 0, wantVY: 3,
		},
		{
			name:  "bottom wall forces vy negative",
			p:     Particle{X: 400, Y: 588, VX: 0, VY: 6, Radius: 10},
			wantX: 400, wantY: 590, wantVX: 0, wantVY: -6,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Cap 1 so the reflection path never spawns.
			st, store, _ := testStepper(t, 1, 0.8, tc.p)
			st.Step(0)

			p := store.Read(0)
			if p.X != tc.wantX || p.Y != tc.wantY {
				t.Errorf("position (%g, %g), want (%g, %g)", p.X, p.Y, tc.wantX, tc.wantY)
			}
			if p.VX != tc.wantVX || p.VY != tc.wantVY {
				t.Errorf("velocity (%g, %g), want (%g, %g)", p.VX, p.VY, tc.wantVX, tc.wantVY)
			}
		})
	}
}

func TestSplitOnWallHit(t *testing.T) {
	st, store, counter := testStepper(t, 10, 0.8,
		Particle{X: 12, Y: 300, VX: -5, VY: 2, Radius: 20, Color: 0xFF4444})

	st.Step(0)

	if got := counter.Len(); got != 2 {
		t.Fatalf("expected population 2 after split, got %d", got)
	}

	parent := store.Read(0)
	child := store.Read(1)

	if parent.Radius != 16 || child.Radius != 16 {
		t.Errorf("expected both radii 16 (20*0.8), got parent %g child %g", parent.Radius, child.Radius)
	}
	if !parent.Grace || !child.Grace {
		t.Error("expected grace flag on both participants of the split")
	}
	if child.X != parent.X || child.Y != parent.Y {
		t.Errorf("expected child at parent position (%g, %g), got (%g, %g)",
			parent.X, parent.Y, child.X, child.Y)
	}

	// Child vx is parent's post-reflection vx scaled by [0.8, 1.2); the
	// x-hit jitters only vy.
	if child.VX < parent.VX*0.8 || child.VX >= parent.VX*1.2 {
		t.Errorf("child vx %g outside [%g, %g)", child.VX, parent.VX*0.8, parent.VX*1.2)
	}
	lo, hi := parent.VY*0.8-1, parent.VY*1.2+1
	if child.VY < lo || child.VY >= hi {
		t.Errorf("child vy %g outside [%g, %g)", child.VY, lo, hi)
	}
	if child.Color > 0xFFFFFF {
		t.Errorf("child color %#x not a packed 24-bit value", child.Color)
	}
}

func TestCornerHitSplitsOnce(t *testing.T) {
	// Breaches both the left and top walls in one tick.
	st, store, counter := testStepper(t, 10, 0.8,
		Particle{X: 12, Y: 12, VX: -5, VY: -5, Radius: 10})

	st.Step(0)

	if got := counter.Len(); got != 2 {
		t.Fatalf("corner hit must produce exactly one split, got population %d", got)
	}

	parent := store.Read(0)
	child := store.Read(1)
	if parent.VX != 5 || parent.VY != 5 {
		t.Errorf("expected parent velocity (5, 5) after corner reflection, got (%g, %g)", parent.VX, parent.VY)
	}
	// Both of the child's components carry scale plus jitter; each must
	// stay inside the combined envelope.
	for _, c := range []struct {
		name   string
		v, ref float32
	}{{"vx", child.VX, parent.VX}, {"vy", child.VY, parent.VY}} {
		lo, hi := c.ref*0.8-1, c.ref*1.2+1
		if c.v < lo || c.v >= hi {
			t.Errorf("child %s = %g outside [%g, %g)", c.name, c.v, lo, hi)
		}
	}
}

func TestGraceBlocksImmediateResplit(t *testing.T) {
	// Fast enough to cross the arena in one tick: it splits against the
	// left wall at tick 0 and reaches the right wall at tick 1.
	st, store, counter := testStepper(t, 10, 0.9,
		Particle{X: 30, Y: 300, VX: -790, VY: 0, Radius: 20})

	st.Step(0)
	if got := counter.Len(); got != 2 {
		t.Fatalf("expected split at tick 0, got population %d", got)
	}

	// Tick 1: the parent hits the opposite wall and the child (same
	// position, similar velocity) may hit too, but both carry the grace
	// flag from tick 0, so neither may split.
	p := store.Read(0)
	if p.X+p.VX+p.Radius <= 800 {
		t.Fatalf("setup broken: parent does not reach the right wall at tick 1 (x=%g vx=%g)", p.X, p.VX)
	}
	st.Step(1)
	if got := counter.Len(); got != 2 {
		t.Errorf("grace flag must block re-splitting on the next tick, got population %d", got)
	}
}

func TestRadiusFloorClamp(t *testing.T) {
	// candidateRadius = 1.2*0.5 < 1, so no split may ever occur; the
	// radius is clamped to the floor instead.
	st, store, counter := testStepper(t, 10, 0.5,
		Particle{X: 12, Y: 300, VX: -5, VY: 0, Radius: 1.2})

	for tick := int64(0); tick < 50; tick++ {
		st.Step(tick)
		if r := store.Read(0).Radius; r < MinRadius {
			t.Fatalf("radius %g fell below the floor at tick %d", r, tick)
		}
	}
	if got := counter.Len(); got != 1 {
		t.Errorf("expected no growth with sub-floor candidate radius, got population %d", got)
	}
}

func TestCapSaturationClampsInsteadOfSplitting(t *testing.T) {
	st, store, counter := testStepper(t, 1, 0.8,
		Particle{X: 12, Y: 300, VX: -5, VY: 0, Radius: 20})

	for tick := int64(0); tick < 50; tick++ {
		st.Step(tick)
	}

	if got := counter.Len(); got != 1 {
		t.Fatalf("cap 1 must never grow, got population %d", got)
	}
	p := store.Read(0)
	if p.Radius != 20 {
		t.Errorf("saturated hit must leave radius untouched above the floor, got %g", p.Radius)
	}
	if math.IsNaN(float64(p.X)) || math.IsNaN(float64(p.Y)) {
		t.Error("position became NaN")
	}
}
