package renderer

import (
	"testing"

	"github.com/pthm-cable/mitosis/sim"
)

func particlesWithColors(colors ...uint32) []sim.Particle {
	ps := make([]sim.Particle, len(colors))
	for i, c := range colors {
		ps[i] = sim.Particle{X: float32(i), Y: float32(i), Radius: 2, Color: c}
	}
	return ps
}

func TestColorGroupsPartition(t *testing.T) {
	g := newColorGroups()
	g.rebuild(particlesWithColors(0xFF0000, 0x00FF00, 0xFF0000, 0x0000FF, 0x00FF00, 0xFF0000))

	if len(g.order) != 3 {
		t.Fatalf("expected 3 distinct colors, got %d", len(g.order))
	}
	// First-seen order
	want := []uint32{0xFF0000, 0x00FF00, 0x0000FF}
	for i, c := range want {
		if g.order[i] != c {
			t.Errorf("order[%d] = %#x, want %#x", i, g.order[i], c)
		}
	}

	total := 0
	seen := make(map[int32]bool)
	for _, c := range g.order {
		for _, idx := range g.buckets[c] {
			if seen[idx] {
				t.Errorf("index %d appears in more than one bucket", idx)
			}
			seen[idx] = true
			total++
		}
	}
	if total != 6 {
		t.Errorf("expected 6 indices across buckets, got %d", total)
	}
	if got := len(g.buckets[0xFF0000]); got != 3 {
		t.Errorf("expected 3 red particles, got %d", got)
	}
}

func TestColorGroupsRebuildReuses(t *testing.T) {
	g := newColorGroups()
	g.rebuild(particlesWithColors(0xFF0000, 0x00FF00))
	g.rebuild(particlesWithColors(0x00FF00, 0x00FF00))

	if len(g.order) != 1 || g.order[0] != 0x00FF00 {
		t.Fatalf("expected only green after rebuild, got order %v", g.order)
	}
	if got := len(g.buckets[0x00FF00]); got != 2 {
		t.Errorf("expected 2 green indices, got %d", got)
	}
	if got := len(g.buckets[0xFF0000]); got != 0 {
		t.Errorf("expected stale red bucket emptied, got %d entries", got)
	}
}

func TestStrategySelection(t *testing.T) {
	r := New(10000)

	if got := r.Active(500); got != StrategyDirect {
		t.Errorf("small population: got %v, want direct", got)
	}
	// Above the threshold without the disc pipeline, batched squares
	// carry the frame.
	if got := r.Active(50000); got != StrategyBatched {
		t.Errorf("large population: got %v, want batched", got)
	}

	// Forcing gpu without the pipeline falls back to batched.
	r.SetStrategy(StrategyGPU)
	if got := r.Active(500); got != StrategyBatched {
		t.Errorf("forced gpu without pipeline: got %v, want batched", got)
	}

	r.SetStrategy(StrategyDirect)
	if got := r.Active(50000); got != StrategyDirect {
		t.Errorf("forced direct: got %v, want direct", got)
	}
}

func TestStrategyCycleSkipsGPUWhenUnavailable(t *testing.T) {
	r := New(10000)

	want := []Strategy{StrategyDirect, StrategyBatched, StrategyAuto, StrategyDirect}
	for i, w := range want {
		if got := r.Cycle(); got != w {
			t.Errorf("cycle %d: got %v, want %v", i, got, w)
		}
	}
}
