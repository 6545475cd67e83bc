package renderer

import "github.com/pthm-cable/mitosis/sim"

// colorGroups partitions live particle indices by exact packed color
// value, so each distinct color pays one style change per frame. Group
// order is first-seen, which keeps state-change order stable from frame
// to frame for a stable population.
//
// Buffers are reused across frames; rebuilding allocates only when a
// color is seen for the first time.
type colorGroups struct {
	order   []uint32
	buckets map[uint32][]int32
}

func newColorGroups() *colorGroups {
	return &colorGroups{buckets: make(map[uint32][]int32)}
}

// rebuild regroups the given particle set.
func (g *colorGroups) rebuild(particles []sim.Particle) {
	for _, c := range g.order {
		g.buckets[c] = g.buckets[c][:0]
	}
	g.order = g.order[:0]

	for i := range particles {
		c := particles[i].Color
		bucket, seen := g.buckets[c]
		if !seen || len(bucket) == 0 {
			g.order = append(g.order, c)
		}
		g.buckets[c] = append(bucket, int32(i))
	}
}
