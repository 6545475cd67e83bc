// Package sim implements the splitting-particle simulation core: a
// fixed-capacity particle population that moves ballistically inside a
// rectangular arena, reflects off the walls, and grows by splitting on
// wall impact up to a hard population cap.
//
// The same per-tick semantics hold whether a batch is stepped on one
// goroutine or spread across a worker pool: every slot is written only
// by the worker that owns it for the tick, and the only shared mutable
// state is the population counter.
package sim

// MinRadius is the floor below which no particle radius may shrink.
const MinRadius = 1.0

// Particle is a single simulated disc. Position and velocity are in
// arena units (units per tick); Color is packed 0xRRGGBB.
type Particle struct {
	X, Y   float32
	VX, VY float32
	Radius float32
	Color  uint32
	Grace  bool // set on both participants of a split; blocks re-splitting for one tick
}

// ColorRGB unpacks a 0xRRGGBB color value.
func ColorRGB(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// PackRGB packs color channels into a 0xRRGGBB value.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
