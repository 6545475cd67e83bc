package sim

import "math/rand"

// splitRand returns a generator for the split decided by the particle in
// slot i at the given tick. Each worker derives its generator locally
// from (world seed, tick, slot), so there is no shared RNG state to
// contend on and a replay with the same seed reproduces the same splits.
//
// The generator is only constructed on the split path; steady-state
// stepping allocates nothing.
func splitRand(seed, tick int64, i int) *rand.Rand {
	h := uint64(seed) ^ uint64(tick)*0x9E3779B97F4A7C15 ^ uint64(i)*0xBF58476D1CE4E5B9
	return rand.New(rand.NewSource(int64(mix64(h))))
}

// mix64 is the splitmix64 finalizer. It spreads the structured
// (seed, tick, slot) input over the full 64-bit space so neighboring
// slots do not produce correlated streams.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

// randomColor draws a fresh packed 0xRRGGBB color.
func randomColor(rng *rand.Rand) uint32 {
	return rng.Uint32() & 0xFFFFFF
}
