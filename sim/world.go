package sim

import (
	"fmt"
	"math"
)

// Settings configures a world at construction. Validation happens once
// here; no recoverable error condition exists during steady-state
// stepping.
type Settings struct {
	Width, Height float32 // arena dimensions
	Cap           int     // hard population cap
	SplitRatio    float32 // radius shrink factor per split, strictly in (0, 1)
	Seed          int64   // RNG seed for split randomness

	// Seed particle pose. X/Y of zero mean arena center.
	SeedX, SeedY   float32
	SeedVX, SeedVY float32
	SeedRadius     float32
	SeedColor      uint32

	// Parallel enables the worker-pool stepping regime. Threshold is the
	// minimum batch size to dispatch; zero means DefaultParallelThreshold.
	Parallel          bool
	ParallelThreshold int
}

func (s Settings) validate() error {
	if s.Cap < 1 {
		return fmt.Errorf("population cap must be at least 1, got %d", s.Cap)
	}
	if !(s.SplitRatio > 0 && s.SplitRatio < 1) {
		return fmt.Errorf("split ratio must be strictly between 0 and 1, got %g", s.SplitRatio)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("arena dimensions must be positive, got %gx%g", s.Width, s.Height)
	}
	if !finite(s.SeedRadius) || s.SeedRadius < MinRadius {
		return fmt.Errorf("seed radius must be finite and >= %g, got %g", float32(MinRadius), s.SeedRadius)
	}
	if !finite(s.SeedVX) || !finite(s.SeedVY) {
		return fmt.Errorf("seed velocity must be finite, got (%g, %g)", s.SeedVX, s.SeedVY)
	}
	if 2*s.SeedRadius > s.Width || 2*s.SeedRadius > s.Height {
		return fmt.Errorf("seed radius %g does not fit a %gx%g arena", s.SeedRadius, s.Width, s.Height)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// World owns a particle population and advances it tick by tick. It is
// seeded with exactly one particle; all further particles are split
// children. No particle is ever destroyed and indices are stable for
// the lifetime of the world.
type World struct {
	store   *Store
	counter *Counter
	stepper *Stepper

	width, height float32
	tick          int64
	cached        int // population snapshot from the last batch boundary
}

// NewWorld validates settings and builds a world with its seed particle.
func NewWorld(s Settings) (*World, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid world settings: %w", err)
	}

	store := NewStore(s.Cap)
	counter := NewCounter(s.Cap, 1)

	x, y := s.SeedX, s.SeedY
	if x == 0 {
		x = s.Width / 2
	}
	if y == 0 {
		y = s.Height / 2
	}
	store.Write(0, Particle{
		X:      x,
		Y:      y,
		VX:     s.SeedVX,
		VY:     s.SeedVY,
		Radius: s.SeedRadius,
		Color:  s.SeedColor,
	})

	threshold := s.ParallelThreshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	stepper := NewStepper(store, counter, s.Width, s.Height, s.SplitRatio, s.Seed, threshold)
	if s.Parallel {
		stepper.attachPool()
	}

	return &World{
		store:   store,
		counter: counter,
		stepper: stepper,
		width:   s.Width,
		height:  s.Height,
		cached:  1,
	}, nil
}

// Step advances the simulation one tick.
func (w *World) Step() {
	w.cached = w.stepper.Step(w.tick)
	w.tick++
}

// Count is the cheap population count: the snapshot taken at the last
// batch boundary. It can lag CountAccurate by at most one tick's growth
// and never exceeds the cap.
func (w *World) Count() int {
	return w.cached
}

// CountAccurate is the authoritative committed population count. It
// reads the shared counter and is meant for display, off the step/draw
// critical path.
func (w *World) CountAccurate() int {
	return w.counter.Len()
}

// Particles returns the live particle set as a read-only view, valid
// until the next Step.
func (w *World) Particles() []Particle {
	return w.store.Live(w.cached)
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int64 {
	return w.tick
}

// Cap returns the population cap.
func (w *World) Cap() int {
	return w.counter.Cap()
}

// Width returns the arena width.
func (w *World) Width() float32 { return w.width }

// Height returns the arena height.
func (w *World) Height() float32 { return w.height }

// Close stops any stepping workers. The world must not be stepped after
// Close.
func (w *World) Close() {
	w.stepper.Close()
}
