package sim

// Stepper advances every live particle one tick: integration, wall
// reflection, and at most one split decision per particle per tick.
type Stepper struct {
	store   *Store
	counter *Counter

	width      float32
	height     float32
	splitRatio float32
	seed       int64

	pool      *workerPool // nil when running strictly sequentially
	threshold int         // minimum batch size to dispatch to the pool
}

// NewStepper creates a stepper over the given store and counter.
// parallelThreshold only matters when a worker pool is attached; below
// it, batches are stepped inline even in the parallel regime.
func NewStepper(store *Store, counter *Counter, width, height, splitRatio float32, seed int64, parallelThreshold int) *Stepper {
	return &Stepper{
		store:      store,
		counter:    counter,
		width:      width,
		height:     height,
		splitRatio: splitRatio,
		seed:       seed,
		threshold:  parallelThreshold,
	}
}

// Step advances one batch. The live count is sampled exactly once at
// batch start; children written during the batch land at indices >= n
// and are not processed until the next call, in both regimes, so spawn
// timing never perturbs the physics of pre-existing particles.
// It returns the committed population count after the batch.
func (st *Stepper) Step(tick int64) int {
	n := st.counter.Len()
	if st.pool != nil && n >= st.threshold {
		st.pool.run(st, n, tick)
	} else {
		st.stepRange(0, n, tick)
	}
	return st.counter.Len()
}

// stepRange advances slots [i0, i1). Each index is fully independent of
// the others; the only cross-worker interaction is slot reservation.
func (st *Stepper) stepRange(i0, i1 int, tick int64) {
	for i := i0; i < i1; i++ {
		st.stepIndex(i, tick)
	}
}

// stepIndex runs the per-tick state transition for slot i.
func (st *Stepper) stepIndex(i int, tick int64) {
	p := st.store.Read(i)

	// The grace flag is cleared unconditionally at tick start; the
	// pre-clear value is what gates this tick's split decision.
	wasGrace := p.Grace
	p.Grace = false

	p.X += p.VX
	p.Y += p.VY

	// Reflect per axis: clamp tangent to the wall and force the velocity
	// sign toward the interior. Both axes can hit in the same tick.
	hitX, hitY := false, false
	if p.X-p.Radius < 0 {
		p.X = p.Radius
		p.VX = abs32(p.VX)
		hitX = true
	} else if p.X+p.Radius > st.width {
		p.X = st.width - p.Radius
		p.VX = -abs32(p.VX)
		hitX = true
	}
	if p.Y-p.Radius < 0 {
		p.Y = p.Radius
		p.VY = abs32(p.VY)
		hitY = true
	} else if p.Y+p.Radius > st.height {
		p.Y = st.height - p.Radius
		p.VY = -abs32(p.VY)
		hitY = true
	}

	// One split decision per tick, no matter how many axes were hit.
	if (hitX || hitY) && !wasGrace {
		candidate := p.Radius * st.splitRatio
		slot, ok := 0, false
		if candidate >= MinRadius {
			slot, ok = st.counter.Reserve()
		}
		if ok {
			p.Radius = candidate
			p.Grace = true

			rng := splitRand(st.seed, tick, i)
			child := p
			factor := 0.8 + rng.Float32()*0.4
			child.VX = p.VX * factor
			child.VY = p.VY * factor
			// Jitter the axis orthogonal to each wall that was hit; the
			// reflected component keeps its interior-facing sign.
			if hitX {
				child.VY += rng.Float32()*2 - 1
			}
			if hitY {
				child.VX += rng.Float32()*2 - 1
			}
			child.Color = randomColor(rng)
			st.store.Write(slot, child)
		} else if p.Radius < MinRadius {
			// Radius too small or population saturated: degrade to the
			// radius floor instead of growing.
			p.Radius = MinRadius
		}
	}

	st.store.Write(i, p)
}

// Close stops the worker pool if one is attached.
func (st *Stepper) Close() {
	if st.pool != nil {
		st.pool.stop()
		st.pool = nil
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
