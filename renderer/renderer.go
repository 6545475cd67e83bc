// Package renderer draws the particle population with one of three
// strategies: per-particle circles at low population, color-batched
// bounding squares at high population, or a shader pipeline that keeps
// circular silhouettes at any population.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/camera"
	"github.com/pthm-cable/mitosis/sim"
)

// Strategy selects how a frame is rasterized.
type Strategy int

const (
	// StrategyAuto picks by population size: direct below the batch
	// threshold, the disc pipeline above it when available, otherwise
	// batched squares.
	StrategyAuto Strategy = iota
	StrategyDirect
	StrategyBatched
	StrategyGPU
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyDirect:
		return "direct"
	case StrategyBatched:
		return "batched"
	case StrategyGPU:
		return "gpu"
	}
	return "unknown"
}

// Renderer rasterizes the current particle set to the raylib target.
type Renderer struct {
	batchThreshold int
	strategy       Strategy
	groups         *colorGroups
	gpu            *DiscPipeline // nil when not enabled
}

// New creates a renderer. batchThreshold is the live count above which
// the auto strategy stops drawing true circles.
func New(batchThreshold int) *Renderer {
	return &Renderer{
		batchThreshold: batchThreshold,
		groups:         newColorGroups(),
	}
}

// EnableGPU initializes the disc shader pipeline. Failure to build the
// pipeline is reported as ErrPipelineUnavailable so the host can keep
// the CPU strategies; it is distinct from any drawing failure.
func (r *Renderer) EnableGPU() error {
	if r.gpu != nil {
		return nil
	}
	gpu, err := NewDiscPipeline()
	if err != nil {
		return err
	}
	r.gpu = gpu
	return nil
}

// SetStrategy forces a strategy; StrategyAuto restores size-based
// selection. Forcing StrategyGPU without an enabled pipeline falls back
// to batched at draw time.
func (r *Renderer) SetStrategy(s Strategy) {
	r.strategy = s
}

// Cycle advances auto -> direct -> batched -> gpu -> auto, skipping gpu
// when the pipeline is not enabled.
func (r *Renderer) Cycle() Strategy {
	r.strategy = (r.strategy + 1) % 4
	if r.strategy == StrategyGPU && r.gpu == nil {
		r.strategy = StrategyAuto
	}
	return r.strategy
}

// Active resolves the strategy that would draw a population of n.
func (r *Renderer) Active(n int) Strategy {
	s := r.strategy
	if s == StrategyAuto {
		switch {
		case n <= r.batchThreshold:
			s = StrategyDirect
		case r.gpu != nil:
			s = StrategyGPU
		default:
			s = StrategyBatched
		}
	}
	if s == StrategyGPU && r.gpu == nil {
		s = StrategyBatched
	}
	return s
}

// Draw rasterizes the particle set through the active strategy.
func (r *Renderer) Draw(particles []sim.Particle, cam *camera.Camera) {
	switch r.Active(len(particles)) {
	case StrategyDirect:
		r.drawDirect(particles, cam)
	case StrategyBatched:
		r.drawBatched(particles, cam)
	case StrategyGPU:
		r.groups.rebuild(particles)
		r.gpu.Draw(particles, r.groups, cam)
	}
}

// drawDirect rasterizes one filled circle per particle. Per-primitive
// setup makes this the slow path at high population, but it keeps the
// true circular silhouette.
func (r *Renderer) drawDirect(particles []sim.Particle, cam *camera.Camera) {
	for i := range particles {
		p := &particles[i]
		if !cam.IsVisible(p.X, p.Y, p.Radius) {
			continue
		}
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		cr, cg, cb := sim.ColorRGB(p.Color)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, p.Radius*cam.Zoom, rl.NewColor(cr, cg, cb, 255))
	}
}

// drawBatched draws one bounding square per particle, grouped so each
// distinct color pays a single style change. Squares instead of circles:
// state changes dominate cost at high population, fill shape does not.
func (r *Renderer) drawBatched(particles []sim.Particle, cam *camera.Camera) {
	r.groups.rebuild(particles)
	for _, c := range r.groups.order {
		cr, cg, cb := sim.ColorRGB(c)
		col := rl.NewColor(cr, cg, cb, 255)
		for _, idx := range r.groups.buckets[c] {
			p := &particles[idx]
			if !cam.IsVisible(p.X, p.Y, p.Radius) {
				continue
			}
			sx, sy := cam.WorldToScreen(p.X, p.Y)
			half := p.Radius * cam.Zoom
			rl.DrawRectangleRec(rl.Rectangle{
				X:      sx - half,
				Y:      sy - half,
				Width:  2 * half,
				Height: 2 * half,
			}, col)
		}
	}
}

// Unload releases GPU resources.
func (r *Renderer) Unload() {
	if r.gpu != nil {
		r.gpu.Unload()
		r.gpu = nil
	}
}
