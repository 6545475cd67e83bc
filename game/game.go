// Package game wires the simulation core to the raylib host loop: input,
// frame pacing, HUD, perf tracking, and telemetry output.
package game

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/camera"
	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/renderer"
	"github.com/pthm-cable/mitosis/sim"
	"github.com/pthm-cable/mitosis/telemetry"
	"github.com/pthm-cable/mitosis/ui"
)

// displayCountInterval is how many ticks pass between refreshes of the
// authoritative population count shown in the HUD. The refresh is kept
// off the per-frame path; the cheap cached count serves everything else.
const displayCountInterval = 30

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	OutputDir      string
	StepsPerUpdate int
	Sequential     bool // force the sequential stepping regime
}

// Game holds the complete host-side state around one simulation world.
type Game struct {
	world    *sim.World
	renderer *renderer.Renderer
	cam      *camera.Camera
	hud      *ui.HUD
	perf     *PerfStats
	output   *telemetry.OutputManager

	headless       bool
	logStats       bool
	paused         bool
	stepsPerUpdate int

	windowTicks  int64
	windowBase   int       // population at the start of the current stats window
	radiiScratch []float64 // reused per window

	displayCount int // authoritative count snapshot for the HUD
}

// NewGame builds a game from the loaded config and the given options.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	world, err := sim.NewWorld(sim.Settings{
		Width:             cfg.Derived.ArenaW32,
		Height:            cfg.Derived.ArenaH32,
		Cap:               cfg.Population.Cap,
		SplitRatio:        float32(cfg.Split.Ratio),
		Seed:              opts.Seed,
		SeedX:             float32(cfg.Seed.X),
		SeedY:             float32(cfg.Seed.Y),
		SeedVX:            float32(cfg.Seed.VelX),
		SeedVY:            float32(cfg.Seed.VelY),
		SeedRadius:        float32(cfg.Seed.Radius),
		SeedColor:         cfg.Seed.Color,
		Parallel:          cfg.Parallel.Enabled && !opts.Sequential,
		ParallelThreshold: cfg.Parallel.Threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		world.Close()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to snapshot config", "error", err)
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		world:          world,
		perf:           NewPerfStats(),
		output:         output,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		stepsPerUpdate: stepsPerUpdate,
		windowTicks:    int64(cfg.Telemetry.WindowTicks),
		windowBase:     world.Count(),
		displayCount:   world.CountAccurate(),
	}

	if !opts.Headless {
		g.cam = camera.New(
			float32(cfg.Screen.Width), float32(cfg.Screen.Height),
			cfg.Derived.ArenaW32, cfg.Derived.ArenaH32,
		)
		g.renderer = renderer.New(cfg.Render.BatchThreshold)
		if cfg.Render.GPU {
			if err := g.renderer.EnableGPU(); err != nil {
				// Expected on hosts without instancing support; the CPU
				// strategies carry the frame instead.
				slog.Warn("disc pipeline unavailable, using cpu draw strategies", "error", err)
			}
		}
		g.hud = ui.NewHUD()
	}

	return g, nil
}

// Update advances the simulation for one host frame (graphical mode).
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	g.advance()
}

// UpdateHeadless advances the simulation for one host iteration without
// touching any input or drawing state.
func (g *Game) UpdateHeadless() {
	g.advance()
}

func (g *Game) advance() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		start := time.Now()
		g.world.Step()
		g.perf.Record("step", time.Since(start))

		tick := g.world.Tick()
		if tick%displayCountInterval == 0 {
			g.displayCount = g.world.CountAccurate()
		}
		if tick%g.windowTicks == 0 {
			g.flushWindow(tick)
		}
	}
}

// flushWindow aggregates and emits stats for the window ending at tick.
func (g *Game) flushWindow(tick int64) {
	start := time.Now()

	pop := g.world.Count()
	births := pop - g.windowBase
	g.windowBase = pop

	g.radiiScratch = g.radiiScratch[:0]
	for _, p := range g.world.Particles() {
		g.radiiScratch = append(g.radiiScratch, float64(p.Radius))
	}

	stats := telemetry.Compute(tick, pop, births, g.radiiScratch, g.perf.Avg("step"))
	if g.logStats {
		stats.Log()
		g.perf.Log(tick)
	}
	if err := g.output.WriteWindow(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}

	g.perf.Record("telemetry", time.Since(start))
}

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(26, 26, 26, 255))

	particles := g.world.Particles()

	start := time.Now()
	g.renderer.Draw(particles, g.cam)
	g.perf.Record("draw", time.Since(start))

	g.drawArenaBorder()

	actions := g.hud.Draw(ui.HUDData{
		Title:      "Mitosis",
		Population: len(particles),
		Accurate:   g.displayCount,
		Cap:        g.world.Cap(),
		Tick:       g.world.Tick(),
		Speed:      g.stepsPerUpdate,
		FPS:        rl.GetFPS(),
		Strategy:   g.renderer.Active(len(particles)).String(),
		Paused:     g.paused,
		ScreenW:    int32(g.cam.ViewportW),
		ScreenH:    int32(g.cam.ViewportH),
	})
	g.hud.DrawControls(int32(g.cam.ViewportW), int32(g.cam.ViewportH))

	rl.EndDrawing()

	if actions.TogglePause {
		g.paused = !g.paused
	}
	if actions.CycleStrategy {
		g.renderer.Cycle()
	}
	if actions.Speed != g.stepsPerUpdate && actions.Speed >= 1 {
		g.stepsPerUpdate = actions.Speed
	}
}

// drawArenaBorder outlines the arena so the walls are visible when the
// camera is zoomed out past them.
func (g *Game) drawArenaBorder() {
	x0, y0 := g.cam.WorldToScreen(0, 0)
	x1, y1 := g.cam.WorldToScreen(g.world.Width(), g.world.Height())
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), rl.Gray)
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int64 {
	return g.world.Tick()
}

// Count returns the cheap cached population count.
func (g *Game) Count() int {
	return g.world.Count()
}

// Unload stops workers and releases rendering and output resources.
func (g *Game) Unload() {
	if g.renderer != nil {
		g.renderer.Unload()
	}
	g.world.Close()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close telemetry output", "error", err)
	}
}
