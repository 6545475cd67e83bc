package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/mitosis/config"
)

func init() {
	config.MustInit("")
}

func TestHeadlessRunWritesTelemetry(t *testing.T) {
	dir := t.TempDir()

	g, err := NewGame(Options{
		Seed:           42,
		Headless:       true,
		OutputDir:      dir,
		StepsPerUpdate: 10,
		Sequential:     true,
	})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	// Two full stats windows at the default window length.
	windowTicks := config.Cfg().Telemetry.WindowTicks
	for g.Tick() < int64(2*windowTicks) {
		g.UpdateHeadless()
	}
	g.Unload()

	if g.Count() < 2 {
		t.Errorf("population = %d, expected growth past the seed particle", g.Count())
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("telemetry.csv not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 window rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected CSV header: %q", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot not written: %v", err)
	}
}

func TestHeadlessRunWithoutOutputDir(t *testing.T) {
	g, err := NewGame(Options{Seed: 1, Headless: true, Sequential: true})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	defer g.Unload()

	for i := 0; i < 50; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 50 {
		t.Errorf("tick = %d, want 50", g.Tick())
	}
}
