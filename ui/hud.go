// Package ui renders the heads-up display.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Population int // cheap cached count, current frame
	Accurate   int // authoritative count, refreshed off the frame path
	Cap        int
	Tick       int64
	Speed      int
	FPS        int32
	Strategy   string
	Paused     bool
	ScreenW    int32
	ScreenH    int32
}

// Actions carries HUD interactions back to the host.
type Actions struct {
	TogglePause   bool
	CycleStrategy bool
	Speed         int
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD and returns any interactions.
func (h *HUD) Draw(data HUDData) Actions {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Population: %d / %d (exact: %d)", data.Population, data.Cap, data.Accurate),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Draw: %s", data.Tick, data.Speed, data.FPS, data.Strategy),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	a := Actions{Speed: data.Speed}

	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	right := float32(data.ScreenW)
	if gui.Button(rl.Rectangle{X: right - 110, Y: 10, Width: 100, Height: 24}, pauseLabel) {
		a.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: right - 110, Y: 40, Width: 100, Height: 24}, data.Strategy) {
		a.CycleStrategy = true
	}
	a.Speed = int(gui.SliderBar(
		rl.Rectangle{X: right - 110, Y: 74, Width: 100, Height: 16},
		"1x", "10x", float32(data.Speed), 1, 10,
	))

	return a
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenW, screenH int32) {
	rl.DrawText(
		"Space: pause | R: draw mode | Arrows/drag: pan | Wheel: zoom | ,/.: speed | F11: fullscreen",
		10, screenH-25, 14, rl.Gray,
	)
}
