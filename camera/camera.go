// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into the arena. The arena is bounded, so
// panning clamps against the walls instead of wrapping.
type Camera struct {
	// Position is the camera center in arena coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Arena dimensions (pan bounds)
	ArenaW, ArenaH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the arena, zoomed so the whole arena
// fits the viewport.
func New(viewportW, viewportH, arenaW, arenaH float32) *Camera {
	// The fit zoom shows the entire arena; zooming out past it only adds
	// dead space, so it doubles as the minimum.
	fit := viewportW / arenaW
	if viewportH/arenaH < fit {
		fit = viewportH / arenaH
	}

	return &Camera{
		X:         arenaW / 2,
		Y:         arenaH / 2,
		Zoom:      fit,
		ViewportW: viewportW,
		ViewportH: viewportH,
		ArenaW:    arenaW,
		ArenaH:    arenaH,
		MinZoom:   fit,
		MaxZoom:   8.0,
	}
}

// WorldToScreen converts arena coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to arena coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH

	fit := viewportW / c.ArenaW
	if viewportH/c.ArenaH < fit {
		fit = viewportH / c.ArenaH
	}
	c.MinZoom = fit
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampPosition()
}

// Pan moves the camera by the given delta in screen pixels, clamped so
// the view center stays inside the arena.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampPosition()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampPosition()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset recenters the camera and restores the fit zoom.
func (c *Camera) Reset() {
	c.X = c.ArenaW / 2
	c.Y = c.ArenaH / 2
	c.Zoom = c.MinZoom
}

// clampPosition keeps the camera center within the arena.
func (c *Camera) clampPosition() {
	c.X = clamp(c.X, 0, c.ArenaW)
	c.Y = clamp(c.Y, 0, c.ArenaH)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
