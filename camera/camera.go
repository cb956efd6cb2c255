// Package camera maps the fluid domain (meters) onto the window (pixels).
package camera

// Camera controls the viewport into the fluid domain.
// Supports pan and zoom; the view is kept inside the domain.
type Camera struct {
	// Position is the camera center in domain meters
	X, Y float32

	// Zoom level (1.0 = whole domain fits the viewport)
	Zoom float32

	// Scale is pixels per meter at zoom 1
	Scale float32

	// Viewport dimensions (screen size in pixels)
	ViewportW, ViewportH float32

	// Domain dimensions in meters
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the domain with the whole domain visible.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
	c.Scale = fitScale(viewportW, viewportH, worldW, worldH)
	return c
}

// pixelsPerMeter is the effective scale at the current zoom.
func (c *Camera) pixelsPerMeter() float32 {
	return c.Scale * c.Zoom
}

// WorldToScreen converts domain meters to screen pixels.
// Domain y grows downward, like the screen.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	ppm := c.pixelsPerMeter()
	sx = c.ViewportW/2 + (wx-c.X)*ppm
	sy = c.ViewportH/2 + (wy-c.Y)*ppm
	return sx, sy
}

// ScreenToWorld converts screen pixels to domain meters.
// Points off the domain are returned unclamped.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	ppm := c.pixelsPerMeter()
	wx = c.X + (sx-c.ViewportW/2)/ppm
	wy = c.Y + (sy-c.ViewportH/2)/ppm
	return wx, wy
}

// WorldLength converts a length in meters to pixels.
func (c *Camera) WorldLength(meters float32) float32 {
	return meters * c.pixelsPerMeter()
}

// IsVisible returns true if a circle at (wx, wy) with the given radius in
// meters could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	ppm := c.pixelsPerMeter()
	halfW := c.ViewportW/(2*ppm) + radius
	halfH := c.ViewportH/(2*ppm) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and refits the scale.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.Scale = fitScale(viewportW, viewportH, c.WorldW, c.WorldH)
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	ppm := c.pixelsPerMeter()
	c.X += dx / ppm
	c.Y += dy / ppm
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the domain-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	ppm := c.pixelsPerMeter()
	halfW := c.ViewportW / (2 * ppm)
	halfH := c.ViewportH / (2 * ppm)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// clampCenter keeps the view inside the domain along each axis where the
// domain is larger than the view, and centers it otherwise.
func (c *Camera) clampCenter() {
	ppm := c.pixelsPerMeter()
	c.X = clampAxis(c.X, c.ViewportW/(2*ppm), c.WorldW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*ppm), c.WorldH)
}

func clampAxis(center, half, extent float32) float32 {
	if 2*half >= extent {
		return extent / 2
	}
	return clamp(center, half, extent-half)
}

// fitScale is the largest pixels-per-meter that shows the whole domain.
func fitScale(viewportW, viewportH, worldW, worldH float32) float32 {
	sx := viewportW / worldW
	sy := viewportH / worldH
	if sy < sx {
		return sy
	}
	return sx
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
