package ui

import (
	"strconv"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Actions are the control panel requests for the current frame.
type Actions struct {
	Reset          bool
	TogglePause    bool
	NextMode       bool
	StepsPerUpdate int
}

// ControlsPanel renders the raygui control panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	maxSteps int
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32, maxSteps int) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
		maxSteps: maxSteps,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

func (c *ControlsPanel) height() int32 {
	return 4*30 + 3*c.renderer.Theme.Padding
}

// Contains reports whether a screen point lies on the panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height())
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns what the user clicked.
// steps is the current steps-per-update value.
func (c *ControlsPanel) Draw(paused bool, steps int) Actions {
	actions := Actions{StepsPerUpdate: steps}
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := float32(r.Theme.Padding)
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x) + padding
	y := float32(c.y) + padding
	w := float32(c.width) - 2*padding

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 4, Height: 24}, "Reset") {
		actions.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + w/2 + 4, Y: y, Width: w/2 - 4, Height: 24}, pauseLabel(paused)) {
		actions.TogglePause = true
	}
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, "Next visualization") {
		actions.NextMode = true
	}
	y += 34

	rl.DrawText("Steps per frame", int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	value := gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: y, Width: w - 60, Height: 16},
		"1", strconv.Itoa(c.maxSteps),
		float32(steps), 1, float32(c.maxSteps),
	)
	actions.StepsPerUpdate = clampSteps(int(value+0.5), c.maxSteps)

	return actions
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

func clampSteps(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
