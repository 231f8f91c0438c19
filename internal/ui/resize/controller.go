// Package resize translates pointer drags on a column border into split
// position updates. The state machine is Idle -> Dragging(splitIndex) ->
// Idle; a press that never moves past the click threshold is reinterpreted
// on release as "reset to equal splits".
package resize

import (
	"github.com/bnema/socdeck/internal/domain/layout"
)

// DragThreshold is the pointer travel in pixels beyond which a gesture
// counts as a deliberate drag rather than a click.
const DragThreshold = 5.0

// Controller owns the drag state for the split handles. All state is held
// explicitly here; there are no ambient timers or module-level variables.
type Controller struct {
	minColumnPercent float64

	dragging   bool
	splitIndex int
	startX     float64
	moved      bool
	splits     []float64
	candidate  []float64
}

// NewController creates a resize controller using minColumnPercent as the
// clamp distance between neighboring splits.
func NewController(minColumnPercent float64) *Controller {
	if minColumnPercent <= 0 {
		minColumnPercent = layout.MinColumnPercent
	}
	return &Controller{minColumnPercent: minColumnPercent}
}

// Begin enters the Dragging state for the handle at splitIndex. Out-of-range
// handles are ignored and leave the controller Idle.
func (c *Controller) Begin(splitIndex int, startX float64, splits []float64) {
	if splitIndex < 0 || splitIndex >= len(splits) {
		c.dragging = false
		return
	}
	c.dragging = true
	c.splitIndex = splitIndex
	c.startX = startX
	c.moved = false
	c.splits = append([]float64(nil), splits...)
	c.candidate = append([]float64(nil), splits...)
}

// Move updates the candidate split position for the current pointer x.
// The returned splits are the clamped candidate for live preview; they are
// not committed until End. Returns nil when not dragging.
func (c *Controller) Move(x, containerWidth float64) []float64 {
	if !c.dragging || containerWidth <= 0 {
		return nil
	}

	dx := x - c.startX
	if dx > DragThreshold || dx < -DragThreshold {
		c.moved = true
	}

	target := c.splits[c.splitIndex] + dx/containerWidth*100
	c.candidate[c.splitIndex] = c.clamp(target)

	return append([]float64(nil), c.candidate...)
}

// End leaves the Dragging state. When the gesture moved past the threshold
// the clamped candidate is returned with reset=false; a pure click returns
// reset=true and the caller recomputes equal splits instead.
func (c *Controller) End() (splits []float64, reset bool) {
	if !c.dragging {
		return nil, false
	}
	c.dragging = false

	if !c.moved {
		return nil, true
	}
	return append([]float64(nil), c.candidate...), false
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// clamp keeps the candidate split from crossing its neighbors minus the
// minimum column width; boundary splits clamp against 0 and 100.
func (c *Controller) clamp(target float64) float64 {
	floor := c.minColumnPercent
	if c.splitIndex > 0 {
		floor = c.splits[c.splitIndex-1] + c.minColumnPercent
	}
	ceil := 100 - c.minColumnPercent
	if c.splitIndex < len(c.splits)-1 {
		ceil = c.splits[c.splitIndex+1] - c.minColumnPercent
	}

	if target < floor {
		return floor
	}
	if target > ceil {
		return ceil
	}
	return target
}
