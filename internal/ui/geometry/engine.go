// Package geometry converts the deck's abstract split percentages into
// concrete pixel rectangles, one per pane. The computation is pure given a
// state snapshot; applying rects to panes is the coordinator's job.
package geometry

import "github.com/bnema/socdeck/internal/domain/entity"

const (
	// DefaultGap is the horizontal gap between adjacent columns in pixels.
	DefaultGap = 4
	// DefaultMinRenderWidth is the floor on a rendered column's width.
	// Degenerate containers (early resize events, tiny windows) never
	// produce zero or negative-width panes.
	DefaultMinRenderWidth = 50
)

// Engine computes pane rectangles from splits and container bounds.
type Engine struct {
	gap            int
	minRenderWidth int
}

// New creates a geometry engine with the given inter-column gap and minimum
// rendered width; zero values select the defaults.
func New(gap, minRenderWidth int) *Engine {
	if gap <= 0 {
		gap = DefaultGap
	}
	if minRenderWidth <= 0 {
		minRenderWidth = DefaultMinRenderWidth
	}
	return &Engine{gap: gap, minRenderWidth: minRenderWidth}
}

// Input is a snapshot of everything the rect computation depends on.
type Input struct {
	// VisibleIndices is the visible source indices in display order.
	VisibleIndices []int
	// Splits are the boundary percentages between adjacent visible panes.
	Splits []float64
	// ContainerWidth and ContainerHeight are the content area in pixels.
	ContainerWidth  int
	ContainerHeight int
	// HeaderHeight offsets every pane downward.
	HeaderHeight int
	// PaneCount is the total number of panes, visible or not.
	PaneCount int
}

// Compute returns one rect per source index (length Input.PaneCount).
// Hidden panes get the zero rect.
func (e *Engine) Compute(in Input) []entity.Rect {
	rects := make([]entity.Rect, in.PaneCount)

	if len(in.VisibleIndices) == 0 || in.ContainerWidth <= 0 {
		return rects
	}

	// Boundary pixels: [0, splits..., 100] scaled to the container width.
	boundaries := make([]int, 0, len(in.Splits)+2)
	boundaries = append(boundaries, 0)
	for _, s := range in.Splits {
		boundaries = append(boundaries, int(float64(in.ContainerWidth)*s/100))
	}
	boundaries = append(boundaries, in.ContainerWidth)

	height := in.ContainerHeight - in.HeaderHeight
	if height < 0 {
		height = 0
	}

	last := len(in.VisibleIndices) - 1
	for pos, srcIdx := range in.VisibleIndices {
		if srcIdx < 0 || srcIdx >= in.PaneCount || pos+1 >= len(boundaries) {
			continue
		}

		left := boundaries[pos]
		if pos > 0 {
			left += e.gap
		}
		right := boundaries[pos+1]
		if pos != last {
			right -= e.gap
		}

		width := right - left
		if width < e.minRenderWidth {
			width = e.minRenderWidth
		}

		rects[srcIdx] = entity.Rect{
			X: left,
			Y: in.HeaderHeight,
			W: width,
			H: height,
		}
	}

	return rects
}
