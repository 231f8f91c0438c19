package entity

// Rect represents a pane's position and size inside the window, in pixels.
type Rect struct {
	X, Y int
	W, H int
}

// IsZero reports whether the rect is the empty rectangle used for hidden panes.
func (r Rect) IsZero() bool {
	return r.W == 0 && r.H == 0
}
