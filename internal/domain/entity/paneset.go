package entity

// PageKind classifies what a pane is currently showing.
type PageKind int

const (
	// PageFeed covers listing, home, notification, search and auth views.
	PageFeed PageKind = iota
	// PageDetail is an individual content item (a post, a thread, a story).
	PageDetail
)

func (k PageKind) String() string {
	if k == PageDetail {
		return "detail"
	}
	return "feed"
}

// PaneSet is the process-lifetime model of the column deck: which platforms
// exist, in what order they are displayed, which are visible, and where the
// splits between adjacent visible columns sit.
//
// Invariants (maintained by the layout package, never enforced by panics):
//   - Order is a permutation of [0, len(Platforms))
//   - Visibility always has at least one true entry
//   - len(Splits) == max(0, visibleCount-1), strictly increasing, each
//     adjacent pair at least MinColumnPercent apart
type PaneSet struct {
	Platforms  []Platform
	Order      []int
	Visibility []bool
	Splits     []float64
}

// NewPaneSet builds a pane set with identity order, everything visible and
// equal splits left to the caller (geometry is recomputed on first layout).
func NewPaneSet(platforms []Platform) *PaneSet {
	n := len(platforms)
	order := make([]int, n)
	visibility := make([]bool, n)
	for i := range order {
		order[i] = i
		visibility[i] = true
	}
	return &PaneSet{
		Platforms:  platforms,
		Order:      order,
		Visibility: visibility,
	}
}

// VisibleCount returns the number of currently visible panes.
func (ps *PaneSet) VisibleCount() int {
	count := 0
	for _, v := range ps.Visibility {
		if v {
			count++
		}
	}
	return count
}

// PaneRuntime is the per-pane derived state, one per source index, living as
// long as the pane's embedded content.
type PaneRuntime struct {
	// SourceIndex is assigned at construction and never inferred from
	// array position at call time.
	SourceIndex int
	// OnDetailPage tracks the feed/detail classification of the pane's
	// current location, updated on every navigation event.
	OnDetailPage bool
	// Opacity is the last applied opacity in [0.12, 1.0].
	Opacity float64
}
