// Package layout holds the pure split and permutation math for the column
// deck. Nothing here has side effects or error returns: out-of-range input
// degrades to a no-op so a corrupted settings file or a stale UI event can
// never take the deck down.
package layout

// MinColumnPercent is the minimum width of a visible column, as a
// percentage of the container.
const MinColumnPercent = 10.0

// EqualSplits returns visibleCount-1 evenly spaced split percentages.
// Zero or one visible pane needs no splits.
func EqualSplits(visibleCount int) []float64 {
	if visibleCount <= 1 {
		return nil
	}
	splits := make([]float64, 0, visibleCount-1)
	for i := 1; i < visibleCount; i++ {
		splits = append(splits, 100*float64(i)/float64(visibleCount))
	}
	return splits
}

// ColumnWidths returns the len(splits)+1 column widths obtained by taking
// successive differences of [0, splits..., 100].
func ColumnWidths(splits []float64) []float64 {
	widths := make([]float64, 0, len(splits)+1)
	prev := 0.0
	for _, s := range splits {
		widths = append(widths, s-prev)
		prev = s
	}
	widths = append(widths, 100-prev)
	return widths
}

// ValidateMinimumWidths reports whether every column implied by splits is at
// least minWidth percent wide.
func ValidateMinimumWidths(splits []float64, minWidth float64) bool {
	for _, w := range ColumnWidths(splits) {
		if w < minWidth {
			return false
		}
	}
	return true
}

// IsValidPermutation reports whether order is exactly a rearrangement of
// [0, n): length n, each value in range, no repeats.
func IsValidPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// VisiblePlatformIndices filters order, keeping indices whose visibility
// flag is set, preserving display order. Indices outside the visibility
// slice are skipped.
func VisiblePlatformIndices(order []int, visibility []bool) []int {
	visible := make([]int, 0, len(order))
	for _, idx := range order {
		if idx >= 0 && idx < len(visibility) && visibility[idx] {
			visible = append(visible, idx)
		}
	}
	return visible
}

// ToggleVisibility returns a copy of visibility with the flag at index
// flipped. Hiding the last visible pane is a no-op: the input is returned
// unchanged, not an error. Out-of-range indices are also no-ops.
func ToggleVisibility(visibility []bool, index int) []bool {
	if index < 0 || index >= len(visibility) {
		return visibility
	}
	if visibility[index] && !CanHide(visibility, index) {
		return visibility
	}
	out := make([]bool, len(visibility))
	copy(out, visibility)
	out[index] = !out[index]
	return out
}

// CanHide reports whether the pane at index may be hidden. Only the sole
// remaining visible pane is pinned; hidden panes can always be "hidden"
// again (a toggle there shows them).
func CanHide(visibility []bool, index int) bool {
	if index < 0 || index >= len(visibility) {
		return false
	}
	if !visibility[index] {
		return true
	}
	for i, v := range visibility {
		if i != index && v {
			return true
		}
	}
	return false
}
