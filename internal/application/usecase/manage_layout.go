package usecase

import (
	"context"

	"github.com/bnema/socdeck/internal/domain/entity"
	"github.com/bnema/socdeck/internal/domain/layout"
	"github.com/bnema/socdeck/internal/logging"
)

// ManageLayoutUseCase funnels every mutation of the deck's order, visibility
// and splits through the pure layout functions. Invalid input is rejected as
// a no-op (Changed=false), never as an error: the deck keeps its
// last-known-good state.
type ManageLayoutUseCase struct {
	minColumnPercent float64
}

// NewManageLayoutUseCase creates the layout use case.
func NewManageLayoutUseCase(minColumnPercent float64) *ManageLayoutUseCase {
	if minColumnPercent <= 0 {
		minColumnPercent = layout.MinColumnPercent
	}
	return &ManageLayoutUseCase{minColumnPercent: minColumnPercent}
}

// LayoutOutput reports the result of a layout mutation.
type LayoutOutput struct {
	// Changed is false when the command was rejected or redundant.
	Changed bool
	// VisibleIndices is the post-mutation visible set in display order.
	VisibleIndices []int
	// Splits is the post-mutation split sequence.
	Splits []float64
}

// Reorder replaces the display order. Malformed permutations are no-ops.
func (uc *ManageLayoutUseCase) Reorder(ctx context.Context, set *entity.PaneSet, order []int) LayoutOutput {
	log := logging.FromContext(ctx)

	if !layout.IsValidPermutation(order, len(set.Platforms)) {
		log.Warn().Ints("order", order).Msg("rejecting malformed permutation")
		return uc.snapshot(set, false)
	}

	set.Order = append([]int(nil), order...)
	return uc.snapshot(set, true)
}

// ToggleVisibility flips one pane's visibility. Hiding the last visible
// pane and out-of-range indices are no-ops. Any visibility change discards
// the custom split layout and recomputes equal splits: the model does not
// preserve proportions across a cardinality change.
func (uc *ManageLayoutUseCase) ToggleVisibility(ctx context.Context, set *entity.PaneSet, index int) LayoutOutput {
	log := logging.FromContext(ctx)

	next := layout.ToggleVisibility(set.Visibility, index)
	if equalBools(next, set.Visibility) {
		log.Debug().Int("index", index).Msg("visibility toggle rejected")
		return uc.snapshot(set, false)
	}

	set.Visibility = next
	set.Splits = layout.EqualSplits(len(layout.VisiblePlatformIndices(set.Order, set.Visibility)))
	return uc.snapshot(set, true)
}

// UpdateSplits commits a new split sequence. The sequence must have the
// right length for the current visible count, be strictly increasing inside
// (0, 100), and leave every column at least the minimum width.
func (uc *ManageLayoutUseCase) UpdateSplits(ctx context.Context, set *entity.PaneSet, splits []float64) LayoutOutput {
	log := logging.FromContext(ctx)

	visibleCount := len(layout.VisiblePlatformIndices(set.Order, set.Visibility))
	wantLen := visibleCount - 1
	if wantLen < 0 {
		wantLen = 0
	}

	if len(splits) != wantLen || !monotonic(splits) || !layout.ValidateMinimumWidths(splits, uc.minColumnPercent) {
		log.Warn().Floats64("splits", splits).Int("visible", visibleCount).Msg("rejecting invalid splits")
		return uc.snapshot(set, false)
	}

	set.Splits = append([]float64(nil), splits...)
	return uc.snapshot(set, true)
}

// ResetLayout recomputes equal splits for the current visible count.
func (uc *ManageLayoutUseCase) ResetLayout(_ context.Context, set *entity.PaneSet) LayoutOutput {
	set.Splits = layout.EqualSplits(len(layout.VisiblePlatformIndices(set.Order, set.Visibility)))
	return uc.snapshot(set, true)
}

func (uc *ManageLayoutUseCase) snapshot(set *entity.PaneSet, changed bool) LayoutOutput {
	return LayoutOutput{
		Changed:        changed,
		VisibleIndices: layout.VisiblePlatformIndices(set.Order, set.Visibility),
		Splits:         append([]float64(nil), set.Splits...),
	}
}

func monotonic(splits []float64) bool {
	prev := 0.0
	for _, s := range splits {
		if s <= prev || s >= 100 {
			return false
		}
		prev = s
	}
	return true
}

func equalBools(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
