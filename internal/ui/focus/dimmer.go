// Package focus tracks which pane holds pointer focus and computes the
// opacity every pane should render at while focus mode is active.
package focus

import (
	"context"
	"sync"

	"github.com/bnema/socdeck/internal/logging"
)

const (
	// OpacityFocused is the opacity of the hovered pane (and of every pane
	// when focus mode is off or nothing is hovered).
	OpacityFocused = 1.0
	// OpacityDimmed is the default opacity of every other pane, used when
	// no explicit value is configured.
	OpacityDimmed = 0.12
)

// NoFocus marks the absence of a focused pane.
const NoFocus = -1

// Opacity is the pure dimming rule: full opacity when focus mode is off,
// when nothing is focused, or for the focused pane itself; dimmed otherwise.
func Opacity(focusModeEnabled bool, focusedIndex, viewIndex int, dimmed float64) float64 {
	if !focusModeEnabled || focusedIndex == NoFocus {
		return OpacityFocused
	}
	if viewIndex == focusedIndex {
		return OpacityFocused
	}
	return dimmed
}

// Dimmer owns the process-wide focus state. Opacity changes are pushed
// through the apply callback for every pane whenever focusedIndex or the
// focus-mode flag changes.
type Dimmer struct {
	mu           sync.Mutex
	paneCount    int
	focusedIndex int
	enabled      bool
	dimmed       float64
	apply        func(viewIndex int, opacity float64)
}

// NewDimmer creates a dimmer for paneCount panes. dimmed is the opacity of
// unfocused panes; values outside (0, 1) fall back to OpacityDimmed. apply
// is invoked once per pane on every recompute; it must be cheap and must
// not call back into the dimmer.
func NewDimmer(paneCount int, dimmed float64, apply func(viewIndex int, opacity float64)) *Dimmer {
	if dimmed <= 0 || dimmed >= 1 {
		dimmed = OpacityDimmed
	}
	return &Dimmer{
		paneCount:    paneCount,
		focusedIndex: NoFocus,
		dimmed:       dimmed,
		apply:        apply,
	}
}

// SetEnabled turns focus mode on or off. Disabling clears the focused pane
// and restores everyone to full opacity.
func (d *Dimmer) SetEnabled(ctx context.Context, enabled bool) {
	d.mu.Lock()
	if d.enabled == enabled {
		d.mu.Unlock()
		return
	}
	d.enabled = enabled
	if !enabled {
		d.focusedIndex = NoFocus
	}
	d.mu.Unlock()

	logging.FromContext(ctx).Debug().Bool("enabled", enabled).Msg("focus mode changed")
	d.recompute()
}

// FocusPane records pointer entry into a pane. Repeated events for the pane
// already focused are no-ops, so pointer movement inside one pane never
// causes redundant opacity broadcasts.
func (d *Dimmer) FocusPane(ctx context.Context, viewIndex int) {
	d.mu.Lock()
	if !d.enabled || viewIndex < 0 || viewIndex >= d.paneCount || d.focusedIndex == viewIndex {
		d.mu.Unlock()
		return
	}
	d.focusedIndex = viewIndex
	d.mu.Unlock()

	logging.FromContext(ctx).Debug().Int("pane_index", viewIndex).Msg("pane focused")
	d.recompute()
}

// WindowBlurred clears focus when the window loses input focus. The pointer
// leaving the application produces no per-pane leave signal, so this is the
// only reliable way to undim after the user moves away.
func (d *Dimmer) WindowBlurred(ctx context.Context) {
	d.mu.Lock()
	if d.focusedIndex == NoFocus {
		d.mu.Unlock()
		return
	}
	d.focusedIndex = NoFocus
	d.mu.Unlock()

	logging.FromContext(ctx).Debug().Msg("window blurred, focus cleared")
	d.recompute()
}

// FocusedIndex returns the currently focused pane, or NoFocus.
func (d *Dimmer) FocusedIndex() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focusedIndex
}

func (d *Dimmer) recompute() {
	d.mu.Lock()
	enabled := d.enabled
	focused := d.focusedIndex
	count := d.paneCount
	dimmed := d.dimmed
	apply := d.apply
	d.mu.Unlock()

	if apply == nil {
		return
	}
	for i := 0; i < count; i++ {
		apply(i, Opacity(enabled, focused, i, dimmed))
	}
}
