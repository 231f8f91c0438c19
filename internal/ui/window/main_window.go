// Package window provides the GTK main window hosting the column deck.
package window

import (
	"context"
	"errors"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/bnema/socdeck/internal/logging"
	"github.com/bnema/socdeck/internal/ui/coordinator"
)

const (
	defaultWidth  = 1600
	defaultHeight = 900
	windowTitle   = "Socdeck"
)

// ErrWindowCreationFailed is returned when GTK cannot create the window.
var ErrWindowCreationFailed = errors.New("window: failed to create application window")

// MainWindow is the single socdeck window: a header bar with the mode
// toggles and a fixed-position canvas the panes are laid out in.
type MainWindow struct {
	window *gtk.ApplicationWindow
	canvas *gtk.Fixed
	coord  *coordinator.Coordinator
	logger zerolog.Logger

	syncToggle      *gtk.ToggleButton
	focusToggle     *gtk.ToggleButton
	grayscaleToggle *gtk.ToggleButton
}

// New creates the main window and wires its signals into the coordinator.
func New(ctx context.Context, app *gtk.Application, coord *coordinator.Coordinator) (*MainWindow, error) {
	log := logging.FromContext(ctx)

	mw := &MainWindow{
		coord:  coord,
		logger: log.With().Str("component", "main-window").Logger(),
	}

	mw.window = gtk.NewApplicationWindow(app)
	if mw.window == nil {
		return nil, ErrWindowCreationFailed
	}
	mw.window.SetTitle(windowTitle)
	mw.window.SetDefaultSize(defaultWidth, defaultHeight)

	mw.buildHeaderBar(ctx)

	mw.canvas = gtk.NewFixed()
	mw.canvas.SetHexpand(true)
	mw.canvas.SetVexpand(true)
	mw.window.SetChild(mw.canvas)

	mw.connectResize(ctx)
	mw.connectFocusLoss(ctx)
	mw.connectResizeHandles(ctx)

	return mw, nil
}

// Canvas returns the fixed container the panes attach to.
func (mw *MainWindow) Canvas() *gtk.Fixed { return mw.canvas }

// Show presents the window.
func (mw *MainWindow) Show() {
	mw.window.SetVisible(true)
}

// buildHeaderBar assembles the titlebar with the three mode toggles and
// the layout reset button.
func (mw *MainWindow) buildHeaderBar(ctx context.Context) {
	header := gtk.NewHeaderBar()

	mw.syncToggle = gtk.NewToggleButtonWithLabel("Sync")
	mw.syncToggle.SetTooltipText("Synchronize scrolling across columns")
	mw.syncToggle.ConnectToggled(func() {
		mw.coord.SetScrollSync(ctx, mw.syncToggle.Active())
	})
	header.PackStart(mw.syncToggle)

	mw.focusToggle = gtk.NewToggleButtonWithLabel("Focus")
	mw.focusToggle.SetTooltipText("Dim all columns except the hovered one")
	mw.focusToggle.ConnectToggled(func() {
		mw.coord.SetFocusMode(ctx, mw.focusToggle.Active())
	})
	header.PackStart(mw.focusToggle)

	mw.grayscaleToggle = gtk.NewToggleButtonWithLabel("Gray")
	mw.grayscaleToggle.SetTooltipText("Render all columns in grayscale")
	mw.grayscaleToggle.ConnectToggled(func() {
		mw.coord.SetGrayscale(ctx, mw.grayscaleToggle.Active())
	})
	header.PackStart(mw.grayscaleToggle)

	reset := gtk.NewButtonWithLabel("Reset")
	reset.SetTooltipText("Reset columns to equal widths")
	reset.ConnectClicked(func() {
		mw.coord.ResetLayout(ctx)
	})
	header.PackEnd(reset)

	mw.window.SetTitlebar(header)
}

// SyncToggleStates reflects the restored settings into the header toggles
// without re-triggering the commands (setting the current value is a no-op
// in the coordinator).
func (mw *MainWindow) SyncToggleStates(scrollSync, focusMode, grayscale bool) {
	mw.syncToggle.SetActive(scrollSync)
	mw.focusToggle.SetActive(focusMode)
	mw.grayscaleToggle.SetActive(grayscale)
}

// connectResize tracks the canvas size and relays the deck on change. The
// surface's width/height properties are the only reliable resize signal in
// GTK4, so the hookup waits for realization.
func (mw *MainWindow) connectResize(ctx context.Context) {
	relayout := func() {
		width := mw.canvas.Width()
		height := mw.canvas.Height()
		if width <= 0 || height <= 0 {
			return
		}
		mw.coord.SetContainerSize(ctx, width, height)
	}

	mw.window.ConnectRealize(func() {
		surface := mw.window.Surface()
		if surface == nil {
			mw.logger.Warn().Msg("no surface at realize, resize tracking disabled")
			return
		}
		surface.NotifyProperty("width", relayout)
		surface.NotifyProperty("height", relayout)
	})
	mw.window.ConnectMap(relayout)
}

// connectFocusLoss clears focus dimming when the window deactivates.
func (mw *MainWindow) connectFocusLoss(ctx context.Context) {
	mw.window.NotifyProperty("is-active", func() {
		if !mw.window.IsActive() {
			mw.coord.WindowBlurred(ctx)
		}
	})
}

// handleHitSlopPx is the pointer distance within which a press grabs a
// split handle.
const handleHitSlopPx = 8.0

// connectResizeHandles wires a drag gesture on the canvas to the split
// resize state machine.
func (mw *MainWindow) connectResizeHandles(ctx context.Context) {
	drag := gtk.NewGestureDrag()

	var startX float64
	drag.ConnectDragBegin(func(x, _ float64) {
		startX = x
		index := mw.hitTestHandle(x)
		if index < 0 {
			return
		}
		mw.coord.BeginResize(index, x)
	})
	drag.ConnectDragUpdate(func(offsetX, _ float64) {
		mw.coord.MoveResize(ctx, startX+offsetX)
	})
	drag.ConnectDragEnd(func(_, _ float64) {
		mw.coord.EndResize(ctx)
	})

	mw.canvas.AddController(drag)
}

// hitTestHandle maps a pointer x to the split handle under it, or -1.
func (mw *MainWindow) hitTestHandle(x float64) int {
	width := float64(mw.canvas.Width())
	if width <= 0 {
		return -1
	}

	for i, split := range mw.coord.Set().Splits {
		boundary := width * split / 100
		if x >= boundary-handleHitSlopPx && x <= boundary+handleHitSlopPx {
			return i
		}
	}
	return -1
}
