// Package coordinator is the host-side brain of the deck. It owns the
// single authoritative state (order, visibility, splits, the three mode
// flags), mutates it only through named commands, and pushes the results
// out to the panes: rectangles through the geometry engine, opacities
// through the focus dimmer, scroll targets through the sync coordinator,
// and change broadcasts through the message envelopes.
package coordinator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/socdeck/internal/app/messaging"
	"github.com/bnema/socdeck/internal/application/port"
	"github.com/bnema/socdeck/internal/application/usecase"
	"github.com/bnema/socdeck/internal/domain/entity"
	"github.com/bnema/socdeck/internal/domain/layout"
	"github.com/bnema/socdeck/internal/logging"
	"github.com/bnema/socdeck/internal/ui/focus"
	"github.com/bnema/socdeck/internal/ui/geometry"
	"github.com/bnema/socdeck/internal/ui/resize"
	"github.com/bnema/socdeck/internal/ui/scrollsync"
)

// Deps are the collaborators injected at construction.
type Deps struct {
	Store        port.SettingsStore
	Opener       port.URLOpener
	Geometry     *geometry.Engine
	ScrollConfig scrollsync.Config
	// Clock is injectable for tests; nil selects the wall clock.
	Clock        scrollsync.Clock
	HeaderHeight int
	// DimmedOpacity is the opacity of unfocused panes while focus mode is
	// active; zero selects the built-in default.
	DimmedOpacity float64
}

// Coordinator ties the pure layout, focus, scroll and resize machinery to
// a set of attached panes. One instance per window, living for the whole
// process.
type Coordinator struct {
	set    *entity.PaneSet
	store  port.SettingsStore
	opener port.URLOpener
	geom   *geometry.Engine
	layout *usecase.ManageLayoutUseCase
	logger zerolog.Logger

	dimmer *focus.Dimmer
	scroll *scrollsync.Coordinator
	drag   *resize.Controller
	router *messaging.Router

	mu           sync.Mutex
	panes        []PaneHost
	runtimes     []entity.PaneRuntime
	scrollSync   bool
	focusMode    bool
	grayscale    bool
	containerW   int
	containerH   int
	headerHeight int
}

// New builds a coordinator for set, restoring persisted preferences before
// the first layout. Panes attach afterwards via AttachPane.
func New(ctx context.Context, set *entity.PaneSet, deps Deps) *Coordinator {
	log := logging.FromContext(ctx).With().Str("component", "coordinator").Logger()

	if deps.Geometry == nil {
		deps.Geometry = geometry.New(0, 0)
	}

	n := len(set.Platforms)
	c := &Coordinator{
		set:          set,
		store:        deps.Store,
		opener:       deps.Opener,
		geom:         deps.Geometry,
		layout:       usecase.NewManageLayoutUseCase(layout.MinColumnPercent),
		logger:       log,
		drag:         resize.NewController(layout.MinColumnPercent),
		router:       messaging.NewRouter(),
		panes:        make([]PaneHost, n),
		runtimes:     make([]entity.PaneRuntime, n),
		headerHeight: deps.HeaderHeight,
	}
	for i := range c.runtimes {
		c.runtimes[i] = entity.PaneRuntime{SourceIndex: i, Opacity: focus.OpacityFocused}
	}

	c.restoreSettings(ctx)

	c.dimmer = focus.NewDimmer(n, deps.DimmedOpacity, c.applyOpacity)
	c.dimmer.SetEnabled(ctx, c.focusMode)
	c.scroll = scrollsync.New(ctx, n, deps.ScrollConfig, deps.Clock, c, c)

	c.registerHandlers()
	return c
}

// restoreSettings folds the persisted document into the pane set and the
// mode flags. The store already sanitized every field, so it is applied
// verbatim.
func (c *Coordinator) restoreSettings(ctx context.Context) {
	if c.store == nil {
		c.scrollSync = true
		c.set.Splits = layout.EqualSplits(c.set.VisibleCount())
		return
	}

	doc := c.store.Load()
	c.set.Order = append([]int(nil), doc.Order...)
	c.set.Visibility = append([]bool(nil), doc.Visibility...)
	c.set.Splits = layout.EqualSplits(c.set.VisibleCount())
	c.scrollSync = doc.ScrollSyncEnabled
	c.focusMode = doc.FocusModeEnabled
	c.grayscale = doc.GrayscaleModeEnabled

	logging.FromContext(ctx).Debug().
		Ints("order", c.set.Order).
		Bools("visibility", c.set.Visibility).
		Bool("scroll_sync", c.scrollSync).
		Bool("focus_mode", c.focusMode).
		Bool("grayscale", c.grayscale).
		Msg("settings restored")
}

// Router exposes the message router so the transport can feed inbound
// envelopes into the coordinator.
func (c *Coordinator) Router() *messaging.Router { return c.router }

// Set returns the authoritative pane set. Callers must treat it as
// read-only outside the coordinator's commands.
func (c *Coordinator) Set() *entity.PaneSet { return c.set }

// Flags returns the current mode flags (scroll sync, focus, grayscale).
func (c *Coordinator) Flags() (scrollSync, focusMode, grayscale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollSync, c.focusMode, c.grayscale
}

// SetContainerSize records the content area and lays the panes out again.
func (c *Coordinator) SetContainerSize(ctx context.Context, width, height int) {
	c.mu.Lock()
	c.containerW = width
	c.containerH = height
	splits := append([]float64(nil), c.set.Splits...)
	c.mu.Unlock()
	c.applyGeometry(ctx, splits)
}

// Reorder replaces the display order and persists it.
func (c *Coordinator) Reorder(ctx context.Context, order []int) {
	c.mu.Lock()
	out := c.layout.Reorder(ctx, c.set, order)
	patch := port.SettingsPatch{Order: append([]int(nil), c.set.Order...)}
	c.mu.Unlock()
	if !out.Changed {
		return
	}
	c.persist(ctx, patch)
	c.applyGeometry(ctx, out.Splits)
	c.broadcast(ctx, messaging.TypePlatformOrderChanged)
}

// ToggleVisibility shows or hides one pane. A visibility change discards
// custom splits; the hidden pane keeps its page loaded off-layout.
func (c *Coordinator) ToggleVisibility(ctx context.Context, index int) {
	c.mu.Lock()
	out := c.layout.ToggleVisibility(ctx, c.set, index)
	patch := port.SettingsPatch{Visibility: append([]bool(nil), c.set.Visibility...)}
	c.mu.Unlock()
	if !out.Changed {
		return
	}
	c.persist(ctx, patch)
	c.applyGeometry(ctx, out.Splits)
	c.broadcast(ctx, messaging.TypeVisibilityChanged)
}

// UpdateSplits commits a new split sequence. Splits are session state and
// are not persisted.
func (c *Coordinator) UpdateSplits(ctx context.Context, splits []float64) {
	c.mu.Lock()
	out := c.layout.UpdateSplits(ctx, c.set, splits)
	c.mu.Unlock()
	if !out.Changed {
		return
	}
	c.applyGeometry(ctx, out.Splits)
}

// ResetLayout restores equal splits for the current visible count.
func (c *Coordinator) ResetLayout(ctx context.Context) {
	c.mu.Lock()
	out := c.layout.ResetLayout(ctx, c.set)
	c.mu.Unlock()
	c.applyGeometry(ctx, out.Splits)
}

// SetScrollSync flips the global scroll-sync flag.
func (c *Coordinator) SetScrollSync(ctx context.Context, enabled bool) {
	c.mu.Lock()
	if c.scrollSync == enabled {
		c.mu.Unlock()
		return
	}
	c.scrollSync = enabled
	c.mu.Unlock()

	c.persist(ctx, port.SettingsPatch{ScrollSyncEnabled: &enabled})
	c.broadcastEnabled(ctx, messaging.TypeScrollSyncChanged, enabled)
}

// SetFocusMode flips the focus-dimming flag and lets the dimmer push the
// resulting opacities.
func (c *Coordinator) SetFocusMode(ctx context.Context, enabled bool) {
	c.mu.Lock()
	if c.focusMode == enabled {
		c.mu.Unlock()
		return
	}
	c.focusMode = enabled
	c.mu.Unlock()

	c.persist(ctx, port.SettingsPatch{FocusModeEnabled: &enabled})
	c.dimmer.SetEnabled(ctx, enabled)
	c.broadcastEnabled(ctx, messaging.TypeFocusModeChanged, enabled)
}

// SetGrayscale flips the grayscale filter flag. Rendering the filter is the
// pane's job; the host only broadcasts the change.
func (c *Coordinator) SetGrayscale(ctx context.Context, enabled bool) {
	c.mu.Lock()
	if c.grayscale == enabled {
		c.mu.Unlock()
		return
	}
	c.grayscale = enabled
	c.mu.Unlock()

	c.persist(ctx, port.SettingsPatch{GrayscaleModeEnabled: &enabled})
	c.broadcastEnabled(ctx, messaging.TypeGrayscaleModeChanged, enabled)
}

// WindowBlurred forwards window focus loss to the dimmer.
func (c *Coordinator) WindowBlurred(ctx context.Context) {
	c.dimmer.WindowBlurred(ctx)
}

// Stop cancels the scroll coordinator's timers.
func (c *Coordinator) Stop() {
	c.scroll.Stop()
}

// BeginResize enters a drag on the split handle at splitIndex.
func (c *Coordinator) BeginResize(splitIndex int, x float64) {
	c.mu.Lock()
	splits := append([]float64(nil), c.set.Splits...)
	c.mu.Unlock()
	c.drag.Begin(splitIndex, x, splits)
}

// MoveResize previews the drag at pointer position x. The preview relays
// out the panes but commits nothing.
func (c *Coordinator) MoveResize(ctx context.Context, x float64) {
	c.mu.Lock()
	width := float64(c.containerW)
	c.mu.Unlock()

	candidate := c.drag.Move(x, width)
	if candidate == nil {
		return
	}
	c.applyGeometry(ctx, candidate)
}

// EndResize leaves the drag. A real drag commits the previewed splits; a
// pure click resets to equal splits.
func (c *Coordinator) EndResize(ctx context.Context) {
	splits, reset := c.drag.End()
	switch {
	case reset:
		c.ResetLayout(ctx)
	case splits != nil:
		c.UpdateSplits(ctx, splits)
	}
}

// persist writes a settings patch, logging failures without surfacing them.
func (c *Coordinator) persist(ctx context.Context, patch port.SettingsPatch) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(patch); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to persist settings")
	}
}

// applyGeometry recomputes pane rectangles for the given splits and pushes
// them to every attached pane. Hidden panes get the zero rect.
func (c *Coordinator) applyGeometry(_ context.Context, splits []float64) {
	c.mu.Lock()
	in := geometry.Input{
		VisibleIndices:  layout.VisiblePlatformIndices(c.set.Order, c.set.Visibility),
		Splits:          splits,
		ContainerWidth:  c.containerW,
		ContainerHeight: c.containerH,
		HeaderHeight:    c.headerHeight,
		PaneCount:       len(c.panes),
	}
	panes := append([]PaneHost(nil), c.panes...)
	c.mu.Unlock()

	rects := c.geom.Compute(in)
	for i, pane := range panes {
		if pane == nil || !pane.IsAlive() {
			continue
		}
		pane.SetBounds(rects[i])
	}
}

// applyOpacity is the dimmer's apply callback. Redundant values are not
// re-sent.
func (c *Coordinator) applyOpacity(viewIndex int, opacity float64) {
	c.mu.Lock()
	if viewIndex < 0 || viewIndex >= len(c.runtimes) || c.runtimes[viewIndex].Opacity == opacity {
		c.mu.Unlock()
		return
	}
	c.runtimes[viewIndex].Opacity = opacity
	pane := c.panes[viewIndex]
	c.mu.Unlock()

	c.send(pane, messaging.TypeSetViewOpacity, messaging.SetViewOpacityPayload{Opacity: opacity})
}

// SyncEnabled implements scrollsync.StateProvider.
func (c *Coordinator) SyncEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollSync
}

// OnDetail implements scrollsync.StateProvider.
func (c *Coordinator) OnDetail(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.runtimes) {
		return false
	}
	return c.runtimes[index].OnDetailPage
}

// Visible implements scrollsync.StateProvider.
func (c *Coordinator) Visible(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.set.Visibility) {
		return false
	}
	return c.set.Visibility[index]
}

// ScrollTo implements scrollsync.Commander by sending a scroll command to
// the pane. Dead panes are skipped silently.
func (c *Coordinator) ScrollTo(index int, y float64) {
	c.mu.Lock()
	var pane PaneHost
	if index >= 0 && index < len(c.panes) {
		pane = c.panes[index]
	}
	c.mu.Unlock()

	c.send(pane, messaging.TypeScrollCommand, messaging.ScrollCommandPayload{Y: y})
}

// broadcast sends the current order/visibility snapshot to every pane under
// the given change type.
func (c *Coordinator) broadcast(ctx context.Context, msgType string) {
	c.mu.Lock()
	payload := c.platformsPayload()
	c.mu.Unlock()
	for _, pane := range c.alivePanes() {
		c.send(pane, msgType, payload)
	}
	logging.FromContext(ctx).Debug().Str("type", msgType).Msg("change broadcast")
}

// broadcastEnabled sends a boolean mode change to every pane.
func (c *Coordinator) broadcastEnabled(ctx context.Context, msgType string, enabled bool) {
	for _, pane := range c.alivePanes() {
		c.send(pane, msgType, messaging.EnabledPayload{Enabled: enabled})
	}
	logging.FromContext(ctx).Info().Str("type", msgType).Bool("enabled", enabled).Msg("mode changed")
}

func (c *Coordinator) alivePanes() []PaneHost {
	c.mu.Lock()
	defer c.mu.Unlock()

	alive := make([]PaneHost, 0, len(c.panes))
	for _, p := range c.panes {
		if p != nil && p.IsAlive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// platformsPayload snapshots the order/visibility state. Must be called
// with the lock held.
func (c *Coordinator) platformsPayload() messaging.PlatformsPayload {
	names := make([]string, len(c.set.Platforms))
	for i, p := range c.set.Platforms {
		names[i] = p.Name
	}
	return messaging.PlatformsPayload{
		Names:      names,
		Order:      append([]int(nil), c.set.Order...),
		Visibility: append([]bool(nil), c.set.Visibility...),
	}
}

func (c *Coordinator) send(pane PaneHost, msgType string, payload any) {
	if pane == nil || !pane.IsAlive() {
		return
	}
	msg, err := messaging.New(msgType, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("type", msgType).Msg("failed to build message")
		return
	}
	pane.Send(msg)
}
