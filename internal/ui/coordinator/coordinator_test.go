package coordinator

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/socdeck/internal/app/messaging"
	"github.com/bnema/socdeck/internal/application/port"
	"github.com/bnema/socdeck/internal/domain/entity"
	"github.com/bnema/socdeck/internal/ui/scrollsync"
)

type fakePane struct {
	mu       sync.Mutex
	alive    bool
	bounds   []entity.Rect
	messages []messaging.Message
	loaded   []string
}

func newFakePane() *fakePane { return &fakePane{alive: true} }

func (p *fakePane) SetBounds(rect entity.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bounds = append(p.bounds, rect)
}

func (p *fakePane) Send(msg messaging.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *fakePane) LoadURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = append(p.loaded, url)
}

func (p *fakePane) IsAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

func (p *fakePane) lastBounds(t *testing.T) entity.Rect {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.bounds)
	return p.bounds[len(p.bounds)-1]
}

func (p *fakePane) messagesOfType(msgType string) []messaging.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []messaging.Message
	for _, m := range p.messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

type fakeStore struct {
	mu      sync.Mutex
	doc     entity.Settings
	patches []port.SettingsPatch
}

func newFakeStore(n int) *fakeStore { return &fakeStore{doc: entity.DefaultSettings(n)} }

func (s *fakeStore) Load() entity.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *fakeStore) Save(patch port.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, patch)
	return nil
}

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
}

func (o *fakeOpener) OpenExternal(url string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, url)
}

// fakeTimer and fakeClock mirror the deterministic clock the scroll sync
// tests use, so the end to end scroll path can be driven without sleeping.
type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) scrollsync.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, firing due timers in deadline order,
// including timers scheduled by the callbacks themselves.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	deadline := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.at.After(deadline) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = deadline
			c.mu.Unlock()
			return
		}
		next.stopped = true
		c.now = next.at
		fn := next.fn
		c.mu.Unlock()
		fn()
	}
}

type fixture struct {
	coord  *Coordinator
	panes  []*fakePane
	store  *fakeStore
	opener *fakeOpener
	clock  *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, newFakeStore(len(entity.DefaultPlatforms())))
}

func newFixtureWithStore(t *testing.T, store *fakeStore) *fixture {
	t.Helper()
	ctx := context.Background()
	set := entity.NewPaneSet(entity.DefaultPlatforms())
	opener := &fakeOpener{}
	clock := newFakeClock()

	coord := New(ctx, set, Deps{
		Store:        store,
		Opener:       opener,
		ScrollConfig: scrollsync.DefaultConfig(),
		Clock:        clock,
		HeaderHeight: 40,
	})
	t.Cleanup(coord.Stop)

	panes := make([]*fakePane, len(set.Platforms))
	for i := range panes {
		panes[i] = newFakePane()
		coord.AttachPane(ctx, i, panes[i])
	}
	coord.SetContainerSize(ctx, 1000, 800)

	return &fixture{coord: coord, panes: panes, store: store, opener: opener, clock: clock}
}

func TestAttachPaneStampsIndexAndLoadsOrigin(t *testing.T) {
	f := newFixture(t)

	for i, pane := range f.panes {
		msgs := pane.messagesOfType(messaging.TypeSetViewIndex)
		require.Len(t, msgs, 1)
		var p messaging.SetViewIndexPayload
		require.NoError(t, json.Unmarshal(msgs[0].Payload, &p))
		assert.Equal(t, i, p.Index)

		require.Len(t, pane.loaded, 1)
		assert.Equal(t, entity.DefaultPlatforms()[i].Origin, pane.loaded[0])
	}
}

func TestSetContainerSizeLaysOutAllPanes(t *testing.T) {
	f := newFixture(t)

	// 5 equal columns over 1000px with a 4px gap and a 40px header.
	first := f.panes[0].lastBounds(t)
	assert.Equal(t, entity.Rect{X: 0, Y: 40, W: 196, H: 760}, first)

	second := f.panes[1].lastBounds(t)
	assert.Equal(t, entity.Rect{X: 204, Y: 40, W: 192, H: 760}, second)
}

func TestReorderPersistsAndBroadcasts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.Reorder(ctx, []int{4, 3, 2, 1, 0})

	require.NotEmpty(t, f.store.patches)
	last := f.store.patches[len(f.store.patches)-1]
	assert.Equal(t, []int{4, 3, 2, 1, 0}, last.Order)

	for _, pane := range f.panes {
		msgs := pane.messagesOfType(messaging.TypePlatformOrderChanged)
		require.Len(t, msgs, 1)
		var p messaging.PlatformsPayload
		require.NoError(t, json.Unmarshal(msgs[0].Payload, &p))
		assert.Equal(t, []int{4, 3, 2, 1, 0}, p.Order)
	}

	// Reversed order: pane 4 now owns the leftmost rect.
	assert.Equal(t, 0, f.panes[4].lastBounds(t).X)
}

func TestReorderRejectsMalformedPermutationQuietly(t *testing.T) {
	f := newFixture(t)

	before := len(f.store.patches)
	f.coord.Reorder(context.Background(), []int{0, 0, 1, 2, 3})

	assert.Len(t, f.store.patches, before, "rejected command must not persist")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, f.coord.Set().Order)
}

func TestToggleVisibilityHidesPaneAndRecomputesSplits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.ToggleVisibility(ctx, 2)

	assert.True(t, f.panes[2].lastBounds(t).IsZero(), "hidden pane gets the zero rect")
	assert.Equal(t, []float64{25, 50, 75}, f.coord.Set().Splits)

	last := f.store.patches[len(f.store.patches)-1]
	assert.Equal(t, []bool{true, true, false, true, true}, last.Visibility)

	msgs := f.panes[0].messagesOfType(messaging.TypeVisibilityChanged)
	require.Len(t, msgs, 1)
}

func TestToggleVisibilityNeverHidesLastPane(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		f.coord.ToggleVisibility(ctx, i)
	}
	before := len(f.store.patches)
	f.coord.ToggleVisibility(ctx, 4)

	assert.True(t, f.coord.Set().Visibility[4])
	assert.Len(t, f.store.patches, before)
}

func TestResizeDragCommitsClampedSplits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Drag the first handle (at 20%) left by 100px of a 1000px container.
	f.coord.BeginResize(0, 200)
	f.coord.MoveResize(ctx, 100)
	f.coord.EndResize(ctx)

	assert.InDelta(t, 10, f.coord.Set().Splits[0], 1e-9)
	assert.InDelta(t, 40, f.coord.Set().Splits[1], 1e-9)
}

func TestResizeClickResetsToEqualSplits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.UpdateSplits(ctx, []float64{12, 40, 60, 80})
	require.InDelta(t, 12, f.coord.Set().Splits[0], 1e-9)

	f.coord.BeginResize(1, 400)
	f.coord.MoveResize(ctx, 402)
	f.coord.EndResize(ctx)

	assert.Equal(t, []float64{20, 40, 60, 80}, f.coord.Set().Splits)
}

func TestFocusViewDimsEveryOtherPane(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.SetFocusMode(ctx, true)
	msg, err := messaging.New(messaging.TypeFocusView, messaging.FocusViewPayload{ViewIndex: 1})
	require.NoError(t, err)
	f.coord.Router().Dispatch(ctx, msg)

	for i, pane := range f.panes {
		msgs := pane.messagesOfType(messaging.TypeSetViewOpacity)
		if i == 1 {
			assert.Empty(t, msgs, "focused pane keeps full opacity")
			continue
		}
		require.NotEmpty(t, msgs)
		var p messaging.SetViewOpacityPayload
		require.NoError(t, json.Unmarshal(msgs[len(msgs)-1].Payload, &p))
		assert.InDelta(t, 0.12, p.Opacity, 1e-9)
	}
}

func TestWindowBlurRestoresOpacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.SetFocusMode(ctx, true)
	msg, _ := messaging.New(messaging.TypeFocusView, messaging.FocusViewPayload{ViewIndex: 0})
	f.coord.Router().Dispatch(ctx, msg)
	f.coord.WindowBlurred(ctx)

	msgs := f.panes[2].messagesOfType(messaging.TypeSetViewOpacity)
	require.NotEmpty(t, msgs)
	var p messaging.SetViewOpacityPayload
	require.NoError(t, json.Unmarshal(msgs[len(msgs)-1].Payload, &p))
	assert.InDelta(t, 1.0, p.Opacity, 1e-9)
}

func TestNavigationReplaysDocumentState(t *testing.T) {
	store := newFakeStore(len(entity.DefaultPlatforms()))
	store.doc.GrayscaleModeEnabled = true
	f := newFixtureWithStore(t, store)
	ctx := context.Background()

	pane := f.panes[2]
	origin := entity.DefaultPlatforms()[2].Origin
	require.Len(t, pane.messagesOfType(messaging.TypeGrayscaleModeChanged), 1)
	require.Len(t, pane.messagesOfType(messaging.TypeSetViewIndex), 1)

	// Each committed navigation is a fresh document; index and grayscale
	// must be pushed again.
	f.coord.HandleNavigation(ctx, 2, origin)

	idx := pane.messagesOfType(messaging.TypeSetViewIndex)
	require.Len(t, idx, 2)
	var p messaging.SetViewIndexPayload
	require.NoError(t, json.Unmarshal(idx[1].Payload, &p))
	assert.Equal(t, 2, p.Index)
	assert.Len(t, pane.messagesOfType(messaging.TypeGrayscaleModeChanged), 2)

	f.coord.HandleNavigation(ctx, 2, origin)
	assert.Len(t, pane.messagesOfType(messaging.TypeGrayscaleModeChanged), 3)
}

func TestNavigationReplaysDimmedOpacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.SetFocusMode(ctx, true)
	msg, err := messaging.New(messaging.TypeFocusView, messaging.FocusViewPayload{ViewIndex: 0})
	require.NoError(t, err)
	f.coord.Router().Dispatch(ctx, msg)

	before := len(f.panes[1].messagesOfType(messaging.TypeSetViewOpacity))
	f.coord.HandleNavigation(ctx, 1, entity.DefaultPlatforms()[1].Origin)

	msgs := f.panes[1].messagesOfType(messaging.TypeSetViewOpacity)
	require.Len(t, msgs, before+1)
	var p messaging.SetViewOpacityPayload
	require.NoError(t, json.Unmarshal(msgs[len(msgs)-1].Payload, &p))
	assert.InDelta(t, 0.12, p.Opacity, 1e-9)

	// The focused pane renders at full opacity, which is the bridge's
	// starting state; nothing to replay there.
	f.coord.HandleNavigation(ctx, 0, entity.DefaultPlatforms()[0].Origin)
	assert.Empty(t, f.panes[0].messagesOfType(messaging.TypeSetViewOpacity))
}

func TestConfiguredDimmedOpacityFlowsToPanes(t *testing.T) {
	ctx := context.Background()
	set := entity.NewPaneSet(entity.DefaultPlatforms())
	coord := New(ctx, set, Deps{
		Store:         newFakeStore(len(set.Platforms)),
		ScrollConfig:  scrollsync.DefaultConfig(),
		Clock:         newFakeClock(),
		DimmedOpacity: 0.5,
	})
	t.Cleanup(coord.Stop)

	panes := make([]*fakePane, len(set.Platforms))
	for i := range panes {
		panes[i] = newFakePane()
		coord.AttachPane(ctx, i, panes[i])
	}

	coord.SetFocusMode(ctx, true)
	msg, err := messaging.New(messaging.TypeFocusView, messaging.FocusViewPayload{ViewIndex: 0})
	require.NoError(t, err)
	coord.Router().Dispatch(ctx, msg)

	msgs := panes[1].messagesOfType(messaging.TypeSetViewOpacity)
	require.NotEmpty(t, msgs)
	var p messaging.SetViewOpacityPayload
	require.NoError(t, json.Unmarshal(msgs[len(msgs)-1].Payload, &p))
	assert.InDelta(t, 0.5, p.Opacity, 1e-9)
}

func TestModeFlagsPersistAndBroadcast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.SetGrayscale(ctx, true)
	f.coord.SetScrollSync(ctx, false)

	var grayscale, scrollSync *bool
	for _, patch := range f.store.patches {
		if patch.GrayscaleModeEnabled != nil {
			grayscale = patch.GrayscaleModeEnabled
		}
		if patch.ScrollSyncEnabled != nil {
			scrollSync = patch.ScrollSyncEnabled
		}
	}
	require.NotNil(t, grayscale)
	require.NotNil(t, scrollSync)
	assert.True(t, *grayscale)
	assert.False(t, *scrollSync)

	require.Len(t, f.panes[3].messagesOfType(messaging.TypeGrayscaleModeChanged), 1)
	require.Len(t, f.panes[3].messagesOfType(messaging.TypeScrollSyncChanged), 1)
}

func TestModeFlagNoOpWhenUnchanged(t *testing.T) {
	f := newFixture(t)

	before := len(f.store.patches)
	f.coord.SetScrollSync(context.Background(), true)

	assert.Len(t, f.store.patches, before, "setting the current value must not persist")
}

func TestRestoredSettingsShapeTheFirstLayout(t *testing.T) {
	store := newFakeStore(5)
	store.doc.Order = []int{1, 0, 2, 3, 4}
	store.doc.Visibility = []bool{true, true, true, false, true}
	store.doc.FocusModeEnabled = true

	f := newFixtureWithStore(t, store)

	assert.Equal(t, []int{1, 0, 2, 3, 4}, f.coord.Set().Order)
	assert.Equal(t, []float64{25, 50, 75}, f.coord.Set().Splits)
	assert.True(t, f.panes[3].lastBounds(t).IsZero())
}

func TestScrollUpdateFansOutScrollCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := messaging.New(messaging.TypeScrollUpdate, messaging.ScrollUpdatePayload{Y: 500})
	require.NoError(t, err)
	msg.ViewIndex = 0
	f.coord.Router().Dispatch(ctx, msg)

	// Sender debounce, receiver debounce, then the full animation.
	f.clock.Advance(time.Second)

	assert.Empty(t, f.panes[0].messagesOfType(messaging.TypeScrollCommand), "sender receives nothing")
	for i := 1; i < len(f.panes); i++ {
		cmds := f.panes[i].messagesOfType(messaging.TypeScrollCommand)
		require.NotEmpty(t, cmds, "pane %d", i)
		var p messaging.ScrollCommandPayload
		require.NoError(t, json.Unmarshal(cmds[len(cmds)-1].Payload, &p))
		assert.InDelta(t, 500, p.Y, 1e-9, "final frame lands exactly on the target")
	}
}

func TestScrollUpdateSkipsDetailPagePanes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.HandleNavigation(ctx, 1, "https://bsky.app/profile/ana.bsky.social/post/3kf")

	msg, _ := messaging.New(messaging.TypeScrollUpdate, messaging.ScrollUpdatePayload{Y: 300})
	msg.ViewIndex = 0
	f.coord.Router().Dispatch(ctx, msg)
	f.clock.Advance(time.Second)

	assert.Empty(t, f.panes[1].messagesOfType(messaging.TypeScrollCommand), "detail page pane is left alone")
	assert.NotEmpty(t, f.panes[2].messagesOfType(messaging.TypeScrollCommand))
}

func TestNavigationBackToFeedRestoresEligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.HandleNavigation(ctx, 1, "https://bsky.app/profile/ana.bsky.social/post/3kf")
	assert.True(t, f.coord.OnDetail(1))

	f.coord.HandleNavigation(ctx, 1, "https://bsky.app")
	assert.False(t, f.coord.OnDetail(1))
}

func TestDecideNavigationEnforcesOriginLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, f.coord.DecideNavigation(ctx, 0, "https://x.com/someone/status/1"))
	assert.True(t, f.coord.DecideNavigation(ctx, 3, "https://reddit.com/r/golang"), "www prefix is transparent")

	assert.False(t, f.coord.DecideNavigation(ctx, 0, "https://example.com/article"))
	require.Len(t, f.opener.opened, 1)
	assert.Equal(t, "https://example.com/article", f.opener.opened[0])
}

func TestGetPlatformsReturnsSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coord.ToggleVisibility(ctx, 4)
	msg, _ := messaging.New(messaging.TypeGetPlatforms, nil)
	resp, ok := f.coord.Router().Dispatch(ctx, msg)
	require.True(t, ok)

	payload, ok := resp.(messaging.PlatformsPayload)
	require.True(t, ok)
	assert.Equal(t, []bool{true, true, true, true, false}, payload.Visibility)

	names := append([]string(nil), payload.Names...)
	sort.Strings(names)
	assert.Equal(t, []string{"bluesky", "hackernews", "mastodon", "reddit", "x"}, names)
}

func TestDeadPaneIsSkippedSilently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.panes[2].mu.Lock()
	f.panes[2].alive = false
	count := len(f.panes[2].messages)
	f.panes[2].mu.Unlock()

	f.coord.Reorder(ctx, []int{1, 0, 2, 3, 4})

	f.panes[2].mu.Lock()
	defer f.panes[2].mu.Unlock()
	assert.Len(t, f.panes[2].messages, count, "dead pane receives nothing")
}
