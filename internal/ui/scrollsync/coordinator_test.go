package scrollsync_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/socdeck/internal/ui/scrollsync"
)

// fakeClock drives timers deterministically from the test goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) scrollsync.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, firing due timers in deadline order,
// including timers scheduled by the callbacks themselves.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.deadline.After(target) {
				continue
			}
			if next == nil || t.deadline.Before(next.deadline) {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.deadline
		next.fired = true
		fn := next.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// fakeProvider answers eligibility questions from settable fields.
type fakeProvider struct {
	mu       sync.Mutex
	enabled  bool
	onDetail map[int]bool
	hidden   map[int]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{enabled: true, onDetail: map[int]bool{}, hidden: map[int]bool{}}
}

func (p *fakeProvider) SyncEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *fakeProvider) OnDetail(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.onDetail[i]
}

func (p *fakeProvider) Visible(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.hidden[i]
}

// fakeCommander records every scroll command per pane.
type fakeCommander struct {
	mu    sync.Mutex
	calls map[int][]float64
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{calls: map[int][]float64{}}
}

func (f *fakeCommander) ScrollTo(index int, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[index] = append(f.calls[index], y)
}

func (f *fakeCommander) positions(index int) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.calls[index]...)
}

func (f *fakeCommander) targets() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for i := range f.calls {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func newCoordinator(t *testing.T, panes int) (*scrollsync.Coordinator, *fakeClock, *fakeProvider, *fakeCommander) {
	t.Helper()
	clock := newFakeClock()
	provider := newFakeProvider()
	cmd := newFakeCommander()
	c := scrollsync.New(context.Background(), panes, scrollsync.DefaultConfig(), clock, provider, cmd)
	t.Cleanup(c.Stop)
	return c, clock, provider, cmd
}

func TestScrollPropagatesToSiblings(t *testing.T) {
	c, clock, _, cmd := newCoordinator(t, 3)

	c.HandleScrollUpdate(0, 400)
	clock.Advance(150 * time.Millisecond) // sender debounce
	clock.Advance(150 * time.Millisecond) // receiver debounce
	clock.Advance(400 * time.Millisecond) // animation

	assert.Equal(t, []int{1, 2}, cmd.targets())
	for _, idx := range []int{1, 2} {
		frames := cmd.positions(idx)
		require.NotEmpty(t, frames)
		assert.InDelta(t, 400.0, frames[len(frames)-1], 1e-9, "animation must land on the target")
	}
	// The sender itself never receives a command.
	assert.Empty(t, cmd.positions(0))
}

func TestSenderOnDetailSuppressesDispatch(t *testing.T) {
	c, clock, provider, cmd := newCoordinator(t, 3)
	provider.onDetail[0] = true

	c.HandleScrollUpdate(0, 400)
	clock.Advance(time.Second)

	assert.Empty(t, cmd.targets())
}

func TestSyncDisabledSuppressesDispatch(t *testing.T) {
	c, clock, provider, cmd := newCoordinator(t, 3)
	provider.enabled = false
	provider.onDetail[0] = true // disabled wins regardless of detail state

	c.HandleScrollUpdate(0, 400)
	clock.Advance(time.Second)

	assert.Empty(t, cmd.targets())
}

func TestDetailPanesExcludedAsReceivers(t *testing.T) {
	c, clock, provider, cmd := newCoordinator(t, 3)
	provider.onDetail[2] = true

	c.HandleScrollUpdate(0, 400)
	clock.Advance(time.Second)

	assert.Equal(t, []int{1}, cmd.targets())
}

func TestHiddenPanesExcludedAsReceivers(t *testing.T) {
	c, clock, provider, cmd := newCoordinator(t, 3)
	provider.hidden[1] = true

	c.HandleScrollUpdate(0, 400)
	clock.Advance(time.Second)

	assert.Equal(t, []int{2}, cmd.targets())
}

func TestNoiseBelowThresholdIgnored(t *testing.T) {
	c, clock, _, cmd := newCoordinator(t, 2)

	c.HandleScrollUpdate(0, 3) // below the 5 unit threshold from 0
	clock.Advance(time.Second)

	assert.Empty(t, cmd.targets())
}

func TestDebounceCollapsesBurst(t *testing.T) {
	c, clock, _, cmd := newCoordinator(t, 2)

	// Rapid burst: each update restarts the quiet window; only the last
	// position is dispatched.
	c.HandleScrollUpdate(0, 50)
	clock.Advance(100 * time.Millisecond)
	c.HandleScrollUpdate(0, 90)
	clock.Advance(100 * time.Millisecond)
	c.HandleScrollUpdate(0, 120)
	clock.Advance(time.Second)

	frames := cmd.positions(1)
	require.NotEmpty(t, frames)
	assert.InDelta(t, 120.0, frames[len(frames)-1], 1e-9)
	// One coherent animation, not three.
	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i], frames[i-1], "single forward animation expected")
	}
}

func TestAlreadySyncedTargetIsNoop(t *testing.T) {
	c, clock, _, cmd := newCoordinator(t, 2)

	// First sync lands pane 1 on 400.
	c.HandleScrollUpdate(0, 400)
	clock.Advance(time.Second)
	before := len(cmd.positions(1))
	require.NotZero(t, before)

	// 406 is within the 10 unit epsilon of pane 1's current 400.
	c.HandleScrollUpdate(0, 406)
	clock.Advance(time.Second)

	assert.Len(t, cmd.positions(1), before, "near-synced target must not animate")
}

func TestRetargetContinuesFromCurrentPosition(t *testing.T) {
	c, clock, _, cmd := newCoordinator(t, 2)

	c.HandleScrollUpdate(0, 400)
	clock.Advance(150 * time.Millisecond) // sender debounce
	clock.Advance(150 * time.Millisecond) // receiver debounce
	clock.Advance(30 * time.Millisecond)  // a frame or two of the animation

	mid := cmd.positions(1)
	require.NotEmpty(t, mid)
	lastBeforeRetarget := mid[len(mid)-1]
	require.Greater(t, lastBeforeRetarget, 0.0)
	require.Less(t, lastBeforeRetarget, 400.0)

	// New target arrives mid-flight.
	c.HandleScrollUpdate(0, 800)
	clock.Advance(2 * time.Second)

	frames := cmd.positions(1)
	assert.InDelta(t, 800.0, frames[len(frames)-1], 1e-9)
	// No frame ever jumps back toward the original start.
	for i := len(mid); i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i], lastBeforeRetarget-1e-9)
	}
}

func TestProgrammaticScrollsDoNotEcho(t *testing.T) {
	c, clock, _, cmd := newCoordinator(t, 2)

	c.HandleScrollUpdate(0, 400)
	clock.Advance(150 * time.Millisecond)
	clock.Advance(150 * time.Millisecond)

	// While pane 1 is being animated, its observer reports the
	// programmatic positions back. None of them may re-dispatch.
	clock.Advance(100 * time.Millisecond)
	echo := cmd.positions(1)
	require.NotEmpty(t, echo)
	c.HandleScrollUpdate(1, echo[len(echo)-1])
	clock.Advance(2 * time.Second)

	assert.Empty(t, cmd.positions(0), "echo must not come back to the original sender")
}
