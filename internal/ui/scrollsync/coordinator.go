// Package scrollsync coordinates scroll position across panes. Each pane's
// raw scroll offsets flow in through HandleScrollUpdate; after sender-side
// debouncing and the eligibility rules, the target offset fans out to every
// other eligible pane, where it is debounced again and smoothly animated.
//
// The double debounce is intentional: bursts from several panes scrolling at
// once collapse into a small number of coherent animations instead of
// oscillating feedback.
package scrollsync

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/bnema/socdeck/internal/application/usecase"
	"github.com/bnema/socdeck/internal/logging"
	"github.com/rs/zerolog"
)

// Config holds the tunable timings and thresholds.
type Config struct {
	// NoiseThreshold drops scroll deltas smaller than this many units.
	NoiseThreshold float64
	// SenderDebounce is the trailing quiet window before a pane's scroll
	// position is dispatched.
	SenderDebounce time.Duration
	// ReceiverDebounce is the trailing quiet window before a received
	// command starts animating.
	ReceiverDebounce time.Duration
	// AnimationDuration is the length of the ease-out-cubic scroll.
	AnimationDuration time.Duration
	// FrameInterval is the spacing of animation frames.
	FrameInterval time.Duration
	// Cooldown keeps a pane's own observer suppressed briefly after an
	// animation finishes, so the trailing echo of the last programmatic
	// scroll is not mistaken for user input.
	Cooldown time.Duration
	// SyncedEpsilon treats targets within this many units of the current
	// position as already synced.
	SyncedEpsilon float64
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		NoiseThreshold:    5,
		SenderDebounce:    150 * time.Millisecond,
		ReceiverDebounce:  150 * time.Millisecond,
		AnimationDuration: 350 * time.Millisecond,
		FrameInterval:     16 * time.Millisecond,
		Cooldown:          10 * time.Millisecond,
		SyncedEpsilon:     10,
	}
}

// StateProvider answers the eligibility questions at dispatch time.
type StateProvider interface {
	SyncEnabled() bool
	OnDetail(index int) bool
	Visible(index int) bool
}

// Commander delivers a scroll command to a pane. Sends to dead panes must
// be silent no-ops on the implementer's side.
type Commander interface {
	ScrollTo(index int, y float64)
}

// senderState is the per-pane sending half: Idle -> PendingSync (debounced)
// -> Dispatched. All fields are owned explicitly per pane; there is no
// shared module-level timer state.
type senderState struct {
	lastReported  float64
	pendingY      float64
	pending       Timer
	animating     bool
	suppressUntil time.Time
}

// receiverState is the per-pane receiving half: incoming command debounce
// plus the in-flight animation target.
type receiverState struct {
	currentY float64
	pendingY float64
	pending  Timer

	// Animation state. A new command retargets instead of restarting.
	animStart   float64
	animTarget  float64
	animBegan   time.Time
	animFrame   Timer
	animRunning bool
}

// Coordinator owns the sender and receiver state for every pane.
type Coordinator struct {
	cfg      Config
	clock    Clock
	provider StateProvider
	cmd      Commander
	logger   zerolog.Logger

	mu        sync.Mutex
	senders   []senderState
	receivers []receiverState
	stopped   bool
}

// New creates a coordinator for paneCount panes.
func New(ctx context.Context, paneCount int, cfg Config, clock Clock, provider StateProvider, cmd Commander) *Coordinator {
	if clock == nil {
		clock = NewClock()
	}
	log := logging.FromContext(ctx).With().Str("component", "scroll-sync").Logger()

	return &Coordinator{
		cfg:       cfg,
		clock:     clock,
		provider:  provider,
		cmd:       cmd,
		logger:    log,
		senders:   make([]senderState, paneCount),
		receivers: make([]receiverState, paneCount),
	}
}

// HandleScrollUpdate feeds one raw scroll observation from a pane. Programmatic
// scrolls caused by our own animations and sub-threshold jitter are dropped;
// genuine user scrolls restart the trailing debounce so only the last
// position in the quiet window is dispatched.
func (c *Coordinator) HandleScrollUpdate(index int, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || index < 0 || index >= len(c.senders) {
		return
	}

	s := &c.senders[index]
	r := &c.receivers[index]

	// The pane's own offset is tracked regardless, so receiver-side
	// epsilon checks always compare against fresh positions.
	r.currentY = y

	if s.animating || c.clock.Now().Before(s.suppressUntil) {
		return
	}

	if math.Abs(y-s.lastReported) < c.cfg.NoiseThreshold {
		return
	}

	s.pendingY = y
	if s.pending != nil {
		s.pending.Stop()
	}
	s.pending = c.clock.AfterFunc(c.cfg.SenderDebounce, func() {
		c.dispatchFrom(index)
	})
}

// dispatchFrom runs after a pane's quiet window: evaluate eligibility once,
// then fan the position out to every eligible receiver.
func (c *Coordinator) dispatchFrom(index int) {
	c.mu.Lock()

	if c.stopped || index >= len(c.senders) {
		c.mu.Unlock()
		return
	}

	s := &c.senders[index]
	s.pending = nil
	y := s.pendingY
	s.lastReported = y

	if !usecase.ShouldPropagate(c.provider.SyncEnabled(), c.provider.OnDetail(index)) {
		c.mu.Unlock()
		c.logger.Debug().Int("pane_index", index).Msg("scroll update dropped, sender ineligible")
		return
	}

	visible := make([]bool, len(c.senders))
	onDetail := make([]bool, len(c.senders))
	for i := range c.senders {
		visible[i] = c.provider.Visible(i)
		onDetail[i] = c.provider.OnDetail(i)
	}
	receivers := usecase.EligibleReceivers(index, visible, onDetail)

	for _, target := range receivers {
		c.enqueueCommand(target, y)
	}
	c.mu.Unlock()

	c.logger.Debug().Int("pane_index", index).Float64("y", y).Ints("receivers", receivers).Msg("scroll dispatched")
}

// enqueueCommand debounces an incoming command for one receiving pane.
// Must be called with the lock held.
func (c *Coordinator) enqueueCommand(index int, y float64) {
	r := &c.receivers[index]
	r.pendingY = y
	if r.pending != nil {
		r.pending.Stop()
	}
	r.pending = c.clock.AfterFunc(c.cfg.ReceiverDebounce, func() {
		c.beginAnimation(index)
	})
}

// beginAnimation starts or retargets the smooth scroll for one pane.
func (c *Coordinator) beginAnimation(index int) {
	c.mu.Lock()

	if c.stopped || index >= len(c.receivers) {
		c.mu.Unlock()
		return
	}

	r := &c.receivers[index]
	r.pending = nil
	target := r.pendingY

	if math.Abs(target-r.currentY) < c.cfg.SyncedEpsilon && !r.animRunning {
		c.mu.Unlock()
		return
	}

	if r.animRunning {
		// Retarget: continue from the animation's current position
		// rather than snapping back to where it began.
		r.animStart = c.animatedPosition(r)
	} else {
		r.animStart = r.currentY
		c.senders[index].animating = true
	}
	r.animTarget = target
	r.animBegan = c.clock.Now()
	r.animRunning = true

	if r.animFrame != nil {
		r.animFrame.Stop()
	}
	r.animFrame = c.clock.AfterFunc(c.cfg.FrameInterval, func() {
		c.stepAnimation(index)
	})
	c.mu.Unlock()
}

// stepAnimation advances one frame, issuing a scroll command at the eased
// position and chaining the next frame until the duration elapses.
func (c *Coordinator) stepAnimation(index int) {
	c.mu.Lock()

	if c.stopped || index >= len(c.receivers) {
		c.mu.Unlock()
		return
	}

	r := &c.receivers[index]
	if !r.animRunning {
		c.mu.Unlock()
		return
	}

	pos := c.animatedPosition(r)
	done := c.clock.Now().Sub(r.animBegan) >= c.cfg.AnimationDuration
	if done {
		pos = r.animTarget
		r.animRunning = false
		r.animFrame = nil
		r.currentY = pos
		c.senders[index].suppressUntil = c.clock.Now().Add(c.cfg.Cooldown)
		c.senders[index].animating = false
		c.senders[index].lastReported = pos
	} else {
		r.currentY = pos
		r.animFrame = c.clock.AfterFunc(c.cfg.FrameInterval, func() {
			c.stepAnimation(index)
		})
	}
	cmd := c.cmd
	c.mu.Unlock()

	if cmd != nil {
		cmd.ScrollTo(index, pos)
	}
}

// animatedPosition evaluates the ease-out-cubic curve at the current time.
// Must be called with the lock held.
func (c *Coordinator) animatedPosition(r *receiverState) float64 {
	elapsed := c.clock.Now().Sub(r.animBegan)
	if elapsed <= 0 {
		return r.animStart
	}
	if elapsed >= c.cfg.AnimationDuration {
		return r.animTarget
	}
	t := float64(elapsed) / float64(c.cfg.AnimationDuration)
	eased := 1 - math.Pow(1-t, 3)
	return r.animStart + (r.animTarget-r.animStart)*eased
}

// Stop cancels every pending timer and animation.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for i := range c.senders {
		if c.senders[i].pending != nil {
			c.senders[i].pending.Stop()
		}
	}
	for i := range c.receivers {
		if c.receivers[i].pending != nil {
			c.receivers[i].pending.Stop()
		}
		if c.receivers[i].animFrame != nil {
			c.receivers[i].animFrame.Stop()
		}
	}
}
