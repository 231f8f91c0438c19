// Package webkit hosts the WebKitGTK panes and the JS bridge they talk
// through. Everything here is a thin adapter: decoded messages go straight
// to the coordinator's router, commands come back as small injected scripts.
package webkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/diamondburned/gotk4-webkitgtk/pkg/javascriptcore/v6"
	webkit "github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"

	"github.com/bnema/socdeck/internal/app/messaging"
	"github.com/bnema/socdeck/internal/domain/entity"
	"github.com/bnema/socdeck/internal/logging"
	"github.com/bnema/socdeck/internal/ui/coordinator"
)

// Callbacks are the pane's upward wiring into the coordinator.
type Callbacks struct {
	// OnMessage receives the raw JSON envelope posted by the bridge.
	OnMessage func(raw string)
	// DecideNavigation is consulted before every main-frame navigation;
	// returning false blocks it in the pane.
	DecideNavigation func(url string) bool
	// OnNavigated fires after the pane's URI changes, including
	// same-document navigations.
	OnNavigated func(url string)
}

// Pane wraps one WebKitGTK web view. It implements coordinator.PaneHost.
type Pane struct {
	view   *webkit.WebView
	fixed  *gtk.Fixed
	logger zerolog.Logger

	mu        sync.Mutex
	destroyed bool
	inLayout  bool
}

var _ coordinator.PaneHost = (*Pane)(nil)

// NewPane creates a web view wired to the given callbacks. Must be called
// on the GTK main thread.
func NewPane(ctx context.Context, cb Callbacks) (*Pane, error) {
	log := logging.FromContext(ctx).With().Str("component", "webkit-pane").Logger()

	view := webkit.NewWebView()
	if view == nil {
		return nil, fmt.Errorf("webkit: failed to create web view")
	}

	p := &Pane{view: view, logger: log}

	settings := view.Settings()
	if settings == nil {
		return nil, fmt.Errorf("webkit: failed to get settings")
	}
	settings.SetEnableJavascript(true)
	settings.SetHardwareAccelerationPolicy(webkit.HardwareAccelerationPolicyAlways)

	ucm := view.UserContentManager()
	if ucm == nil {
		return nil, fmt.Errorf("webkit: user content manager is nil")
	}

	ucm.AddScript(webkit.NewUserScript(
		bridgeScript,
		webkit.UserContentInjectTopFrame,
		webkit.UserScriptInjectAtDocumentStart,
		nil,
		nil,
	))

	// Connect before registering the handler, per WebKit's docs.
	ucm.ConnectScriptMessageReceived(func(value *javascriptcore.Value) {
		if cb.OnMessage == nil || value == nil {
			return
		}
		raw := value.ToString()
		if raw == "" {
			return
		}
		cb.OnMessage(raw)
	})
	if !ucm.RegisterScriptMessageHandler(MessageHandlerName, "") {
		return nil, fmt.Errorf("webkit: failed to register script message handler %q", MessageHandlerName)
	}

	view.Connect("notify::uri", func() {
		if cb.OnNavigated == nil {
			return
		}
		if uri := view.URI(); uri != "" {
			cb.OnNavigated(uri)
		}
	})

	view.ConnectDecidePolicy(func(decision webkit.PolicyDecisioner, decisionType webkit.PolicyDecisionType) bool {
		if decisionType != webkit.PolicyDecisionTypeNavigationAction || cb.DecideNavigation == nil {
			return false
		}
		nav, ok := decision.(*webkit.NavigationPolicyDecision)
		if !ok {
			return false
		}
		action := nav.NavigationAction()
		if action == nil {
			return false
		}
		request := action.Request()
		if request == nil {
			return false
		}
		if cb.DecideNavigation(request.URI()) {
			return false
		}
		nav.Ignore()
		return true
	})

	return p, nil
}

// AttachTo places the pane inside the window's fixed-position container.
// Must be called on the GTK main thread.
func (p *Pane) AttachTo(fixed *gtk.Fixed) {
	p.mu.Lock()
	p.fixed = fixed
	p.mu.Unlock()
	fixed.Put(p.view, 0, 0)
}

// SetBounds positions the pane. The zero rect removes it from layout
// without unloading its page.
func (p *Pane) SetBounds(rect entity.Rect) {
	p.mu.Lock()
	if p.destroyed || p.fixed == nil {
		p.mu.Unlock()
		return
	}
	fixed := p.fixed
	p.mu.Unlock()

	coreglib.IdleAdd(func() {
		if rect.IsZero() {
			p.view.SetVisible(false)
			return
		}
		p.view.SetVisible(true)
		fixed.Move(p.view, float64(rect.X), float64(rect.Y))
		p.view.SetSizeRequest(rect.W, rect.H)
	})
}

// Send delivers a host->pane envelope through the bridge. Safe to call
// from any goroutine; dead panes are silent no-ops.
func (p *Pane) Send(msg messaging.Message) {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error().Err(err).Str("type", msg.Type).Msg("failed to marshal envelope")
		return
	}
	script := fmt.Sprintf("window.__socdeck && window.__socdeck.receive(%s);", data)
	p.evaluate(script)
}

// LoadURL starts a navigation.
func (p *Pane) LoadURL(url string) {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	coreglib.IdleAdd(func() {
		p.view.LoadURI(url)
	})
}

// IsAlive reports whether the underlying view still exists.
func (p *Pane) IsAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.destroyed
}

// Destroy removes the pane from its container and marks it dead.
func (p *Pane) Destroy() {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.destroyed = true
	fixed := p.fixed
	p.mu.Unlock()

	coreglib.IdleAdd(func() {
		if fixed != nil {
			fixed.Remove(p.view)
		}
	})
}

// evaluate runs a script in the pane off the caller's goroutine. The
// blocking gotk4 wrapper marshals onto the GTK main loop internally, so it
// must never be awaited from the main thread itself.
func (p *Pane) evaluate(script string) {
	go func() {
		_, err := p.view.EvaluateJavascript(context.Background(), script, len(script), "", "")
		if err != nil {
			p.logger.Debug().Err(err).Msg("script evaluation failed")
		}
	}()
}
