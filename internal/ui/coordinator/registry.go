package coordinator

import (
	"context"
	"net/url"
	"strings"

	"github.com/bnema/socdeck/internal/app/messaging"
	"github.com/bnema/socdeck/internal/domain/classify"
	"github.com/bnema/socdeck/internal/domain/entity"
	"github.com/bnema/socdeck/internal/logging"
	"github.com/bnema/socdeck/internal/ui/focus"
)

// PaneHost is what the coordinator needs from an embedded pane. The
// concrete implementation wraps a web view; tests substitute a recorder.
type PaneHost interface {
	// SetBounds positions the pane inside the window. The zero rect
	// removes it from layout without unloading its page.
	SetBounds(rect entity.Rect)
	// Send delivers a host->pane envelope. Sends to a dead pane must be
	// silent no-ops.
	Send(msg messaging.Message)
	// LoadURL starts a navigation to url.
	LoadURL(url string)
	// IsAlive reports whether the underlying view still exists.
	IsAlive() bool
}

// AttachPane registers the pane for source index, stamps it with its index
// and loads the platform's origin. One pane per platform; attaching over an
// existing pane replaces the handle.
func (c *Coordinator) AttachPane(ctx context.Context, index int, pane PaneHost) {
	c.mu.Lock()
	if index < 0 || index >= len(c.panes) {
		c.mu.Unlock()
		logging.FromContext(ctx).Warn().Int("pane_index", index).Msg("attach ignored, index out of range")
		return
	}
	c.panes[index] = pane
	origin := c.set.Platforms[index].Origin
	grayscale := c.grayscale
	c.mu.Unlock()

	c.send(pane, messaging.TypeSetViewIndex, messaging.SetViewIndexPayload{Index: index})
	if grayscale {
		c.send(pane, messaging.TypeGrayscaleModeChanged, messaging.EnabledPayload{Enabled: true})
	}
	pane.LoadURL(origin)

	logging.FromContext(ctx).Info().Int("pane_index", index).Str("url", origin).Msg("pane attached")
}

// HandleNavigation records a committed navigation (full or same-document),
// refreshes the pane's feed/detail classification and replays the
// per-document state. The injected bridge starts every document with index
// -1, full opacity and no filter, so whatever the host knows about this
// pane must be pushed again.
func (c *Coordinator) HandleNavigation(ctx context.Context, index int, rawURL string) {
	c.mu.Lock()
	if index < 0 || index >= len(c.runtimes) {
		c.mu.Unlock()
		return
	}
	kind := classify.Classify(rawURL, c.set.Platforms[index])
	changed := c.runtimes[index].OnDetailPage != (kind == entity.PageDetail)
	c.runtimes[index].OnDetailPage = kind == entity.PageDetail
	pane := c.panes[index]
	grayscale := c.grayscale
	opacity := c.runtimes[index].Opacity
	c.mu.Unlock()

	c.send(pane, messaging.TypeSetViewIndex, messaging.SetViewIndexPayload{Index: index})
	if grayscale {
		c.send(pane, messaging.TypeGrayscaleModeChanged, messaging.EnabledPayload{Enabled: true})
	}
	if opacity != focus.OpacityFocused {
		c.send(pane, messaging.TypeSetViewOpacity, messaging.SetViewOpacityPayload{Opacity: opacity})
	}

	if changed {
		logging.FromContext(ctx).Debug().
			Int("pane_index", index).
			Str("url", rawURL).
			Str("kind", kind.String()).
			Msg("pane page kind changed")
	}
}

// DecideNavigation is the origin lock: navigations staying on the pane's
// platform host proceed in place, everything else is handed to the external
// opener and blocked. Returns true when the pane may navigate.
func (c *Coordinator) DecideNavigation(ctx context.Context, index int, rawURL string) bool {
	c.mu.Lock()
	if index < 0 || index >= len(c.panes) {
		c.mu.Unlock()
		return false
	}
	origin := c.set.Platforms[index].Origin
	c.mu.Unlock()

	if sameHost(origin, rawURL) {
		return true
	}

	logging.FromContext(ctx).Info().
		Int("pane_index", index).
		Str("url", rawURL).
		Msg("external navigation opened outside the deck")
	if c.opener != nil {
		c.opener.OpenExternal(rawURL)
	}
	return false
}

// sameHost compares the hosts of two URLs, treating "www." as transparent.
// Unparseable or non-web URLs never count as same-host.
func sameHost(a, b string) bool {
	ha, oka := hostOf(a)
	hb, okb := hostOf(b)
	return oka && okb && ha == hb
}

func hostOf(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}
	return host, true
}
