package config

import (
	"fmt"
	"net/url"
)

// validateConfig rejects configurations that would break the deck at
// runtime. Validation is strict on load; the settings document is the
// forgiving layer, the config file is not.
func validateConfig(c *Config) error {
	for i, p := range c.Platforms {
		if p.Name == "" {
			return fmt.Errorf("platforms[%d]: name is required", i)
		}
		u, err := url.Parse(p.Origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("platforms[%d] (%s): origin must be an http(s) URL, got %q", i, p.Name, p.Origin)
		}
	}

	if c.Layout.GapPx < 0 {
		return fmt.Errorf("layout.gap_px must be >= 0, got %d", c.Layout.GapPx)
	}
	if c.Layout.MinRenderWidthPx <= 0 {
		return fmt.Errorf("layout.min_render_width_px must be > 0, got %d", c.Layout.MinRenderWidthPx)
	}
	if c.Layout.HeaderHeightPx < 0 {
		return fmt.Errorf("layout.header_height_px must be >= 0, got %d", c.Layout.HeaderHeightPx)
	}

	if c.Scroll.NoiseThreshold < 0 {
		return fmt.Errorf("scroll.noise_threshold must be >= 0, got %g", c.Scroll.NoiseThreshold)
	}
	if c.Scroll.SenderDebounceMs <= 0 || c.Scroll.ReceiverDebounceMs <= 0 {
		return fmt.Errorf("scroll debounce windows must be > 0")
	}
	if c.Scroll.AnimationMs <= 0 {
		return fmt.Errorf("scroll.animation_ms must be > 0, got %d", c.Scroll.AnimationMs)
	}
	if c.Scroll.SyncedEpsilon < 0 {
		return fmt.Errorf("scroll.synced_epsilon must be >= 0, got %g", c.Scroll.SyncedEpsilon)
	}

	if c.Focus.DimmedOpacity <= 0 || c.Focus.DimmedOpacity >= 1 {
		return fmt.Errorf("focus.dimmed_opacity must be in (0, 1), got %g", c.Focus.DimmedOpacity)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}
