package config

import "github.com/bnema/socdeck/internal/domain/entity"

// Config represents the complete configuration for socdeck.
type Config struct {
	// Platforms overrides the built-in deck. An empty list keeps the
	// defaults.
	Platforms []PlatformConfig `mapstructure:"platforms" yaml:"platforms" toml:"platforms"`
	Layout    LayoutConfig     `mapstructure:"layout" yaml:"layout" toml:"layout"`
	Scroll    ScrollConfig     `mapstructure:"scroll" yaml:"scroll" toml:"scroll"`
	Focus     FocusConfig      `mapstructure:"focus" yaml:"focus" toml:"focus"`
	Logging   LoggingConfig    `mapstructure:"logging" yaml:"logging" toml:"logging"`
	Update    UpdateConfig     `mapstructure:"update" yaml:"update" toml:"update"`
}

// PlatformConfig describes one feed column.
type PlatformConfig struct {
	// Name is the short identifier used in logs and the control surface.
	Name string `mapstructure:"name" yaml:"name" toml:"name"`
	// Origin is the URL loaded at startup; navigation is locked to its host.
	Origin string `mapstructure:"origin" yaml:"origin" toml:"origin"`
	// DetailPatterns are path patterns marking individual content items.
	DetailPatterns []string `mapstructure:"detail_patterns" yaml:"detail_patterns" toml:"detail_patterns"`
}

// LayoutConfig controls column geometry.
type LayoutConfig struct {
	// GapPx is the horizontal gap between adjacent columns in pixels.
	GapPx int `mapstructure:"gap_px" yaml:"gap_px" toml:"gap_px"`
	// MinRenderWidthPx is the floor on a rendered column's width.
	MinRenderWidthPx int `mapstructure:"min_render_width_px" yaml:"min_render_width_px" toml:"min_render_width_px"`
	// HeaderHeightPx is an extra top inset above the columns, for
	// deployments drawing their own in-canvas header.
	HeaderHeightPx int `mapstructure:"header_height_px" yaml:"header_height_px" toml:"header_height_px"`
}

// ScrollConfig controls the scroll synchronization timings.
type ScrollConfig struct {
	// NoiseThreshold drops scroll deltas smaller than this many units.
	NoiseThreshold float64 `mapstructure:"noise_threshold" yaml:"noise_threshold" toml:"noise_threshold"`
	// SenderDebounceMs is the quiet window before a position is dispatched.
	SenderDebounceMs int `mapstructure:"sender_debounce_ms" yaml:"sender_debounce_ms" toml:"sender_debounce_ms"`
	// ReceiverDebounceMs is the quiet window before a command animates.
	ReceiverDebounceMs int `mapstructure:"receiver_debounce_ms" yaml:"receiver_debounce_ms" toml:"receiver_debounce_ms"`
	// AnimationMs is the length of the smooth scroll.
	AnimationMs int `mapstructure:"animation_ms" yaml:"animation_ms" toml:"animation_ms"`
	// SyncedEpsilon treats targets this close to the current position as
	// already synced.
	SyncedEpsilon float64 `mapstructure:"synced_epsilon" yaml:"synced_epsilon" toml:"synced_epsilon"`
}

// FocusConfig controls focus dimming.
type FocusConfig struct {
	// DimmedOpacity is the opacity of unfocused columns while focus mode
	// is active, in (0, 1).
	DimmedOpacity float64 `mapstructure:"dimmed_opacity" yaml:"dimmed_opacity" toml:"dimmed_opacity"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level" toml:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format" yaml:"format" toml:"format"`
}

// UpdateConfig controls release checking.
type UpdateConfig struct {
	// CheckOnStartup enables the silent update check at launch.
	CheckOnStartup bool `mapstructure:"check_on_startup" yaml:"check_on_startup" toml:"check_on_startup"`
}

// PlatformEntities converts the configured platforms to domain entities,
// falling back to the built-in deck when none are configured.
func (c *Config) PlatformEntities() []entity.Platform {
	if len(c.Platforms) == 0 {
		return entity.DefaultPlatforms()
	}
	out := make([]entity.Platform, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		out = append(out, entity.Platform{
			Name:           p.Name,
			Origin:         p.Origin,
			DetailPatterns: append([]string(nil), p.DetailPatterns...),
		})
	}
	return out
}
