package config

// Default configuration constants
const (
	// Layout defaults
	defaultGapPx            = 4
	defaultMinRenderWidthPx = 50
	defaultHeaderHeightPx   = 0

	// Scroll sync defaults
	defaultNoiseThreshold     = 5.0
	defaultSenderDebounceMs   = 150
	defaultReceiverDebounceMs = 150
	defaultAnimationMs        = 350
	defaultSyncedEpsilon      = 10.0

	// Focus defaults
	defaultDimmedOpacity = 0.12

	// Logging defaults
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			GapPx:            defaultGapPx,
			MinRenderWidthPx: defaultMinRenderWidthPx,
			HeaderHeightPx:   defaultHeaderHeightPx,
		},
		Scroll: ScrollConfig{
			NoiseThreshold:     defaultNoiseThreshold,
			SenderDebounceMs:   defaultSenderDebounceMs,
			ReceiverDebounceMs: defaultReceiverDebounceMs,
			AnimationMs:        defaultAnimationMs,
			SyncedEpsilon:      defaultSyncedEpsilon,
		},
		Focus: FocusConfig{
			DimmedOpacity: defaultDimmedOpacity,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Update: UpdateConfig{
			CheckOnStartup: true,
		},
	}
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("layout.gap_px", defaults.Layout.GapPx)
	m.viper.SetDefault("layout.min_render_width_px", defaults.Layout.MinRenderWidthPx)
	m.viper.SetDefault("layout.header_height_px", defaults.Layout.HeaderHeightPx)

	m.viper.SetDefault("scroll.noise_threshold", defaults.Scroll.NoiseThreshold)
	m.viper.SetDefault("scroll.sender_debounce_ms", defaults.Scroll.SenderDebounceMs)
	m.viper.SetDefault("scroll.receiver_debounce_ms", defaults.Scroll.ReceiverDebounceMs)
	m.viper.SetDefault("scroll.animation_ms", defaults.Scroll.AnimationMs)
	m.viper.SetDefault("scroll.synced_epsilon", defaults.Scroll.SyncedEpsilon)

	m.viper.SetDefault("focus.dimmed_opacity", defaults.Focus.DimmedOpacity)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	m.viper.SetDefault("update.check_on_startup", defaults.Update.CheckOnStartup)
}
