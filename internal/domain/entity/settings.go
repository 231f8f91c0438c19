package entity

// SettingsVersion is the current schema version for the settings document.
// Increment when making breaking changes to the serialization format.
const SettingsVersion = 1

// Settings is the persisted cross-session preferences document. It is
// local-only JSON, schema-validated on read with per-field default fallback.
type Settings struct {
	Version              int    `json:"version"`
	Order                []int  `json:"order"`
	Visibility           []bool `json:"visibility"`
	ScrollSyncEnabled    bool   `json:"scroll_sync_enabled"`
	FocusModeEnabled     bool   `json:"focus_mode_enabled"`
	GrayscaleModeEnabled bool   `json:"grayscale_mode_enabled"`
}

// DefaultSettings returns the defaults for a deck of n platforms: identity
// order, everything visible, all modes off except scroll sync.
func DefaultSettings(n int) Settings {
	order := make([]int, n)
	visibility := make([]bool, n)
	for i := range order {
		order[i] = i
		visibility[i] = true
	}
	return Settings{
		Version:           SettingsVersion,
		Order:             order,
		Visibility:        visibility,
		ScrollSyncEnabled: true,
	}
}
