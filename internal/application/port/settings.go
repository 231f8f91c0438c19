// Package port defines interfaces for external dependencies.
package port

import "github.com/bnema/socdeck/internal/domain/entity"

// SettingsStore is the persisted cross-session preferences document.
// It is read once at startup and written on every committed mutation.
type SettingsStore interface {
	// Load returns the settings document. It never fails: missing or
	// schema-invalid fields are replaced with their defaults, a missing
	// or corrupt file yields the full default document.
	Load() entity.Settings

	// Save merges partial into the current document, re-validates, and
	// writes the full document. Last writer wins; the store is not
	// protected against concurrent external modification.
	Save(partial SettingsPatch) error
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	Order                []int
	Visibility           []bool
	ScrollSyncEnabled    *bool
	FocusModeEnabled     *bool
	GrayscaleModeEnabled *bool
}
