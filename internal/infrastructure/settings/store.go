// Package settings persists the cross-session preferences document as
// local JSON. Reads never fail: invalid fields fall back to their defaults
// one by one, a missing or corrupt file yields the full default document.
// Writes follow read-merge-validate-write and overwrite the whole file.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/socdeck/internal/application/port"
	"github.com/bnema/socdeck/internal/domain/entity"
	"github.com/bnema/socdeck/internal/domain/layout"
	"github.com/bnema/socdeck/internal/logging"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store is a file-backed port.SettingsStore. Last writer wins; the file is
// not guarded against concurrent external modification, which is acceptable
// for a single-process desktop shell.
type Store struct {
	path      string
	paneCount int
	logger    zerolog.Logger

	mu sync.Mutex
}

var _ port.SettingsStore = (*Store)(nil)

// NewStore creates a store persisting to path for a deck of paneCount panes.
func NewStore(ctx context.Context, path string, paneCount int) *Store {
	log := logging.FromContext(ctx).With().Str("component", "settings-store").Logger()
	return &Store{path: path, paneCount: paneCount, logger: log}
}

// Load reads the settings document, sanitizing field by field.
func (s *Store) Load() entity.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() entity.Settings {
	defaults := entity.DefaultSettings(s.paneCount)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("settings unreadable, using defaults")
		}
		return defaults
	}

	var doc entity.Settings
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("settings corrupt, using defaults")
		return defaults
	}

	return s.sanitize(doc, defaults)
}

// sanitize replaces each schema-invalid field with its default, keeping the
// valid ones. Corruption in one field never discards the others.
func (s *Store) sanitize(doc, defaults entity.Settings) entity.Settings {
	out := doc
	out.Version = entity.SettingsVersion

	if !layout.IsValidPermutation(doc.Order, s.paneCount) {
		s.logger.Debug().Ints("order", doc.Order).Msg("discarding invalid order field")
		out.Order = defaults.Order
	}

	if !validVisibility(doc.Visibility, s.paneCount) {
		s.logger.Debug().Bools("visibility", doc.Visibility).Msg("discarding invalid visibility field")
		out.Visibility = defaults.Visibility
	}

	return out
}

// Save merges partial into the current on-disk document, re-validates and
// writes the full document.
func (s *Store) Save(partial port.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked()

	if partial.Order != nil {
		doc.Order = append([]int(nil), partial.Order...)
	}
	if partial.Visibility != nil {
		doc.Visibility = append([]bool(nil), partial.Visibility...)
	}
	if partial.ScrollSyncEnabled != nil {
		doc.ScrollSyncEnabled = *partial.ScrollSyncEnabled
	}
	if partial.FocusModeEnabled != nil {
		doc.FocusModeEnabled = *partial.FocusModeEnabled
	}
	if partial.GrayscaleModeEnabled != nil {
		doc.GrayscaleModeEnabled = *partial.GrayscaleModeEnabled
	}

	doc = s.sanitize(doc, entity.DefaultSettings(s.paneCount))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func validVisibility(visibility []bool, n int) bool {
	if len(visibility) != n {
		return false
	}
	for _, v := range visibility {
		if v {
			return true
		}
	}
	return false
}
