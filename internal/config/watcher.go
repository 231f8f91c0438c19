package config

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/socdeck/internal/logging"
)

// Watch starts watching the config file and reloads it on change. Reload
// failures keep the last valid configuration.
func (m *Manager) Watch(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return
	}

	m.viper.WatchConfig()
	log := logging.FromContext(ctx)
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config change detected")

		m.mu.Lock()

		config := DefaultConfig()
		if err := m.viper.Unmarshal(config); err != nil {
			m.mu.Unlock()
			log.Warn().Err(err).Msg("failed to reload config, keeping previous")
			return
		}
		if err := validateConfig(config); err != nil {
			m.mu.Unlock()
			log.Warn().Err(err).Msg("reloaded config invalid, keeping previous")
			return
		}

		m.config = config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.Unlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
}
