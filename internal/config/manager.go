package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager reading config.toml from the
// XDG config directory, with SOCDECK_* environment overrides.
func NewManager() (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // current directory for development

	v.SetEnvPrefix("SOCDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names for the commonly overridden logging vars.
	if err := v.BindEnv("logging.level", "SOCDECK_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind SOCDECK_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "SOCDECK_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind SOCDECK_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load reads the configuration from file and environment. A missing config
// file is created with the defaults, alongside its JSON schema.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config := DefaultConfig()
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config file: %w\nCheck the file format (must be valid TOML) and permissions", err)
	}

	configFile, pathErr := GetConfigFile()
	if pathErr != nil {
		return pathErr
	}
	if writeErr := m.viper.SafeWriteConfigAs(configFile); writeErr != nil {
		return fmt.Errorf("failed to create default config at %s: %w", configFile, writeErr)
	}
	if schemaErr := GenerateSchemaFile(); schemaErr != nil {
		// The schema is a convenience for editors, not a requirement.
		return nil
	}
	return m.viper.ReadInConfig()
}

// Get returns the loaded configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnConfigChange registers a callback invoked after every live reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}
