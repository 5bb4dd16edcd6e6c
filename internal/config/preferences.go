package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the preferences file format version
const CurrentVersion = 1

// Preferences are the user's persistent CLI and TUI settings.
type Preferences struct {
	Version int `yaml:"version"`

	// ServerURL is the fluxvision-server base URL. Empty runs in local mode,
	// "auto" discovers a server over mDNS.
	ServerURL string `yaml:"server_url,omitempty"`

	// DiscoverTimeout is the mDNS browse timeout in seconds.
	DiscoverTimeout int `yaml:"discover_timeout"`

	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultPreferences returns the settings used when no file exists.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Version:         CurrentVersion,
		DiscoverTimeout: 5,
	}
}

// DiscoverDuration returns DiscoverTimeout as a duration, falling back to
// the default for non-positive values.
func (p *Preferences) DiscoverDuration() time.Duration {
	if p.DiscoverTimeout <= 0 {
		return time.Duration(DefaultPreferences().DiscoverTimeout) * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// LoadPreferences reads the preferences file from the configuration
// directory, returning defaults when it does not exist.
func LoadPreferences() (*Preferences, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadPreferencesFile(path)
}

// LoadPreferencesFile reads preferences from path.
func LoadPreferencesFile(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	prefs := DefaultPreferences()
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if prefs.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", prefs.Version, CurrentVersion)
	}
	return prefs, nil
}

// Save writes the preferences to the configuration directory.
func (p *Preferences) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return p.SaveFile(path)
}

// SaveFile writes the preferences to path atomically.
func (p *Preferences) SaveFile(path string) error {
	if p.Version == 0 {
		p.Version = CurrentVersion
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# FluxVision preferences\n" +
		"# InfluxDB credentials are kept separately in " + credentialsFile + ".\n\n")
	if err := writeFileAtomic(path, append(header, data...), 0600); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
