// Package prefs persists the player's menu selection and name between runs.
package prefs

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bullethell/internal/config"
)

// AppName is the gdata application directory.
const AppName = "tui_bullethell"

const (
	prefsObject   = "prefs"
	prefsProperty = "player"
)

// Preferences is what the menu remembers.
type Preferences struct {
	PlayerName string          `yaml:"player_name"`
	Mode       string          `yaml:"mode"`
	Settings   config.Settings `yaml:"settings"`
}

// Default returns the preferences used before anything was saved.
func Default() Preferences {
	return Preferences{
		Mode:     "practice",
		Settings: config.DefaultSettings(),
	}
}

// Manager loads and saves Preferences through gdata.
// A Manager without a gdata backend only keeps defaults.
type Manager struct {
	data *gdata.Manager // nil in degraded mode
}

// Open opens the gdata store for appName. When the platform has no usable
// data directory it returns a degraded Manager and the error.
func Open(appName string) (*Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return &Manager{}, fmt.Errorf("prefs: cannot open data store: %w", err)
	}
	return &Manager{data: m}, nil
}

// NewManager wraps an existing gdata manager, which may be nil.
func NewManager(data *gdata.Manager) *Manager {
	return &Manager{data: data}
}

// Persistent reports whether saves reach disk.
func (m *Manager) Persistent() bool {
	return m != nil && m.data != nil
}

// Load returns the saved preferences, or defaults when none are stored or
// the stored data cannot be read.
func (m *Manager) Load() Preferences {
	if !m.Persistent() || !m.data.ObjectPropExists(prefsObject, prefsProperty) {
		return Default()
	}

	data, err := m.data.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		log.Warn("cannot load preferences, using defaults", "err", err)
		return Default()
	}

	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		log.Warn("cannot parse preferences, using defaults", "err", err)
		return Default()
	}
	return p
}

// Save stores p. It is a no-op in degraded mode.
func (m *Manager) Save(p Preferences) error {
	if !m.Persistent() {
		return nil
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefs: cannot marshal preferences: %w", err)
	}
	if err := m.data.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("prefs: cannot save preferences: %w", err)
	}
	return nil
}
