// Package settings persists per-user client preferences.
package settings

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application directory.
const AppName = "codexrpg_client"

const (
	settingsObject   = "settings"
	settingsProperty = "user"

	// VolumeStep is the change applied by one volume key press.
	VolumeStep = 0.1
)

// Settings are the user preferences stored between sessions.
type Settings struct {
	Volume       float64 `yaml:"volume"` // 0.0 - 1.0
	SoundEnabled bool    `yaml:"soundEnabled"`
	DebugPaths   bool    `yaml:"debugPaths"`
}

// Default returns the initial preferences.
func Default() *Settings {
	return &Settings{
		Volume:       0.8,
		SoundEnabled: true,
	}
}

// Manager loads and saves Settings. A nil gdata manager keeps everything in
// memory.
type Manager struct {
	store    *gdata.Manager
	settings *Settings
	log      *zap.Logger
}

// Open creates the gdata store for AppName. On failure it returns nil and the
// error; callers may continue with a nil store.
func Open() (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	return m, nil
}

// NewManager loads saved settings, falling back to defaults.
func NewManager(store *gdata.Manager, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{store: store, settings: Default(), log: log}
	if err := m.Load(); err != nil {
		log.Warn("settings load failed, using defaults", zap.Error(err))
	}
	return m
}

// Load reads the stored settings. Missing data yields defaults.
func (m *Manager) Load() error {
	if m.store == nil || !m.store.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = Default()
		return nil
	}
	data, err := m.store.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = Default()
		return fmt.Errorf("load settings: %w", err)
	}
	loaded := Default()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		m.settings = Default()
		return fmt.Errorf("unmarshal settings: %w", err)
	}
	loaded.Volume = clampVolume(loaded.Volume)
	m.settings = loaded
	m.log.Debug("settings loaded", zap.Float64("volume", loaded.Volume))
	return nil
}

// Save writes the current settings. It is a no-op without a store.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}
	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := m.store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings { return *m.settings }

// Volume is the effective gain: zero when sound is disabled.
func (m *Manager) Volume() float64 {
	if !m.settings.SoundEnabled {
		return 0
	}
	return m.settings.Volume
}

// SetVolume clamps v to [0,1].
func (m *Manager) SetVolume(v float64) { m.settings.Volume = clampVolume(v) }

// AdjustVolume adds delta steps of VolumeStep and persists the result.
func (m *Manager) AdjustVolume(steps int) error {
	m.SetVolume(m.settings.Volume + float64(steps)*VolumeStep)
	return m.Save()
}

// SetSoundEnabled toggles all sound effects.
func (m *Manager) SetSoundEnabled(on bool) { m.settings.SoundEnabled = on }

// ToggleSound flips SoundEnabled and persists the result.
func (m *Manager) ToggleSound() error {
	m.SetSoundEnabled(!m.settings.SoundEnabled)
	return m.Save()
}

// SoundEnabled reports whether effects are audible.
func (m *Manager) SoundEnabled() bool { return m.settings.SoundEnabled }

// SetDebugPaths records the path overlay preference.
func (m *Manager) SetDebugPaths(on bool) { m.settings.DebugPaths = on }

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	// Round away float drift from repeated steps.
	return float64(int(v*100+0.5)) / 100
}
