package settings

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	m, err := gdata.Open(gdata.Config{AppName: "codexrpg_settings_test"})
	if err != nil {
		t.Fatalf("gdata.Open: %v", err)
	}
	return m
}

func TestDefault(t *testing.T) {
	s := Default()
	if s.Volume != 0.8 || !s.SoundEnabled || s.DebugPaths {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestManager_NilStore(t *testing.T) {
	m := NewManager(nil, zap.NewNop())
	if err := m.AdjustVolume(1); err != nil {
		t.Fatalf("AdjustVolume without store: %v", err)
	}
	if m.Get().Volume != 0.9 {
		t.Fatalf("volume = %v, want 0.9", m.Get().Volume)
	}
}

func TestManager_VolumeClamped(t *testing.T) {
	m := NewManager(nil, nil)
	for i := 0; i < 20; i++ {
		_ = m.AdjustVolume(1)
	}
	if m.Get().Volume != 1 {
		t.Fatalf("volume = %v, want 1", m.Get().Volume)
	}
	for i := 0; i < 20; i++ {
		_ = m.AdjustVolume(-1)
	}
	if m.Get().Volume != 0 {
		t.Fatalf("volume = %v, want 0", m.Get().Volume)
	}
}

func TestManager_DisabledSoundIsSilent(t *testing.T) {
	m := NewManager(nil, nil)
	m.SetSoundEnabled(false)
	if m.Volume() != 0 {
		t.Fatalf("Volume() = %v, want 0 when disabled", m.Volume())
	}
}

func TestManager_PersistsAcrossInstances(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store, zap.NewNop())
	m.SetVolume(0.35)
	m.SetDebugPaths(true)
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again := NewManager(store, zap.NewNop())
	got := again.Get()
	if got.Volume != 0.35 || !got.DebugPaths {
		t.Fatalf("reloaded settings %+v", got)
	}
}

func TestManager_CorruptDataFallsBack(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveObjectProp(settingsObject, settingsProperty, []byte("volume: [oops")); err != nil {
		t.Fatalf("seed corrupt data: %v", err)
	}
	m := NewManager(store, zap.NewNop())
	if m.Get() != *Default() {
		t.Fatalf("expected defaults after corrupt data, got %+v", m.Get())
	}
}

func TestManager_ToggleSoundPersists(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store, nil)
	if err := m.ToggleSound(); err != nil {
		t.Fatalf("ToggleSound: %v", err)
	}
	if m.SoundEnabled() || m.Volume() != 0 {
		t.Fatalf("muted manager: enabled=%v volume=%v", m.SoundEnabled(), m.Volume())
	}

	reopened := NewManager(store, nil)
	if reopened.SoundEnabled() {
		t.Fatal("mute not persisted")
	}
	if err := reopened.ToggleSound(); err != nil {
		t.Fatalf("ToggleSound: %v", err)
	}
	if reopened.Volume() != 0.8 {
		t.Fatalf("unmuted volume = %v, want 0.8", reopened.Volume())
	}
}
