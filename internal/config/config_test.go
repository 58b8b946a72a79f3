package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "codexrpg.toml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sync.InboxSize != 64 {
		t.Fatalf("inbox_size = %d, want 64", cfg.Sync.InboxSize)
	}
	if cfg.Sync.RefreshInterval != 5*time.Second {
		t.Fatalf("refresh_interval = %s, want 5s", cfg.Sync.RefreshInterval)
	}
	if cfg.Server.APIPrefix != "/api" {
		t.Fatalf("api_prefix = %q, want /api", cfg.Server.APIPrefix)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	p := writeConfig(t, `
[server]
origin = "http://game.example:8080"
timeout = "3s"

[player]
name = "Ada"
class = "mage"

[sync]
refresh_interval = "2500ms"

[debug]
paths = true
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Origin != "http://game.example:8080" {
		t.Fatalf("origin = %q", cfg.Server.Origin)
	}
	if cfg.Server.Timeout != 3*time.Second {
		t.Fatalf("timeout = %s, want 3s", cfg.Server.Timeout)
	}
	if cfg.Player.Name != "Ada" || cfg.Player.Class != "mage" {
		t.Fatalf("player = %+v", cfg.Player)
	}
	if cfg.Sync.RefreshInterval != 2500*time.Millisecond {
		t.Fatalf("refresh_interval = %s", cfg.Sync.RefreshInterval)
	}
	if !cfg.Debug.Paths {
		t.Fatal("debug.paths should be true")
	}
	// Untouched sections keep their defaults.
	if cfg.Window.TileSize != 48 {
		t.Fatalf("tile_size = %d, want default 48", cfg.Window.TileSize)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	p := writeConfig(t, "[server\norigin = ")
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	p := writeConfig(t, "[sync]\ninbox_size = 0\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected validation error for inbox_size = 0")
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvPath, "/etc/codexrpg.toml")
	if got := ResolvePath("custom.toml"); got != "custom.toml" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := ResolvePath(""); got != "/etc/codexrpg.toml" {
		t.Fatalf("env should win over default, got %q", got)
	}
	t.Setenv(EnvPath, "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Fatalf("expected default path, got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := NewLogger(LoggingConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("%s: debug level should be enabled", format)
		}
	}
	log, err := NewLogger(LoggingConfig{Level: "bogus"})
	if err != nil {
		t.Fatalf("bogus level: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("unknown level should fall back to info")
	}
}
