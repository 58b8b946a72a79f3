// Package config loads the client's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "CODEXRPG_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath names a file.
const DefaultPath = "codexrpg.toml"

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Player  PlayerConfig  `toml:"player"`
	Window  WindowConfig  `toml:"window"`
	Sync    SyncConfig    `toml:"sync"`
	Debug   DebugConfig   `toml:"debug"`
	Logging LoggingConfig `toml:"logging"`
	Cache   CacheConfig   `toml:"cache"`
}

type ServerConfig struct {
	Origin     string        `toml:"origin"`
	APIPrefix  string        `toml:"api_prefix"`
	Timeout    time.Duration `toml:"timeout"`
	Retries    uint64        `toml:"retries"` // extra attempts for idempotent GETs
	RetryDelay time.Duration `toml:"retry_delay"`
}

type PlayerConfig struct {
	Name  string `toml:"name"`
	Class string `toml:"class"`
}

type WindowConfig struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Title    string `toml:"title"`
	TileSize int    `toml:"tile_size"` // pixels per tile edge
}

type SyncConfig struct {
	RefreshInterval time.Duration `toml:"refresh_interval"`
	InboxSize       int           `toml:"inbox_size"`
}

type DebugConfig struct {
	Paths bool `toml:"paths"` // start with the NPC path overlay on
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	Version int  `toml:"version"` // bump to drop every cached response
}

// Load reads path and overlays it on the defaults. A missing file is not an
// error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvePath picks the config file: explicit flag value, then EnvPath,
// then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	if c.Server.Origin == "" {
		return errors.New("server.origin is empty")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height)
	}
	if c.Window.TileSize <= 0 {
		return fmt.Errorf("window.tile_size %d is invalid", c.Window.TileSize)
	}
	if c.Sync.InboxSize <= 0 {
		return fmt.Errorf("sync.inbox_size %d is invalid", c.Sync.InboxSize)
	}
	if c.Sync.RefreshInterval <= 0 {
		return fmt.Errorf("sync.refresh_interval %s is invalid", c.Sync.RefreshInterval)
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Origin:     "http://localhost:5000",
			APIPrefix:  "/api",
			Timeout:    10 * time.Second,
			Retries:    2,
			RetryDelay: 250 * time.Millisecond,
		},
		Player: PlayerConfig{
			Name:  "Hero",
			Class: "warrior",
		},
		Window: WindowConfig{
			Width:    960,
			Height:   640,
			Title:    "CodexRPG",
			TileSize: 48,
		},
		Sync: SyncConfig{
			RefreshInterval: 5 * time.Second,
			InboxSize:       64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled: true,
			Version: 1,
		},
	}
}
