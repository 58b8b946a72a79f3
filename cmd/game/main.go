package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Garsondee/codexrpg-client/internal/api"
	"github.com/Garsondee/codexrpg-client/internal/config"
	"github.com/Garsondee/codexrpg-client/internal/game"
	"github.com/Garsondee/codexrpg-client/internal/offline"
	"github.com/Garsondee/codexrpg-client/internal/settings"
	"github.com/Garsondee/codexrpg-client/internal/sound"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		name       string
		class      string
		origin     string
		debugPaths bool
	)
	flag.StringVar(&configPath, "config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	flag.StringVar(&name, "name", "", "character name")
	flag.StringVar(&class, "class", "", "character class id")
	flag.StringVar(&origin, "origin", "", "game service origin, e.g. http://localhost:5000")
	flag.BoolVar(&debugPaths, "debug-paths", false, "start with the NPC path overlay on")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return err
	}
	if name != "" {
		cfg.Player.Name = name
	}
	if class != "" {
		cfg.Player.Class = class
	}
	if origin != "" {
		cfg.Server.Origin = origin
	}
	cfg.Debug.Paths = cfg.Debug.Paths || debugPaths

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := settings.Open()
	if err != nil {
		log.Warn("settings will not persist", zap.Error(err))
	}
	prefs := settings.NewManager(store, log.Named("settings"))

	transport := http.DefaultTransport
	if cfg.Cache.Enabled {
		var cache offline.Store = offline.NewMemoryStore()
		if store != nil {
			cache = offline.NewGdataStore(store)
		}
		transport = offline.NewTransport(transport, cache, cfg.Cache.Version, cfg.Server.APIPrefix, log.Named("offline"))
	}
	client := api.New(api.Options{
		Origin:     cfg.Server.Origin,
		APIPrefix:  cfg.Server.APIPrefix,
		Timeout:    cfg.Server.Timeout,
		Retries:    cfg.Server.Retries,
		RetryDelay: cfg.Server.RetryDelay,
		Transport:  transport,
	}, log.Named("api"))

	audio := sound.New(prefs.Volume, log.Named("sound"))
	inbox := game.NewInbox(cfg.Sync.InboxSize)
	bridge := game.NewBridge(client, inbox, cfg.Sync.RefreshInterval, log.Named("sync"))
	defer bridge.Close()

	world := game.NewWorld(game.WorldOptions{
		TileSize:   float64(cfg.Window.TileSize),
		ViewW:      float64(cfg.Window.Width),
		ViewH:      float64(cfg.Window.Height),
		Seed:       time.Now().UnixNano(),
		PlayerName: cfg.Player.Name,
		Class:      cfg.Player.Class,
		DebugPaths: cfg.Debug.Paths || prefs.Get().DebugPaths,
	}, inbox, audio, bridge, log.Named("world"))

	hud, err := game.NewHUD()
	if err != nil {
		return err
	}

	log.Info("starting client",
		zap.String("origin", client.Origin()),
		zap.String("player", cfg.Player.Name),
		zap.String("class", cfg.Player.Class),
		zap.Bool("cache", cfg.Cache.Enabled),
	)
	bridge.Start()
	world.Start()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game.NewGame(world, hud, prefs, log.Named("game"))); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
