package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// Preferences is the persisted user settings the client adjusts at runtime.
type Preferences interface {
	Volume() float64
	AdjustVolume(steps int) error
	ToggleSound() error
	SetDebugPaths(on bool)
	Save() error
}

// Game adapts a World to ebiten.Game.
type Game struct {
	world *World
	hud   *HUD
	prefs Preferences
	log   *zap.Logger

	width  int
	height int
}

// NewGame wraps w for the frame loop. prefs may be nil.
func NewGame(w *World, hud *HUD, prefs Preferences, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		world:  w,
		hud:    hud,
		prefs:  prefs,
		log:    log,
		width:  int(w.ViewW),
		height: int(w.ViewH),
	}
}

// UIKeys are the presentation-only keys of one frame.
type UIKeys struct {
	NextTab     bool
	CopyReport  bool
	VolumeSteps int
	ToggleMute  bool
}

// PollUIKeys reads the presentation keys.
func PollUIKeys() UIKeys {
	var k UIKeys
	k.NextTab = inpututil.IsKeyJustPressed(ebiten.KeyTab)
	k.CopyReport = inpututil.IsKeyJustPressed(ebiten.KeyC)
	k.ToggleMute = inpututil.IsKeyJustPressed(ebiten.KeyM)
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		k.VolumeSteps++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		k.VolumeSteps--
	}
	return k
}

// Update polls input and advances the simulation one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.applyUIKeys(PollUIKeys())

	in := PollInput()
	if in.ToggleDebug && g.prefs != nil {
		g.prefs.SetDebugPaths(!g.world.DebugPaths)
		if err := g.prefs.Save(); err != nil {
			g.log.Warn("save settings", zap.Error(err))
		}
	}
	g.world.Tick(in)
	return nil
}

func (g *Game) applyUIKeys(k UIKeys) {
	if k.NextTab {
		g.hud.Tab = g.hud.Tab.Next()
	}
	if k.CopyReport {
		if err := g.world.CopyDebugReport(); err != nil {
			g.log.Warn("debug report", zap.Error(err))
		} else {
			g.log.Info("debug report copied to clipboard")
		}
	}
	if g.prefs == nil {
		return
	}
	if k.VolumeSteps != 0 {
		if err := g.prefs.AdjustVolume(k.VolumeSteps); err != nil {
			g.log.Warn("save settings", zap.Error(err))
		}
	}
	if k.ToggleMute {
		if err := g.prefs.ToggleSound(); err != nil {
			g.log.Warn("save settings", zap.Error(err))
		}
	}
}

// Draw renders the post-update state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 20, A: 255})
	DrawWorld(screen, g.world)
	volume := 0.0
	if g.prefs != nil {
		volume = g.prefs.Volume()
	}
	g.hud.Draw(screen, g.world, volume)
}

// Layout keeps the logical screen equal to the window so tiles stay crisp.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.world.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return g.width, g.height
}
