package game

import (
	"fmt"

	"github.com/Garsondee/codexrpg-client/internal/api"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is one frame of player intent, decoupled from the device.
type Input struct {
	Click          bool
	ClickX, ClickY float64

	NudgeX, NudgeY int

	Action       string
	Reset        bool
	DismissAlert bool
	ToggleDebug  bool
}

var nudgeKeys = []struct {
	keys   []ebiten.Key
	dx, dy int
}{
	{[]ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, 0, -1},
	{[]ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, 0, 1},
	{[]ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, -1, 0},
	{[]ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, 1, 0},
}

var actionKeys = []struct {
	key    ebiten.Key
	action string
}{
	{ebiten.KeyG, api.ActionGather},
	{ebiten.KeyT, api.ActionRest},
	{ebiten.KeyE, api.ActionTriggerEvent},
}

// PollInput reads this frame's mouse and keyboard state.
func PollInput() Input {
	var in Input
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.Click, in.ClickX, in.ClickY = true, float64(x), float64(y)
	}
	for _, n := range nudgeKeys {
		for _, k := range n.keys {
			if inpututil.IsKeyJustPressed(k) {
				in.NudgeX, in.NudgeY = n.dx, n.dy
			}
		}
	}
	for _, a := range actionKeys {
		if inpututil.IsKeyJustPressed(a.key) {
			in.Action = a.action
		}
	}
	in.Reset = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.DismissAlert = inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	in.ToggleDebug = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	return in
}

func (w *World) handleInput(in Input) {
	if in.ToggleDebug {
		w.DebugPaths = !w.DebugPaths
	}
	if in.DismissAlert {
		w.Session.CreateError = ""
	}
	if in.Reset {
		w.Reset()
		return
	}
	if in.Click {
		w.ClickAt(in.ClickX, in.ClickY)
	}
	if in.NudgeX != 0 || in.NudgeY != 0 {
		w.Nudge(in.NudgeX, in.NudgeY)
	}
	if in.Action != "" && w.Session.Active {
		w.cmds.Action(in.Action)
	}
}

// ClickAt routes a left click at screen pixel (sx, sy). Clicking an NPC walks
// the player to the end of a path toward it; any other tile becomes the
// direct target.
func (w *World) ClickAt(sx, sy float64) {
	w.sound.PlayClick()
	if w.Grid == nil || w.Player == nil {
		return
	}
	tile := w.Grid.ClampTile(w.Camera.Unproject(sx, sy, w.TileSize).Round())

	if npc := w.NPCAt(tile); npc != nil {
		from := w.Grid.ClampTile(w.Player.Pos.Round())
		path, ok := w.Grid.FindPath(from, tile)
		if !ok || len(path) == 0 {
			return
		}
		w.Player.SetTarget(&path[len(path)-1])
		if npc.Dialogue != "" {
			w.Events.Add(w.Frame, EventDialogue, fmt.Sprintf("%s: %s", npc.Name, npc.Dialogue))
		}
		w.record("player", "input", "talk", npc.ID, float64(len(path)))
		return
	}
	w.Player.SetTarget(&tile)
	w.record("player", "input", "click", fmt.Sprintf("(%d,%d)", tile.X, tile.Y), 0)
}

// Nudge targets the tile one step from the player's rounded position. It is
// ignored outside an active session.
func (w *World) Nudge(dx, dy int) {
	if !w.Session.Active || w.Grid == nil || w.Player == nil {
		return
	}
	cur := w.Player.Pos.Round()
	tile := w.Grid.ClampTile(Tile{X: cur.X + dx, Y: cur.Y + dy})
	w.Player.SetTarget(&tile)
}
