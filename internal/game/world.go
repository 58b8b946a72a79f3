package game

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/codexrpg-client/internal/api"
	"go.uber.org/zap"
)

// SoundPlayer receives the gameplay audio cues.
type SoundPlayer interface {
	PlayClick()
	PlayFootstep()
}

// sampleSetter is implemented by sound players that accept a loaded sample.
type sampleSetter interface {
	SetSample(data []byte)
}

type nopSound struct{}

func (nopSound) PlayClick()    {}
func (nopSound) PlayFootstep() {}

// Commands issues requests to the game service. Implementations must not
// block; results come back through the Inbox.
type Commands interface {
	CreatePlayer(name, class string)
	Action(action string)
	SetActive(active bool)
}

type nopCommands struct{}

func (nopCommands) CreatePlayer(string, string) {}
func (nopCommands) Action(string)               {}
func (nopCommands) SetActive(bool)              {}

// Session mirrors the service-side character state shown on the HUD.
type Session struct {
	Active      bool
	Name        string
	Class       string
	Info        *api.PlayerInfo
	Classes     []api.Class
	Quests      []api.Quest
	Reputation  map[string]api.Standing
	Homestead   *api.Homestead
	CreateError string
}

// Assets holds decoded sprite sheets; nil entries draw as fallbacks.
type Assets struct {
	Player *SpriteSheet
	NPC    *SpriteSheet
}

// WorldOptions configures a World.
type WorldOptions struct {
	TileSize   float64
	ViewW      float64
	ViewH      float64
	Seed       int64
	PlayerName string
	Class      string
	DebugPaths bool
}

// World is the complete client-side simulation state. It is owned by the
// frame loop; other goroutines reach it only through the Inbox.
type World struct {
	Grid      *Grid
	Player    *Player
	NPCs      []*NPC
	Particles *ParticleSystem
	Camera    Camera
	Frame     int
	Events    *EventLog
	Session   Session
	Assets    Assets

	TileSize   float64
	ViewW      float64
	ViewH      float64
	DebugPaths bool

	// SimLog records structured simulation events when set.
	SimLog *SimLog

	rng    *rand.Rand
	inbox  *Inbox
	sound  SoundPlayer
	cmds   Commands
	log    *zap.Logger
	roster []api.NPC
}

// NewWorld creates an empty world. sound and cmds may be nil.
func NewWorld(opts WorldOptions, inbox *Inbox, sound SoundPlayer, cmds Commands, log *zap.Logger) *World {
	if sound == nil {
		sound = nopSound{}
	}
	if cmds == nil {
		cmds = nopCommands{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if inbox == nil {
		inbox = NewInbox(DefaultInboxSize)
	}
	rng := rand.New(rand.NewSource(opts.Seed)) // #nosec G404 -- gameplay randomness
	return &World{
		Particles:  NewParticleSystem(rng, opts.TileSize),
		Events:     NewEventLog(),
		Session:    Session{Name: opts.PlayerName, Class: opts.Class},
		TileSize:   opts.TileSize,
		ViewW:      opts.ViewW,
		ViewH:      opts.ViewH,
		DebugPaths: opts.DebugPaths,
		rng:        rng,
		inbox:      inbox,
		sound:      sound,
		cmds:       cmds,
		log:        log,
	}
}

// Inbox returns the queue network results are posted to.
func (w *World) Inbox() *Inbox { return w.inbox }

// Start requests character creation for the configured name and class.
func (w *World) Start() {
	w.cmds.CreatePlayer(w.Session.Name, w.Session.Class)
}

// Tick advances the simulation one frame: drain inbox, apply input, player,
// NPCs, particles, camera.
func (w *World) Tick(in Input) {
	w.inbox.Drain(w.apply)
	w.handleInput(in)

	if w.Player != nil {
		arrived, footstep := w.Player.Update()
		if footstep {
			w.sound.PlayFootstep()
		}
		if arrived {
			tile := w.Player.Pos.Round()
			w.Particles.Spawn(tile, ArrivalBurst)
			w.record("player", "move", "arrived", fmt.Sprintf("(%d,%d)", tile.X, tile.Y), 0)
		}
		if w.SimLog != nil && w.Player.Moving() {
			w.SimLog.AddVerbose(w.Frame, "player", "move", "pos",
				fmt.Sprintf("(%.2f,%.2f)", w.Player.Pos.X, w.Player.Pos.Y), 0)
		}
	}

	if w.Grid != nil {
		for _, n := range w.NPCs {
			before := n.State()
			n.Update(w.Frame, w.Grid, w.rng)
			if after := n.State(); after != before {
				w.record(n.ID, "npc", after.String(), fmt.Sprintf("%d steps", len(n.Path)), float64(len(n.Path)))
			}
		}
	}

	w.Particles.Update()

	if w.Player != nil {
		w.Camera.Update(w.Player.Pos, w.TileSize, w.ViewW, w.ViewH)
	}
	w.Frame++
}

// Resize updates the viewport used for camera targeting and click mapping.
func (w *World) Resize(viewW, viewH float64) {
	w.ViewW, w.ViewH = viewW, viewH
}

// Reset discards the session and asks the service for a new character.
func (w *World) Reset() {
	w.Player = nil
	w.NPCs = nil
	w.roster = nil
	w.Grid = nil
	w.Particles.Clear()
	w.Events.Clear()
	w.Camera = Camera{}
	w.Session = Session{Name: w.Session.Name, Class: w.Session.Class, Classes: w.Session.Classes}
	w.cmds.SetActive(false)
	w.record("--", "session", "reset", "", 0)
	w.Start()
}

// apply folds one network result into the world.
func (w *World) apply(m Message) {
	switch m := m.(type) {
	case ClassesLoaded:
		w.Session.Classes = m.Classes
	case PlayerCreated:
		w.Session.Active = true
		w.Session.CreateError = ""
		w.Session.Info = m.Info
		w.cmds.SetActive(true)
		w.Events.Add(w.Frame, EventInfo, fmt.Sprintf("%s the %s enters the world", m.Info.Name, m.Info.Class))
		w.spawnPlayer()
	case PlayerCreateFailed:
		w.Session.CreateError = m.Err.Error()
	case PlayerInfoLoaded:
		if w.Session.Active {
			w.Session.Info = m.Info
		}
	case WorldLoaded:
		w.Grid = m.Grid
		w.Player = nil
		w.spawnPlayer()
		if w.roster != nil {
			w.NPCs = w.buildRoster(w.roster, nil)
		}
		w.record("--", "world", "loaded", fmt.Sprintf("%dx%d", m.Grid.Cols, m.Grid.Rows), float64(m.Grid.PassableCount()))
	case RosterLoaded:
		w.roster = m.NPCs
		if w.Grid != nil {
			w.NPCs = w.buildRoster(m.NPCs, w.NPCs)
		}
	case QuestsLoaded:
		w.Session.Quests = m.Quests
	case ReputationLoaded:
		w.Session.Reputation = m.Reputation
	case HomesteadLoaded:
		w.Session.Homestead = m.Homestead
	case ActionDone:
		w.applyAction(m)
	case SpriteLoaded:
		sheet := NewSpriteSheet(m.Image)
		if m.Kind == SpriteNPC {
			w.Assets.NPC = sheet
		} else {
			w.Assets.Player = sheet
		}
	case SampleLoaded:
		if s, ok := w.sound.(sampleSetter); ok {
			s.SetSample(m.Data)
		}
	default:
		w.log.Debug("unhandled message", zap.String("type", fmt.Sprintf("%T", m)))
	}
}

func (w *World) applyAction(m ActionDone) {
	r := m.Result
	if r.Event != nil {
		msg := r.Event.Title
		if r.Event.Description != "" {
			msg += ": " + r.Event.Description
		}
		if r.Event.Reward != 0 {
			msg += fmt.Sprintf(" (+%d gold)", r.Event.Reward)
		}
		w.Events.Add(w.Frame, EventWorld, msg)
	} else if r.Message != "" {
		w.Events.Add(w.Frame, EventAction, r.Message)
	}
	if info := w.Session.Info; info != nil {
		if r.Gold != nil {
			info.Gold = *r.Gold
		}
		if r.HP != nil {
			info.HP = *r.HP
		}
	}
	w.record("player", "action", m.Action, r.Message, 0)
}

// spawnPlayer places the avatar once both a session and a grid exist.
func (w *World) spawnPlayer() {
	if w.Player != nil || w.Grid == nil || !w.Session.Active {
		return
	}
	tile, ok := w.Grid.NearestPassable(Tile{X: w.Grid.Cols / 2, Y: w.Grid.Rows / 2})
	if !ok {
		w.log.Warn("world has no passable tile for the player")
		return
	}
	w.Player = NewPlayer(tile)
	w.record("player", "session", "spawn", fmt.Sprintf("(%d,%d)", tile.X, tile.Y), 0)
}

// NPCAt returns the roster NPC whose rounded position is tile.
func (w *World) NPCAt(tile Tile) *NPC {
	for _, n := range w.NPCs {
		if n.Pos.Round() == tile {
			return n
		}
	}
	return nil
}

func (w *World) record(entity, category, key, value string, num float64) {
	if w.SimLog != nil {
		w.SimLog.Add(w.Frame, entity, category, key, value, num)
	}
}
