package game

import (
	"context"
	"fmt"

	"github.com/Garsondee/codexrpg-client/internal/api"
)

// TestWorld is a headless World harness used by tests and the headless
// report. It has no Ebiten dependency at runtime and records simulation
// events in a SimLog.
type TestWorld struct {
	World    *World
	SimLog   *SimLog
	Sound    *CountingSound
	Commands *RecordingCommands

	rows     []string
	gen      *WorldGenConfig
	seed     int64
	verbose  bool
	tileSize float64
	viewW    float64
	viewH    float64
	player   *Tile
	npcs     []api.NPC
}

// CountingSound counts the cues a World emits.
type CountingSound struct {
	Clicks    int
	Footsteps int
}

func (s *CountingSound) PlayClick()    { s.Clicks++ }
func (s *CountingSound) PlayFootstep() { s.Footsteps++ }

// RecordingCommands records the service requests a World issues.
type RecordingCommands struct {
	Created []string
	Actions []string
	Active  bool
}

func (c *RecordingCommands) CreatePlayer(name, class string) {
	c.Created = append(c.Created, name+"/"+class)
}
func (c *RecordingCommands) Action(action string) { c.Actions = append(c.Actions, action) }
func (c *RecordingCommands) SetActive(active bool) { c.Active = active }

// worldOptionKind controls the pass in which an option is applied.
type worldOptionKind int

const (
	worldOptInfra  worldOptionKind = iota // grid, seed, viewport, verbose: applied first
	worldOptEntity                        // player, NPCs: applied after the grid is loaded
)

// WorldOption is a builder function applied to a TestWorld during construction.
type WorldOption struct {
	kind worldOptionKind
	fn   func(*TestWorld)
}

// WithGridRows sets the grid from one string per row:
// '.' plains, 'f' forest, '^' mountain, '~' lake.
func WithGridRows(rows ...string) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) {
		tw.rows = rows
		tw.gen = nil
	}}
}

// WithGeneratedGrid builds the grid with GenerateGrid.
func WithGeneratedGrid(cfg WorldGenConfig) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) {
		tw.gen = &cfg
		tw.rows = nil
	}}
}

// WithSeed sets the simulation RNG seed.
func WithSeed(seed int64) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) { tw.seed = seed }}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) { tw.verbose = v }}
}

// WithViewport sets the viewport size and tile size in pixels.
func WithViewport(w, h, tileSize float64) WorldOption {
	return WorldOption{worldOptInfra, func(tw *TestWorld) {
		tw.viewW, tw.viewH, tw.tileSize = w, h, tileSize
	}}
}

// WithPlayerAt starts an active session with the player at (x, y).
func WithPlayerAt(x, y int) WorldOption {
	return WorldOption{worldOptEntity, func(tw *TestWorld) {
		tw.player = &Tile{X: x, Y: y}
	}}
}

// WithNPC adds a roster entry standing at (x, y).
func WithNPC(id, name, dialogue string, x, y int) WorldOption {
	return WorldOption{worldOptEntity, func(tw *TestWorld) {
		tw.npcs = append(tw.npcs, api.NPC{
			ID:       id,
			Name:     name,
			Role:     "villager",
			Dialogue: dialogue,
			Location: api.Location{X: x, Y: y, Tiled: true},
		})
	}}
}

// NewTestWorld constructs a TestWorld from the given options in ordered passes:
//  1. Infrastructure (grid, seed, viewport, verbose)
//  2. Build the World and load the grid through the inbox
//  3. Player and NPCs
func NewTestWorld(opts ...WorldOption) (*TestWorld, error) {
	tw := &TestWorld{
		rows:     []string{"........", "........", "........", "........", "........", "........", "........", "........"},
		seed:     1,
		tileSize: 48,
		viewW:    960,
		viewH:    640,
		Sound:    &CountingSound{},
		Commands: &RecordingCommands{},
	}
	for _, o := range opts {
		if o.kind == worldOptInfra {
			o.fn(tw)
		}
	}

	grid, err := tw.buildGrid()
	if err != nil {
		return nil, err
	}
	tw.SimLog = NewSimLog(tw.verbose)
	tw.World = NewWorld(WorldOptions{
		TileSize:   tw.tileSize,
		ViewW:      tw.viewW,
		ViewH:      tw.viewH,
		Seed:       tw.seed,
		PlayerName: "Tester",
		Class:      "warrior",
	}, NewInbox(DefaultInboxSize), tw.Sound, tw.Commands, nil)
	tw.World.SimLog = tw.SimLog
	tw.World.apply(WorldLoaded{Grid: grid})

	for _, o := range opts {
		if o.kind == worldOptEntity {
			o.fn(tw)
		}
	}
	if tw.player != nil {
		tw.World.apply(PlayerCreated{Info: &api.PlayerInfo{Name: "Tester", Class: "warrior", HP: 10, MaxHP: 10}})
		tw.World.Player = NewPlayer(grid.ClampTile(*tw.player))
	}
	if tw.npcs != nil {
		tw.World.apply(RosterLoaded{NPCs: tw.npcs})
	}
	return tw, nil
}

func (tw *TestWorld) buildGrid() (*Grid, error) {
	if tw.gen != nil {
		return GenerateGrid(*tw.gen)
	}
	labels := make([][]string, len(tw.rows))
	for y, row := range tw.rows {
		labels[y] = make([]string, 0, len(row))
		for _, r := range row {
			switch r {
			case 'f':
				labels[y] = append(labels[y], "forest")
			case '^':
				labels[y] = append(labels[y], "mountain")
			case '~':
				labels[y] = append(labels[y], "lake")
			case '.':
				labels[y] = append(labels[y], "plains")
			default:
				return nil, fmt.Errorf("grid row %d: unknown cell %q", y, r)
			}
		}
	}
	return NewGrid(labels)
}

// Tick advances one frame with the given input.
func (tw *TestWorld) Tick(in Input) { tw.World.Tick(in) }

// RunTicks advances the simulation n frames with no input.
func (tw *TestWorld) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tw.World.Tick(Input{})
	}
}

// RunUntil advances up to maxTicks frames, stopping once predicate holds.
// It returns the frame at which the predicate was satisfied, or -1.
func (tw *TestWorld) RunUntil(predicate func(*TestWorld) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tw.World.Tick(Input{})
		if predicate(tw) {
			return tw.World.Frame
		}
	}
	return -1
}

// ScreenPoint returns the screen pixel at the centre of tile t under the
// current camera.
func (tw *TestWorld) ScreenPoint(t Tile) (float64, float64) {
	x, y := tw.World.Camera.Project(t.Vec(), tw.World.TileSize)
	half := tw.World.TileSize / 2
	return x + half, y + half
}

// ClickTile clicks the centre of tile t.
func (tw *TestWorld) ClickTile(t Tile) {
	x, y := tw.ScreenPoint(t)
	tw.World.ClickAt(x, y)
}

// Post queues a message for the next tick.
func (tw *TestWorld) Post(m Message) bool {
	return tw.World.Inbox().Post(context.Background(), m)
}

// NPC returns the roster entry with the given id.
func (tw *TestWorld) NPC(id string) *NPC {
	for _, n := range tw.World.NPCs {
		if n.ID == id {
			return n
		}
	}
	return nil
}
