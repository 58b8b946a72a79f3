package game

import (
	"math"
	"math/rand"
)

// NPCState is the behaviour state of an ambient NPC.
type NPCState int

const (
	NPCIdle NPCState = iota
	NPCPathing
)

func (s NPCState) String() string {
	if s == NPCPathing {
		return "PATHING"
	}
	return "IDLE"
}

// NPC tuning.
const (
	WanderRadius = 3

	decisionMin    = 140
	decisionJitter = 181 // decisionMin + [0,180] → 140-320 frames
	wanderAttempts = 12

	bobAmplitude = 0.06 // tiles
	bobRate      = 0.05 // radians per frame
)

// NPC is an ambient character from the service roster.
type NPC struct {
	ID       string
	Name     string
	Role     string
	Dialogue string

	Mover
	Path   []Tile
	Cursor int

	// Anchor is the resting tile; idle bob is an offset from it and is never
	// accumulated into it.
	Anchor       Vec
	Phase        float64
	NextDecision int
	Anim         int
}

// NewNPC creates an idle NPC resting at tile.
func NewNPC(id, name, role, dialogue string, tile Tile, frame int, rng *rand.Rand) *NPC {
	return &NPC{
		ID:           id,
		Name:         name,
		Role:         role,
		Dialogue:     dialogue,
		Mover:        Mover{Pos: tile.Vec(), Speed: NPCSpeed, Snap: PathSnap},
		Anchor:       tile.Vec(),
		Phase:        rng.Float64() * 2 * math.Pi,
		NextDecision: frame + nextDecisionDelay(rng),
	}
}

func nextDecisionDelay(rng *rand.Rand) int {
	return decisionMin + rng.Intn(decisionJitter)
}

// State derives the behaviour state from the path.
func (n *NPC) State() NPCState {
	if len(n.Path) > 0 && n.Cursor < len(n.Path) {
		return NPCPathing
	}
	return NPCIdle
}

// Update advances the NPC one frame.
func (n *NPC) Update(frame int, g *Grid, rng *rand.Rand) {
	n.Anim++

	if n.State() == NPCPathing {
		n.followPath(frame, rng)
		return
	}

	// IDLE: bob around the anchor.
	n.Pos = g.ClampVec(Vec{
		X: n.Anchor.X,
		Y: n.Anchor.Y + math.Sin(float64(frame)*bobRate+n.Phase)*bobAmplitude,
	})

	if frame >= n.NextDecision {
		n.NextDecision = frame + nextDecisionDelay(rng)
		n.decideWander(g, rng)
	}
}

func (n *NPC) followPath(frame int, rng *rand.Rand) {
	if n.Target == nil {
		n.SetTarget(&n.Path[n.Cursor])
	}
	if !n.Step() {
		return
	}
	n.Cursor++
	if n.Cursor < len(n.Path) {
		n.SetTarget(&n.Path[n.Cursor])
		return
	}
	// Path complete: settle at the arrival tile.
	n.Anchor = n.Pos
	n.Path = nil
	n.Cursor = 0
	n.NextDecision = frame + nextDecisionDelay(rng)
}

// decideWander picks a random passable tile near the anchor and paths to it.
// A failed pick leaves the NPC idle until the next decision.
func (n *NPC) decideWander(g *Grid, rng *rand.Rand) {
	anchor := n.Anchor.Round()
	from := g.ClampTile(n.Pos.Round())
	for i := 0; i < wanderAttempts; i++ {
		dest := Tile{
			X: anchor.X + rng.Intn(2*WanderRadius+1) - WanderRadius,
			Y: anchor.Y + rng.Intn(2*WanderRadius+1) - WanderRadius,
		}
		if dest == from || !g.Passable(dest.X, dest.Y) {
			continue
		}
		path, ok := g.FindPath(from, dest)
		if !ok || len(path) == 0 {
			continue
		}
		n.Path = path
		n.Cursor = 0
		n.SetTarget(&n.Path[0])
		return
	}
}

// AssignPath overrides the NPC's route. An empty path returns it to idle.
func (n *NPC) AssignPath(path []Tile) {
	if len(path) == 0 {
		n.Path = nil
		n.Cursor = 0
		n.Target = nil
		return
	}
	n.Path = path
	n.Cursor = 0
	n.SetTarget(&n.Path[0])
}

// RemainingPath returns the unconsumed waypoints.
func (n *NPC) RemainingPath() []Tile {
	if n.State() != NPCPathing {
		return nil
	}
	return n.Path[n.Cursor:]
}
