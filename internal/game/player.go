package game

// FootstepInterval is the number of frames of continuous motion between
// footstep sounds.
const FootstepInterval = 14

// Player is the controllable avatar.
type Player struct {
	Mover
	Anim int

	walkFrames int
}

// NewPlayer places the avatar at tile with no target.
func NewPlayer(tile Tile) *Player {
	return &Player{Mover: Mover{Pos: tile.Vec(), Speed: PlayerSpeed, Snap: DirectSnap}}
}

// Update advances the avatar one frame. arrived is true on the frame a
// direct target is reached; footstep is true every FootstepInterval frames
// of uninterrupted motion.
func (p *Player) Update() (arrived, footstep bool) {
	p.Anim++
	if !p.Moving() {
		p.walkFrames = 0
		return false, false
	}
	p.walkFrames++
	footstep = p.walkFrames%FootstepInterval == 0
	arrived = p.Step()
	if arrived {
		p.walkFrames = 0
	}
	return arrived, footstep
}
