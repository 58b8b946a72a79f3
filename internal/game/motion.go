package game

import "math"

// Movement constants, in tiles per frame.
const (
	PlayerSpeed = 0.08
	NPCSpeed    = 0.03

	// DirectSnap is the arrival threshold for a clicked or nudged target.
	DirectSnap = 0.05
	// PathSnap is the arrival threshold for one path waypoint.
	PathSnap = 0.06
)

// Mover integrates a continuous position toward at most one target tile.
type Mover struct {
	Pos    Vec
	Target *Tile
	Speed  float64
	Snap   float64
}

// SetTarget replaces any current target. Passing nil stops the mover.
func (m *Mover) SetTarget(t *Tile) {
	if t == nil {
		m.Target = nil
		return
	}
	tt := *t
	m.Target = &tt
}

// Moving reports whether a target is set.
func (m *Mover) Moving() bool {
	return m.Target != nil
}

// Step advances one frame toward the target. It returns true on the frame
// the target is reached; the position is then exactly the target tile and
// the target is cleared.
func (m *Mover) Step() bool {
	if m.Target == nil {
		return false
	}
	tx, ty := float64(m.Target.X), float64(m.Target.Y)
	dx, dy := tx-m.Pos.X, ty-m.Pos.Y
	dist := math.Hypot(dx, dy)
	if dist < m.Snap {
		m.arrive()
		return true
	}

	step := math.Min(m.Speed, dist)
	m.Pos.X += dx / dist * step
	m.Pos.Y += dy / dist * step

	if math.Hypot(tx-m.Pos.X, ty-m.Pos.Y) < m.Snap {
		m.arrive()
		return true
	}
	return false
}

func (m *Mover) arrive() {
	m.Pos = m.Target.Vec()
	m.Target = nil
}

// StepsToArrive is the frame bound for covering dist at speed.
func StepsToArrive(dist, speed float64) int {
	return int(math.Ceil(dist / speed))
}
