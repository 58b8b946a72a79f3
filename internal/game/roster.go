package game

import (
	"hash/fnv"

	"github.com/Garsondee/codexrpg-client/internal/api"
	"github.com/google/uuid"
)

// buildRoster turns service NPC records into simulated NPCs. Entries whose ID
// matches one in prev keep their position, path and wander state; the result
// is a fresh slice so the caller swaps the roster reference in one step.
//
// A record without an ID inherits the ID of an unclaimed previous NPC of the
// same name, in roster order, so duplicate names keep distinct identities.
func (w *World) buildRoster(records []api.NPC, prev []*NPC) []*NPC {
	byID := make(map[string]*NPC, len(prev))
	byName := make(map[string][]*NPC, len(prev))
	for _, n := range prev {
		byID[n.ID] = n
		byName[n.Name] = append(byName[n.Name], n)
	}

	claimed := make(map[string]bool, len(records))
	for _, r := range records {
		if r.ID != "" {
			claimed[r.ID] = true
		}
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
		if r.ID != "" {
			continue
		}
		for _, old := range byName[r.Name] {
			if !claimed[old.ID] {
				ids[i] = old.ID
				claimed[old.ID] = true
				break
			}
		}
		if ids[i] == "" {
			ids[i] = uuid.NewString()
		}
	}

	out := make([]*NPC, 0, len(records))
	for i, r := range records {
		id := ids[i]
		if old, ok := byID[id]; ok {
			n := *old
			n.Name, n.Role, n.Dialogue = r.Name, r.Role, r.Dialogue
			out = append(out, &n)
			continue
		}
		tile, ok := w.placeNPC(r)
		if !ok {
			continue
		}
		out = append(out, NewNPC(id, r.Name, r.Role, r.Dialogue, tile, w.Frame, w.rng))
	}
	w.record("--", "npc", "roster", "", float64(len(out)))
	return out
}

// placeNPC resolves a spawn tile: an explicit passable location wins,
// otherwise a stable tile derived from the NPC's identity.
func (w *World) placeNPC(r api.NPC) (Tile, bool) {
	if r.Location.Tiled && w.Grid.Passable(r.Location.X, r.Location.Y) {
		return Tile{X: r.Location.X, Y: r.Location.Y}, true
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.ID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.Name))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.Location.Name))
	sum := h.Sum64()
	seed := Tile{
		X: int(sum % uint64(w.Grid.Cols)),
		Y: int((sum >> 32) % uint64(w.Grid.Rows)),
	}
	return w.Grid.NearestPassable(seed)
}
