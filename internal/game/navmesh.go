package game

// --- A* pathfinding ---

// dirs is the neighbour expansion order. It is part of the tie-break
// contract: among equal-f candidates the one inserted first is expanded.
var dirs = [4][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

type pathNode struct {
	tile Tile
	g, f int
}

// FindPath returns the 4-directional shortest path from start to goal,
// excluding start and including goal.
//
// The second result is false when no path exists: either endpoint out of
// bounds or impassable, or the goal unreachable. start == goal yields an
// empty, non-nil path and true.
//
// The open set is scanned linearly and the first node with the lowest
// f = g + h wins, so equal-cost routes resolve deterministically by
// insertion order.
func (g *Grid) FindPath(start, goal Tile) ([]Tile, bool) {
	if !g.InBounds(start.X, start.Y) || !g.InBounds(goal.X, goal.Y) {
		return nil, false
	}
	if start == goal {
		return []Tile{}, true
	}
	if !g.Passable(start.X, start.Y) || !g.Passable(goal.X, goal.Y) {
		return nil, false
	}

	key := func(t Tile) int { return t.Y*g.Cols + t.X }

	open := []pathNode{{tile: start, g: 0, f: start.Manhattan(goal)}}
	inOpen := map[int]bool{key(start): true}
	gScore := map[int]int{key(start): 0}
	cameFrom := make(map[int]Tile)

	for len(open) > 0 {
		best := 0
		for i := 1; i < len(open); i++ {
			if open[i].f < open[best].f {
				best = i
			}
		}
		cur := open[best]
		if cur.tile == goal {
			return buildPath(cameFrom, key, start, goal), true
		}
		open = append(open[:best], open[best+1:]...)
		delete(inOpen, key(cur.tile))

		for _, d := range dirs {
			n := Tile{X: cur.tile.X + d[0], Y: cur.tile.Y + d[1]}
			if !g.Passable(n.X, n.Y) {
				continue
			}
			nk := key(n)
			tentative := gScore[key(cur.tile)] + 1
			if prev, ok := gScore[nk]; ok && tentative >= prev {
				continue
			}
			cameFrom[nk] = cur.tile
			gScore[nk] = tentative
			f := tentative + n.Manhattan(goal)
			if inOpen[nk] {
				for i := range open {
					if open[i].tile == n {
						open[i].g, open[i].f = tentative, f
						break
					}
				}
				continue
			}
			open = append(open, pathNode{tile: n, g: tentative, f: f})
			inOpen[nk] = true
		}
	}
	return nil, false
}

func buildPath(cameFrom map[int]Tile, key func(Tile) int, start, goal Tile) []Tile {
	var path []Tile
	for t := goal; t != start; t = cameFrom[key(t)] {
		path = append(path, t)
	}
	// Reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
