package game

import (
	"errors"
	"fmt"
	"math"
)

// Biome identifies the terrain class of a grid cell.
type Biome uint8

const (
	BiomePlains   Biome = iota // Default open ground
	BiomeForest                // Woodland, walkable
	BiomeMountain              // Impassable rock
	BiomeLake                  // Impassable water
	biomeCount                 // sentinel
)

// ParseBiome maps a service label to a Biome. Unknown labels are plains.
func ParseBiome(label string) Biome {
	switch label {
	case "forest":
		return BiomeForest
	case "mountain":
		return BiomeMountain
	case "lake", "water":
		return BiomeLake
	default:
		return BiomePlains
	}
}

func (b Biome) String() string {
	switch b {
	case BiomeForest:
		return "forest"
	case BiomeMountain:
		return "mountain"
	case BiomeLake:
		return "lake"
	default:
		return "plains"
	}
}

// Passable reports whether entities and paths may occupy a tile of this biome.
func (b Biome) Passable() bool {
	return b != BiomeLake && b != BiomeMountain
}

var (
	// ErrEmptyGrid is returned when a world has no rows or no columns.
	ErrEmptyGrid = errors.New("grid has no cells")
	// ErrRaggedGrid is returned when rows differ in length.
	ErrRaggedGrid = errors.New("grid rows differ in length")
)

// Tile addresses one grid cell. X is the column, Y the row.
type Tile struct {
	X, Y int
}

// Vec is a continuous position in tile space.
type Vec struct {
	X, Y float64
}

// Round returns the nearest tile to v.
func (v Vec) Round() Tile {
	return Tile{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// Vec returns the tile as a continuous position.
func (t Tile) Vec() Vec {
	return Vec{X: float64(t.X), Y: float64(t.Y)}
}

// Manhattan returns the 4-directional distance between two tiles.
func (t Tile) Manhattan(o Tile) int {
	return absInt(t.X-o.X) + absInt(t.Y-o.Y)
}

// Grid is the biome matrix of one loaded world. It is never mutated after
// construction, so it can be shared freely between the tick and the renderer.
type Grid struct {
	Cols  int
	Rows  int
	cells []Biome
}

// NewGrid builds a Grid from row-major biome labels as served by /world/info.
func NewGrid(labels [][]string) (*Grid, error) {
	if len(labels) == 0 || len(labels[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	rows := len(labels)
	cols := len(labels[0])
	g := &Grid{Cols: cols, Rows: rows, cells: make([]Biome, cols*rows)}
	for y, row := range labels {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(row), cols, ErrRaggedGrid)
		}
		for x, label := range row {
			g.cells[y*cols+x] = ParseBiome(label)
		}
	}
	return g, nil
}

// NewGridFromBiomes builds a Grid directly from biome values.
func NewGridFromBiomes(cols, rows int, biomes []Biome) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ErrEmptyGrid
	}
	if len(biomes) != cols*rows {
		return nil, fmt.Errorf("got %d cells for %dx%d: %w", len(biomes), cols, rows, ErrRaggedGrid)
	}
	cells := make([]Biome, len(biomes))
	copy(cells, biomes)
	return &Grid{Cols: cols, Rows: rows, cells: cells}, nil
}

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Cols && y < g.Rows
}

// At returns the biome at (x, y). Out-of-bounds cells read as plains.
func (g *Grid) At(x, y int) Biome {
	if !g.InBounds(x, y) {
		return BiomePlains
	}
	return g.cells[y*g.Cols+x]
}

// Passable reports whether the tile is in bounds and walkable.
func (g *Grid) Passable(x, y int) bool {
	return g.InBounds(x, y) && g.cells[y*g.Cols+x].Passable()
}

// ClampTile pulls t into the valid coordinate range.
func (g *Grid) ClampTile(t Tile) Tile {
	return Tile{X: clampInt(t.X, 0, g.Cols-1), Y: clampInt(t.Y, 0, g.Rows-1)}
}

// ClampVec pulls a continuous position into the valid coordinate range.
func (g *Grid) ClampVec(v Vec) Vec {
	return Vec{
		X: math.Max(0, math.Min(float64(g.Cols-1), v.X)),
		Y: math.Max(0, math.Min(float64(g.Rows-1), v.Y)),
	}
}

// Labels returns the grid as row-major biome labels.
func (g *Grid) Labels() [][]string {
	out := make([][]string, g.Rows)
	for y := 0; y < g.Rows; y++ {
		row := make([]string, g.Cols)
		for x := 0; x < g.Cols; x++ {
			row[x] = g.cells[y*g.Cols+x].String()
		}
		out[y] = row
	}
	return out
}

// PassableCount returns the number of walkable cells.
func (g *Grid) PassableCount() int {
	n := 0
	for _, b := range g.cells {
		if b.Passable() {
			n++
		}
	}
	return n
}

// NearestPassable searches outward from t in square rings and returns the
// first passable tile, scanning each ring row by row.
func (g *Grid) NearestPassable(t Tile) (Tile, bool) {
	t = g.ClampTile(t)
	limit := g.Cols
	if g.Rows > limit {
		limit = g.Rows
	}
	for r := 0; r < limit; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if absInt(dx) != r && absInt(dy) != r {
					continue
				}
				if c := (Tile{X: t.X + dx, Y: t.Y + dy}); g.Passable(c.X, c.Y) {
					return c, true
				}
			}
		}
	}
	return Tile{}, false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
