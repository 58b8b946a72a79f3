package game

import (
	"math"
)

// WorldGenConfig holds tuneable parameters for offline world generation.
type WorldGenConfig struct {
	Cols, Rows int
	Seed       int64

	// Layered noise.
	Octaves     int
	Persistence float64
	BaseFreq    float64 // lattice cells across the map at octave 0

	// Elevation thresholds (noise value 0-1).
	WaterBelow  float64 // below this → lake
	PlainsBelow float64 // below this → plains
	ForestBelow float64 // below this → forest, else mountain
}

// DefaultWorldGenConfig mirrors the service's own generator.
var DefaultWorldGenConfig = WorldGenConfig{
	Cols:        64,
	Rows:        64,
	Octaves:     4,
	Persistence: 0.5,
	BaseFreq:    4,

	WaterBelow:  0.25,
	PlainsBelow: 0.45,
	ForestBelow: 0.75,
}

// GenerateGrid builds a biome grid from layered value noise. It is used when
// no service is reachable (headless runs, tests) and is fully deterministic
// for a given config.
func GenerateGrid(cfg WorldGenConfig) (*Grid, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, ErrEmptyGrid
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = 1
	}
	if cfg.BaseFreq <= 0 {
		cfg.BaseFreq = 1
	}

	cells := make([]Biome, cfg.Cols*cfg.Rows)
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			e := elevation(cfg, col, row)
			cells[row*cfg.Cols+col] = classifyElevation(cfg, e)
		}
	}
	return NewGridFromBiomes(cfg.Cols, cfg.Rows, cells)
}

// elevation sums octaves of value noise, normalized to [0,1].
func elevation(cfg WorldGenConfig, col, row int) float64 {
	amp := 1.0
	freq := cfg.BaseFreq
	total, maxAmp := 0.0, 0.0
	for o := 0; o < cfg.Octaves; o++ {
		sx := float64(col) / float64(cfg.Cols) * freq
		sy := float64(row) / float64(cfg.Rows) * freq
		total += valueNoise2D(sx, sy, cfg.Seed+int64(o)*7919) * amp
		maxAmp += amp
		amp *= cfg.Persistence
		freq *= 2
	}
	return math.Max(0, math.Min(1, total/maxAmp))
}

func classifyElevation(cfg WorldGenConfig, e float64) Biome {
	switch {
	case e < cfg.WaterBelow:
		return BiomeLake
	case e < cfg.PlainsBelow:
		return BiomePlains
	case e < cfg.ForestBelow:
		return BiomeForest
	default:
		return BiomeMountain
	}
}

// tileDetail returns a stable per-tile value in [0,1] used to vary motif
// placement (tree offsets, grass tufts) without per-frame randomness.
func tileDetail(x, y, salt int) float64 {
	return latticeValue(x, y, int64(salt))
}

// --- Value noise implementation (no external deps) ---

// valueNoise2D returns a smooth noise value in [0,1] for the given coordinates.
// Uses lattice-based value noise with hermite interpolation.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// latticeValue returns a pseudo-random value in [0,1] for integer coordinates.
func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
