package game

import (
	"image/color"
	"math"
	"math/rand"
)

// Particle tuning.
const (
	ParticleGravity  = 0.04 // px/frame²
	particleSpeedMin = 0.6
	particleSpeedMax = 2.2
	particleLifeMin  = 30
	particleLifeRand = 21 // life in [30,50]

	// MaxParticleLife bounds how long any particle can survive.
	MaxParticleLife = particleLifeMin + particleLifeRand - 1

	// ArrivalBurst is the particle count for reaching a direct target.
	ArrivalBurst = 14
)

var particlePalette = []color.RGBA{
	{R: 255, G: 230, B: 120, A: 255},
	{R: 255, G: 255, B: 220, A: 255},
	{R: 250, G: 190, B: 80, A: 255},
}

// Particle is one short-lived visual spark in world pixels.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    int
	MaxLife int
	Color   color.RGBA
}

// Alpha is the remaining-life fraction used for fading.
func (p Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// ParticleSystem owns every live particle.
type ParticleSystem struct {
	items    []Particle
	rng      *rand.Rand
	tileSize float64
}

// NewParticleSystem creates an empty system spawning at tileSize-pixel tiles.
func NewParticleSystem(rng *rand.Rand, tileSize float64) *ParticleSystem {
	return &ParticleSystem{rng: rng, tileSize: tileSize}
}

// Spawn emits count particles from the pixel centre of origin.
func (ps *ParticleSystem) Spawn(origin Tile, count int) {
	cx := (float64(origin.X) + 0.5) * ps.tileSize
	cy := (float64(origin.Y) + 0.5) * ps.tileSize
	for i := 0; i < count; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := particleSpeedMin + ps.rng.Float64()*(particleSpeedMax-particleSpeedMin)
		life := particleLifeMin + ps.rng.Intn(particleLifeRand)
		ps.items = append(ps.items, Particle{
			X:       cx,
			Y:       cy,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    life,
			MaxLife: life,
			Color:   particlePalette[ps.rng.Intn(len(particlePalette))],
		})
	}
}

// Update integrates all particles and drops expired ones in place.
func (ps *ParticleSystem) Update() {
	live := ps.items[:0]
	for _, p := range ps.items {
		p.X += p.VX
		p.Y += p.VY
		p.VY += ParticleGravity
		p.Life--
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	// Zero the tail so dropped particles do not linger in the backing array.
	for i := len(live); i < len(ps.items); i++ {
		ps.items[i] = Particle{}
	}
	ps.items = live
}

// Len returns the number of live particles.
func (ps *ParticleSystem) Len() int { return len(ps.items) }

// Each calls fn for every live particle.
func (ps *ParticleSystem) Each(fn func(p *Particle)) {
	for i := range ps.items {
		fn(&ps.items[i])
	}
}

// Clear removes every particle.
func (ps *ParticleSystem) Clear() {
	ps.items = ps.items[:0]
}
