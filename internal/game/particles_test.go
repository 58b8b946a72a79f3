package game

import (
	"math/rand"
	"testing"
)

func TestParticles_ExtinctAfterMaxLife(t *testing.T) {
	ps := NewParticleSystem(rand.New(rand.NewSource(1)), 48)
	ps.Spawn(Tile{X: 2, Y: 3}, 200)
	if ps.Len() != 200 {
		t.Fatalf("Len = %d, want 200", ps.Len())
	}
	for i := 0; i < MaxParticleLife; i++ {
		ps.Update()
	}
	if ps.Len() != 0 {
		t.Fatalf("%d particles alive after %d frames", ps.Len(), MaxParticleLife)
	}
	ps.Update()
	if ps.Len() != 0 {
		t.Fatal("update on empty system should keep it empty")
	}
}

func TestParticles_SpawnAtTileCentre(t *testing.T) {
	ps := NewParticleSystem(rand.New(rand.NewSource(2)), 40)
	ps.Spawn(Tile{X: 1, Y: 2}, 10)
	ps.Each(func(p *Particle) {
		if p.X != 60 || p.Y != 100 {
			t.Fatalf("spawned at (%.1f,%.1f), want (60,100)", p.X, p.Y)
		}
		if p.Life < particleLifeMin || p.Life > MaxParticleLife {
			t.Fatalf("life %d outside [%d,%d]", p.Life, particleLifeMin, MaxParticleLife)
		}
		if p.Alpha() != 1 {
			t.Fatalf("fresh particle alpha = %.2f", p.Alpha())
		}
	})
}

func TestParticles_GravityAndFade(t *testing.T) {
	ps := NewParticleSystem(rand.New(rand.NewSource(3)), 40)
	ps.Spawn(Tile{}, 1)
	var vy0 float64
	ps.Each(func(p *Particle) { vy0 = p.VY })
	ps.Update()
	ps.Each(func(p *Particle) {
		if d := p.VY - vy0; d < ParticleGravity-1e-12 || d > ParticleGravity+1e-12 {
			t.Fatalf("VY changed by %.4f, want %.2f", d, ParticleGravity)
		}
		if p.Alpha() >= 1 {
			t.Fatal("alpha should drop after one frame")
		}
	})
}
