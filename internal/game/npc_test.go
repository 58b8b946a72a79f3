package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestNPC_IdleDecisionStartsPathing(t *testing.T) {
	g := openGrid(t, 8, 8)
	rng := rand.New(rand.NewSource(5))
	n := NewNPC("n1", "Mara", "farmer", "", Tile{X: 3, Y: 3}, 0, rng)
	n.NextDecision = 10

	if n.State() != NPCIdle {
		t.Fatalf("new NPC state = %s, want IDLE", n.State())
	}
	n.Update(10, g, rng)

	if n.State() != NPCPathing {
		t.Fatalf("state after decision = %s, want PATHING", n.State())
	}
	if len(n.Path) == 0 {
		t.Fatal("expected a non-empty path")
	}
	if n.Cursor != 0 {
		t.Fatalf("cursor = %d, want 0", n.Cursor)
	}
	assertValidPath(t, g, Tile{X: 3, Y: 3}, n.Path)

	goal := n.Path[len(n.Path)-1]
	if absInt(goal.X-3) > WanderRadius || absInt(goal.Y-3) > WanderRadius {
		t.Fatalf("wander goal %+v outside radius %d of anchor", goal, WanderRadius)
	}
	if d := n.NextDecision - 10; d < decisionMin || d >= decisionMin+decisionJitter {
		t.Fatalf("next decision delay = %d, want [%d,%d)", d, decisionMin, decisionMin+decisionJitter)
	}
}

func TestNPC_BobDoesNotDriftAnchor(t *testing.T) {
	g := openGrid(t, 5, 5)
	rng := rand.New(rand.NewSource(1))
	n := NewNPC("n1", "Mara", "", "", Tile{X: 2, Y: 2}, 0, rng)
	n.NextDecision = math.MaxInt32
	anchor := n.Anchor

	for f := 0; f < 1000; f++ {
		n.Update(f, g, rng)
		if n.Anchor != anchor {
			t.Fatalf("frame %d: anchor moved to %+v", f, n.Anchor)
		}
		if dy := math.Abs(n.Pos.Y - anchor.Y); dy > bobAmplitude+1e-9 {
			t.Fatalf("frame %d: bob offset %.4f exceeds amplitude", f, dy)
		}
		if n.Pos.X != anchor.X {
			t.Fatalf("frame %d: idle NPC moved horizontally", f)
		}
	}
}

func TestNPC_PathCompletionSettlesAnchor(t *testing.T) {
	g := openGrid(t, 5, 5)
	rng := rand.New(rand.NewSource(2))
	n := NewNPC("n1", "Mara", "", "", Tile{X: 0, Y: 0}, 0, rng)
	path, ok := g.FindPath(Tile{X: 0, Y: 0}, Tile{X: 2, Y: 1})
	if !ok {
		t.Fatal("FindPath failed")
	}
	n.AssignPath(path)

	frame := 0
	for ; frame < 1000 && n.State() == NPCPathing; frame++ {
		n.Update(frame, g, rng)
	}
	if n.State() != NPCIdle {
		t.Fatal("NPC never finished its path")
	}
	if n.Pos != (Vec{X: 2, Y: 1}) || n.Anchor != (Vec{X: 2, Y: 1}) {
		t.Fatalf("pos %+v anchor %+v, want both (2,1)", n.Pos, n.Anchor)
	}
	if n.NextDecision <= frame-1 {
		t.Fatalf("countdown not re-armed: next=%d frame=%d", n.NextDecision, frame)
	}
	if n.Target != nil {
		t.Fatal("target should be cleared after the last step")
	}
}

func TestNPC_EnclosedStaysIdle(t *testing.T) {
	g, err := NewGrid([][]string{
		{"lake", "lake", "lake"},
		{"lake", "plains", "lake"},
		{"lake", "lake", "lake"},
	})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	n := NewNPC("n1", "Hermit", "", "", Tile{X: 1, Y: 1}, 0, rng)
	n.NextDecision = 0
	n.Update(0, g, rng)
	if n.State() != NPCIdle {
		t.Fatalf("enclosed NPC state = %s, want IDLE", n.State())
	}
	if n.NextDecision == 0 {
		t.Fatal("countdown should be re-armed even when no wander is found")
	}
}

func TestNPC_AssignEmptyPathReturnsToIdle(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	n := NewNPC("n1", "Mara", "", "", Tile{}, 0, rng)
	n.AssignPath([]Tile{{X: 1, Y: 0}})
	if n.State() != NPCPathing || len(n.RemainingPath()) != 1 {
		t.Fatal("expected one remaining step")
	}
	n.AssignPath(nil)
	if n.State() != NPCIdle || n.Target != nil || n.RemainingPath() != nil {
		t.Fatal("empty path should leave the NPC idle with no target")
	}
}
