package game

import (
	"math"
	"testing"
)

func TestCamera_FixedPoint(t *testing.T) {
	var c Camera
	p := Vec{X: 7.25, Y: 3.5}
	c.X, c.Y = c.Target(p, 48, 960, 640)
	before := c
	c.Update(p, 48, 960, 640)
	if c != before {
		t.Fatalf("camera moved from fixed point: %+v -> %+v", before, c)
	}
}

func TestCamera_LerpsTowardTarget(t *testing.T) {
	var c Camera
	p := Vec{X: 10, Y: 10}
	tx, ty := c.Target(p, 32, 320, 240)
	c.Update(p, 32, 320, 240)
	if math.Abs(c.X-tx*CameraLerp) > 1e-9 || math.Abs(c.Y-ty*CameraLerp) > 1e-9 {
		t.Fatalf("first step = (%.3f,%.3f), want %.2f of target (%.1f,%.1f)", c.X, c.Y, CameraLerp, tx, ty)
	}
	for i := 0; i < 300; i++ {
		c.Update(p, 32, 320, 240)
	}
	if math.Abs(c.X-tx) > 1e-6 || math.Abs(c.Y-ty) > 1e-6 {
		t.Fatalf("camera did not settle: (%.4f,%.4f) vs (%.1f,%.1f)", c.X, c.Y, tx, ty)
	}
}

func TestCamera_TargetCentresTile(t *testing.T) {
	var c Camera
	c.X, c.Y = c.Target(Vec{X: 4, Y: 2}, 50, 500, 300)
	sx, sy := c.Project(Vec{X: 4, Y: 2}, 50)
	if sx+25 != 250 || sy+25 != 150 {
		t.Fatalf("tile centre projected to (%.1f,%.1f), want viewport centre", sx+25, sy+25)
	}
}

func TestCamera_UnprojectInvertsProject(t *testing.T) {
	c := Camera{X: -37.5, Y: 112}
	for _, v := range []Vec{{0, 0}, {3, 9}, {12.5, 0.25}} {
		sx, sy := c.Project(v, 48)
		got := c.Unproject(sx+24, sy+24, 48)
		if math.Abs(got.X-v.X) > 1e-9 || math.Abs(got.Y-v.Y) > 1e-9 {
			t.Fatalf("Unproject(Project(%+v)) = %+v", v, got)
		}
	}
}
