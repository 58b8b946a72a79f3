package game

// CameraLerp is the fraction of the remaining distance covered per frame.
const CameraLerp = 0.12

// Camera is a pixel offset subtracted from world coordinates when drawing.
type Camera struct {
	X, Y float64
}

// Target returns the offset that centres tile-space position p in a
// viewW×viewH viewport.
func (c *Camera) Target(p Vec, tileSize, viewW, viewH float64) (float64, float64) {
	return (p.X+0.5)*tileSize - viewW/2, (p.Y+0.5)*tileSize - viewH/2
}

// Update eases the offset toward the target for p. It never snaps or clamps.
func (c *Camera) Update(p Vec, tileSize, viewW, viewH float64) {
	tx, ty := c.Target(p, tileSize, viewW, viewH)
	c.X += (tx - c.X) * CameraLerp
	c.Y += (ty - c.Y) * CameraLerp
}

// Project converts a tile-space position to screen pixels (top-left of the tile).
func (c *Camera) Project(v Vec, tileSize float64) (float64, float64) {
	return v.X*tileSize - c.X, v.Y*tileSize - c.Y
}

// Unproject converts screen pixels to a fractional tile coordinate measured
// from tile centres, so rounding yields the tile under the point.
func (c *Camera) Unproject(sx, sy, tileSize float64) Vec {
	return Vec{
		X: (sx+c.X)/tileSize - 0.5,
		Y: (sy+c.Y)/tileSize - 0.5,
	}
}
