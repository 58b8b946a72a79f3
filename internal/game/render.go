package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Parallax scroll factors relative to the camera offset.
const (
	farHillParallax  = 0.1
	nearHillParallax = 0.25
)

// biomeStyle is the gradient and motif colour of a biome.
type biomeStyle struct {
	top, bottom color.RGBA
	motif       color.RGBA
}

var biomeStyles = [biomeCount]biomeStyle{
	BiomePlains:   {top: rgb(0x7c, 0xb8, 0x5e), bottom: rgb(0x5e, 0x98, 0x42), motif: rgb(0x8f, 0xcc, 0x66)},
	BiomeForest:   {top: rgb(0x0e, 0x74, 0x2a), bottom: rgb(0x08, 0x55, 0x1c), motif: rgb(0x00, 0xaa, 0x33)},
	BiomeMountain: {top: rgb(0x5a, 0x64, 0x72), bottom: rgb(0x3f, 0x47, 0x52), motif: rgb(0x9a, 0xa4, 0xad)},
	BiomeLake:     {top: rgb(0x0a, 0x47, 0x88), bottom: rgb(0x06, 0x32, 0x62), motif: rgb(0x1e, 0x90, 0xff)},
}

var (
	skyTop      = rgb(0x1c, 0x2a, 0x48)
	skyBottom   = rgb(0x6d, 0x8f, 0xb5)
	farHills    = color.RGBA{R: 0x3a, G: 0x55, B: 0x52, A: 255}
	nearHills   = color.RGBA{R: 0x2c, G: 0x46, B: 0x36, A: 255}
	tileBorder  = color.RGBA{A: 51}
	snowCap     = rgb(0xf2, 0xf5, 0xf8)
	npcFallback = rgb(0x9b, 0x59, 0xb6)
	pcFallback  = rgb(0xff, 0xcc, 0x00)
	pcOutline   = rgb(0x8b, 0x5a, 0x00)
	pathColor   = color.RGBA{R: 255, G: 90, B: 200, A: 200}
)

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// DrawWorld composes one frame of the world, back to front. It only reads
// simulation state.
func DrawWorld(screen *ebiten.Image, w *World) {
	drawBackground(screen, w)
	if w.Grid == nil {
		return
	}
	drawTiles(screen, w)
	drawNPCs(screen, w)
	drawParticles(screen, w)
	drawPlayer(screen, w)
	if w.DebugPaths {
		drawDebugPaths(screen, w)
	}
}

func drawBackground(screen *ebiten.Image, w *World) {
	sw, sh := float32(w.ViewW), float32(w.ViewH)
	const bands = 12
	bandH := sh / bands
	for i := 0; i < bands; i++ {
		c := lerpColor(skyTop, skyBottom, float64(i)/(bands-1))
		vector.FillRect(screen, 0, float32(i)*bandH, sw, bandH+1, c, false)
	}
	drawHillBand(screen, w, farHills, 0.55, 70, 0.2, farHillParallax)
	drawHillBand(screen, w, nearHills, 0.7, 50, 0.5, nearHillParallax)
}

// drawHillBand draws a row of overlapping discs scrolling with elapsed
// frames and a fraction of the camera offset.
func drawHillBand(screen *ebiten.Image, w *World, c color.RGBA, horizon, radius, drift, parallax float64) {
	const spacing = 90.0
	shift := math.Mod(float64(w.Frame)*drift+w.Camera.X*parallax, spacing)
	if shift < 0 {
		shift += spacing
	}
	baseY := w.ViewH*horizon - w.Camera.Y*parallax*0.2
	for x := -spacing - shift; x < w.ViewW+spacing; x += spacing {
		h := radius * (0.8 + 0.2*math.Sin((x+shift)*0.013+float64(w.Frame)*0.001))
		vector.FillCircle(screen, float32(x), float32(baseY), float32(h), c, true)
	}
	vector.FillRect(screen, 0, float32(baseY), float32(w.ViewW), float32(w.ViewH-baseY), c, false)
}

func drawTiles(screen *ebiten.Image, w *World) {
	g := w.Grid
	ts := w.TileSize
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			px, py := w.Camera.Project(Tile{X: x, Y: y}.Vec(), ts)
			drawTile(screen, g.At(x, y), x, y, float32(px), float32(py), float32(ts), w.Frame)
		}
	}
}

func drawTile(screen *ebiten.Image, b Biome, tx, ty int, x, y, size float32, frame int) {
	st := biomeStyles[b]
	const steps = 4
	step := size / steps
	for i := 0; i < steps; i++ {
		c := lerpColor(st.top, st.bottom, float64(i)/(steps-1))
		vector.FillRect(screen, x, y+float32(i)*step, size, step+0.5, c, false)
	}

	switch b {
	case BiomeForest:
		n := 1 + int(tileDetail(tx, ty, 1)*3)
		for i := 0; i < n; i++ {
			cx := x + size*(0.2+0.6*float32(tileDetail(tx, ty, 10+i)))
			base := y + size*(0.75+0.15*float32(tileDetail(tx, ty, 20+i)))
			h := size * 0.45
			fillTriangle(screen, cx, base-h, cx-h*0.4, base, cx+h*0.4, base, st.motif)
			vector.FillRect(screen, cx-1.5, base, 3, size*0.08, rgb(0x5b, 0x3a, 0x1a), false)
		}
	case BiomeMountain:
		peakX := x + size*(0.4+0.2*float32(tileDetail(tx, ty, 2)))
		peakY := y + size*0.15
		fillTriangle(screen, peakX, peakY, x+size*0.08, y+size*0.92, x+size*0.92, y+size*0.92, st.motif)
		fillTriangle(screen, peakX, peakY, peakX-size*0.12, peakY+size*0.2, peakX+size*0.12, peakY+size*0.2, snowCap)
	case BiomeLake:
		inset := size * 0.08
		vector.FillRect(screen, x+inset, y+inset, size-2*inset, size-2*inset, st.motif, false)
		phase := float64(frame)*0.04 + tileDetail(tx, ty, 3)*2*math.Pi
		r := size * (0.15 + 0.1*float32(0.5+0.5*math.Sin(phase)))
		vector.StrokeCircle(screen, x+size/2, y+size/2, r, 1, color.RGBA{R: 200, G: 230, B: 255, A: 120}, true)
	default:
		for i := 0; i < 3; i++ {
			if tileDetail(tx, ty, 30+i) < 0.5 {
				continue
			}
			gx := x + size*(0.15+0.7*float32(tileDetail(tx, ty, 40+i)))
			gy := y + size*(0.3+0.6*float32(tileDetail(tx, ty, 50+i)))
			vector.StrokeLine(screen, gx, gy, gx-2, gy-size*0.1, 1, st.motif, true)
			vector.StrokeLine(screen, gx, gy, gx+2, gy-size*0.1, 1, st.motif, true)
		}
	}
	vector.StrokeRect(screen, x+0.5, y+0.5, size-1, size-1, 1, tileBorder, false)
}

func fillTriangle(screen *ebiten.Image, x0, y0, x1, y1, x2, y2 float32, c color.RGBA) {
	var path vector.Path
	path.MoveTo(x0, y0)
	path.LineTo(x1, y1)
	path.LineTo(x2, y2)
	path.Close()
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(c)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)
}

func drawNPCs(screen *ebiten.Image, w *World) {
	ts := float32(w.TileSize)
	for _, n := range w.NPCs {
		px, py := w.Camera.Project(n.Pos, w.TileSize)
		x, y := float32(px), float32(py)
		if w.Assets.NPC != nil {
			drawSprite(screen, w.Assets.NPC, animFrame(n.Anim, npcFrameTicks), px, py, w.TileSize)
		} else {
			inset := ts * 0.2
			vector.FillRect(screen, x+inset, y+inset, ts-2*inset, ts-2*inset, npcFallback, false)
			vector.StrokeRect(screen, x+inset, y+inset, ts-2*inset, ts-2*inset, 1, color.Black, false)
		}
		ebitenutil.DebugPrintAt(screen, truncate(n.Name, 12), int(x), int(y-14))
	}
}

func drawParticles(screen *ebiten.Image, w *World) {
	w.Particles.Each(func(p *Particle) {
		c := p.Color
		a := p.Alpha()
		c.R, c.G, c.B, c.A = uint8(float64(c.R)*a), uint8(float64(c.G)*a), uint8(float64(c.B)*a), uint8(float64(c.A)*a)
		vector.FillCircle(screen, float32(p.X-w.Camera.X), float32(p.Y-w.Camera.Y), 2, c, true)
	})
}

func drawPlayer(screen *ebiten.Image, w *World) {
	p := w.Player
	if p == nil {
		return
	}
	px, py := w.Camera.Project(p.Pos, w.TileSize)
	if w.Assets.Player != nil {
		rate := playerIdleFrameTicks
		if p.Moving() {
			rate = playerMoveFrameTicks
		}
		drawSprite(screen, w.Assets.Player, animFrame(p.Anim, rate), px, py, w.TileSize)
		return
	}
	ts := float32(w.TileSize)
	x, y := float32(px), float32(py)
	inset := ts * 0.22
	vector.FillRect(screen, x+inset, y+inset, ts-2*inset, ts-2*inset, pcFallback, false)
	vector.StrokeRect(screen, x+inset, y+inset, ts-2*inset, ts-2*inset, 2, pcOutline, false)
}

// drawSprite scales one frame to the tile and draws it at pixel (px, py).
func drawSprite(screen *ebiten.Image, sheet *SpriteSheet, frame int, px, py, tileSize float64) {
	fw, fh := sheet.FrameSize()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(tileSize/float64(fw), tileSize/float64(fh))
	op.GeoM.Translate(px, py)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(sheet.Frame(frame), op)
}

// drawDebugPaths draws each NPC's remaining route from its position.
func drawDebugPaths(screen *ebiten.Image, w *World) {
	half := w.TileSize / 2
	for _, n := range w.NPCs {
		rest := n.RemainingPath()
		if len(rest) == 0 {
			continue
		}
		fx, fy := w.Camera.Project(n.Pos, w.TileSize)
		for _, t := range rest {
			tx, ty := w.Camera.Project(t.Vec(), w.TileSize)
			vector.StrokeLine(screen, float32(fx+half), float32(fy+half), float32(tx+half), float32(ty+half), 2, pathColor, true)
			fx, fy = tx, ty
		}
		gx, gy := w.Camera.Project(rest[len(rest)-1].Vec(), w.TileSize)
		vector.StrokeCircle(screen, float32(gx+half), float32(gy+half), 4, 1.5, pathColor, true)
	}
}
