package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // sprite codecs

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// SpriteFrames is the number of frames in every sheet, laid out as a
// horizontal strip.
const SpriteFrames = 4

// Animation rates in ticks per frame.
const (
	npcFrameTicks        = 12
	playerMoveFrameTicks = 6
	playerIdleFrameTicks = 20
)

// DecodeSprite decodes a PNG, WebP or BMP sprite sheet.
func DecodeSprite(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode sprite: %w", err)
	}
	if img.Bounds().Dx() < SpriteFrames {
		return nil, fmt.Errorf("decode sprite: %s sheet only %dpx wide", format, img.Bounds().Dx())
	}
	return img, nil
}

// SpriteSheet is a decoded strip. The GPU copy is created on first draw.
type SpriteSheet struct {
	src    image.Image
	img    *ebiten.Image
	frames [SpriteFrames]*ebiten.Image
}

// NewSpriteSheet wraps a decoded image; nil yields nil.
func NewSpriteSheet(img image.Image) *SpriteSheet {
	if img == nil {
		return nil
	}
	return &SpriteSheet{src: img}
}

// FrameSize returns the size of one frame in pixels.
func (s *SpriteSheet) FrameSize() (int, int) {
	b := s.src.Bounds()
	return b.Dx() / SpriteFrames, b.Dy()
}

// Frame returns sub-image i modulo SpriteFrames.
func (s *SpriteSheet) Frame(i int) *ebiten.Image {
	i = ((i % SpriteFrames) + SpriteFrames) % SpriteFrames
	if s.img == nil {
		s.img = ebiten.NewImageFromImage(s.src)
	}
	if s.frames[i] == nil {
		w, h := s.FrameSize()
		s.frames[i] = s.img.SubImage(image.Rect(i*w, 0, (i+1)*w, h)).(*ebiten.Image)
	}
	return s.frames[i]
}

// animFrame maps an animation counter to a sheet frame at ticksPerFrame.
func animFrame(counter, ticksPerFrame int) int {
	return (counter / ticksPerFrame) % SpriteFrames
}
