// Package gifio converts between GIF byte streams and animation values.
// It is the codec collaborator of the transform packages: they operate
// purely on animation.Animation, gifio owns the container format.
package gifio

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"

	"gifkit/animation"
)

// Decode reads a GIF stream into an Animation. Every frame is
// composited onto the logical canvas, so the resulting frames all share
// the canvas dimensions regardless of the sub-rectangles stored in the
// file.
func Decode(r io.Reader) (*animation.Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("gifio: decode: %w", err)
	}
	return fromGIF(g), nil
}

// DecodeBytes decodes a GIF held in memory.
func DecodeBytes(data []byte) (*animation.Animation, error) {
	return Decode(bytes.NewReader(data))
}

func fromGIF(g *gif.GIF) *animation.Animation {
	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		// Older encoders leave Config empty; fall back to the union of
		// frame bounds.
		for _, frame := range g.Image {
			b := frame.Bounds()
			if b.Max.X > width {
				width = b.Max.X
			}
			if b.Max.Y > height {
				height = b.Max.Y
			}
		}
	}

	anim := &animation.Animation{
		Width:     width,
		Height:    height,
		LoopCount: g.LoopCount,
		Frames:    make([]animation.Frame, 0, len(g.Image)),
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, src := range g.Image {
		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		f := animation.FrameFromImage(canvas)
		f.Delay = g.Delay[i]
		if f.Delay < 1 {
			f.Delay = 1
		}
		f.Transparent = hasTransparentPixel(f.Pix)
		anim.Frames = append(anim.Frames, f)

		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	}
	return anim
}

func hasTransparentPixel(pix []uint8) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] < 0xff {
			return true
		}
	}
	return false
}
