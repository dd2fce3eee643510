package gifio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"gifkit/animation"
)

// Encode writes the animation as a GIF stream. When the animation
// carries a quantized palette it is used directly; otherwise frames are
// dithered onto a generic 256-color palette. Frames smaller than the
// canvas are centered, matching common GIF tooling.
func Encode(w io.Writer, anim *animation.Animation) error {
	if err := anim.Validate(); err != nil {
		return fmt.Errorf("gifio: encode: %w", err)
	}

	pal := framePalette(anim)
	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(anim.Frames)),
		Delay:     make([]int, len(anim.Frames)),
		Disposal:  make([]byte, len(anim.Frames)),
		LoopCount: anim.LoopCount,
		Config: image.Config{
			Width:  anim.Width,
			Height: anim.Height,
		},
	}

	for i := range anim.Frames {
		f := &anim.Frames[i]
		rect := image.Rect(0, 0, f.Width, f.Height)
		if f.Width < anim.Width || f.Height < anim.Height {
			offX := (anim.Width - f.Width) / 2
			offY := (anim.Height - f.Height) / 2
			rect = rect.Add(image.Pt(offX, offY))
		}
		g.Image[i] = palettedFrame(f, rect, pal)
		g.Delay[i] = f.Delay
		g.Disposal[i] = gif.DisposalNone
	}

	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("gifio: encode: %w", err)
	}
	return nil
}

// EncodeBytes encodes the animation in memory. Its signature matches
// what the compression pipeline expects from its size probe, so it can
// be passed to compress.New directly.
func EncodeBytes(anim *animation.Animation) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, anim); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// framePalette picks the color table for encoding: the animation's own
// quantized palette when present, else a generic one. A transparent
// entry is reserved at index 0 when any frame needs it.
func framePalette(anim *animation.Animation) color.Palette {
	pal := anim.Palette
	if pal == nil {
		pal = palette.Plan9
	}
	if anim.HasTransparency() {
		if len(pal) > 255 {
			pal = pal[:255]
		}
		withAlpha := make(color.Palette, 0, len(pal)+1)
		withAlpha = append(withAlpha, color.RGBA{})
		withAlpha = append(withAlpha, pal...)
		return withAlpha
	}
	if len(pal) > 256 {
		pal = pal[:256]
	}
	return pal
}

// palettedFrame converts an RGBA frame to an indexed image using
// Floyd-Steinberg dithering against the shared palette.
func palettedFrame(f *animation.Frame, rect image.Rectangle, pal color.Palette) *image.Paletted {
	src := f.ToNRGBA()
	dst := image.NewPaletted(rect, pal)
	draw.FloydSteinberg.Draw(dst, rect, src, image.Point{})
	return dst
}
