package animation

import (
	"fmt"
	"image"
)

// MaxDelay is the largest representable frame delay, in 10 ms units.
// It matches the 16-bit delay field of the GIF graphic control extension.
const MaxDelay = 0xFFFF

// Frame holds one timed RGBA raster image.
//
// Pix is laid out row-major, 4 bytes per pixel (R, G, B, A), so
// len(Pix) == Width*Height*4. Frames are treated as values: transforms
// build new frames instead of mutating pixel data in place.
type Frame struct {
	// Pix is the RGBA pixel buffer.
	Pix []uint8

	// Width and Height are the frame dimensions in pixels.
	Width  int
	Height int

	// Delay is the display time in 10 ms units. Always >= 1.
	Delay int

	// Transparent indicates the frame carries transparent pixels.
	Transparent bool
}

// NewFrame returns a transparent black frame of the given dimensions
// with the default delay of 10 (100 ms).
func NewFrame(width, height int) Frame {
	return Frame{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
		Delay:  10,
	}
}

// FrameFromRGBA wraps an RGBA buffer as a frame. The buffer length must
// be exactly width*height*4.
func FrameFromRGBA(pix []uint8, width, height int) (Frame, error) {
	if want := width * height * 4; len(pix) != want {
		return Frame{}, fmt.Errorf("animation: pixel buffer is %d bytes, want %d for %dx%d", len(pix), want, width, height)
	}
	return Frame{Pix: pix, Width: width, Height: height, Delay: 10}, nil
}

// Clone returns a deep copy of the frame; the copy owns its own pixel
// buffer.
func (f Frame) Clone() Frame {
	pix := make([]uint8, len(f.Pix))
	copy(pix, f.Pix)
	f.Pix = pix
	return f
}

// Bounds returns the frame rectangle anchored at the origin.
func (f Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// ToNRGBA copies the frame into a stdlib image for resampling or
// encoding.
func (f Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(f.Bounds())
	copy(img.Pix, f.Pix)
	return img
}

// FrameFromImage flattens any image into an origin-anchored RGBA frame.
func FrameFromImage(src image.Image) Frame {
	b := src.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	if nrgba, ok := src.(*image.NRGBA); ok && nrgba.Stride == 4*b.Dx() && b.Min == (image.Point{}) {
		copy(f.Pix, nrgba.Pix)
		return f
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			if a > 0 && a < 0xffff {
				// Un-premultiply so Pix stays non-alpha-premultiplied.
				r = r * 0xffff / a
				g = g * 0xffff / a
				bl = bl * 0xffff / a
			}
			f.Pix[i+0] = uint8(r >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(bl >> 8)
			f.Pix[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return f
}
