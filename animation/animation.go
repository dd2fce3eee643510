// Package animation defines the in-memory model for a timed sequence of
// RGBA frames. Codec packages turn container formats into Animation
// values; transform packages consume an Animation and produce a new one.
package animation

import (
	"errors"
	"image/color"
)

var (
	ErrNoFrames   = errors.New("animation: no frames")
	ErrFrameSize  = errors.New("animation: frame exceeds canvas bounds")
	ErrPixelCount = errors.New("animation: pixel buffer does not match frame dimensions")
	ErrBadDelay   = errors.New("animation: frame delay below minimum of 1")
)

// Animation is an ordered sequence of frames sharing a canvas.
type Animation struct {
	// Frames holds the ordered animation frames.
	Frames []Frame

	// Width and Height are the canvas dimensions in pixels.
	Width  int
	Height int

	// Palette is the shared color table, if the animation has been
	// quantized. Nil means truecolor; never more than 256 entries.
	Palette color.Palette

	// LoopCount is the number of times to loop. 0 means infinite.
	LoopCount int
}

// FrameCount returns the number of frames.
func (a *Animation) FrameCount() int { return len(a.Frames) }

// TotalDuration returns the sum of all frame delays in 10 ms units.
func (a *Animation) TotalDuration() int {
	total := 0
	for i := range a.Frames {
		total += a.Frames[i].Delay
	}
	return total
}

// Clone returns a deep copy: frames, pixel buffers and palette are all
// duplicated so the copy shares no mutable state with the original.
func (a *Animation) Clone() *Animation {
	out := &Animation{
		Width:     a.Width,
		Height:    a.Height,
		LoopCount: a.LoopCount,
		Frames:    make([]Frame, len(a.Frames)),
	}
	for i := range a.Frames {
		out.Frames[i] = a.Frames[i].Clone()
	}
	if a.Palette != nil {
		out.Palette = make(color.Palette, len(a.Palette))
		copy(out.Palette, a.Palette)
	}
	return out
}

// Validate checks the structural invariants: at least one frame, every
// frame within the canvas, every pixel buffer sized to its frame and
// every delay at least 1.
func (a *Animation) Validate() error {
	if len(a.Frames) == 0 {
		return ErrNoFrames
	}
	for i := range a.Frames {
		f := &a.Frames[i]
		if f.Width > a.Width || f.Height > a.Height {
			return ErrFrameSize
		}
		if len(f.Pix) != f.Width*f.Height*4 {
			return ErrPixelCount
		}
		if f.Delay < 1 {
			return ErrBadDelay
		}
	}
	return nil
}

// HasTransparency reports whether any frame is flagged transparent.
func (a *Animation) HasTransparency() bool {
	for i := range a.Frames {
		if a.Frames[i].Transparent {
			return true
		}
	}
	return false
}
