// Package ops holds the mechanical animation operations surrounding the
// compression core: playback retiming, dimension resizing and metadata
// inspection. Like the core, every operation consumes an animation and
// returns a new one.
package ops

import (
	"errors"
	"fmt"
	"math"

	"github.com/disintegration/imaging"

	"gifkit/animation"
)

var ErrNoDimensions = errors.New("ops: at least one of width or height must be set")

// Resize scales every frame to the requested dimensions using Lanczos
// resampling. Passing 0 for one dimension derives it from the canvas
// aspect ratio.
func Resize(anim *animation.Animation, width, height int) (*animation.Animation, error) {
	if width <= 0 && height <= 0 {
		return nil, ErrNoDimensions
	}
	if anim.Width <= 0 || anim.Height <= 0 {
		return nil, fmt.Errorf("ops: animation has no canvas to scale from")
	}

	ratio := float64(anim.Width) / float64(anim.Height)
	switch {
	case width <= 0:
		width = int(math.Round(float64(height) * ratio))
		if width < 1 {
			width = 1
		}
	case height <= 0:
		height = int(math.Round(float64(width) / ratio))
		if height < 1 {
			height = 1
		}
	}

	out := &animation.Animation{
		Width:     width,
		Height:    height,
		LoopCount: anim.LoopCount,
		Frames:    make([]animation.Frame, len(anim.Frames)),
	}
	for i := range anim.Frames {
		src := anim.Frames[i]
		resized := imaging.Resize(src.ToNRGBA(), width, height, imaging.Lanczos)
		f := animation.FrameFromImage(resized)
		f.Delay = src.Delay
		f.Transparent = src.Transparent
		out.Frames[i] = f
	}
	return out, nil
}
