package ops

import (
	"errors"
	"math"

	"gifkit/animation"
)

var ErrBadFactor = errors.New("ops: speed factor must be greater than 0")

// extremeSpeedup is the factor past which delay division alone cannot
// keep up (delays bottom out at 1) and frames start being dropped.
const extremeSpeedup = 4.0

// Speed retimes the animation by the given factor: 2.0 plays twice as
// fast, 0.5 twice as slow. Delays never drop below the minimum of 1
// (10 ms); for factors above 4 the frame sequence is additionally
// thinned to every Nth frame.
func Speed(anim *animation.Animation, factor float64) (*animation.Animation, error) {
	if factor <= 0 {
		return nil, ErrBadFactor
	}

	out := anim.Clone()
	for i := range out.Frames {
		d := int(math.Round(float64(out.Frames[i].Delay) / factor))
		if d < 1 {
			d = 1
		}
		if d > animation.MaxDelay {
			d = animation.MaxDelay
		}
		out.Frames[i].Delay = d
	}

	if factor > extremeSpeedup && len(out.Frames) > 1 {
		keep := int(math.Ceil(float64(len(out.Frames)) / factor))
		if keep < 1 {
			keep = 1
		}
		step := int(math.Ceil(float64(len(out.Frames)) / float64(keep)))
		thinned := out.Frames[:0]
		for i := range out.Frames {
			if i%step == 0 {
				thinned = append(thinned, out.Frames[i])
			}
		}
		out.Frames = thinned
	}
	return out, nil
}
