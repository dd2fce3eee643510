package compress

import (
	"fmt"

	"gifkit/animation"
)

// stepForQuality maps a 0-100 quality to a per-channel rounding step.
// The mapping is step = 1 + (100-quality)/2 using integer division:
// monotonically non-increasing in quality, with quality 100 giving
// step 1 (identity) and quality 0 giving step 51.
func stepForQuality(quality int) int {
	return 1 + (100-quality)/2
}

// Simplify rounds every color channel to the nearest multiple of the
// quality-derived step, clamped to [0, 255]. Coarser steps create
// longer runs of identical bytes for the encoder to exploit. The
// transform is independent per pixel; alpha is left untouched.
// Quality must lie in [0, 100]; quality 100 is the identity.
func Simplify(frames []animation.Frame, quality int) ([]animation.Frame, error) {
	return simplifyFrames(frames, quality, defaultWorkers(len(frames)))
}

func simplifyFrames(frames []animation.Frame, quality int, workers int) ([]animation.Frame, error) {
	if quality < 0 || quality > 100 {
		return nil, fmt.Errorf("%w: quality %d outside [0, 100]", ErrInvalidParameter, quality)
	}
	if quality == 100 {
		return cloneFrames(frames), nil
	}

	step := stepForQuality(quality)

	// One shared read-only rounding table for all workers.
	var table [256]uint8
	for v := 0; v < 256; v++ {
		r := (v + step/2) / step * step
		if r > 255 {
			r = 255
		}
		table[v] = uint8(r)
	}

	out := cloneFrames(frames)
	forEachFrame(len(out), workers, func(i int) {
		pix := out[i].Pix
		for j := 0; j+3 < len(pix); j += 4 {
			pix[j+0] = table[pix[j+0]]
			pix[j+1] = table[pix[j+1]]
			pix[j+2] = table[pix[j+2]]
		}
	})
	return out, nil
}
