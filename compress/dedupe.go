package compress

import (
	"fmt"

	"gifkit/animation"
)

// frameDifference returns the mean absolute per-channel difference
// between two frames on a 0-255 scale. Frames with mismatched
// dimensions are maximally different and never merge.
func frameDifference(a, b *animation.Frame) int {
	if a.Width != b.Width || a.Height != b.Height || len(a.Pix) != len(b.Pix) {
		return 255
	}
	if len(a.Pix) == 0 {
		return 0
	}
	var total uint64
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		total += uint64(d)
	}
	return int(total / uint64(len(a.Pix)))
}

// Dedupe merges runs of near-identical consecutive frames, keeping the
// first frame of each run as the representative and folding the merged
// frames' delays into it. Total duration and frame order are preserved;
// the first frame is never dropped. Threshold is the largest mean
// per-channel difference (0-255) at which two frames still merge.
//
// Dedupe is deterministic and idempotent at a fixed threshold: a second
// pass finds only frames that already differ by more than the
// threshold.
func Dedupe(frames []animation.Frame, threshold int) ([]animation.Frame, error) {
	if len(frames) <= 1 {
		return cloneFrames(frames), nil
	}

	out := make([]animation.Frame, 0, len(frames))
	rep := frames[0].Clone()

	for i := 1; i < len(frames); i++ {
		cur := &frames[i]
		if frameDifference(&rep, cur) <= threshold {
			merged := rep.Delay + cur.Delay
			if merged > animation.MaxDelay {
				return nil, fmt.Errorf("%w: %d exceeds %d at frame %d",
					ErrDelayOverflow, merged, animation.MaxDelay, i)
			}
			rep.Delay = merged
			continue
		}
		out = append(out, rep)
		rep = cur.Clone()
	}
	out = append(out, rep)
	return out, nil
}

func cloneFrames(frames []animation.Frame) []animation.Frame {
	out := make([]animation.Frame, len(frames))
	for i := range frames {
		out[i] = frames[i].Clone()
	}
	return out
}
