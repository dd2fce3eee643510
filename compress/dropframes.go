package compress

import (
	"fmt"
	"math"

	"gifkit/animation"
)

// DropFrames uniformly subsamples the frame sequence so that roughly
// fraction of the frames remain. The first and last frames are always
// retained. Each dropped frame's delay is folded into its nearest
// retained neighbor, so total duration is preserved exactly.
// Fraction must lie in (0, 1]; 1 keeps every frame.
func DropFrames(frames []animation.Frame, fraction float64) ([]animation.Frame, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("%w: drop fraction %v outside (0, 1]", ErrInvalidParameter, fraction)
	}
	n := len(frames)
	target := int(math.Ceil(float64(n) * fraction))
	if target < 2 {
		target = 2
	}
	if n <= 2 || target >= n {
		return cloneFrames(frames), nil
	}

	// Pick target indices spread evenly across [0, n-1], endpoints
	// included.
	keep := make([]bool, n)
	kept := make([]int, 0, target)
	step := float64(n-1) / float64(target-1)
	for i := 0; i < target; i++ {
		idx := int(math.Round(float64(i) * step))
		if !keep[idx] {
			keep[idx] = true
			kept = append(kept, idx)
		}
	}

	out := make([]animation.Frame, len(kept))
	for i, idx := range kept {
		out[i] = frames[idx].Clone()
	}

	// Fold each dropped frame's delay into the nearest kept frame,
	// preferring the earlier one on ties.
	pos := 0
	for i := 0; i < n; i++ {
		if keep[i] {
			for pos+1 < len(kept) && kept[pos+1] <= i {
				pos++
			}
			continue
		}
		nearest := pos
		if pos+1 < len(kept) && kept[pos+1]-i < i-kept[pos] {
			nearest = pos + 1
		}
		merged := out[nearest].Delay + frames[i].Delay
		if merged > animation.MaxDelay {
			return nil, fmt.Errorf("%w: %d exceeds %d at frame %d",
				ErrDelayOverflow, merged, animation.MaxDelay, i)
		}
		out[nearest].Delay = merged
	}
	return out, nil
}
