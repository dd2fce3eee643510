package compress

import (
	"fmt"

	"gifkit/animation"
)

// Stage is one parameterized transform in the compression sequence.
// The set of stages is closed: the pipeline dispatches on the concrete
// type and nothing else implements it.
type Stage interface {
	fmt.Stringer
	stage() // marker; keeps the variant set closed
}

// StageDedup merges consecutive frames whose mean per-channel pixel
// difference is at or below Threshold (0-255 scale).
type StageDedup struct {
	Threshold int
}

// StageQuantize clusters all frame colors down to at most MaxColors
// palette entries and remaps every pixel to its nearest entry.
type StageQuantize struct {
	MaxColors int
}

// StageSimplify rounds channel values to coarser steps. Quality runs
// from 0 (coarse banding) to 100 (identity).
type StageSimplify struct {
	Quality int
}

// StageDropFrames uniformly subsamples the frame sequence, retaining
// approximately Fraction of the frames.
type StageDropFrames struct {
	Fraction float64
}

func (StageDedup) stage()      {}
func (StageQuantize) stage()   {}
func (StageSimplify) stage()   {}
func (StageDropFrames) stage() {}

func (s StageDedup) String() string      { return fmt.Sprintf("Dedup(%d)", s.Threshold) }
func (s StageQuantize) String() string   { return fmt.Sprintf("Quantize(%d)", s.MaxColors) }
func (s StageSimplify) String() string   { return fmt.Sprintf("Simplify(%d)", s.Quality) }
func (s StageDropFrames) String() string { return fmt.Sprintf("DropFrames(%.2f)", s.Fraction) }

// DefaultStages returns the reference stage sequence, ordered from the
// cheapest perceptual cost to the most destructive.
func DefaultStages() []Stage {
	return []Stage{
		StageDedup{Threshold: 10},
		StageQuantize{MaxColors: 128},
		StageSimplify{Quality: 80},
		StageQuantize{MaxColors: 64},
		StageSimplify{Quality: 60},
		StageQuantize{MaxColors: 32},
		StageSimplify{Quality: 40},
		StageDedup{Threshold: 5},
		StageQuantize{MaxColors: 16},
		StageDropFrames{Fraction: 0.70},
	}
}

// apply runs one stage against the animation and returns the
// transformed copy. The input is never mutated.
func (p *Pipeline) apply(s Stage, anim *animation.Animation) (*animation.Animation, error) {
	out := &animation.Animation{
		Width:     anim.Width,
		Height:    anim.Height,
		Palette:   anim.Palette,
		LoopCount: anim.LoopCount,
	}
	switch st := s.(type) {
	case StageDedup:
		frames, err := Dedupe(anim.Frames, st.Threshold)
		if err != nil {
			return nil, err
		}
		out.Frames = frames
	case StageQuantize:
		frames, palette, err := p.quantize(anim.Frames, st.MaxColors, anim.HasTransparency())
		if err != nil {
			return nil, err
		}
		out.Frames = frames
		out.Palette = palette
	case StageSimplify:
		frames, err := p.simplify(anim.Frames, st.Quality)
		if err != nil {
			return nil, err
		}
		out.Frames = frames
		// Rounded channels no longer match the palette entries; drop
		// the palette so the encoder sees the simplified colors instead
		// of dithering them back.
		out.Palette = nil
	case StageDropFrames:
		frames, err := DropFrames(anim.Frames, st.Fraction)
		if err != nil {
			return nil, err
		}
		out.Frames = frames
	default:
		return nil, fmt.Errorf("%w: unknown stage %T", ErrInvalidParameter, s)
	}
	return out, nil
}
