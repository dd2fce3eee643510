// Package compress implements the adaptive multi-stage compression
// pipeline: it applies a fixed ordered sequence of lossy transforms to
// an animation, measuring the real encoded size after each stage, and
// stops as soon as a caller-set size target is met.
package compress

import (
	"context"
	"fmt"
	"image/color"

	"github.com/rs/zerolog"

	"gifkit/animation"
)

// EncodeFunc produces the in-memory encoded representation of an
// animation. The pipeline uses it purely as a size oracle; the bytes
// are discarded after measuring.
type EncodeFunc func(*animation.Animation) ([]byte, error)

// Outcome describes how a compression run ended.
type Outcome int

const (
	// Converged means the measured size reached the target.
	Converged Outcome = iota
	// Exhausted means every stage ran without reaching the target.
	Exhausted
	// Cancelled means the caller's context was cancelled between
	// stages; the result holds the best animation so far.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result reports a finished compression run.
type Result struct {
	// Animation is the transformed animation.
	Animation *animation.Animation

	// InitialSize and FinalSize are encoded sizes in bytes, measured
	// by the external encoder.
	InitialSize int
	FinalSize   int

	// AchievedPercent is FinalSize / InitialSize * 100.
	AchievedPercent float64

	// StagesApplied lists the descriptors of the stages that ran, in
	// order.
	StagesApplied []string

	// Outcome records whether the run converged, exhausted its stages
	// or was cancelled.
	Outcome Outcome
}

// Pipeline runs the fixed stage sequence against animations.
type Pipeline struct {
	encode  EncodeFunc
	stages  []Stage
	seed    int64
	workers int
	log     zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStages replaces the default stage sequence.
func WithStages(stages []Stage) Option {
	return func(p *Pipeline) { p.stages = stages }
}

// WithSeed sets the quantizer clustering seed.
func WithSeed(seed int64) Option {
	return func(p *Pipeline) { p.seed = seed }
}

// WithWorkers caps the per-frame worker pool. 0 means one worker per
// available core.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithLogger sets the logger for stage progress. The default discards
// everything.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New builds a pipeline around the external encoder.
func New(encode EncodeFunc, opts ...Option) *Pipeline {
	p := &Pipeline{
		encode: encode,
		stages: DefaultStages(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// measure asks the external encoder for the animation's encoded size.
func (p *Pipeline) measure(anim *animation.Animation) (int, error) {
	data, err := p.encode(anim)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEncodeProbe, err)
	}
	return len(data), nil
}

func (p *Pipeline) poolSize(frames int) int {
	if p.workers > 0 {
		if p.workers > frames {
			return frames
		}
		return p.workers
	}
	return defaultWorkers(frames)
}

func (p *Pipeline) quantize(frames []animation.Frame, maxColors int, transparent bool) ([]animation.Frame, color.Palette, error) {
	return quantizeFrames(frames, maxColors, p.seed, transparent, p.poolSize(len(frames)))
}

func (p *Pipeline) simplify(frames []animation.Frame, quality int) ([]animation.Frame, error) {
	return simplifyFrames(frames, quality, p.poolSize(len(frames)))
}

// Compress shrinks the animation toward targetPercent of its initial
// encoded size by applying the stage sequence strictly forward, probing
// the size after each stage. It returns as soon as the target is met;
// otherwise it runs every stage and reports whatever ratio it reached.
// Reaching the target is never guaranteed.
//
// The input animation is not mutated. ctx is checked only between
// stages: on cancellation the best animation so far is returned with
// Outcome Cancelled and a nil error. Any stage or probe failure aborts
// the run and returns only the error.
func (p *Pipeline) Compress(ctx context.Context, anim *animation.Animation, targetPercent int) (*Result, error) {
	if targetPercent < 1 || targetPercent > 99 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTarget, targetPercent)
	}
	if anim == nil || len(anim.Frames) == 0 {
		return nil, ErrEmptyAnimation
	}

	initial, err := p.measure(anim)
	if err != nil {
		return nil, err
	}
	target := initial * targetPercent / 100

	p.log.Info().
		Int("initial_bytes", initial).
		Int("target_bytes", target).
		Int("target_percent", targetPercent).
		Int("frames", len(anim.Frames)).
		Msg("compress start")

	current := anim
	size := initial
	applied := make([]string, 0, len(p.stages))

	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			p.log.Warn().Str("stage", stage.String()).Msg("cancelled between stages")
			return p.result(current, initial, size, applied, Cancelled), nil
		}

		next, err := p.apply(stage, current)
		if err != nil {
			return nil, fmt.Errorf("stage %d %s: %w", i+1, stage, err)
		}
		current = next
		applied = append(applied, stage.String())

		size, err = p.measure(current)
		if err != nil {
			return nil, err
		}
		p.log.Debug().
			Str("stage", stage.String()).
			Int("bytes", size).
			Int("frames", len(current.Frames)).
			Msg("stage applied")

		if size <= target {
			p.log.Info().Int("final_bytes", size).Msg("target reached")
			return p.result(current, initial, size, applied, Converged), nil
		}
	}

	p.log.Info().Int("final_bytes", size).Msg("stages exhausted")
	return p.result(current, initial, size, applied, Exhausted), nil
}

func (p *Pipeline) result(anim *animation.Animation, initial, final int, applied []string, outcome Outcome) *Result {
	achieved := 0.0
	if initial > 0 {
		achieved = float64(final) / float64(initial) * 100
	}
	return &Result{
		Animation:       anim,
		InitialSize:     initial,
		FinalSize:       final,
		AchievedPercent: achieved,
		StagesApplied:   applied,
		Outcome:         outcome,
	}
}
