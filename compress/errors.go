package compress

import "errors"

var (
	// ErrInvalidTarget is returned when the target percentage is outside [1, 99].
	ErrInvalidTarget = errors.New("compress: target percent must be between 1 and 99")

	// ErrEmptyAnimation is returned when the input animation has no frames.
	ErrEmptyAnimation = errors.New("compress: animation has no frames")

	// ErrInvalidParameter is returned when a stage carries an out-of-range
	// parameter, such as a quantizer color count outside [2, 256].
	ErrInvalidParameter = errors.New("compress: invalid stage parameter")

	// ErrDelayOverflow is returned when merging or redistributing frame
	// delays would exceed the maximum representable delay. Callers must
	// split the animation instead; delays are never truncated silently.
	ErrDelayOverflow = errors.New("compress: accumulated frame delay exceeds maximum")

	// ErrEncodeProbe wraps failures from the external encoder during a
	// size measurement.
	ErrEncodeProbe = errors.New("compress: encode probe failed")
)
