package compress

import (
	"errors"
	"testing"

	"gifkit/animation"
)

func numberedFrames(n int, delay int) []animation.Frame {
	frames := make([]animation.Frame, n)
	for i := range frames {
		frames[i] = solidFrame(1, 1, uint8(i), 0, 0, 255, delay)
	}
	return frames
}

func TestDropFramesFractionBounds(t *testing.T) {
	frames := numberedFrames(4, 1)
	for _, fr := range []float64{-0.5, 0, 1.5} {
		if _, err := DropFrames(frames, fr); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("DropFrames(%v) err = %v, want ErrInvalidParameter", fr, err)
		}
	}
}

func TestDropFramesKeepsEndpointsAndDuration(t *testing.T) {
	frames := numberedFrames(10, 5)
	out, err := DropFrames(frames, 0.5)
	if err != nil {
		t.Fatalf("DropFrames: %v", err)
	}
	if len(out) >= len(frames) {
		t.Fatalf("got %d frames, want fewer than %d", len(out), len(frames))
	}
	if out[0].Pix[0] != 0 {
		t.Error("first frame was dropped")
	}
	if out[len(out)-1].Pix[0] != 9 {
		t.Error("last frame was dropped")
	}
	if got := totalDelay(out); got != 50 {
		t.Errorf("total delay = %d, want 50", got)
	}
}

func TestDropFramesApproximatesFraction(t *testing.T) {
	frames := numberedFrames(100, 1)
	out, err := DropFrames(frames, 0.70)
	if err != nil {
		t.Fatalf("DropFrames: %v", err)
	}
	if len(out) < 60 || len(out) > 80 {
		t.Errorf("kept %d of 100 frames, want roughly 70", len(out))
	}
	if got := totalDelay(out); got != 100 {
		t.Errorf("total delay = %d, want 100", got)
	}
}

func TestDropFramesFullFractionKeepsAll(t *testing.T) {
	frames := numberedFrames(5, 2)
	out, err := DropFrames(frames, 1)
	if err != nil {
		t.Fatalf("DropFrames: %v", err)
	}
	if len(out) != 5 {
		t.Errorf("got %d frames, want all 5", len(out))
	}
}

func TestDropFramesTinySequences(t *testing.T) {
	for n := 0; n <= 2; n++ {
		out, err := DropFrames(numberedFrames(n, 1), 0.1)
		if err != nil {
			t.Fatalf("DropFrames(n=%d): %v", n, err)
		}
		if len(out) != n {
			t.Errorf("n=%d: got %d frames, want %d", n, len(out), n)
		}
	}
}

func TestDropFramesDelayOverflow(t *testing.T) {
	frames := numberedFrames(3, 1)
	frames[0].Delay = animation.MaxDelay
	frames[1].Delay = animation.MaxDelay
	frames[2].Delay = 1

	_, err := DropFrames(frames, 0.5)
	if !errors.Is(err, ErrDelayOverflow) {
		t.Errorf("err = %v, want ErrDelayOverflow", err)
	}
}
