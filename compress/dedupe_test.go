package compress

import (
	"errors"
	"testing"

	"gifkit/animation"
)

// solidFrame builds a frame filled with one RGBA value.
func solidFrame(w, h int, r, g, b, a uint8, delay int) animation.Frame {
	f := animation.NewFrame(w, h)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i+0] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
		f.Pix[i+3] = a
	}
	f.Delay = delay
	return f
}

func totalDelay(frames []animation.Frame) int {
	total := 0
	for i := range frames {
		total += frames[i].Delay
	}
	return total
}

func TestDedupeIdenticalFrames(t *testing.T) {
	// Ten identical frames with delay 5 collapse to one frame with
	// delay 50.
	var frames []animation.Frame
	for i := 0; i < 10; i++ {
		frames = append(frames, solidFrame(4, 4, 100, 100, 100, 255, 5))
	}

	out, err := Dedupe(frames, 10)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d frames, want 1", len(out))
	}
	if out[0].Delay != 50 {
		t.Errorf("merged delay = %d, want 50", out[0].Delay)
	}
}

func TestDedupePreservesDuration(t *testing.T) {
	frames := []animation.Frame{
		solidFrame(2, 2, 0, 0, 0, 255, 3),
		solidFrame(2, 2, 2, 2, 2, 255, 7),     // close to previous
		solidFrame(2, 2, 200, 10, 10, 255, 4), // far from previous
		solidFrame(2, 2, 201, 11, 11, 255, 6), // close again
	}
	for _, threshold := range []int{0, 5, 50, 255} {
		out, err := Dedupe(frames, threshold)
		if err != nil {
			t.Fatalf("Dedupe(threshold=%d): %v", threshold, err)
		}
		if got := totalDelay(out); got != 20 {
			t.Errorf("threshold %d: total delay = %d, want 20", threshold, got)
		}
		if len(out) == 0 || out[0].Pix[0] != frames[0].Pix[0] {
			t.Errorf("threshold %d: first frame not preserved", threshold)
		}
	}
}

func TestDedupeIdempotent(t *testing.T) {
	frames := []animation.Frame{
		solidFrame(2, 2, 10, 10, 10, 255, 1),
		solidFrame(2, 2, 12, 12, 12, 255, 2),
		solidFrame(2, 2, 240, 240, 240, 255, 3),
		solidFrame(2, 2, 10, 10, 10, 255, 4),
	}
	once, err := Dedupe(frames, 5)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := Dedupe(once, 5)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(once) != len(twice) {
		t.Fatalf("second pass changed frame count: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Delay != twice[i].Delay {
			t.Errorf("frame %d: delay %d -> %d on second pass", i, once[i].Delay, twice[i].Delay)
		}
	}
}

func TestDedupeThresholdBoundary(t *testing.T) {
	// Mean per-channel difference between the two frames is exactly 4.
	a := solidFrame(2, 2, 0, 0, 0, 0, 1)
	b := solidFrame(2, 2, 4, 4, 4, 4, 1)

	out, err := Dedupe([]animation.Frame{a, b}, 4)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("diff == threshold should merge, got %d frames", len(out))
	}

	out, err = Dedupe([]animation.Frame{a, b}, 3)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("diff > threshold should not merge, got %d frames", len(out))
	}
}

func TestDedupeDimensionMismatch(t *testing.T) {
	frames := []animation.Frame{
		solidFrame(2, 2, 9, 9, 9, 255, 1),
		solidFrame(4, 4, 9, 9, 9, 255, 1),
	}
	out, err := Dedupe(frames, 255)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	// Identical colors but different dimensions: frames are maximally
	// different yet still merge at threshold 255.
	if len(out) != 1 {
		t.Fatalf("got %d frames, want 1 at max threshold", len(out))
	}

	out, err = Dedupe(frames, 254)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("mismatched dimensions merged below max threshold")
	}
}

func TestDedupeDelayOverflow(t *testing.T) {
	a := solidFrame(1, 1, 0, 0, 0, 255, animation.MaxDelay)
	b := solidFrame(1, 1, 0, 0, 0, 255, 1)

	_, err := Dedupe([]animation.Frame{a, b}, 10)
	if !errors.Is(err, ErrDelayOverflow) {
		t.Errorf("err = %v, want ErrDelayOverflow", err)
	}
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	frames := []animation.Frame{
		solidFrame(1, 1, 1, 1, 1, 255, 5),
		solidFrame(1, 1, 1, 1, 1, 255, 5),
	}
	if _, err := Dedupe(frames, 10); err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if frames[0].Delay != 5 || frames[1].Delay != 5 {
		t.Error("Dedupe mutated input delays")
	}
}
