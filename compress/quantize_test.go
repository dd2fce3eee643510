package compress

import (
	"errors"
	"image/color"
	"testing"

	"gifkit/animation"
)

// frameFromColors lays the given RGB colors out as one pixel row.
func frameFromColors(colors [][3]uint8) animation.Frame {
	f := animation.NewFrame(len(colors), 1)
	for i, c := range colors {
		f.Pix[i*4+0] = c[0]
		f.Pix[i*4+1] = c[1]
		f.Pix[i*4+2] = c[2]
		f.Pix[i*4+3] = 255
	}
	return f
}

func TestQuantizeParameterBounds(t *testing.T) {
	frames := []animation.Frame{solidFrame(1, 1, 0, 0, 0, 255, 1)}
	for _, k := range []int{-1, 0, 1, 257, 1000} {
		if _, _, err := Quantize(frames, k, 1); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Quantize(k=%d) err = %v, want ErrInvalidParameter", k, err)
		}
	}
	for _, k := range []int{2, 256} {
		if _, _, err := Quantize(frames, k, 1); err != nil {
			t.Errorf("Quantize(k=%d) err = %v, want nil", k, err)
		}
	}
}

func TestQuantizePaletteBound(t *testing.T) {
	// Four distinct colors reduced to two palette entries.
	colors := [][3]uint8{
		{255, 0, 0},   // red
		{0, 0, 255},   // blue
		{0, 255, 0},   // green
		{255, 255, 0}, // yellow
	}
	frames := []animation.Frame{frameFromColors(colors), frameFromColors(colors)}

	out, pal, err := Quantize(frames, 2, 1)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(pal) > 2 {
		t.Fatalf("palette has %d entries, want <= 2", len(pal))
	}
	if len(pal) == 0 {
		t.Fatal("palette is empty")
	}

	// Every output pixel must be the palette entry nearest (by RGB
	// distance, ties to the lower index) to the original pixel.
	for fi := range out {
		in, got := frames[fi].Pix, out[fi].Pix
		for j := 0; j+3 < len(in); j += 4 {
			want := nearestPaletteColor(pal, in[j], in[j+1], in[j+2])
			if got[j] != want.R || got[j+1] != want.G || got[j+2] != want.B {
				t.Errorf("frame %d pixel %d = (%d,%d,%d), want %v",
					fi, j/4, got[j], got[j+1], got[j+2], want)
			}
		}
	}
}

func nearestPaletteColor(pal color.Palette, r, g, b uint8) color.RGBA {
	best := pal[0].(color.RGBA)
	bestDist := int64(1) << 62
	for _, entry := range pal {
		e := entry.(color.RGBA)
		dr := int64(r) - int64(e.R)
		dg := int64(g) - int64(e.G)
		db := int64(b) - int64(e.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best
}

func TestQuantizeExactWhenFewColors(t *testing.T) {
	// Two distinct colors and room for 16: both survive unchanged.
	colors := [][3]uint8{{10, 20, 30}, {200, 150, 100}}
	frames := []animation.Frame{frameFromColors(colors)}

	out, pal, err := Quantize(frames, 16, 1)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(pal) != 2 {
		t.Fatalf("palette has %d entries, want 2", len(pal))
	}
	for i, c := range colors {
		got := out[0].Pix[i*4 : i*4+3]
		if got[0] != c[0] || got[1] != c[1] || got[2] != c[2] {
			t.Errorf("pixel %d changed: got %v, want %v", i, got, c)
		}
	}
}

func TestQuantizeDeterministicAtFixedSeed(t *testing.T) {
	var colors [][3]uint8
	for i := 0; i < 64; i++ {
		colors = append(colors, [3]uint8{uint8(i * 4), uint8(255 - i*3), uint8(i * 7)})
	}
	frames := []animation.Frame{frameFromColors(colors)}

	_, pal1, err := Quantize(frames, 8, 42)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	_, pal2, err := Quantize(frames, 8, 42)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(pal1) != len(pal2) {
		t.Fatalf("palette sizes differ: %d vs %d", len(pal1), len(pal2))
	}
	for i := range pal1 {
		if pal1[i] != pal2[i] {
			t.Errorf("palette entry %d differs: %v vs %v", i, pal1[i], pal2[i])
		}
	}
}

func TestQuantizeTransparentPixels(t *testing.T) {
	f := animation.NewFrame(2, 1)
	// One opaque red pixel, one nearly transparent pixel.
	f.Pix[0], f.Pix[1], f.Pix[2], f.Pix[3] = 255, 0, 0, 255
	f.Pix[4], f.Pix[5], f.Pix[6], f.Pix[7] = 50, 50, 50, 10
	f.Transparent = true

	out, pal, err := Quantize([]animation.Frame{f}, 2, 1)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	// Only the opaque pixel is sampled.
	if len(pal) != 1 {
		t.Fatalf("palette has %d entries, want 1", len(pal))
	}
	if out[0].Pix[7] != 0 {
		t.Errorf("sub-cutoff pixel alpha = %d, want 0", out[0].Pix[7])
	}
	if out[0].Pix[3] != 255 || out[0].Pix[0] != 255 {
		t.Errorf("opaque pixel altered: %v", out[0].Pix[:4])
	}
}

func TestQuantizeAllTransparent(t *testing.T) {
	f := solidFrame(2, 2, 9, 9, 9, 0, 1)
	f.Transparent = true

	out, pal, err := Quantize([]animation.Frame{f}, 8, 1)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if pal != nil {
		t.Errorf("palette = %v, want nil with no opaque samples", pal)
	}
	if len(out) != 1 {
		t.Fatalf("got %d frames, want 1", len(out))
	}
}
