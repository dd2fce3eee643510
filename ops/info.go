package ops

import (
	"fmt"
	"strings"

	"gifkit/animation"
)

// Info summarizes an animation for display.
type Info struct {
	FileSize     int64 // bytes on disk; 0 when unknown
	Width        int
	Height       int
	Frames       int
	DurationCS   int // total duration in 10 ms units
	AvgDelayCS   int
	LoopCount    int
	PaletteSize  int
	Transparency bool
}

// Describe collects display metadata for an animation. fileSize may be
// 0 when the animation did not come from a file.
func Describe(anim *animation.Animation, fileSize int64) Info {
	info := Info{
		FileSize:     fileSize,
		Width:        anim.Width,
		Height:       anim.Height,
		Frames:       anim.FrameCount(),
		DurationCS:   anim.TotalDuration(),
		LoopCount:    anim.LoopCount,
		PaletteSize:  len(anim.Palette),
		Transparency: anim.HasTransparency(),
	}
	if info.Frames > 0 {
		info.AvgDelayCS = info.DurationCS / info.Frames
	}
	return info
}

// String renders the summary as the multi-line report printed by the
// info command.
func (i Info) String() string {
	var b strings.Builder
	if i.FileSize > 0 {
		fmt.Fprintf(&b, "Size:        %d bytes (%.2f MiB)\n", i.FileSize, float64(i.FileSize)/(1024*1024))
	}
	fmt.Fprintf(&b, "Dimensions:  %dx%d px\n", i.Width, i.Height)
	fmt.Fprintf(&b, "Frames:      %d\n", i.Frames)
	fmt.Fprintf(&b, "Duration:    %.2f s (%d cs)\n", float64(i.DurationCS)/100, i.DurationCS)
	fmt.Fprintf(&b, "Avg delay:   %d ms\n", i.AvgDelayCS*10)
	if i.LoopCount == 0 {
		b.WriteString("Loop:        infinite\n")
	} else {
		fmt.Fprintf(&b, "Loop:        %d times\n", i.LoopCount)
	}
	if i.PaletteSize > 0 {
		fmt.Fprintf(&b, "Palette:     %d colors\n", i.PaletteSize)
	} else {
		b.WriteString("Palette:     none (truecolor)\n")
	}
	fmt.Fprintf(&b, "Transparent: %v", i.Transparency)
	return b.String()
}
