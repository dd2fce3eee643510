package compress

import (
	"fmt"
	"image/color"
	"math/rand"
	"sort"

	"gifkit/animation"
)

const (
	// alphaCutoff is the alpha value below which a pixel is treated as
	// transparent: it is excluded from palette sampling and remapped to
	// fully transparent when the animation uses transparency.
	alphaCutoff = 128

	// maxKMeansIters bounds the clustering loop; centroids usually
	// stabilize well before this.
	maxKMeansIters = 12
)

// Quantize builds a palette of at most maxColors representative colors
// from the opaque pixels of all frames and remaps every pixel to its
// nearest entry by Euclidean RGB distance (ties to the lowest index).
// Clustering is seeded explicitly so results are reproducible
// bit-for-bit. maxColors must lie in [2, 256].
func Quantize(frames []animation.Frame, maxColors int, seed int64) ([]animation.Frame, color.Palette, error) {
	transparent := false
	for i := range frames {
		if frames[i].Transparent {
			transparent = true
			break
		}
	}
	return quantizeFrames(frames, maxColors, seed, transparent, defaultWorkers(len(frames)))
}

func quantizeFrames(frames []animation.Frame, maxColors int, seed int64, transparent bool, workers int) ([]animation.Frame, color.Palette, error) {
	if maxColors < 2 || maxColors > 256 {
		return nil, nil, fmt.Errorf("%w: max colors %d outside [2, 256]", ErrInvalidParameter, maxColors)
	}

	colors, counts := sampleColors(frames)
	if len(colors) == 0 {
		// Nothing opaque to quantize.
		return cloneFrames(frames), nil, nil
	}

	var palette []rgb
	if len(colors) <= maxColors {
		palette = colors
	} else {
		palette = kmeans(colors, counts, maxColors, seed)
	}

	pal := make(color.Palette, len(palette))
	for i, c := range palette {
		pal[i] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
	}

	out := cloneFrames(frames)
	forEachFrame(len(out), workers, func(i int) {
		remapFrame(&out[i], palette, transparent)
	})
	return out, pal, nil
}

type rgb [3]uint8

func packRGB(c rgb) uint32 {
	return uint32(c[0])<<16 | uint32(c[1])<<8 | uint32(c[2])
}

func unpackRGB(p uint32) rgb {
	return rgb{uint8(p >> 16), uint8(p >> 8), uint8(p)}
}

// sampleColors gathers the distinct opaque colors across all frames
// together with their pixel counts, in ascending packed-RGB order so
// clustering sees a deterministic input regardless of map iteration.
func sampleColors(frames []animation.Frame) ([]rgb, []int) {
	seen := make(map[uint32]int)
	for i := range frames {
		pix := frames[i].Pix
		for j := 0; j+3 < len(pix); j += 4 {
			if pix[j+3] < alphaCutoff {
				continue
			}
			seen[packRGB(rgb{pix[j], pix[j+1], pix[j+2]})]++
		}
	}
	if len(seen) == 0 {
		return nil, nil
	}

	packed := make([]uint32, 0, len(seen))
	for p := range seen {
		packed = append(packed, p)
	}
	sort.Slice(packed, func(a, b int) bool { return packed[a] < packed[b] })

	colors := make([]rgb, len(packed))
	counts := make([]int, len(packed))
	for i, p := range packed {
		colors[i] = unpackRGB(p)
		counts[i] = seen[p]
	}
	return colors, counts
}

// kmeans clusters the weighted distinct colors into k representative
// colors. Initial centroids are drawn from the samples by the seeded
// generator; iteration stops once assignments stabilize. Empty clusters
// are dropped, so the result may hold fewer than k entries.
func kmeans(colors []rgb, counts []int, k int, seed int64) []rgb {
	rng := rand.New(rand.NewSource(seed))

	centroids := make([]rgb, 0, k)
	taken := make(map[int]bool, k)
	for len(centroids) < k {
		i := rng.Intn(len(colors))
		if taken[i] {
			continue
		}
		taken[i] = true
		centroids = append(centroids, colors[i])
	}

	assign := make([]int, len(colors))
	for iter := 0; iter < maxKMeansIters; iter++ {
		changed := false
		for i, c := range colors {
			best := nearestIndex(c, centroids)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		var sums [256][3]uint64
		var weights [256]uint64
		for i, c := range colors {
			w := uint64(counts[i])
			a := assign[i]
			sums[a][0] += uint64(c[0]) * w
			sums[a][1] += uint64(c[1]) * w
			sums[a][2] += uint64(c[2]) * w
			weights[a] += w
		}
		for i := range centroids {
			if weights[i] == 0 {
				continue
			}
			centroids[i] = rgb{
				uint8(sums[i][0] / weights[i]),
				uint8(sums[i][1] / weights[i]),
				uint8(sums[i][2] / weights[i]),
			}
		}
	}

	// Drop centroids that ended up owning no samples.
	used := make([]bool, len(centroids))
	for _, a := range assign {
		used[a] = true
	}
	out := centroids[:0]
	for i, c := range centroids {
		if used[i] {
			out = append(out, c)
		}
	}
	return out
}

// nearestIndex returns the palette index closest to c by squared
// Euclidean RGB distance. Ties resolve to the lowest index.
func nearestIndex(c rgb, palette []rgb) int {
	best := 0
	bestDist := int64(1) << 62
	for i, p := range palette {
		dr := int64(c[0]) - int64(p[0])
		dg := int64(c[1]) - int64(p[1])
		db := int64(c[2]) - int64(p[2])
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// remapFrame rewrites every pixel to its nearest palette color. Pixels
// below the alpha cutoff become fully transparent when the animation
// uses transparency; otherwise they are remapped like opaque pixels.
func remapFrame(f *animation.Frame, palette []rgb, transparent bool) {
	pix := f.Pix
	for j := 0; j+3 < len(pix); j += 4 {
		if transparent && pix[j+3] < alphaCutoff {
			pix[j], pix[j+1], pix[j+2], pix[j+3] = 0, 0, 0, 0
			continue
		}
		p := palette[nearestIndex(rgb{pix[j], pix[j+1], pix[j+2]}, palette)]
		pix[j], pix[j+1], pix[j+2] = p[0], p[1], p[2]
	}
}
