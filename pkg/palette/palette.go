// Package palette generates fill colors for base groups. It implements
// HSV-based palette generation with an optional brightness shimmer.
//
// Colors are returned as "#rrggbb" strings so they can be used directly as
// shape fill labels.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Source is the random source used to pick colors.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// Random returns n colors: a dark anchor first, then mid-saturation accents.
func Random(r Source, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	out[0] = colorful.Hsv(r.Float64()*360, r.Float64(), r.Float64()*0.3).Hex()
	for i := 1; i < n; i++ {
		out[i] = colorful.Hsv(r.Float64()*360, r.Float64()*0.5+0.25, r.Float64()*0.5+0.25).Hex()
	}
	return out
}

// Shimmered returns a copy of colors with every accent (all but the first)
// jittered in brightness by up to ±0.1. Labels that are not hex colors are
// kept as-is.
func Shimmered(colors []string, r Source) []string {
	out := make([]string, len(colors))
	copy(out, colors)
	for i := 1; i < len(out); i++ {
		c, err := colorful.Hex(out[i])
		if err != nil {
			continue
		}
		h, s, v := c.Hsv()
		v = clamp(v+(r.Float64()-0.5)*0.2, 0, 1)
		out[i] = colorful.Hsv(h, s, v).Hex()
	}
	return out
}
