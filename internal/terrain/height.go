package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// HeightFunc maps a 2D world position to an elevation. Implementations must be
// pure and deterministic: a single HeightFunc is shared by every generation
// worker without coordination.
type HeightFunc func(p mgl32.Vec2) float32

// Ridge is the default profile: ridged perlin mountains modulated by a
// larger-scale mass noise.
func Ridge(seed int64) HeightFunc {
	n := perlin.NewPerlin(2, 2, 3, seed)

	return func(p mgl32.Vec2) float32 {
		x := float64(p.X())
		z := float64(p.Y())

		h := 1.0 - math.Pow(math.Abs(n.Noise2D(x/200, z/200)), 1.1)
		h *= n.Noise2D(x/400, z/400)*0.5 + 0.5

		return float32(h * 30.0)
	}
}

// Islands layers opensimplex octaves into island masses with a compressed
// sea floor below the waterline.
func Islands(seed int64) HeightFunc {
	n := opensimplex.NewNormalized(seed)

	return func(p mgl32.Vec2) float32 {
		x := float64(p.X()) / 350
		z := float64(p.Y()) / 350

		h := octaveNoise(n, x, z, 4, 1.0, 0.5)*60.0 - 18.0
		if h < -4 {
			h = -4 + (h+4)*0.25
		}
		return float32(h)
	}
}

// Highlands builds rolling terrain from seeded simplex noise: broad base
// relief plus small-scale detail.
func Highlands(seed int64) HeightFunc {
	base := NewNoise(seed)
	detail := NewNoise(seed + 1)

	return func(p mgl32.Vec2) float32 {
		x := float64(p.X())
		z := float64(p.Y())

		h := base.Octave2D(x/512, z/512, 6, 0.5) * 80.0
		h += detail.Octave2D(x/64, z/64, 3, 0.5) * 6.0

		return float32(h)
	}
}

// Flat returns a constant elevation everywhere.
func Flat(elevation float32) HeightFunc {
	return func(mgl32.Vec2) float32 {
		return elevation
	}
}

// octaveNoise layers octaves of normalized opensimplex noise, returning a
// value in [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	var total, maxVal float64
	amplitude := 1.0

	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	return total / maxVal
}
