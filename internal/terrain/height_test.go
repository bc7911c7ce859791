package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHeightFuncsDeterministic(t *testing.T) {
	constructors := map[string]func(int64) HeightFunc{
		"ridge":     Ridge,
		"islands":   Islands,
		"highlands": Highlands,
	}

	for name, build := range constructors {
		f := build(99)
		g := build(99)

		for i := 0; i < 200; i++ {
			p := mgl32.Vec2{float32(i) * 13.7, float32(i)*-7.3 + 500}
			if f(p) != g(p) {
				t.Errorf("%s not deterministic at %v", name, p)
				break
			}
		}
	}
}

func TestRidgeBounded(t *testing.T) {
	f := Ridge(0)

	// The formula caps at (1 - |noise|^1.1) * 1 * 30.
	for i := 0; i < 2000; i++ {
		p := mgl32.Vec2{float32(i)*3.1 - 3000, float32(i)*-5.7 + 1000}
		h := f(p)
		if h < -35 || h > 35 {
			t.Fatalf("Ridge(%v) = %g, outside plausible bounds", p, h)
		}
	}
}

func TestIslandsSeaFloorCompressed(t *testing.T) {
	f := Islands(3)

	low := float32(0)
	for i := 0; i < 2000; i++ {
		p := mgl32.Vec2{float32(i) * 37, float32(i) * -53}
		if h := f(p); h < low {
			low = h
		}
	}
	// The raw range would reach -18; compression must keep the floor shallow.
	if low < -8 {
		t.Errorf("lowest sample = %g, want sea floor above -8", low)
	}
	if low >= 0 {
		t.Errorf("lowest sample = %g, want some terrain below the waterline", low)
	}
}

func TestFlat(t *testing.T) {
	f := Flat(12.5)
	for _, p := range []mgl32.Vec2{{0, 0}, {1e6, -1e6}, {-3.2, 7.9}} {
		if got := f(p); got != 12.5 {
			t.Errorf("Flat(%v) = %g, want 12.5", p, got)
		}
	}
}
