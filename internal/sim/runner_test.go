package sim

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ChangeCaps/echos/internal/scene"
	"github.com/ChangeCaps/echos/internal/terrain"
)

func TestPathAdvance(t *testing.T) {
	p := NewPath([]mgl32.Vec2{{0, 0}, {100, 0}, {100, 100}}, 10)

	if pos := p.Position(); pos != (mgl32.Vec2{0, 0}) {
		t.Fatalf("start position = %v, want (0,0)", pos)
	}

	// 10 units/s for 1s.
	if pos := p.Advance(1); pos != (mgl32.Vec2{10, 0}) {
		t.Errorf("after 1s = %v, want (10,0)", pos)
	}

	// Long enough to pass the first waypoint and turn the corner.
	pos := p.Advance(10) // 100 more units: 90 to (100,0), 10 up
	want := mgl32.Vec2{100, 10}
	if math.Abs(float64(pos.X()-want.X())) > 1e-4 || math.Abs(float64(pos.Y()-want.Y())) > 1e-4 {
		t.Errorf("after corner = %v, want %v", pos, want)
	}
}

func TestPathWrapsAround(t *testing.T) {
	p := NewPath([]mgl32.Vec2{{0, 0}, {10, 0}}, 1)

	// A full lap is 20 units; 25 units ends 5 past the start heading out again.
	pos := p.Advance(25)
	if pos != (mgl32.Vec2{5, 0}) {
		t.Errorf("after wrap = %v, want (5,0)", pos)
	}
}

func TestPathDegenerate(t *testing.T) {
	p := NewPath([]mgl32.Vec2{{3, 4}}, 5)
	if pos := p.Advance(10); pos != (mgl32.Vec2{3, 4}) {
		t.Errorf("single-waypoint path moved to %v", pos)
	}

	p = NewPath(nil, 5)
	if pos := p.Advance(10); pos != (mgl32.Vec2{0, 0}) {
		t.Errorf("empty path moved to %v", pos)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := scene.NewRegistry(log)

	params := terrain.Params{ChunkSize: 50, MaxRange: 100, Detail: []int{5, 3}, Workers: 2}
	streamer, err := terrain.NewStreamer(params, terrain.Flat(0), registry, registry, log)
	if err != nil {
		t.Fatalf("NewStreamer: %v", err)
	}

	path := NewPath([]mgl32.Vec2{{0, 0}, {500, 0}}, 100)
	r := New(streamer, path, 100, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Let a few ticks happen, then stop.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}

	if objects, _ := registry.Len(); objects == 0 {
		t.Error("no terrain was streamed before shutdown")
	}
}
