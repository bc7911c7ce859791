package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ChangeCaps/echos/internal/terrain"
)

// Path is a closed circuit of waypoints flown at a constant ground speed. It
// stands in for the tracked aircraft: each tick supplies the streamer's
// reference point.
type Path struct {
	Waypoints []mgl32.Vec2
	Speed     float32 // world units per second

	pos    mgl32.Vec2
	target int
}

// NewPath starts at the first waypoint, heading for the second.
func NewPath(waypoints []mgl32.Vec2, speed float32) *Path {
	p := &Path{Waypoints: waypoints, Speed: speed}
	if len(waypoints) > 0 {
		p.pos = waypoints[0]
		p.target = 1 % len(waypoints)
	}
	return p
}

// Position returns the current reference point.
func (p *Path) Position() mgl32.Vec2 {
	return p.pos
}

// Advance moves dt seconds along the circuit and returns the new position.
func (p *Path) Advance(dt float32) mgl32.Vec2 {
	if len(p.Waypoints) < 2 || p.Speed <= 0 {
		return p.pos
	}

	remaining := p.Speed * dt
	for remaining > 0 {
		to := p.Waypoints[p.target].Sub(p.pos)
		dist := to.Len()

		if dist > remaining {
			p.pos = p.pos.Add(to.Mul(remaining / dist))
			break
		}

		p.pos = p.Waypoints[p.target]
		p.target = (p.target + 1) % len(p.Waypoints)
		remaining -= dist
	}
	return p.pos
}

// Runner drives a terrain streamer along a flight path at a fixed tick rate.
// It owns the streamer's tick goroutine for its whole lifetime.
type Runner struct {
	streamer *terrain.Streamer
	path     *Path
	tickRate int
	log      *slog.Logger
}

// New creates a runner ticking tickRate times per second.
func New(streamer *terrain.Streamer, path *Path, tickRate int, log *slog.Logger) *Runner {
	return &Runner{
		streamer: streamer,
		path:     path,
		tickRate: tickRate,
		log:      log,
	}
}

// Run streams terrain until ctx is done. The first tick happens immediately
// so the world is populated before the caller's first frame.
func (r *Runner) Run(ctx context.Context) error {
	defer r.streamer.Close()

	interval := time.Second / time.Duration(r.tickRate)
	dt := float32(interval.Seconds())

	start := time.Now()
	r.streamer.Tick(r.path.Position())
	stats := r.streamer.Stats()
	r.log.Info("initial terrain ready",
		"chunks", stats.Resident,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	statEvery := 5 * r.tickRate
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			r.log.Info("terrain streaming stopped")
			return nil
		case <-ticker.C:
			center := r.path.Advance(dt)
			r.streamer.Tick(center)

			if n%statEvery == 0 {
				stats := r.streamer.Stats()
				r.log.Info("terrain",
					"center_x", center.X(),
					"center_z", center.Y(),
					"resident", stats.Resident,
					"pending", stats.Pending,
					"applied", stats.Applied,
				)
			}
		}
	}
}
