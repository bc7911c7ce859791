package terrain

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshRegistry converts built meshes into handles the world-object layer
// understands. The renderer owns the handle's lifetime.
type MeshRegistry interface {
	Add(m *Mesh) MeshHandle
}

// WorldObjects creates, retargets and destroys the live render/collision
// representation of a chunk. Implementations are only ever called from the
// goroutine driving Tick.
type WorldObjects interface {
	Create(origin mgl32.Vec3, geometry MeshHandle, hm *HeightMap) ObjectHandle
	SwapGeometry(obj ObjectHandle, geometry MeshHandle, hm *HeightMap)
	Destroy(obj ObjectHandle)
}

// Params are the streaming parameters. Malformed values are a startup
// invariant violation, not a runtime condition; Validate reports them.
type Params struct {
	ChunkSize int     // world units per chunk edge
	MaxRange  float32 // residency radius around the reference point
	Detail    []int   // samples per chunk edge by distance bucket, finest first
	Workers   int     // generation pool size
}

// Validate checks the generation invariants: positive chunk size and range,
// and a detail table whose entries are all ≥ 2 and never grow with distance.
func (p Params) Validate() error {
	if p.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", p.ChunkSize)
	}
	if p.MaxRange <= 0 {
		return fmt.Errorf("max range must be positive, got %g", p.MaxRange)
	}
	if len(p.Detail) == 0 {
		return fmt.Errorf("detail table must not be empty")
	}
	for i, d := range p.Detail {
		if d < 2 {
			return fmt.Errorf("detail[%d] = %d, need at least 2 samples per edge", i, d)
		}
		if i > 0 && d > p.Detail[i-1] {
			return fmt.Errorf("detail[%d] = %d exceeds detail[%d] = %d, table must be finest first", i, d, i-1, p.Detail[i-1])
		}
	}
	if p.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", p.Workers)
	}
	return nil
}

// chunkRange is the candidate-square half width in chunks.
func (p Params) chunkRange() int {
	return int(math.Ceil(float64(p.MaxRange) / float64(p.ChunkSize)))
}

// DesiredChunk pairs an in-range coordinate with its distance-bucketed LOD
// index.
type DesiredChunk struct {
	Coord ChunkCoord
	LOD   int
}

// Streamer owns the chunk store, the pending set and the completion channel.
// A single goroutine drives Tick and is the only consumer of completed jobs;
// generation workers operate on private copies of their inputs and never touch
// the store. None of the mutable state needs locking.
type Streamer struct {
	params  Params
	height  HeightFunc
	meshes  MeshRegistry
	objects WorldObjects
	log     *slog.Logger

	pool    pond.Pool
	updates chan ChunkUpdate

	chunks  map[ChunkCoord]*Chunk
	pending map[ChunkCoord]struct{}

	applied uint64
}

// NewStreamer validates params and builds a streamer using f as the shared
// height function.
func NewStreamer(params Params, f HeightFunc, meshes MeshRegistry, objects WorldObjects, log *slog.Logger) (*Streamer, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("terrain params: %w", err)
	}

	// The pending set holds at most one entry per candidate coordinate, so a
	// channel sized to the candidate square can never block a sender.
	span := 2*params.chunkRange() + 1

	return &Streamer{
		params:  params,
		height:  f,
		meshes:  meshes,
		objects: objects,
		log:     log,
		pool:    pond.NewPool(params.Workers),
		updates: make(chan ChunkUpdate, span*span),
		chunks:  make(map[ChunkCoord]*Chunk),
		pending: make(map[ChunkCoord]struct{}),
	}, nil
}

// Tick drives one frame of streaming around center: evict out-of-range
// chunks, dispatch generation for missing or stale ones, then apply every
// already-completed update without blocking.
func (s *Streamer) Tick(center mgl32.Vec2) {
	s.evict(center)
	s.reconcile(center)
	s.drain()
}

// Close stops the worker pool, waiting for in-flight jobs. Their results stay
// buffered and unapplied.
func (s *Streamer) Close() {
	s.pool.StopAndWait()
}

// snap floors center onto the chunk grid.
func (s *Streamer) snap(center mgl32.Vec2) ChunkCoord {
	size := float64(s.params.ChunkSize)
	return ChunkCoord{
		X: int(math.Floor(float64(center.X())/size)) * s.params.ChunkSize,
		Z: int(math.Floor(float64(center.Y())/size)) * s.params.ChunkSize,
	}
}

// DesiredSet enumerates every chunk coordinate within range of center
// together with its LOD index.
func (s *Streamer) DesiredSet(center mgl32.Vec2) []DesiredChunk {
	snapped := s.snap(center)
	origin := snapped.Vec2()
	chunkRange := s.params.chunkRange()
	levels := len(s.params.Detail)

	var desired []DesiredChunk
	for x := -chunkRange; x <= chunkRange; x++ {
		for z := -chunkRange; z <= chunkRange; z++ {
			coord := ChunkCoord{
				X: snapped.X + x*s.params.ChunkSize,
				Z: snapped.Z + z*s.params.ChunkSize,
			}

			d := coord.Dist(origin)
			if d > s.params.MaxRange {
				continue
			}

			lod := int(d / s.params.MaxRange * float32(levels-1))
			desired = append(desired, DesiredChunk{Coord: coord, LOD: lod})
		}
	}
	return desired
}

// reconcile dispatches a generation job for every desired chunk that is
// neither pending nor already resident at the right LOD. On the very first
// call (empty store) jobs run inline so the first tick is never empty of
// terrain; afterwards they go to the pool.
func (s *Streamer) reconcile(center mgl32.Vec2) {
	firstLoad := len(s.chunks) == 0

	for _, want := range s.DesiredSet(center) {
		if _, ok := s.pending[want.Coord]; ok {
			continue
		}
		if chunk, ok := s.chunks[want.Coord]; ok && chunk.LOD == want.LOD {
			continue
		}

		s.dispatch(want, firstLoad)
	}
}

// dispatch marks want pending and schedules its generation job. The job
// captures only immutable inputs.
func (s *Streamer) dispatch(want DesiredChunk, inline bool) {
	s.pending[want.Coord] = struct{}{}

	var (
		coord   = want.Coord
		lod     = want.LOD
		size    = float32(s.params.ChunkSize)
		rowSize = s.params.Detail[want.LOD]
		f       = s.height
		updates = s.updates
	)

	job := func() {
		hm := GenerateHeightMap(coord.Vec2(), size, rowSize, f)
		updates <- ChunkUpdate{Coord: coord, HeightMap: hm, Mesh: BuildMesh(hm), LOD: lod}
	}

	if inline {
		job()
	} else {
		s.pool.Submit(job)
	}
}

// drain applies every currently available update without blocking. Jobs
// complete in no particular order; each update stands alone.
func (s *Streamer) drain() {
	for {
		select {
		case update := <-s.updates:
			s.apply(update)
		default:
			return
		}
	}
}

// apply upserts one generation result. A resident chunk keeps its world
// object and has geometry, collision field and LOD swapped in place; a new
// coordinate gets a fresh object at the chunk's world offset. Results for
// coordinates that drifted out of range still apply; the next evict pass
// removes them.
func (s *Streamer) apply(update ChunkUpdate) {
	delete(s.pending, update.Coord)

	geometry := s.meshes.Add(update.Mesh)
	s.applied++

	if chunk, ok := s.chunks[update.Coord]; ok {
		chunk.LOD = update.LOD
		chunk.Geometry = geometry
		s.objects.SwapGeometry(chunk.Object, geometry, update.HeightMap)
		return
	}

	origin := mgl32.Vec3{float32(update.Coord.X), 0, float32(update.Coord.Z)}
	object := s.objects.Create(origin, geometry, update.HeightMap)

	s.chunks[update.Coord] = &Chunk{
		LOD:      update.LOD,
		Geometry: geometry,
		Object:   object,
	}
}

// evict removes every resident chunk farther than the maximum range from the
// snapped center, destroying its world object. In-flight jobs are not
// cancelled.
func (s *Streamer) evict(center mgl32.Vec2) {
	snapped := s.snap(center).Vec2()

	removed := 0
	for coord, chunk := range s.chunks {
		if coord.Dist(snapped) > s.params.MaxRange {
			s.objects.Destroy(chunk.Object)
			delete(s.chunks, coord)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("evicted chunks", "count", removed)
	}
}

// Resident reports whether coord has a live chunk, and at which LOD.
func (s *Streamer) Resident(coord ChunkCoord) (int, bool) {
	chunk, ok := s.chunks[coord]
	if !ok {
		return 0, false
	}
	return chunk.LOD, true
}

// Stats is a snapshot of store occupancy for periodic logging.
type Stats struct {
	Resident int
	Pending  int
	Applied  uint64
}

// Stats reports current occupancy. Like every other method it belongs to the
// owning goroutine.
func (s *Streamer) Stats() Stats {
	return Stats{
		Resident: len(s.chunks),
		Pending:  len(s.pending),
		Applied:  s.applied,
	}
}
