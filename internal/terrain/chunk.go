package terrain

import "github.com/go-gl/mathgl/mgl32"

// MeshHandle references geometry held by the external mesh registry.
type MeshHandle uint64

// ObjectHandle references a live world object (render + collision) owned by a
// resident chunk.
type ObjectHandle uint64

// ChunkCoord is a chunk's center on the chunk grid, in world units aligned to
// the chunk size. It is the unique key identifying a chunk.
type ChunkCoord struct {
	X, Z int
}

// Vec2 returns the coordinate as a world-space position.
func (c ChunkCoord) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{float32(c.X), float32(c.Z)}
}

// Dist returns the Euclidean distance from the coordinate to p.
func (c ChunkCoord) Dist(p mgl32.Vec2) float32 {
	return c.Vec2().Sub(p).Len()
}

// Chunk is a resident entry in the chunk store. One world object and one
// geometry handle exist per resident chunk; LOD changes swap both in place.
type Chunk struct {
	LOD      int
	Geometry MeshHandle
	Object   ObjectHandle
}

// ChunkUpdate is one completed generation job. A worker produces it exactly
// once and the owning goroutine consumes it exactly once.
type ChunkUpdate struct {
	Coord     ChunkCoord
	HeightMap *HeightMap
	Mesh      *Mesh
	LOD       int
}
