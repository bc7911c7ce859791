package scene

import (
	"log/slog"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ChangeCaps/echos/internal/terrain"
)

// Registry is the in-process world-object and geometry store standing in for
// the renderer and physics engine. Terrain streaming mutates it from its
// owning goroutine only; external readers (render pass, collision queries) go
// through the read lock.
type Registry struct {
	mu  sync.RWMutex
	log *slog.Logger

	nextMesh   terrain.MeshHandle
	nextObject terrain.ObjectHandle

	meshes  map[terrain.MeshHandle]*terrain.Mesh
	objects map[terrain.ObjectHandle]*worldObject
}

// worldObject is one chunk's live representation: a static transform, its
// current geometry and the height field used for collision queries.
type worldObject struct {
	origin mgl32.Vec3
	mesh   terrain.MeshHandle
	field  *terrain.HeightMap
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:     log,
		meshes:  make(map[terrain.MeshHandle]*terrain.Mesh),
		objects: make(map[terrain.ObjectHandle]*worldObject),
	}
}

// Add registers geometry and returns its handle.
func (r *Registry) Add(m *terrain.Mesh) terrain.MeshHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextMesh++
	r.meshes[r.nextMesh] = m
	return r.nextMesh
}

// Mesh returns registered geometry, or nil for a released handle.
func (r *Registry) Mesh(h terrain.MeshHandle) *terrain.Mesh {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.meshes[h]
}

// Create spawns a world object at origin with the given geometry and
// collision field, returning its handle.
func (r *Registry) Create(origin mgl32.Vec3, geometry terrain.MeshHandle, hm *terrain.HeightMap) terrain.ObjectHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextObject++
	r.objects[r.nextObject] = &worldObject{origin: origin, mesh: geometry, field: hm}
	return r.nextObject
}

// SwapGeometry retargets an object to new geometry and collision data,
// releasing the old mesh. Unknown handles are ignored.
func (r *Registry) SwapGeometry(obj terrain.ObjectHandle, geometry terrain.MeshHandle, hm *terrain.HeightMap) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.objects[obj]
	if !ok {
		r.log.Warn("swap on unknown object", "object", obj)
		return
	}

	delete(r.meshes, o.mesh)
	o.mesh = geometry
	o.field = hm
}

// Destroy removes an object and releases its mesh.
func (r *Registry) Destroy(obj terrain.ObjectHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.objects[obj]
	if !ok {
		r.log.Warn("destroy on unknown object", "object", obj)
		return
	}

	delete(r.meshes, o.mesh)
	delete(r.objects, obj)
}

// Len reports live object and mesh counts.
func (r *Registry) Len() (objects, meshes int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects), len(r.meshes)
}

// HeightAt answers the collision query at a world position: the bilinearly
// interpolated ground height from the covering chunk's height field. The
// second result is false when no chunk covers p.
func (r *Registry) HeightAt(p mgl32.Vec2) (float32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.objects {
		if o.field == nil {
			continue
		}
		half := o.field.Size / 2
		dx := p.X() - o.origin.X()
		dz := p.Y() - o.origin.Z()
		if dx < -half || dx > half || dz < -half || dz > half {
			continue
		}
		return sampleField(o.field, dx, dz), true
	}
	return 0, false
}

// sampleField bilinearly interpolates the height field at a chunk-local
// position in [-Size/2, Size/2].
func sampleField(hm *terrain.HeightMap, dx, dz float32) float32 {
	cells := float32(hm.RowSize - 1)
	u := (dx + hm.Size/2) / hm.Size * cells
	v := (dz + hm.Size/2) / hm.Size * cells

	xi := int(math.Floor(float64(u)))
	zi := int(math.Floor(float64(v)))
	if xi < 0 {
		xi = 0
	}
	if zi < 0 {
		zi = 0
	}
	if xi > hm.RowSize-2 {
		xi = hm.RowSize - 2
	}
	if zi > hm.RowSize-2 {
		zi = hm.RowSize - 2
	}

	fu := u - float32(xi)
	fv := v - float32(zi)

	h00 := hm.Heights[xi][zi]
	h10 := hm.Heights[xi+1][zi]
	h01 := hm.Heights[xi][zi+1]
	h11 := hm.Heights[xi+1][zi+1]

	top := h00 + (h10-h00)*fu
	bottom := h01 + (h11-h01)*fu
	return top + (bottom-top)*fv
}
