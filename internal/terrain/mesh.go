package terrain

import "github.com/go-gl/mathgl/mgl32"

// Mesh is a triangulated height-field surface: one vertex per grid sample and
// two triangles per interior quad.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// BuildMesh triangulates hm. Vertex (xi, zi) lives at index xi*RowSize+zi and
// triangles are wound so a locally flat region faces +Y. The index count is
// always 6*(RowSize-1)².
func BuildMesh(hm *HeightMap) *Mesh {
	n := hm.RowSize

	m := &Mesh{
		Positions: make([]mgl32.Vec3, 0, n*n),
		Normals:   make([]mgl32.Vec3, 0, n*n),
		UVs:       make([]mgl32.Vec2, 0, n*n),
		Indices:   make([]uint32, 0, 6*(n-1)*(n-1)),
	}

	factor := 1 / float32(n-1) * hm.Size
	half := hm.Size / 2

	for xi := 0; xi < n; xi++ {
		x := float32(xi)*factor - half

		for zi := 0; zi < n; zi++ {
			z := float32(zi)*factor - half

			m.Positions = append(m.Positions, mgl32.Vec3{x, hm.Heights[xi][zi], z})
			m.Normals = append(m.Normals, hm.Normals[xi][zi])
			m.UVs = append(m.UVs, mgl32.Vec2{x, z})

			// Connect back only once a previous row and column exist.
			if xi > 0 && zi > 0 {
				d := uint32(xi*n + zi)
				a := d - uint32(n) - 1 // (xi-1, zi-1)
				b := d - uint32(n)     // (xi-1, zi)
				c := d - 1             // (xi, zi-1)

				m.Indices = append(m.Indices, a, b, d)
				m.Indices = append(m.Indices, a, d, c)
			}
		}
	}

	return m
}
