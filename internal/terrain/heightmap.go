package terrain

import "github.com/go-gl/mathgl/mgl32"

// normalEpsilon is the finite-difference step for normal estimation, in world
// units.
const normalEpsilon = 0.05

// HeightMap holds elevation and surface normal samples for one chunk, indexed
// [x][z] over a RowSize×RowSize grid spanning ±Size/2 around the chunk center.
// Values are immutable once generated; a LOD change regenerates the whole map.
type HeightMap struct {
	Size    float32
	RowSize int
	Heights [][]float32
	Normals [][]mgl32.Vec3
}

// GenerateHeightMap samples f over a rowSize×rowSize grid centered at offset.
// Rows are independent, so identical inputs always produce identical maps.
func GenerateHeightMap(offset mgl32.Vec2, size float32, rowSize int, f HeightFunc) *HeightMap {
	heights := make([][]float32, rowSize)
	normals := make([][]mgl32.Vec3, rowSize)

	factor := 1 / float32(rowSize-1) * size
	half := size / 2

	for xi := 0; xi < rowSize; xi++ {
		x := float32(xi)*factor - half

		row := make([]float32, rowSize)
		rowNormals := make([]mgl32.Vec3, rowSize)

		for zi := 0; zi < rowSize; zi++ {
			z := float32(zi)*factor - half

			p := offset.Add(mgl32.Vec2{x, z})
			h := f(p)

			row[zi] = h
			rowNormals[zi] = surfaceNormal(h, p, f)
		}

		heights[xi] = row
		normals[xi] = rowNormals
	}

	return &HeightMap{
		Size:    size,
		RowSize: rowSize,
		Heights: heights,
		Normals: normals,
	}
}

// surfaceNormal estimates the unit normal at p from two tangent differences
// sampled normalEpsilon away along each axis. A degenerate result falls back
// to straight up instead of failing.
func surfaceNormal(h float32, p mgl32.Vec2, f HeightFunc) mgl32.Vec3 {
	n := mgl32.Vec3{
		h - f(p.Add(mgl32.Vec2{normalEpsilon, 0})),
		normalEpsilon,
		h - f(p.Add(mgl32.Vec2{0, normalEpsilon})),
	}

	// Comparing through the negation also catches NaN from a pathological f.
	l := n.Len()
	if !(l > 1e-12) {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Mul(1 / l)
}
