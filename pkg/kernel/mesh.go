package kernel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene node this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the min and max vertex coordinates. An empty mesh returns
// +Inf/-Inf.
func (m *Mesh) Bounds() (min, max [3]float64) {
	for i := 0; i < 3; i++ {
		min[i] = math.Inf(1)
		max[i] = math.Inf(-1)
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := float64(m.Vertices[i+a])
			min[a] = math.Min(min[a], v)
			max[a] = math.Max(max[a], v)
		}
	}
	return min, max
}

// Transformed returns a copy of the mesh with vertices mapped by m and
// normals by the inverse transpose of m's upper 3x3.
func (m *Mesh) Transformed(mat mgl64.Mat4) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
		PartName: m.PartName,
	}

	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v := mgl64.Vec3{float64(m.Vertices[i]), float64(m.Vertices[i+1]), float64(m.Vertices[i+2])}
		w := mgl64.TransformCoordinate(v, mat)
		out.Vertices[i], out.Vertices[i+1], out.Vertices[i+2] = float32(w[0]), float32(w[1]), float32(w[2])
	}

	nm := mat.Mat3().Inv().Transpose()
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := nm.Mul3x1(mgl64.Vec3{float64(m.Normals[i]), float64(m.Normals[i+1]), float64(m.Normals[i+2])})
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		out.Normals[i], out.Normals[i+1], out.Normals[i+2] = float32(n[0]), float32(n[1]), float32(n[2])
	}
	return out
}
