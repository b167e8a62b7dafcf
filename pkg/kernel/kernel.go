// Package kernel defines the abstract geometry kernel interface.
// The sdfx implementation builds the donut and text solids; the rest of the
// system only sees Solid handles and triangle meshes.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box in the solid's
	// own coordinate frame.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Torus(major, minor float64) (Solid, error)
	Text(s string, height, depth float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in radians, applied Z*Y*X
	Scale(s Solid, x, y, z float64) Solid

	// Output
	ToMesh(s Solid) (*Mesh, error)
	SaveSTL(path string, meshes []*Mesh) error
}
