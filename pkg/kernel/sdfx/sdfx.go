// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"sync"

	"github.com/chazu/donutdate/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution along the
// longest axis of each solid.
const DefaultMeshCells = 96

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells    int
	fontPath string

	fontOnce sync.Once
	font     *truetype.Font
	fontErr  error
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// WithFont loads text outlines from a TrueType file instead of Go Regular.
// Go Regular has no CJK glyphs, so Japanese date text needs a font file.
func WithFont(path string) Option {
	return func(k *SdfxKernel) {
		k.fontPath = path
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions centred on the origin.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	return wrap(s), nil
}

// Torus creates a ring lying in the XY plane around the Z axis. major is the
// distance from the centre to the middle of the tube, minor the tube radius.
func (k *SdfxKernel) Torus(major, minor float64) (kernel.Solid, error) {
	if minor <= 0 || major <= minor {
		return nil, fmt.Errorf("sdfx: torus needs major > minor > 0, got %v/%v", major, minor)
	}
	c, err := sdf.Circle2D(minor)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
	}
	profile := sdf.Transform2D(c, sdf.Translate2d(v2.Vec{X: major, Y: 0}))
	s, err := sdf.Revolve3D(profile)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Revolve3D: %w", err)
	}
	return wrap(s), nil
}

// Text creates extruded text with the given cap height and depth, centred on
// the origin so that placement transforms act around the middle of the line.
func (k *SdfxKernel) Text(s string, height, depth float64) (kernel.Solid, error) {
	f, err := k.loadFont()
	if err != nil {
		return nil, err
	}
	outline, err := sdf.Text2D(f, sdf.NewText(s), height)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Text2D: %w", err)
	}
	solid := sdf.Extrude3D(outline, depth)

	bb := solid.BoundingBox()
	c := bb.Center()
	solid = sdf.Transform3D(solid, sdf.Translate3d(v3.Vec{X: -c.X, Y: -c.Y, Z: -c.Z}))
	return wrap(solid), nil
}

func (k *SdfxKernel) loadFont() (*truetype.Font, error) {
	k.fontOnce.Do(func() {
		if k.fontPath != "" {
			k.font, k.fontErr = sdf.LoadFont(k.fontPath)
			if k.fontErr != nil {
				k.fontErr = fmt.Errorf("sdfx: load font %s: %w", k.fontPath, k.fontErr)
			}
			return
		}
		k.font, k.fontErr = truetype.Parse(goregular.TTF)
	})
	return k.font, k.fontErr
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (radians) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(z).Mul(sdf.RotateY(y)).Mul(sdf.RotateX(x))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale scales a solid about the origin. Uniform factors keep the distance
// field exact.
func (k *SdfxKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	if x == y && y == z {
		return wrap(sdf.ScaleUniform3D(unwrap(s), x))
	}
	return wrap(sdf.Transform3D(unwrap(s), sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z})))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// SaveSTL writes the meshes as one binary STL file.
func (k *SdfxKernel) SaveSTL(path string, meshes []*kernel.Mesh) error {
	var tris []*sdf.Triangle3
	for _, m := range meshes {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			var t sdf.Triangle3
			for j := 0; j < 3; j++ {
				base := int(m.Indices[i+j]) * 3
				if base+2 >= len(m.Vertices) {
					return fmt.Errorf("sdfx: mesh %q index %d out of range", m.PartName, m.Indices[i+j])
				}
				t[j] = v3.Vec{
					X: float64(m.Vertices[base]),
					Y: float64(m.Vertices[base+1]),
					Z: float64(m.Vertices[base+2]),
				}
			}
			tris = append(tris, &t)
		}
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
