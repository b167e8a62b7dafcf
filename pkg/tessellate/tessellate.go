// Package tessellate walks a scene graph and produces world-space triangle
// meshes using a geometry kernel. One mesh is produced per mesh-bearing node.
package tessellate

import (
	"fmt"
	"strings"

	"github.com/chazu/donutdate/pkg/graph"
	"github.com/chazu/donutdate/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// matrixStack accumulates world matrices during graph traversal.
type matrixStack struct {
	mats []mgl64.Mat4
}

func newMatrixStack() *matrixStack {
	return &matrixStack{mats: []mgl64.Mat4{mgl64.Ident4()}}
}

func (ms *matrixStack) top() mgl64.Mat4 {
	return ms.mats[len(ms.mats)-1]
}

// push composes local onto the current top.
func (ms *matrixStack) push(local mgl64.Mat4) {
	ms.mats = append(ms.mats, ms.top().Mul4(local))
}

func (ms *matrixStack) pop() {
	if len(ms.mats) > 1 {
		ms.mats = ms.mats[:len(ms.mats)-1]
	}
}

// BuildSolid creates the local-space solid for a mesh-bearing node. Text
// with no visible characters has no solid; ok is false in that case.
func BuildSolid(k kernel.Kernel, n *graph.Node) (s kernel.Solid, ok bool, err error) {
	switch data := n.Data.(type) {
	case graph.TextData:
		if strings.TrimSpace(data.Content) == "" {
			return nil, false, nil
		}
		s, err = k.Text(data.Content, data.Height, data.Depth)
	case graph.TorusData:
		s, err = k.Torus(data.Major, data.Minor)
	case graph.BoxData:
		s, err = k.Box(data.Size[0], data.Size[1], data.Size[2])
	default:
		return nil, false, fmt.Errorf("%s node %s has unsupported data type %T", n.Kind, n.ID.Short(), n.Data)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s node %s: %w", n.Kind, n.ID.Short(), err)
	}
	return s, true, nil
}

// BindShapes builds a solid for every mesh-bearing node that has none and
// attaches it to the node, so bounds can be measured before meshing.
// Nodes with the same kind-specific data share one solid.
func BindShapes(g *graph.SceneGraph, k kernel.Kernel) error {
	if g == nil {
		return nil
	}
	shared := make(map[graph.NodeData]kernel.Solid)
	for _, n := range g.Nodes {
		if !n.Kind.HasGeometry() || n.Shape() != nil {
			continue
		}
		s, ok := shared[n.Data]
		if !ok {
			var err error
			s, ok, err = BuildSolid(k, n)
			if err != nil {
				return fmt.Errorf("tessellate: %w", err)
			}
			if !ok {
				continue
			}
			shared[n.Data] = s
		}
		if err := g.SetShape(n.ID, s); err != nil {
			return fmt.Errorf("tessellate: %w", err)
		}
	}
	return nil
}

// walker carries per-call state. Meshes are cached per solid because the
// donuts share one torus and differ only by transform.
type walker struct {
	g     *graph.SceneGraph
	k     kernel.Kernel
	stack *matrixStack
	local map[kernel.Solid]*kernel.Mesh
}

// Tessellate walks the scene graph and produces one world-space triangle
// mesh per mesh-bearing node using the provided geometry kernel. Shapes bound
// with BindShapes are reused; other nodes get a fresh solid. The tessellator
// is read-only and never mutates the graph.
func Tessellate(g *graph.SceneGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}

	w := &walker{g: g, k: k, stack: newMatrixStack(), local: make(map[kernel.Solid]*kernel.Mesh)}
	var meshes []*kernel.Mesh
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := w.walkNode(root, make(map[graph.NodeID]bool))
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		meshes = append(meshes, collected...)
	}

	return meshes, nil
}

// walkNode pushes the node's transform, meshes it if it carries geometry,
// recurses into children, then pops.
func (w *walker) walkNode(n *graph.Node, path map[graph.NodeID]bool) ([]*kernel.Mesh, error) {
	if path[n.ID] {
		return nil, fmt.Errorf("cycle through node %s", n.ID.Short())
	}
	path[n.ID] = true
	defer delete(path, n.ID)

	w.stack.push(n.Transform.Matrix())
	defer w.stack.pop()

	var meshes []*kernel.Mesh
	if n.Kind.HasGeometry() {
		m, err := w.meshNode(n)
		if err != nil {
			return nil, err
		}
		if m != nil {
			meshes = append(meshes, m)
		}
	}

	for _, child := range w.g.Children(n) {
		collected, err := w.walkNode(child, path)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// meshNode meshes a node in its own frame and moves the result into world
// space with the current stack top.
func (w *walker) meshNode(n *graph.Node) (*kernel.Mesh, error) {
	solid := n.Shape()
	if solid == nil {
		s, ok, err := BuildSolid(w.k, n)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		solid = s
	}

	local, ok := w.local[solid]
	if !ok {
		var err error
		local, err = w.k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("ToMesh failed for node %s: %w", n.ID.Short(), err)
		}
		w.local[solid] = local
	}

	mesh := local.Transformed(w.stack.top())
	// Set the part name: prefer the node's Name, fall back to short ID.
	if n.Name != "" {
		mesh.PartName = n.Name
	} else {
		mesh.PartName = n.ID.Short()
	}
	return mesh, nil
}
