package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/donutdate/pkg/graph"
	"github.com/chazu/donutdate/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrNothingToWeld is returned by Weld when the graph holds no geometry.
var ErrNothingToWeld = errors.New("tessellate: scene has no geometry to weld")

// Weld folds the whole scene into one world-space solid: every node's shape
// is scaled, rotated and translated by its transform, then unioned with its
// siblings, bottom-up. Meshing the result gives a single closed surface
// where overlapping parts merge.
func Weld(g *graph.SceneGraph, k kernel.Kernel) (kernel.Solid, error) {
	if g == nil {
		return nil, ErrNothingToWeld
	}
	var scene kernel.Solid
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		s, err := weldNode(g, k, root, make(map[graph.NodeID]bool))
		if err != nil {
			return nil, fmt.Errorf("tessellate: weld root %s: %w", rootID.Short(), err)
		}
		scene = union(k, scene, s)
	}
	if scene == nil {
		return nil, ErrNothingToWeld
	}
	return scene, nil
}

// weldNode returns n and its subtree as one solid in n's parent frame, or
// nil when the subtree has no geometry.
func weldNode(g *graph.SceneGraph, k kernel.Kernel, n *graph.Node, path map[graph.NodeID]bool) (kernel.Solid, error) {
	if path[n.ID] {
		return nil, fmt.Errorf("cycle through node %s", n.ID.Short())
	}
	path[n.ID] = true
	defer delete(path, n.ID)

	var local kernel.Solid
	if n.Kind.HasGeometry() {
		s := n.Shape()
		if s == nil {
			built, ok, err := BuildSolid(k, n)
			if err != nil {
				return nil, err
			}
			if ok {
				s = built
			}
		}
		local = union(k, local, s)
	}
	for _, child := range g.Children(n) {
		s, err := weldNode(g, k, child, path)
		if err != nil {
			return nil, err
		}
		local = union(k, local, s)
	}
	if local == nil {
		return nil, nil
	}
	return place(k, local, n.Transform), nil
}

// place applies T * Rz * Ry * Rx * S, skipping identity steps.
func place(k kernel.Kernel, s kernel.Solid, tr graph.Transform) kernel.Solid {
	if sc := tr.Scale; sc != (mgl64.Vec3{1, 1, 1}) {
		s = k.Scale(s, sc[0], sc[1], sc[2])
	}
	if r := tr.Rotation; r != (mgl64.Vec3{}) {
		s = k.Rotate(s, r[0], r[1], r[2])
	}
	if p := tr.Position; p != (mgl64.Vec3{}) {
		s = k.Translate(s, p[0], p[1], p[2])
	}
	return s
}

func union(k kernel.Kernel, a, b kernel.Solid) kernel.Solid {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return k.Union(a, b)
}
