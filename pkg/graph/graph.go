package graph

import (
	"fmt"

	"github.com/chazu/donutdate/pkg/geom"
	"github.com/chazu/donutdate/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// SceneGraph is the data structure produced by script evaluation and extended
// with the generated donuts before tessellation.
type SceneGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Decor     *DecorSpec        `json:"decor,omitempty"`
	Version   uint64            `json:"version"`

	// worldStale is set whenever a transform or the hierarchy changes after
	// the last UpdateWorld.
	worldStale bool
}

// New creates an empty SceneGraph.
func New() *SceneGraph {
	return &SceneGraph{
		Nodes:      make(map[NodeID]*Node),
		NameIndex:  make(map[string]NodeID),
		worldStale: true,
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *SceneGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
	g.worldStale = true
}

// AddRoot registers a node ID as a root of the graph.
func (g *SceneGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
	g.worldStale = true
}

// AddChild appends child to parent's children.
func (g *SceneGraph) AddChild(parent, child NodeID) error {
	p := g.Nodes[parent]
	if p == nil {
		return fmt.Errorf("graph: parent %s not found", parent.Short())
	}
	if g.Nodes[child] == nil {
		return fmt.Errorf("graph: child %s not found", child.Short())
	}
	p.Children = append(p.Children, child)
	g.worldStale = true
	return nil
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *SceneGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// Get returns the node with the given ID, or nil.
func (g *SceneGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Children returns the child nodes of the given node.
func (g *SceneGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Parent returns the first node listing id as a child, or nil for roots and
// orphans.
func (g *SceneGraph) Parent(id NodeID) *Node {
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			if c == id {
				return n
			}
		}
	}
	return nil
}

// NodeCount returns the total number of nodes.
func (g *SceneGraph) NodeCount() int {
	return len(g.Nodes)
}

// SetTransform replaces a node's local transform and marks world matrices
// stale.
func (g *SceneGraph) SetTransform(id NodeID, t Transform) error {
	n := g.Nodes[id]
	if n == nil {
		return fmt.Errorf("graph: node %s not found", id.Short())
	}
	n.Transform = t
	g.worldStale = true
	return nil
}

// UpdateWorld recomputes the world matrix of every node reachable from the
// roots as parent world * local. Nodes reached through more than one path
// keep the matrix of the last path walked.
func (g *SceneGraph) UpdateWorld() error {
	visiting := make(map[NodeID]bool)

	var walk func(id NodeID, parent mgl64.Mat4) error
	walk = func(id NodeID, parent mgl64.Mat4) error {
		n := g.Nodes[id]
		if n == nil {
			return fmt.Errorf("graph: node %s not found", id.Short())
		}
		if visiting[id] {
			return fmt.Errorf("graph: cycle through node %s", id.Short())
		}
		visiting[id] = true
		defer delete(visiting, id)

		n.world = parent.Mul4(n.Transform.Matrix())
		n.hasWorld = true
		for _, c := range n.Children {
			if err := walk(c, n.world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, rid := range g.Roots {
		if err := walk(rid, mgl64.Ident4()); err != nil {
			return err
		}
	}
	g.worldStale = false
	return nil
}

// WorldStale reports whether transforms changed since the last UpdateWorld.
func (g *SceneGraph) WorldStale() bool {
	return g.worldStale
}

// World returns the cached world matrix for id and whether it reflects the
// current transforms.
func (g *SceneGraph) World(id NodeID) (mgl64.Mat4, bool) {
	n := g.Nodes[id]
	if n == nil || !n.hasWorld {
		return mgl64.Ident4(), false
	}
	return n.world, !g.worldStale
}

// SetShape attaches a kernel solid to a mesh-bearing node and drops any
// cached local bounds.
func (g *SceneGraph) SetShape(id NodeID, s kernel.Solid) error {
	n := g.Nodes[id]
	if n == nil {
		return fmt.Errorf("graph: node %s not found", id.Short())
	}
	if !n.Kind.HasGeometry() {
		return fmt.Errorf("graph: node %s is a %s and carries no geometry", id.Short(), n.Kind)
	}
	n.shape = s
	n.localBounds = nil
	return nil
}

// Shape returns the solid bound to the node, or nil.
func (n *Node) Shape() kernel.Solid {
	return n.shape
}

// LocalBounds returns the node's bounding box in its own frame, computing it
// from the bound shape on first use. ok is false for nodes without a shape.
func (n *Node) LocalBounds() (b geom.Box, ok bool) {
	if n.localBounds != nil {
		return *n.localBounds, true
	}
	if n.shape == nil {
		return geom.Empty(), false
	}
	box := geom.FromArrays(n.shape.BoundingBox())
	n.localBounds = &box
	return box, true
}

// MeshNodes returns the mesh-bearing nodes under root in depth-first order.
func (g *SceneGraph) MeshNodes(root NodeID) []*Node {
	var out []*Node
	seen := make(map[NodeID]bool)
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		n := g.Nodes[id]
		if n == nil {
			return
		}
		if n.Kind.HasGeometry() {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// WorldMatrix returns the node's world matrix from the last UpdateWorld, and
// false if it has never been computed.
func (n *Node) WorldMatrix() (mgl64.Mat4, bool) {
	if !n.hasWorld {
		return mgl64.Ident4(), false
	}
	return n.world, true
}

// RemoveRoot drops id from the roots, if present. Used when a group adopts a
// node that was created at top level.
func (g *SceneGraph) RemoveRoot(id NodeID) {
	for i, r := range g.Roots {
		if r == id {
			g.Roots = append(g.Roots[:i], g.Roots[i+1:]...)
			g.worldStale = true
			return
		}
	}
}

// IsRoot reports whether id is one of the graph's roots.
func (g *SceneGraph) IsRoot(id NodeID) bool {
	for _, r := range g.Roots {
		if r == id {
			return true
		}
	}
	return false
}
