package layout

import (
	"fmt"

	"github.com/chazu/donutdate/pkg/geom"
	"github.com/chazu/donutdate/pkg/graph"
)

// BoundsOptions controls GroupBounds.
type BoundsOptions struct {
	// UpdateWorld recomputes world matrices before measuring. Set it when
	// transforms were changed since the last UpdateWorld.
	UpdateWorld bool
}

// GroupBounds returns the smallest world-space box enclosing every
// mesh-bearing node under root, root included. Each node's local box is
// transformed by its world matrix corner by corner and unioned.
//
// A group with no measurable descendants yields geom.Empty() and no error.
// Nodes without a bound shape contribute nothing. Stale world matrices are
// used as they are unless opts.UpdateWorld is set; a node whose world matrix
// was never computed is an error.
func GroupBounds(g *graph.SceneGraph, root graph.NodeID, opts BoundsOptions) (geom.Box, error) {
	if g == nil {
		return geom.Empty(), invalid("bounds", "graph", nil, "must not be nil")
	}
	if g.Get(root) == nil {
		return geom.Empty(), fmt.Errorf("layout: bounds: node %s not found", root.Short())
	}
	if opts.UpdateWorld {
		if err := g.UpdateWorld(); err != nil {
			return geom.Empty(), fmt.Errorf("layout: bounds: %w", err)
		}
	}

	box := geom.Empty()
	for _, n := range g.MeshNodes(root) {
		local, ok := n.LocalBounds()
		if !ok {
			continue
		}
		world, ok := n.WorldMatrix()
		if !ok {
			return geom.Empty(), fmt.Errorf("layout: bounds: node %s has no world transform; measure with UpdateWorld", n.ID.Short())
		}
		box = box.Union(local.Transform(world))
	}
	return box, nil
}
