package animate

import (
	"fmt"

	"github.com/chazu/donutdate/pkg/graph"
)

// Handle is one spinning donut: its node, its placed transform and its
// speed in radians per second, copied from the placement record.
type Handle struct {
	ID    graph.NodeID
	Base  graph.Transform
	Speed float64
}

// Spinner turns a fixed set of donuts about their X and Y axes. The set is
// captured once when the donuts are created; the spinner never searches the
// graph for them.
type Spinner struct {
	handles []Handle
	angles  []float64
}

// NewSpinner copies handles.
func NewSpinner(handles []Handle) *Spinner {
	return &Spinner{
		handles: append([]Handle(nil), handles...),
		angles:  make([]float64, len(handles)),
	}
}

// Len returns the number of donuts.
func (s *Spinner) Len() int { return len(s.handles) }

// Step advances every donut by its speed times dt.
func (s *Spinner) Step(dt float64) {
	for i, h := range s.handles {
		s.angles[i] += h.Speed * dt
	}
}

// Transform returns donut i's current local transform.
func (s *Spinner) Transform(i int) graph.Transform {
	h := s.handles[i]
	t := h.Base
	t.Rotation[0] += s.angles[i]
	t.Rotation[1] += s.angles[i]
	return t
}

// Transforms returns the current transform of every donut, in handle order.
func (s *Spinner) Transforms() []graph.Transform {
	out := make([]graph.Transform, len(s.handles))
	for i := range s.handles {
		out[i] = s.Transform(i)
	}
	return out
}

// Apply writes the current transforms into g.
func (s *Spinner) Apply(g *graph.SceneGraph) error {
	for i, h := range s.handles {
		if err := g.SetTransform(h.ID, s.Transform(i)); err != nil {
			return fmt.Errorf("animate: spin: %w", err)
		}
	}
	return nil
}
