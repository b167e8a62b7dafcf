// Package geom provides the axis-aligned box used for scene bounds and
// keep-out regions. Vectors and matrices come from mgl64.
package geom

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned box in 3D. A box whose Max is below its Min on any
// axis is empty; Empty returns the canonical empty box (+Inf, -Inf) which
// acts as the identity for Union and ExpandByPoint.
type Box struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// Empty returns an empty box.
func Empty() Box {
	inf := math.Inf(1)
	return Box{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// New returns the box spanning the two corners, in any order.
func New(a, b mgl64.Vec3) Box {
	return Box{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// FromArrays builds a box from the [3]float64 pairs returned by kernel solids.
func FromArrays(min, max [3]float64) Box {
	return Box{Min: mgl64.Vec3(min), Max: mgl64.Vec3(max)}
}

// IsEmpty reports whether the box encloses no points.
func (b Box) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint returns the smallest box containing b and p.
func (b Box) ExpandByPoint(p mgl64.Vec3) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Contains reports whether p lies inside the box on all three axes.
// Faces count as inside. An empty box contains nothing.
func (b Box) Contains(p mgl64.Vec3) bool {
	if b.IsEmpty() {
		return false
	}
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box) ContainsBox(o Box) bool {
	if o.IsEmpty() {
		return true
	}
	return b.Contains(o.Min) && b.Contains(o.Max)
}

// Size returns the edge lengths. Empty boxes have zero size.
func (b Box) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint. Empty boxes are centred on the origin.
func (b Box) Center() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Volume returns the enclosed volume.
func (b Box) Volume() float64 {
	s := b.Size()
	return s[0] * s[1] * s[2]
}

// Corners returns the eight corners of a non-empty box.
func (b Box) Corners() [8]mgl64.Vec3 {
	var c [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				c[i][axis] = b.Max[axis]
			} else {
				c[i][axis] = b.Min[axis]
			}
		}
	}
	return c
}

// Transform returns the axis-aligned box enclosing b after applying m to
// each of its corners. An empty box stays empty.
func (b Box) Transform(m mgl64.Mat4) Box {
	if b.IsEmpty() {
		return b
	}
	out := Empty()
	for _, c := range b.Corners() {
		out = out.ExpandByPoint(mgl64.TransformCoordinate(c, m))
	}
	return out
}

// Expand grows the box outward by margin on every axis. An empty box stays
// empty: there is nothing to keep out around a shape that does not exist.
// A negative margin is rejected rather than shrinking the box.
func (b Box) Expand(margin float64) (Box, error) {
	if margin < 0 || math.IsNaN(margin) {
		return Box{}, fmt.Errorf("geom: expand margin must be non-negative, got %v", margin)
	}
	if b.IsEmpty() {
		return Empty(), nil
	}
	d := mgl64.Vec3{margin, margin, margin}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}, nil
}

// ApproxEqual compares two boxes component-wise within eps. Two empty boxes
// are equal regardless of their sentinel values.
func (b Box) ApproxEqual(o Box, eps float64) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return b.IsEmpty() && o.IsEmpty()
	}
	return withinAbs(b.Min, o.Min, eps) && withinAbs(b.Max, o.Max, eps)
}

// withinAbs compares componentwise with an absolute tolerance.
func withinAbs(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// MarshalJSON encodes an empty box as {"empty":true}; JSON has no infinities.
func (b Box) MarshalJSON() ([]byte, error) {
	if b.IsEmpty() {
		return []byte(`{"empty":true}`), nil
	}
	type plain Box
	return json.Marshal(plain(b))
}

// UnmarshalJSON accepts the output of MarshalJSON.
func (b *Box) UnmarshalJSON(data []byte) error {
	var raw struct {
		Empty bool        `json:"empty"`
		Min   *mgl64.Vec3 `json:"min"`
		Max   *mgl64.Vec3 `json:"max"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Empty || raw.Min == nil || raw.Max == nil {
		*b = Empty()
		return nil
	}
	b.Min, b.Max = *raw.Min, *raw.Max
	return nil
}

func (b Box) String() string {
	if b.IsEmpty() {
		return "box(empty)"
	}
	return fmt.Sprintf("box(%.3f,%.3f,%.3f .. %.3f,%.3f,%.3f)",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}
