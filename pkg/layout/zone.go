package layout

import (
	"encoding/json"
	"math"

	"github.com/chazu/donutdate/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Zone is a keep-out region: a box grown by a margin. It is immutable.
// The zero Zone is empty.
type Zone struct {
	box    geom.Box
	margin float64
	set    bool
}

// NewExclusionZone expands box by margin on every axis. An empty box gives
// an empty zone, which contains no point and so rejects nothing.
func NewExclusionZone(box geom.Box, margin float64) (Zone, error) {
	if margin < 0 || math.IsNaN(margin) || math.IsInf(margin, 0) {
		return Zone{}, invalid("zone", "margin", margin, "must be a finite non-negative number")
	}
	grown, err := box.Expand(margin)
	if err != nil {
		return Zone{}, err
	}
	return Zone{box: grown, margin: margin, set: true}, nil
}

// Box returns the expanded box.
func (z Zone) Box() geom.Box {
	if !z.set {
		return geom.Empty()
	}
	return z.box
}

// Margin returns the margin the zone was grown by.
func (z Zone) Margin() float64 { return z.margin }

// IsEmpty reports whether the zone excludes nothing.
func (z Zone) IsEmpty() bool { return !z.set || z.box.IsEmpty() }

// Contains reports whether p is inside the zone on all three axes at once.
func (z Zone) Contains(p mgl64.Vec3) bool { return z.set && z.box.Contains(p) }

func (z Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Box    geom.Box `json:"box"`
		Margin float64  `json:"margin"`
	}{z.Box(), z.margin})
}
