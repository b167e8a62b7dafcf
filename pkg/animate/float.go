package animate

import (
	"math"

	"github.com/chazu/donutdate/pkg/graph"
	"github.com/go-gl/mathgl/mgl64"
)

// FloatParams shapes the idle floating of the title.
type FloatParams struct {
	Amplitude float64 `toml:"amplitude" json:"amplitude"` // vertical bob, scene units
	Frequency float64 `toml:"frequency" json:"frequency"` // angular frequency ω, rad/s
	Tilt      float64 `toml:"tilt" json:"tilt"`           // peak tilt, radians
}

// DefaultFloat returns a gentle bob of 0.1 units with a slight tilt.
func DefaultFloat() FloatParams {
	return FloatParams{Amplitude: 0.1, Frequency: 1.0, Tilt: 0.1}
}

// Float returns the floating offset at time t seconds: a vertical bob
// A·sin(ωt), a tilt T·sin(ωt/2) about X and T·cos(ωt/2)/2 about Y.
// Compose it over the title's base transform.
func Float(t float64, p FloatParams) graph.Transform {
	w := p.Frequency * t
	return graph.Transform{
		Position: mgl64.Vec3{0, p.Amplitude * math.Sin(w), 0},
		Rotation: mgl64.Vec3{p.Tilt * math.Sin(w/2), p.Tilt * math.Cos(w/2) * 0.5, 0},
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}
