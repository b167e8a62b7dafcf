package layout

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene constants the layout was tuned with.
const (
	DefaultCount   = 45
	DefaultExtent  = 10.0
	DefaultMargin  = 0.3
	DefaultRetries = 10
)

// Spin speeds in radians per second, drawn per donut.
const (
	MinSpin = 0.2
	MaxSpin = 1.2
)

// PlaceOptions configures Place.
type PlaceOptions struct {
	Count   int     // number of placements, >= 0
	Extent  float64 // edge length of the sampling cube centred on the origin, > 0
	Retries int     // redraws allowed per placement, >= 0
}

// DefaultPlaceOptions returns 45 donuts in a cube of edge 10 with 10 retries.
func DefaultPlaceOptions() PlaceOptions {
	return PlaceOptions{Count: DefaultCount, Extent: DefaultExtent, Retries: DefaultRetries}
}

// Placement describes one decorative object.
type Placement struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec2 `json:"rotation"` // about X and Y, each in [0, π)
	Scale    float64    `json:"scale"`    // uniform, in (0, 1]
	Spin     float64    `json:"spin"`     // radians per second

	Rejected  int  `json:"rejected"`  // redraws spent on the position
	Exhausted bool `json:"exhausted"` // accepted inside the zone after the last retry
}

func (o PlaceOptions) validate() error {
	if o.Count < 0 {
		return invalid("place", "count", o.Count, "must not be negative")
	}
	if !(o.Extent > 0) || math.IsInf(o.Extent, 0) {
		return invalid("place", "extent", o.Extent, "must be a finite positive number")
	}
	if o.Retries < 0 {
		return invalid("place", "retries", o.Retries, "must not be negative")
	}
	return nil
}

// Place draws opts.Count placements uniformly in the cube
// [-Extent/2, Extent/2)^3, redrawing a position while it falls inside zone.
// After opts.Retries redraws the last position is kept wherever it is, so
// the zone is avoided on a best-effort basis only. Placements are not
// checked against each other.
//
// A zero count returns an empty slice without touching rng.
func Place(rng *rand.Rand, opts PlaceOptions, zone Zone) ([]Placement, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, invalid("place", "rng", nil, "must not be nil")
	}

	out := make([]Placement, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		var p Placement
		p.Position = drawPosition(rng, opts.Extent)
		for zone.Contains(p.Position) && p.Rejected < opts.Retries {
			p.Position = drawPosition(rng, opts.Extent)
			p.Rejected++
		}
		p.Exhausted = zone.Contains(p.Position)

		p.Rotation = mgl64.Vec2{rng.Float64() * math.Pi, rng.Float64() * math.Pi}
		p.Scale = 1 - rng.Float64()
		p.Spin = MinSpin + rng.Float64()*(MaxSpin-MinSpin)
		out = append(out, p)
	}
	return out, nil
}

func drawPosition(rng *rand.Rand, extent float64) mgl64.Vec3 {
	half := extent / 2
	return mgl64.Vec3{
		rng.Float64()*extent - half,
		rng.Float64()*extent - half,
		rng.Float64()*extent - half,
	}
}

// Stats summarises a batch of placements.
type Stats struct {
	Count     int `json:"count"`
	Rejected  int `json:"rejected"`  // total redraws
	Exhausted int `json:"exhausted"` // placements left inside the zone
}

// Summarize totals the diagnostics of ps.
func Summarize(ps []Placement) Stats {
	s := Stats{Count: len(ps)}
	for _, p := range ps {
		s.Rejected += p.Rejected
		if p.Exhausted {
			s.Exhausted++
		}
	}
	return s
}

// NewRand returns the PCG source the CLI seeds placements with.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
