package animate

import (
	"fmt"

	"github.com/chazu/donutdate/pkg/graph"
	"github.com/go-gl/mathgl/mgl64"
)

// FlyIn is the opening camera move.
type FlyIn struct {
	From     mgl64.Vec3 `toml:"from" json:"from"`
	To       mgl64.Vec3 `toml:"to" json:"to"`
	Duration float64    `toml:"duration" json:"duration"` // seconds
}

// Settings configures a Director.
type Settings struct {
	Float      FloatParams
	FlyIn      FlyIn
	OrbitSpeed float64    // radians per second once the fly-in ends
	Target     mgl64.Vec3 // camera target
}

// DefaultSettings flies from far out to (1, 1, 3) in two seconds, then
// orbits slowly.
func DefaultSettings() Settings {
	return Settings{
		Float:      DefaultFloat(),
		FlyIn:      FlyIn{From: mgl64.Vec3{0, 4, 14}, To: mgl64.Vec3{1, 1, 3}, Duration: 2},
		OrbitSpeed: 0.2,
	}
}

// FrameState is what a renderer needs to draw one frame.
type FrameState struct {
	Frame
	Camera   Camera            `json:"camera"`
	Orbiting bool              `json:"orbiting"`
	Title    graph.Transform   `json:"title"`
	Donuts   []graph.Transform `json:"donuts"`
}

// Director owns the per-frame state: the floating title, the spinning
// donuts and the camera.
type Director struct {
	title     graph.NodeID
	titleBase graph.Transform
	float     FloatParams

	spinner *Spinner
	camera  *Timeline
	orbit   *Orbit
	cam     Camera

	orbiting bool
}

// NewDirector prepares an animation for g. title may be zero when the scene
// has nothing to float; spinner may be nil when there are no donuts.
func NewDirector(g *graph.SceneGraph, title graph.NodeID, spinner *Spinner, s Settings) (*Director, error) {
	d := &Director{
		title:   title,
		float:   s.Float,
		spinner: spinner,
		cam:     Camera{Eye: s.FlyIn.From, Target: s.Target},
	}
	if !title.IsZero() {
		n := g.Get(title)
		if n == nil {
			return nil, fmt.Errorf("animate: title node %s not found", title.Short())
		}
		d.titleBase = n.Transform
	}
	if d.spinner == nil {
		d.spinner = NewSpinner(nil)
	}

	d.orbit = NewOrbit(s.Target, s.FlyIn.To, s.OrbitSpeed)
	fly := &Vec3Tween{
		From:     s.FlyIn.From,
		To:       s.FlyIn.To,
		Duration: s.FlyIn.Duration,
		Ease:     CubicOut,
		OnUpdate: func(v mgl64.Vec3) { d.cam.Eye = v },
		OnComplete: func() {
			d.orbit.Reset(s.FlyIn.To)
			d.orbiting = true
		},
	}
	d.camera = NewTimeline(fly, d.orbit)
	return d, nil
}

// Camera returns the current camera.
func (d *Director) Camera() Camera { return d.cam }

// Step advances everything to frame f.
func (d *Director) Step(f Frame) FrameState {
	wasOrbiting := d.orbiting
	d.camera.Step(f.Delta)
	if wasOrbiting {
		d.cam.Eye = d.orbit.Eye()
	}
	d.spinner.Step(f.Delta)

	st := FrameState{
		Frame:    f,
		Camera:   d.cam,
		Orbiting: d.orbiting,
		Donuts:   d.spinner.Transforms(),
	}
	if !d.title.IsZero() {
		st.Title = d.titleBase.Compose(Float(f.Time, d.float))
	}
	return st
}

// Apply writes st's transforms into g so a later tessellation or bounds
// query sees the animated scene.
func (d *Director) Apply(g *graph.SceneGraph, st FrameState) error {
	if !d.title.IsZero() {
		if err := g.SetTransform(d.title, st.Title); err != nil {
			return fmt.Errorf("animate: title: %w", err)
		}
	}
	return d.spinner.Apply(g)
}
