package animate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is an eye looking at a target.
type Camera struct {
	Eye    mgl64.Vec3 `json:"eye"`
	Target mgl64.Vec3 `json:"target"`
}

// View returns the camera's view matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, mgl64.Vec3{0, 1, 0})
}

// Orbit circles the eye around the target about the vertical axis, keeping
// its height and distance. It never finishes.
type Orbit struct {
	Target mgl64.Vec3
	Speed  float64 // radians per second

	radius, height, angle float64
}

// NewOrbit starts an orbit from eye.
func NewOrbit(target, eye mgl64.Vec3, speed float64) *Orbit {
	o := &Orbit{Target: target, Speed: speed}
	o.Reset(eye)
	return o
}

// Reset restarts the orbit from eye.
func (o *Orbit) Reset(eye mgl64.Vec3) {
	d := eye.Sub(o.Target)
	o.radius = math.Hypot(d[0], d[2])
	o.height = d[1]
	o.angle = math.Atan2(d[0], d[2])
}

// Step implements Animator.
func (o *Orbit) Step(dt float64) bool {
	o.angle += o.Speed * dt
	return false
}

// Eye returns the current eye position.
func (o *Orbit) Eye() mgl64.Vec3 {
	return o.Target.Add(mgl64.Vec3{
		o.radius * math.Sin(o.angle),
		o.height,
		o.radius * math.Cos(o.angle),
	})
}
