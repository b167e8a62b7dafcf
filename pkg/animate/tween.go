package animate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Animator advances by dt seconds and reports whether it has finished.
type Animator interface {
	Step(dt float64) (done bool)
}

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// CubicOut starts fast and settles into the target.
func CubicOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Vec3Tween moves a vector from From to To over Duration seconds. OnUpdate
// sees every intermediate value; OnComplete runs exactly once, on the step
// that reaches To.
type Vec3Tween struct {
	From, To   mgl64.Vec3
	Duration   float64
	Ease       Ease
	OnUpdate   func(v mgl64.Vec3)
	OnComplete func()

	elapsed float64
	value   mgl64.Vec3
	started bool
	done    bool
}

// Value returns the current value; From before the first Step.
func (tw *Vec3Tween) Value() mgl64.Vec3 {
	if !tw.started {
		return tw.From
	}
	return tw.value
}

// Done reports whether the tween has reached To.
func (tw *Vec3Tween) Done() bool { return tw.done }

// Step implements Animator. A non-positive Duration completes on the first
// step.
func (tw *Vec3Tween) Step(dt float64) bool {
	if tw.done {
		return true
	}
	tw.started = true
	tw.elapsed += dt

	p := 1.0
	if tw.Duration > 0 {
		p = math.Min(tw.elapsed/tw.Duration, 1)
	}
	ease := tw.Ease
	if ease == nil {
		ease = Linear
	}
	if p >= 1 {
		tw.value = tw.To
	} else {
		tw.value = tw.From.Add(tw.To.Sub(tw.From).Mul(ease(p)))
	}
	if tw.OnUpdate != nil {
		tw.OnUpdate(tw.value)
	}
	if p >= 1 {
		tw.done = true
		if tw.OnComplete != nil {
			tw.OnComplete()
		}
	}
	return tw.done
}
