package animate

// Timeline runs animators one after another. Time left over when one
// finishes is not carried into the next.
type Timeline struct {
	steps []Animator
	idx   int
}

// NewTimeline sequences steps.
func NewTimeline(steps ...Animator) *Timeline {
	return &Timeline{steps: steps}
}

// Current returns the running animator, or nil when all are done.
func (tl *Timeline) Current() Animator {
	if tl.idx >= len(tl.steps) {
		return nil
	}
	return tl.steps[tl.idx]
}

// Step implements Animator.
func (tl *Timeline) Step(dt float64) bool {
	cur := tl.Current()
	if cur == nil {
		return true
	}
	if cur.Step(dt) {
		tl.idx++
	}
	return tl.idx >= len(tl.steps)
}
