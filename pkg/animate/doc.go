// Package animate drives the scene once layout is done: the title floats,
// the donuts spin and the camera flies in and then orbits. Everything is a
// pure function of elapsed time or a Step(dt) state machine, so frames can
// be sampled headless and deterministically.
package animate
