// Package layout decides where the decorative donuts go.
//
// It measures the world-space bounds of a group in the scene graph, grows
// them into an exclusion zone and scatters placements through a cube around
// the origin by rejection sampling against that zone. Everything here runs
// once, before animation starts. The zone is never re-checked against the
// animated text, so donuts may brush against it once the text drifts.
package layout
