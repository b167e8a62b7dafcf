package graph

import "github.com/go-gl/mathgl/mgl64"

// GroupData represents a logical grouping. Created by the (group ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// TextData is a single line of extruded text.
type TextData struct {
	Content string  `json:"content"`
	Height  float64 `json:"height"` // glyph height in scene units
	Depth   float64 `json:"depth"`  // extrusion depth
}

func (TextData) nodeData() {}

// TorusData is a donut lying in its local XY plane.
type TorusData struct {
	Major float64 `json:"major"` // centre to tube centre
	Minor float64 `json:"minor"` // tube radius
}

func (TorusData) nodeData() {}

// BoxData is a rectangular solid centred on the local origin.
type BoxData struct {
	Size mgl64.Vec3 `json:"size"`
}

func (BoxData) nodeData() {}

// DecorSpec carries the donut scattering settings declared by a script's
// (decor ...) form. Nil fields fall back to configuration defaults.
type DecorSpec struct {
	Around  string   `json:"around,omitempty"` // name of the group to keep clear
	Count   *int     `json:"count,omitempty"`
	Extent  *float64 `json:"extent,omitempty"`
	Margin  *float64 `json:"margin,omitempty"`
	Retries *int     `json:"retries,omitempty"`
	Major   *float64 `json:"major,omitempty"`
	Minor   *float64 `json:"minor,omitempty"`
}
