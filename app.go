package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/chazu/donutdate/pkg/animate"
	"github.com/chazu/donutdate/pkg/config"
	"github.com/chazu/donutdate/pkg/engine"
	"github.com/chazu/donutdate/pkg/geom"
	"github.com/chazu/donutdate/pkg/graph"
	"github.com/chazu/donutdate/pkg/kernel"
	"github.com/chazu/donutdate/pkg/kernel/sdfx"
	"github.com/chazu/donutdate/pkg/layout"
	"github.com/chazu/donutdate/pkg/tessellate"
	"github.com/go-gl/mathgl/mgl64"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// donutGroup names the group holding the generated donuts.
const donutGroup = "donuts"

// App runs scene scripts through layout and tessellation.
type App struct {
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
	seed   uint64
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	cfg  config.Config
	seed *uint64
	now  func() time.Time
}

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) AppOption {
	return func(o *appOptions) { o.cfg = cfg }
}

// WithSeed fixes the layout seed, overriding decor.seed. Zero is a seed
// like any other.
func WithSeed(seed uint64) AppOption {
	return func(o *appOptions) { o.seed = &seed }
}

// WithClock sets the date scripts format by default.
func WithClock(now func() time.Time) AppOption {
	return func(o *appOptions) { o.now = now }
}

// NewApp creates an App with an engine and the sdfx kernel. Without WithSeed
// or decor.seed the App draws a fresh seed.
func NewApp(opts ...AppOption) *App {
	o := appOptions{cfg: config.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	var seed uint64
	switch {
	case o.seed != nil:
		seed = *o.seed
	case o.cfg.Decor.Seed != nil:
		seed = *o.cfg.Decor.Seed
	default:
		seed = rand.Uint64()
	}
	return &App{
		cfg: o.cfg,
		engine: engine.NewEngine(
			engine.WithClock(o.now),
			engine.WithSceneDefaults(o.cfg.Text.SceneDefaults()),
		),
		kernel: sdfx.New(o.cfg.KernelOptions()...),
		seed:   seed,
	}
}

// Seed returns the layout seed, for reproducing a run.
func (a *App) Seed() uint64 { return a.seed }

// Kernel returns the geometry kernel.
func (a *App) Kernel() kernel.Kernel { return a.kernel }

// Config returns the configuration the App was built with.
func (a *App) Config() config.Config { return a.cfg }

// ScriptError carries the evaluation errors of a script.
type ScriptError struct {
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return "script: " + strings.Join(msgs, "; ")
}

// InvalidSceneError carries the blocking validation errors of a scene.
type InvalidSceneError struct {
	Errors []graph.ValidationError
}

func (e *InvalidSceneError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return "invalid scene: " + strings.Join(msgs, "; ")
}

// Scene is a laid-out scene ready for tessellation or animation.
type Scene struct {
	Graph      *graph.SceneGraph
	Title      graph.NodeID // group the donuts keep clear of; zero means the whole script
	Decor      config.Decor
	Seed       uint64
	Bounds     geom.Box
	Zone       layout.Zone
	Placements []layout.Placement
	Stats      layout.Stats
	Donuts     []animate.Handle
	Warnings   []graph.ValidationWarning
}

// Build evaluates source, validates the graph, measures the title, scatters
// the donuts around it and adds them to the graph. Scripts without a
// (decor ...) form get no donuts; a decor form without :around keeps the
// donuts clear of the whole script. Script and validation failures are
// returned as *ScriptError and *InvalidSceneError.
func (a *App) Build(source string) (*Scene, error) {
	// Step 1: Evaluate the Lisp source into a scene graph.
	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Errors: evalErrs}
	}

	// Step 2: Validate structure and dimensions.
	res := graph.ValidateAll(g)
	if !res.OK() {
		return nil, &InvalidSceneError{Errors: res.Errors}
	}

	// Step 3: Measure what the donuts must keep clear of.
	if err := tessellate.BindShapes(g, a.kernel); err != nil {
		return nil, err
	}
	s := &Scene{
		Graph:    g,
		Decor:    a.cfg.Decor.WithScript(g.Decor),
		Seed:     a.seed,
		Warnings: res.Warnings,
	}
	if g.Decor != nil && g.Decor.Around != "" {
		s.Title = g.Lookup(g.Decor.Around).ID
		s.Bounds, err = layout.GroupBounds(g, s.Title, layout.BoundsOptions{UpdateWorld: true})
	} else {
		s.Bounds, err = sceneBounds(g)
	}
	if err != nil {
		return nil, err
	}

	// Step 4: Scatter the donuts outside the exclusion zone.
	if s.Zone, err = layout.NewExclusionZone(s.Bounds, s.Decor.Margin); err != nil {
		return nil, err
	}
	if g.Decor != nil {
		s.Placements, err = layout.Place(layout.NewRand(a.seed), s.Decor.PlaceOptions(), s.Zone)
		if err != nil {
			return nil, err
		}
	}
	s.Stats = layout.Summarize(s.Placements)

	// Step 5: Add them to the graph and capture their handles.
	if s.Donuts, err = addDonuts(g, s.Placements, s.Decor); err != nil {
		return nil, err
	}
	if err := tessellate.BindShapes(g, a.kernel); err != nil {
		return nil, err
	}
	if err := g.UpdateWorld(); err != nil {
		return nil, err
	}
	return s, nil
}

// sceneBounds unions the bounds of every root.
func sceneBounds(g *graph.SceneGraph) (geom.Box, error) {
	if err := g.UpdateWorld(); err != nil {
		return geom.Box{}, err
	}
	out := geom.Empty()
	for _, r := range g.Roots {
		b, err := layout.GroupBounds(g, r, layout.BoundsOptions{})
		if err != nil {
			return geom.Box{}, err
		}
		out = out.Union(b)
	}
	return out, nil
}

// addDonuts creates a root group holding one torus per placement. Nodes get
// names only where the script has not already used them.
func addDonuts(g *graph.SceneGraph, ps []layout.Placement, d config.Decor) ([]animate.Handle, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	group := &graph.Node{
		ID:        graph.NewNodeID("generated/group/" + donutGroup),
		Kind:      graph.NodeGroup,
		Name:      freeName(g, donutGroup),
		Transform: graph.Identity(),
		Data:      graph.GroupData{Description: "generated donuts"},
	}
	if g.Get(group.ID) != nil {
		return nil, errors.New("scene already has generated donuts")
	}
	g.AddNode(group)
	g.AddRoot(group.ID)

	// One shared payload so every donut reuses the same solid.
	data := graph.TorusData{Major: d.Major, Minor: d.Minor}
	handles := make([]animate.Handle, len(ps))
	for i, p := range ps {
		name := fmt.Sprintf("donut-%02d", i)
		tr := graph.Transform{
			Position: p.Position,
			Rotation: mgl64.Vec3{p.Rotation[0], p.Rotation[1], 0},
			Scale:    mgl64.Vec3{p.Scale, p.Scale, p.Scale},
		}
		n := &graph.Node{
			ID:        graph.NewNodeID("generated/torus/" + name),
			Kind:      graph.NodeTorus,
			Name:      freeName(g, name),
			Transform: tr,
			Data:      data,
		}
		g.AddNode(n)
		if err := g.AddChild(group.ID, n.ID); err != nil {
			return nil, err
		}
		handles[i] = animate.Handle{ID: n.ID, Base: tr, Speed: p.Spin}
	}
	return handles, nil
}

func freeName(g *graph.SceneGraph, name string) string {
	if g.Lookup(name) != nil {
		return ""
	}
	return name
}

// Tessellate returns the scene's world-space meshes.
func (a *App) Tessellate(s *Scene) ([]*kernel.Mesh, error) {
	return tessellate.Tessellate(s.Graph, a.kernel)
}

// Weld merges the whole scene into one solid and meshes it at mesh.cells
// along the scene's longest axis, so overlapping parts share one surface.
func (a *App) Weld(s *Scene) (*kernel.Mesh, error) {
	solid, err := tessellate.Weld(s.Graph, a.kernel)
	if err != nil {
		return nil, err
	}
	m, err := a.kernel.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("weld: %w", err)
	}
	m.PartName = "scene"
	return m, nil
}

// Director returns the animation director for s.
func (a *App) Director(s *Scene) (*animate.Director, error) {
	return animate.NewDirector(s.Graph, s.Title, animate.NewSpinner(s.Donuts), a.cfg.Animation.Settings())
}

// MeshData is the JSON-serializable mesh format handed to renderers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable script or scene error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// LayoutData is the JSON form of a scene's layout.
type LayoutData struct {
	Seed       uint64             `json:"seed"`
	Bounds     geom.Box           `json:"bounds"`
	Zone       layout.Zone        `json:"zone"`
	Placements []layout.Placement `json:"placements"`
	Stats      layout.Stats       `json:"stats"`
}

// SceneResult is the full result of Evaluate.
type SceneResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Layout   *LayoutData     `json:"layout,omitempty"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// Layout returns the JSON form of s's layout.
func (s *Scene) Layout() *LayoutData {
	ps := s.Placements
	if ps == nil {
		ps = []layout.Placement{}
	}
	return &LayoutData{Seed: s.Seed, Bounds: s.Bounds, Zone: s.Zone, Placements: ps, Stats: s.Stats}
}

// Evaluate takes scene script source and returns mesh data, layout and
// errors. Failures are reported in Errors rather than returned.
func (a *App) Evaluate(source string) SceneResult {
	result := SceneResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	s, err := a.Build(source)
	if err != nil {
		result.Errors = errorData(err)
		return result
	}
	for _, w := range s.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	result.Layout = s.Layout()

	meshes, err := a.Tessellate(s)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	result.Meshes = meshData(meshes)
	return result
}

func errorData(err error) []EvalErrorData {
	var se *ScriptError
	var ve *InvalidSceneError
	switch {
	case errors.As(err, &se):
		out := make([]EvalErrorData, len(se.Errors))
		for i, e := range se.Errors {
			out[i] = EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		}
		return out
	case errors.As(err, &ve):
		out := make([]EvalErrorData, len(ve.Errors))
		for i, e := range ve.Errors {
			out[i] = EvalErrorData{Message: e.Error()}
		}
		return out
	default:
		return []EvalErrorData{{Message: err.Error()}}
	}
}

// meshData converts kernel meshes, assigning palette colours in order.
func meshData(meshes []*kernel.Mesh) []MeshData {
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out
}
