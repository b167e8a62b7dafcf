package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/chazu/donutdate/pkg/datetext"
	"github.com/chazu/donutdate/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: date-text -> date_text
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an mgl64.Vec3.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// only rejects keywords outside allowed, catching typos such as :hieght.
func (pa kwArgs) only(fn string, allowed ...string) error {
	for k := range pa.kw {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// float reads an optional numeric keyword into dst.
func (pa kwArgs) float(fn, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = f
	return nil
}

// str reads an optional string keyword into dst.
func (pa kwArgs) str(fn, key string, dst *string) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = s
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_era) and plain strings ("era").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toScale accepts a single number for uniform scale or a vec3.
func toScale(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	f, err := toFloat64(s)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("expected number or vec3: %w", err)
	}
	return mgl64.Vec3{f, f, f}, nil
}

// ---------------------------------------------------------------------------
// Node construction
// ---------------------------------------------------------------------------

// Default sizes, in scene units, for forms that omit them.
const (
	DefaultTextHeight = 0.5
	DefaultTextDepth  = 0.2
	DefaultTorusMajor = 0.3
	DefaultTorusMinor = 0.2
)

// SceneDefaults are the engine-wide fallbacks for (date-text) and (text).
type SceneDefaults struct {
	Style      datetext.Style
	TextHeight float64
	TextDepth  float64
}

// DefaultSceneDefaults returns Gregorian dates and the default text size.
func DefaultSceneDefaults() SceneDefaults {
	return SceneDefaults{Style: datetext.StyleGregorian, TextHeight: DefaultTextHeight, TextDepth: DefaultTextDepth}
}

// sceneBuilder holds the per-evaluation state shared by the builtins.
type sceneBuilder struct {
	g        *graph.SceneGraph
	now      time.Time
	defaults SceneDefaults
	anon     map[string]int // per-kind counters for unnamed nodes
}

func newSceneBuilder(g *graph.SceneGraph, now time.Time, d SceneDefaults) *sceneBuilder {
	return &sceneBuilder{g: g, now: now, defaults: d, anon: make(map[string]int)}
}

// nodeID derives a deterministic ID: kind/name for named nodes, kind/#n in
// creation order otherwise.
func (b *sceneBuilder) nodeID(kind graph.NodeKind, name string) graph.NodeID {
	if name != "" {
		return graph.NewNodeID(kind.String() + "/" + name)
	}
	b.anon[kind.String()]++
	return graph.NewNodeID(fmt.Sprintf("%s/#%d", kind, b.anon[kind.String()]))
}

// addTopLevel adds a node as a root. Groups remove their children from the
// roots when they adopt them.
func (b *sceneBuilder) addTopLevel(fn string, n *graph.Node) (zygo.Sexp, error) {
	if n.Name != "" && b.g.Lookup(n.Name) != nil {
		return zygo.SexpNull, fmt.Errorf("%s: name %q is already used", fn, n.Name)
	}
	b.g.AddNode(n)
	b.g.AddRoot(n.ID)
	return &sexpNodeRef{id: n.ID, name: n.Name}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all scene builtins into a zygomys environment.
// The builtins populate b's SceneGraph during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *sceneBuilder) {
	g := b.g

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var v mgl64.Vec3
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (date-text :style :era :year 2026 :month 10 :day 19)
	//
	// Registered as "date_text"; the preprocessor rewrites date-text.
	// -----------------------------------------------------------------------
	env.AddFunction("date_text", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("date-text", "style", "year", "month", "day"); err != nil {
			return zygo.SexpNull, err
		}

		style := b.defaults.Style
		if v, ok := pa.kw["style"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("date-text: style: %w", err)
			}
			if style, err = datetext.ParseStyle(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("date-text: %w", err)
			}
		}

		y, m, d := b.now.Date()
		parts := []struct {
			key string
			dst *int
		}{{"year", &y}, {"day", &d}}
		for _, p := range parts {
			if v, ok := pa.kw[p.key]; ok {
				n, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("date-text: %s: %w", p.key, err)
				}
				*p.dst = n
			}
		}
		if v, ok := pa.kw["month"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("date-text: month: %w", err)
			}
			if n < 1 || n > 12 {
				return zygo.SexpNull, fmt.Errorf("date-text: month %d out of range", n)
			}
			m = time.Month(n)
		}
		t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
		if t.Day() != d {
			return zygo.SexpNull, fmt.Errorf("date-text: %d-%02d has no day %d", y, int(m), d)
		}

		return &zygo.SexpStr{S: datetext.Format(t, style)}, nil
	})

	// -----------------------------------------------------------------------
	// (weekday) -> "月曜日" for the evaluation date
	// -----------------------------------------------------------------------
	env.AddFunction("weekday", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("weekday takes no arguments, got %d", len(args))
		}
		return &zygo.SexpStr{S: datetext.Weekday(b.now)}, nil
	})

	// -----------------------------------------------------------------------
	// (text "2026年10月19日" :name "date" :height 0.5 :depth 0.2)
	// -----------------------------------------------------------------------
	env.AddFunction("text", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("text", "name", "height", "depth"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("text requires exactly one string argument, got %d", len(pa.positional))
		}
		content, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("text: content: %w", err)
		}

		td := graph.TextData{Content: content, Height: b.defaults.TextHeight, Depth: b.defaults.TextDepth}
		var nodeName string
		if err := pa.str("text", "name", &nodeName); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("text", "height", &td.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("text", "depth", &td.Depth); err != nil {
			return zygo.SexpNull, err
		}

		return b.addTopLevel("text", &graph.Node{
			ID:        b.nodeID(graph.NodeText, nodeName),
			Kind:      graph.NodeText,
			Name:      nodeName,
			Transform: graph.Identity(),
			Data:      td,
		})
	})

	// -----------------------------------------------------------------------
	// (torus :name "ring" :major 0.3 :minor 0.2)
	// -----------------------------------------------------------------------
	env.AddFunction("torus", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("torus", "name", "major", "minor"); err != nil {
			return zygo.SexpNull, err
		}
		td := graph.TorusData{Major: DefaultTorusMajor, Minor: DefaultTorusMinor}
		var nodeName string
		if err := pa.str("torus", "name", &nodeName); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("torus", "major", &td.Major); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("torus", "minor", &td.Minor); err != nil {
			return zygo.SexpNull, err
		}

		return b.addTopLevel("torus", &graph.Node{
			ID:        b.nodeID(graph.NodeTorus, nodeName),
			Kind:      graph.NodeTorus,
			Name:      nodeName,
			Transform: graph.Identity(),
			Data:      td,
		})
	})

	// -----------------------------------------------------------------------
	// (box :name "base" :size (vec3 6 0.1 1))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("box", "name", "size"); err != nil {
			return zygo.SexpNull, err
		}
		v, ok := pa.kw["size"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("box requires :size")
		}
		size, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}
		var nodeName string
		if err := pa.str("box", "name", &nodeName); err != nil {
			return zygo.SexpNull, err
		}

		return b.addTopLevel("box", &graph.Node{
			ID:        b.nodeID(graph.NodeBox, nodeName),
			Kind:      graph.NodeBox,
			Name:      nodeName,
			Transform: graph.Identity(),
			Data:      graph.BoxData{Size: size},
		})
	})

	// -----------------------------------------------------------------------
	// (place ref :at (vec3 0 0 0) :rotate (vec3 0 0 0) :scale 1)
	//
	// Sets the node's local transform and returns the same reference.
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("place", "at", "rotate", "scale"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a node reference as first argument")
		}
		id, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		n := g.Get(id)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("place: node %s not found", id.Short())
		}

		tr := n.Transform
		if v, ok := pa.kw["at"]; ok {
			if tr.Position, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
		}
		if v, ok := pa.kw["rotate"]; ok {
			if tr.Rotation, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
		}
		if v, ok := pa.kw["scale"]; ok {
			if tr.Scale, err = toScale(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place: scale: %w", err)
			}
		}
		if err := g.SetTransform(id, tr); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (group "title" child1 child2 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}

		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}

		var children []graph.NodeID
		seen := make(map[graph.NodeID]bool)
		for i := 1; i < len(args); i++ {
			ref, ok := args[i].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("group: child %d: expected node reference, got %T (%s)",
					i, args[i], args[i].SexpString(nil))
			}
			if seen[ref.id] {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %s is listed more than once", i, ref.SexpString(nil))
			}
			if !g.IsRoot(ref.id) {
				owner := "another group"
				if p := g.Parent(ref.id); p != nil && p.Name != "" {
					owner = fmt.Sprintf("group %q", p.Name)
				}
				return zygo.SexpNull, fmt.Errorf("group: child %d: %s already belongs to %s", i, ref.SexpString(nil), owner)
			}
			seen[ref.id] = true
			children = append(children, ref.id)
		}

		node := &graph.Node{
			ID:        b.nodeID(graph.NodeGroup, groupName),
			Kind:      graph.NodeGroup,
			Name:      groupName,
			Transform: graph.Identity(),
			Data:      graph.GroupData{},
		}
		ref, err := b.addTopLevel("group", node)
		if err != nil {
			return ref, err
		}
		for _, c := range children {
			g.RemoveRoot(c)
			if err := g.AddChild(node.ID, c); err != nil {
				return zygo.SexpNull, fmt.Errorf("group: %w", err)
			}
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (decor :around "title" :count 45 :extent 10 :margin 0.3 :retries 10
	//        :major 0.3 :minor 0.2)
	// -----------------------------------------------------------------------
	env.AddFunction("decor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if g.Decor != nil {
			return zygo.SexpNull, fmt.Errorf("decor may only be declared once")
		}
		pa := parseArgs(args)
		if err := pa.only("decor", "around", "count", "extent", "margin", "retries", "major", "minor"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("decor takes only keyword arguments")
		}

		d := &graph.DecorSpec{}
		if v, ok := pa.kw["around"]; ok {
			switch ref := v.(type) {
			case *sexpNodeRef:
				n := g.Get(ref.id)
				if n == nil || n.Name == "" {
					return zygo.SexpNull, fmt.Errorf("decor: around: node must be named")
				}
				d.Around = n.Name
			default:
				s, err := toString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("decor: around: expected node reference or name: %w", err)
				}
				d.Around = s
			}
		}

		ints := []struct {
			key string
			dst **int
		}{{"count", &d.Count}, {"retries", &d.Retries}}
		for _, p := range ints {
			if v, ok := pa.kw[p.key]; ok {
				n, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("decor: %s: %w", p.key, err)
				}
				*p.dst = &n
			}
		}
		floats := []struct {
			key string
			dst **float64
		}{{"extent", &d.Extent}, {"margin", &d.Margin}, {"major", &d.Major}, {"minor", &d.Minor}}
		for _, p := range floats {
			if v, ok := pa.kw[p.key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("decor: %s: %w", p.key, err)
				}
				*p.dst = &f
			}
		}

		g.Decor = d
		return zygo.SexpNull, nil
	})
}
