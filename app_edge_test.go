package main

import (
	"strings"
	"testing"
)

// errorsContain reports whether any error message contains substr.
func errorsContain(errs []EvalErrorData, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> 0 meshes, 0 errors, non-nil slices.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
	if result.Layout == nil || !result.Layout.Bounds.IsEmpty() {
		t.Errorf("expected empty bounds for empty source, got %+v", result.Layout)
	}
}

func TestE2EWhitespaceAndComments(t *testing.T) {
	app := newTestApp(t)
	for _, src := range []string{"   \n\t\n  ", ";; just a comment", "; one\n;; two\n\n"} {
		result := app.Evaluate(src)
		if len(result.Errors) != 0 || len(result.Meshes) != 0 {
			t.Errorf("source %q: %d errors, %d meshes", src, len(result.Errors), len(result.Meshes))
		}
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax errors: unmatched parens -> eval error with a message.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := newTestApp(t)

	// Put valid code on line 1, broken code on line 2 so line info is meaningful.
	result := app.Evaluate("(+ 1 2)\n(text \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
	if result.Layout != nil {
		t.Error("expected no layout on syntax error")
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

// ---------------------------------------------------------------------------
// 3. Bad references: decor around a name nobody declared.
// ---------------------------------------------------------------------------

func TestE2EDecorAroundUnknownName(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`
(text "2026" :name "year")
(decor :around "ghost")
`)
	if !errorsContain(result.Errors, "ghost") {
		t.Errorf("expected error mentioning 'ghost', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestE2EUndefinedSymbol(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(group "title" nothing-here)`)
	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for undefined symbol")
	}
}

func TestE2ERepeatedGroupChild(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(def t (text "a" :name "a")) (group "g" t t)`)
	if !errorsContain(result.Errors, "listed more than once") {
		t.Errorf("expected a repeated-child error, got %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 4. Bad dimensions are caught by validation before any geometry is built.
// ---------------------------------------------------------------------------

func TestE2EInvalidDimensions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"negative box", `(box :size (vec3 -1 1 1))`, "box dimension"},
		{"zero box", `(box :size (vec3 0 0 0))`, "box dimension"},
		{"fat torus", `(torus :major 0.1 :minor 0.2)`, "major radius"},
		{"flat text", `(text "x" :depth 0)`, "text depth"},
		{"zero scale", `(place (box :size (vec3 1 1 1)) :scale (vec3 1 0 1))`, "zero component"},
		{"negative margin", `(decor :margin -0.5)`, "margin"},
		{"negative count", `(decor :count -3)`, "count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestApp(t).Evaluate(tt.source)
			if !errorsContain(result.Errors, tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
			if len(result.Meshes) != 0 {
				t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
			}
		})
	}
}

func TestE2EEmptyTextWarns(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(text "" :name "blank")`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !errorsContain(result.Warnings, "empty") {
		t.Errorf("expected an empty-text warning, got %v", result.Warnings)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("empty text should produce no mesh, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid evaluation: the engine recovers cleanly between error and
//    success states.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := newTestApp(t)

	sources := []string{
		`(text "a" :name "a")`,
		`(text "broken"`,
		``,
		`(decor :around "missing")`,
		`(box :name "b" :size (vec3 1 1 1))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(torus :name "t")`,
		`(undefined-func 1 2 3)`,
		`(text "last" :name "last")`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	// The last source is valid and must still work after the failures.
	result := app.Evaluate(sources[len(sources)-1])
	if len(result.Errors) != 0 || len(result.Meshes) != 1 {
		t.Errorf("engine did not recover: %d errors, %d meshes", len(result.Errors), len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 6. Decor settings from the script override the configuration.
// ---------------------------------------------------------------------------

func TestE2EDecorOverridesConfig(t *testing.T) {
	app := newTestApp(t)
	s := mustBuild(t, app, `
(group "title" (text "2026" :name "year"))
(decor :around "title" :count 3 :extent 6 :margin 0 :retries 2 :major 0.5 :minor 0.1)
`)
	if len(s.Placements) != 3 || len(s.Donuts) != 3 {
		t.Fatalf("expected 3 donuts, got %d placements and %d handles", len(s.Placements), len(s.Donuts))
	}
	if s.Zone.Margin() != 0 {
		t.Errorf("margin = %v, want the script's 0", s.Zone.Margin())
	}
	if s.Decor.Retries != 2 || s.Decor.Extent != 6 {
		t.Errorf("decor = %+v", s.Decor)
	}
	for _, p := range s.Placements {
		for i := 0; i < 3; i++ {
			if p.Position[i] < -3 || p.Position[i] >= 3 {
				t.Errorf("position %v outside extent 6", p.Position)
			}
		}
	}
	donuts := s.Graph.Lookup("donuts")
	if donuts == nil || len(donuts.Children) != 3 {
		t.Fatal("expected a donuts group with 3 children")
	}
}

func TestE2EDecorWithoutAround(t *testing.T) {
	app := newTestApp(t)
	s := mustBuild(t, app, `
(text "2026" :name "year")
(decor :count 4)
`)
	if !s.Title.IsZero() {
		t.Error("no :around means no title to float")
	}
	year := s.Graph.Lookup("year")
	b, _ := year.LocalBounds()
	if !s.Bounds.ApproxEqual(b, 1e-9) {
		t.Errorf("bounds %v should match the only root %v", s.Bounds, b)
	}
	if len(s.Placements) != 4 {
		t.Errorf("expected 4 placements, got %d", len(s.Placements))
	}
}

func TestE2EZeroDonuts(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`
(group "title" (text "2026" :name "year"))
(decor :around "title" :count 0)
`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Errorf("expected only the title mesh, got %d", len(result.Meshes))
	}
	if result.Layout.Stats.Count != 0 {
		t.Errorf("stats = %+v", result.Layout.Stats)
	}
}

// ---------------------------------------------------------------------------
// 7. Exhaustion: a title that fills the sampling cube cannot be avoided, so
//    every donut is accepted inside the zone after its retries.
// ---------------------------------------------------------------------------

func TestE2EExhaustedPlacements(t *testing.T) {
	app := newTestApp(t)
	s := mustBuild(t, app, `
(box :name "wall" :size (vec3 20 20 20))
(decor :around "wall" :count 5 :retries 2)
`)
	if s.Stats.Exhausted != 5 {
		t.Errorf("exhausted = %d, want 5", s.Stats.Exhausted)
	}
	if s.Stats.Rejected != 10 {
		t.Errorf("rejected = %d, want 5 donuts x 2 retries", s.Stats.Rejected)
	}
}

// ---------------------------------------------------------------------------
// 8. Generated names never clash with the script's.
// ---------------------------------------------------------------------------

func TestE2EGeneratedNamesYield(t *testing.T) {
	app := newTestApp(t)
	s := mustBuild(t, app, `
(group "donuts" (text "2026" :name "donut-00"))
(decor :around "donuts" :count 2)
`)
	if got := s.Graph.Lookup("donuts"); got == nil || got.Kind.String() != "group" || len(got.Children) != 1 {
		t.Fatal("the script's donuts group was replaced")
	}
	if n := s.Graph.Lookup("donut-00"); n == nil || n.Kind.String() != "text" {
		t.Error("the script's donut-00 was replaced")
	}
	if s.Graph.Lookup("donut-01") == nil {
		t.Error("expected the second generated donut to keep its name")
	}
	if len(s.Donuts) != 2 {
		t.Errorf("expected 2 donuts, got %d", len(s.Donuts))
	}
}

// ---------------------------------------------------------------------------
// 9. Palette wrapping: more meshes than colours.
// ---------------------------------------------------------------------------

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`
(group "title" (box :name "b" :size (vec3 1 1 1)))
(decor :around "title" :count 11)
`)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 12 {
		t.Fatalf("expected 12 meshes, got %d", len(result.Meshes))
	}
	for i, m := range result.Meshes {
		if want := colorPalette[i%len(colorPalette)]; m.Color != want {
			t.Errorf("mesh %d colour %q, want %q", i, m.Color, want)
		}
	}
}
