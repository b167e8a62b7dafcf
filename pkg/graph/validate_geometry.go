package graph

import (
	"fmt"
	"math"
	"strings"
)

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *SceneGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateDimensions(g)...)
	errs = append(errs, validateScale(g)...)
	errs = append(errs, validateDecorValues(g)...)
	warnings = append(warnings, validateTextContent(g)...)

	return errs, warnings
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// validateDimensions checks the size parameters of every mesh-bearing node.
func validateDimensions(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	add := func(id NodeID, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case TextData:
			if !positive(d.Height) {
				add(node.ID, "text height is %.4f, must be positive", d.Height)
			}
			if !positive(d.Depth) {
				add(node.ID, "text depth is %.4f, must be positive", d.Depth)
			}
		case TorusData:
			if !positive(d.Minor) {
				add(node.ID, "torus minor radius is %.4f, must be positive", d.Minor)
			} else if d.Major <= d.Minor {
				add(node.ID, "torus major radius %.4f must exceed minor radius %.4f", d.Major, d.Minor)
			}
		case BoxData:
			for i, axis := range []string{"X", "Y", "Z"} {
				if !positive(d.Size[i]) {
					add(node.ID, "box dimension %s is %.4f, must be positive", axis, d.Size[i])
				}
			}
		}
	}

	return errs
}

// validateScale rejects transforms that collapse a node onto a plane.
func validateScale(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		s := node.Transform.Scale
		if s[0] == 0 || s[1] == 0 || s[2] == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("transform scale %v has a zero component", s),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateDecorValues checks script-supplied decor settings.
func validateDecorValues(g *SceneGraph) []ValidationError {
	d := g.Decor
	if d == nil {
		return nil
	}
	var errs []ValidationError
	add := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			Message:  "decor: " + fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	if d.Count != nil && *d.Count < 0 {
		add("count is %d, must not be negative", *d.Count)
	}
	if d.Extent != nil && !positive(*d.Extent) {
		add("extent is %.4f, must be positive", *d.Extent)
	}
	if d.Margin != nil && (*d.Margin < 0 || math.IsNaN(*d.Margin)) {
		add("margin is %.4f, must not be negative", *d.Margin)
	}
	if d.Retries != nil && *d.Retries < 0 {
		add("retries is %d, must not be negative", *d.Retries)
	}
	if d.Major != nil && d.Minor != nil && *d.Major <= *d.Minor {
		add("donut major radius %.4f must exceed minor radius %.4f", *d.Major, *d.Minor)
	}
	return errs
}

// validateTextContent warns about text nodes that produce no glyphs.
func validateTextContent(g *SceneGraph) []ValidationWarning {
	var warnings []ValidationWarning
	for _, node := range g.Nodes {
		td, ok := node.Data.(TextData)
		if !ok {
			continue
		}
		if strings.TrimSpace(td.Content) == "" {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: "text is empty and will produce no geometry",
			})
		}
	}
	return warnings
}
