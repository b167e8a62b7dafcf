// Package config loads donutdate settings from an optional TOML file.
//
// A file only needs the keys it changes:
//
//	[decor]
//	count = 60
//	seed = 7
//
//	[text]
//	style = "era"
//	font = "/usr/share/fonts/noto/NotoSansJP-Regular.ttf"
//
//	[animation.flyin]
//	duration = 3.0
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chazu/donutdate/pkg/animate"
	"github.com/chazu/donutdate/pkg/datetext"
	"github.com/chazu/donutdate/pkg/engine"
	"github.com/chazu/donutdate/pkg/graph"
	"github.com/chazu/donutdate/pkg/kernel/sdfx"
	"github.com/chazu/donutdate/pkg/layout"
	"github.com/go-gl/mathgl/mgl64"
)

// Config is the full set of tunables.
type Config struct {
	Decor     Decor     `toml:"decor"`
	Text      Text      `toml:"text"`
	Mesh      Mesh      `toml:"mesh"`
	Animation Animation `toml:"animation"`
}

// Decor controls donut scattering.
type Decor struct {
	Count   int     `toml:"count"`
	Extent  float64 `toml:"extent"`
	Margin  float64 `toml:"margin"`
	Retries int     `toml:"retries"`
	Seed    *uint64 `toml:"seed,omitempty"` // unset picks a fresh seed per run
	Major   float64 `toml:"major"`
	Minor   float64 `toml:"minor"`
}

// Text controls the date line.
type Text struct {
	Style  datetext.Style `toml:"style"`
	Font   string         `toml:"font"` // TrueType file; empty means Go Regular
	Height float64        `toml:"height"`
	Depth  float64        `toml:"depth"`
}

// Mesh controls tessellation.
type Mesh struct {
	Cells int `toml:"cells"` // marching cubes cells along a solid's longest axis
}

// Animation controls the sampled animation.
type Animation struct {
	FPS    int                 `toml:"fps"`
	Float  animate.FloatParams `toml:"float"`
	FlyIn  animate.FlyIn       `toml:"flyin"`
	Orbit  float64             `toml:"orbit"` // radians per second
	Target mgl64.Vec3          `toml:"target"`
}

// Default returns the built-in settings. Dates default to the ISO style
// because the built-in font has no CJK glyphs.
func Default() Config {
	a := animate.DefaultSettings()
	return Config{
		Decor: Decor{
			Count:   layout.DefaultCount,
			Extent:  layout.DefaultExtent,
			Margin:  layout.DefaultMargin,
			Retries: layout.DefaultRetries,
			Major:   engine.DefaultTorusMajor,
			Minor:   engine.DefaultTorusMinor,
		},
		Text: Text{
			Style:  datetext.StyleISO,
			Height: engine.DefaultTextHeight,
			Depth:  engine.DefaultTextDepth,
		},
		Mesh: Mesh{Cells: sdfx.DefaultMeshCells},
		Animation: Animation{
			FPS:    60,
			Float:  a.Float,
			FlyIn:  a.FlyIn,
			Orbit:  a.OrbitSpeed,
			Target: a.Target,
		},
	}
}

// Load reads path over the defaults and validates the result. Keys the
// file sets that Config does not know are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for TOML already in memory.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	d := c.Decor
	check(d.Count >= 0, "decor.count is %d, must not be negative", d.Count)
	check(finitePositive(d.Extent), "decor.extent is %v, must be positive", d.Extent)
	check(d.Margin >= 0 && !math.IsInf(d.Margin, 0), "decor.margin is %v, must not be negative", d.Margin)
	check(d.Retries >= 0, "decor.retries is %d, must not be negative", d.Retries)
	check(finitePositive(d.Minor) && d.Major > d.Minor, "decor.major %v must exceed decor.minor %v > 0", d.Major, d.Minor)

	check(finitePositive(c.Text.Height), "text.height is %v, must be positive", c.Text.Height)
	check(finitePositive(c.Text.Depth), "text.depth is %v, must be positive", c.Text.Depth)

	check(c.Mesh.Cells >= 8, "mesh.cells is %d, must be at least 8", c.Mesh.Cells)

	a := c.Animation
	check(a.FPS > 0, "animation.fps is %d, must be positive", a.FPS)
	check(a.FlyIn.Duration >= 0, "animation.flyin.duration is %v, must not be negative", a.FlyIn.Duration)
	check(a.Float.Amplitude >= 0, "animation.float.amplitude is %v, must not be negative", a.Float.Amplitude)

	return errors.Join(errs...)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// PlaceOptions returns the layout options for the configured decor.
func (d Decor) PlaceOptions() layout.PlaceOptions {
	return layout.PlaceOptions{Count: d.Count, Extent: d.Extent, Retries: d.Retries}
}

// WithScript returns d with the values a script's (decor ...) form sets.
// A nil spec leaves d unchanged.
func (d Decor) WithScript(spec *graph.DecorSpec) Decor {
	if spec == nil {
		return d
	}
	if spec.Count != nil {
		d.Count = *spec.Count
	}
	if spec.Extent != nil {
		d.Extent = *spec.Extent
	}
	if spec.Margin != nil {
		d.Margin = *spec.Margin
	}
	if spec.Retries != nil {
		d.Retries = *spec.Retries
	}
	if spec.Major != nil {
		d.Major = *spec.Major
	}
	if spec.Minor != nil {
		d.Minor = *spec.Minor
	}
	return d
}

// SceneDefaults returns the engine fallbacks for the configured text.
func (t Text) SceneDefaults() engine.SceneDefaults {
	return engine.SceneDefaults{Style: t.Style, TextHeight: t.Height, TextDepth: t.Depth}
}

// KernelOptions returns the sdfx options for the configured text and mesh.
func (c Config) KernelOptions() []sdfx.Option {
	opts := []sdfx.Option{sdfx.WithMeshCells(c.Mesh.Cells)}
	if c.Text.Font != "" {
		opts = append(opts, sdfx.WithFont(c.Text.Font))
	}
	return opts
}

// Settings returns the animation director settings.
func (a Animation) Settings() animate.Settings {
	return animate.Settings{Float: a.Float, FlyIn: a.FlyIn, OrbitSpeed: a.Orbit, Target: a.Target}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
