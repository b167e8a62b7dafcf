package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/donutdate/pkg/config"
	"github.com/chazu/donutdate/pkg/geom"
)

// smallScene keeps CLI runs quick: one title line and three donuts.
const smallScene = `
(group "title" (text "2026" :name "year"))
(decor :around "title" :count 3)
`

// coarseConfig keeps marching cubes cheap; extra is appended verbatim.
func coarseConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "donutdate.toml")
	body := "[mesh]\ncells = 24\n" + extra
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.scene")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := newCLI(&out, &errOut)
	c.now = func() time.Time { return testDay }
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type layoutJSON struct {
	Seed       uint64            `json:"seed"`
	Bounds     geom.Box          `json:"bounds"`
	Placements []json.RawMessage `json:"placements"`
}

func decodeLayout(t *testing.T, out string) layoutJSON {
	t.Helper()
	var l layoutJSON
	if err := json.Unmarshal([]byte(out), &l); err != nil {
		t.Fatalf("layout output is not JSON: %v\n%s", err, out)
	}
	return l
}

func TestCLISeedPrecedence(t *testing.T) {
	cfg := coarseConfig(t, "[decor]\nseed = 99\n")
	script := writeScript(t, smallScene)

	tests := []struct {
		name string
		args []string
		want uint64
	}{
		{"config seed", []string{"layout", "--config", cfg, script}, 99},
		{"flag wins", []string{"layout", "--config", cfg, "--seed", "5", script}, 5},
		{"explicit zero", []string{"layout", "--config", cfg, "--seed", "0", script}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("layout: %v", err)
			}
			if got := decodeLayout(t, out).Seed; got != tt.want {
				t.Errorf("seed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCLILayout(t *testing.T) {
	out, err := runCLI(t, "layout", "--config", coarseConfig(t, ""), "--seed", "7", writeScript(t, smallScene))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	l := decodeLayout(t, out)
	if l.Bounds.IsEmpty() {
		t.Error("expected the title bounds")
	}
	if len(l.Placements) != 3 {
		t.Errorf("expected 3 placements, got %d", len(l.Placements))
	}
}

func TestCLILayoutEmptyBounds(t *testing.T) {
	out, err := runCLI(t, "layout", "--config", coarseConfig(t, ""), writeScript(t, ";; nothing here\n"))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		t.Fatalf("layout output is not JSON: %v", err)
	}
	var bounds map[string]any
	if err := json.Unmarshal(raw["bounds"], &bounds); err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if bounds["empty"] != true {
		t.Errorf("bounds = %s, want {\"empty\":true}", raw["bounds"])
	}
	if l := decodeLayout(t, out); !l.Bounds.IsEmpty() || len(l.Placements) != 0 {
		t.Errorf("decoded layout = %+v", l)
	}
}

func TestCLILayoutToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	out, err := runCLI(t, "layout", "--config", coarseConfig(t, ""), "-o", path, writeScript(t, smallScene))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty with -o, got %q", out)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(decodeLayout(t, string(b)).Placements) != 3 {
		t.Error("file layout should hold 3 placements")
	}
}

func TestCLIScriptErrors(t *testing.T) {
	cfg := coarseConfig(t, "")
	if _, err := runCLI(t, "layout", "--config", cfg, writeScript(t, `(text "x"`)); err == nil {
		t.Error("expected an error for a broken script")
	}
	if _, err := runCLI(t, "layout", "--config", cfg, filepath.Join(t.TempDir(), "missing.scene")); err == nil ||
		!strings.Contains(err.Error(), "read script") {
		t.Errorf("missing script: err = %v", err)
	}
}

func TestCLIMesh(t *testing.T) {
	out, err := runCLI(t, "mesh", "--config", coarseConfig(t, ""), writeScript(t, smallScene))
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	var result SceneResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("mesh output is not JSON: %v", err)
	}
	if len(result.Meshes) != 4 {
		t.Errorf("expected year + 3 donuts, got %d meshes", len(result.Meshes))
	}
	if result.Layout == nil || len(result.Layout.Placements) != 3 {
		t.Error("mesh output should carry the layout")
	}
}

func TestCLIExport(t *testing.T) {
	cfg := coarseConfig(t, "")
	// A slab well above the cell size keeps the welded mesh non-empty.
	script := writeScript(t, `
(group "title" (box :name "slab" :size (vec3 4 2 2)))
(decor :around "title" :count 2 :extent 6)
`)
	for _, weld := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "scene.stl")
		args := []string{"export", "--config", cfg, "-o", path, script}
		if weld {
			args = append(args, "--weld")
		}
		if _, err := runCLI(t, args...); err != nil {
			t.Fatalf("export (weld=%v): %v", weld, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		// Binary STL: 80-byte header, count, then 50 bytes per triangle.
		if info.Size() <= 84 || (info.Size()-84)%50 != 0 {
			t.Errorf("weld=%v: STL size %d is not a non-empty binary STL", weld, info.Size())
		}
	}
}

func TestCLIAnimateFrames(t *testing.T) {
	out, err := runCLI(t, "animate", "--config", coarseConfig(t, ""), "--frames", "5", writeScript(t, smallScene))
	if err != nil {
		t.Fatalf("animate: %v", err)
	}
	var lines int
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if !json.Valid(sc.Bytes()) {
			t.Errorf("line %d is not JSON: %s", lines, sc.Text())
		}
		lines++
	}
	if lines != 5 {
		t.Errorf("expected 5 frames, got %d", lines)
	}

	if _, err := runCLI(t, "animate", "--config", coarseConfig(t, ""), "--frames", "0", writeScript(t, smallScene)); err == nil {
		t.Error("--frames 0 without --realtime should fail")
	}
}

func TestCLIDate(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"date"}, "2026-10-19\n"},
		{[]string{"date", "--style", "era"}, "令和8年10月19日\n"},
		{[]string{"date", "--style", "gregorian", "--weekday"}, "2026年10月19日 月曜日\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("date: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}

	if _, err := runCLI(t, "date", "--style", "lunar"); err == nil {
		t.Error("expected an error for an unknown style")
	}
}

func TestCLIDateUsesConfigStyle(t *testing.T) {
	out, err := runCLI(t, "date", "--config", coarseConfig(t, "[text]\nstyle = \"era\"\n"))
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	if out != "令和8年10月19日\n" {
		t.Errorf("output = %q, want the era style from the config", out)
	}
}

func TestCLIConfigRoundTrip(t *testing.T) {
	path := coarseConfig(t, "[decor]\ncount = 12\nseed = 3\n\n[text]\nstyle = \"era\"\n")
	out, err := runCLI(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	printed, err := config.Parse(out)
	if err != nil {
		t.Fatalf("printed config does not parse: %v\n%s", err, out)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if printed.Decor.Count != 12 || printed.Decor.Seed == nil || *printed.Decor.Seed != 3 {
		t.Errorf("decor = %+v", printed.Decor)
	}
	if printed.Text != loaded.Text || printed.Mesh != loaded.Mesh || printed.Animation != loaded.Animation {
		t.Error("printed config differs from the loaded one")
	}
}

func TestCLIBadConfig(t *testing.T) {
	path := coarseConfig(t, "[decor]\nbogus = 1\n")
	if _, err := runCLI(t, "config", "--config", path); err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("err = %v, want the unknown key named", err)
	}
}
