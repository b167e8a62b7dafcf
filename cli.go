package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/donutdate/pkg/animate"
	"github.com/chazu/donutdate/pkg/config"
	"github.com/chazu/donutdate/pkg/datetext"
	"github.com/chazu/donutdate/pkg/kernel"
)

//go:embed examples/date.scene
var defaultScene string

// cli holds the state shared by all commands.
type cli struct {
	out    io.Writer
	logger *log.Logger
	now    func() time.Time

	verbose    bool
	configPath string
	seed       uint64
	seedSet    bool
	cfg        config.Config
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:    out,
		logger: newLogger(errOut, log.InfoLevel),
		now:    time.Now,
		cfg:    config.Default(),
	}
}

// rootCommand creates the root cobra command with all subcommands registered.
func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "donutdate",
		Short: "Float today's date among spinning donuts",
		Long: `donutdate evaluates a scene script, lays out decorative donuts around
its title, and writes the layout, the meshes, an STL file or sampled
animation frames. Without a script argument the built-in scene is used;
"-" reads the script from stdin.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.logger.SetLevel(log.DebugLevel)
			}
			c.seedSet = cmd.Flags().Changed("seed")
			if c.configPath != "" {
				cfg, err := config.Load(c.configPath)
				if err != nil {
					return err
				}
				c.cfg = cfg
				c.logger.Debug("loaded config", "path", c.configPath)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.logger))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML configuration file")
	root.PersistentFlags().Uint64Var(&c.seed, "seed", 0, "layout seed, 0 included (default: decor.seed, or random)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.meshCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.dateCommand())
	root.AddCommand(c.configCommand())
	return root
}

func (c *cli) newApp() *App {
	opts := []AppOption{WithConfig(c.cfg), WithClock(c.now)}
	if c.seedSet {
		opts = append(opts, WithSeed(c.seed))
	}
	return NewApp(opts...)
}

// readScript returns the script named by args, stdin for "-", or the
// built-in scene.
func readScript(args []string) (string, error) {
	if len(args) == 0 {
		return defaultScene, nil
	}
	if args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

// build evaluates and lays out the script, logging what the layout did.
func (c *cli) build(ctx context.Context, args []string) (*App, *Scene, error) {
	logger := loggerFromContext(ctx)
	src, err := readScript(args)
	if err != nil {
		return nil, nil, err
	}

	app := c.newApp()
	p := newProgress(logger)
	s, err := app.Build(src)
	if err != nil {
		return nil, nil, err
	}
	p.done("Laid out scene", "nodes", s.Graph.NodeCount(), "seed", s.Seed)

	for _, w := range s.Warnings {
		logger.Warn(w.Message)
	}
	logger.Debug("placed donuts", "count", s.Stats.Count, "rejected", s.Stats.Rejected,
		"exhausted", s.Stats.Exhausted, "zone", s.Zone.Box())
	if s.Stats.Exhausted > 0 {
		logger.Warn("some donuts could not leave the title zone", "count", s.Stats.Exhausted,
			"retries", s.Decor.Retries)
	}
	return app, s, nil
}

// writeJSON writes v to path, or to stdout when path is empty.
func (c *cli) writeJSON(path string, v any) (err error) {
	w := c.out
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) layoutCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "layout [script]",
		Short: "Print the title bounds, exclusion zone and donut placements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := c.build(cmd.Context(), args)
			if err != nil {
				return err
			}
			return c.writeJSON(output, s.Layout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *cli) meshCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "mesh [script]",
		Short: "Print the tessellated scene as JSON meshes with colours",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, s, err := c.build(ctx, args)
			if err != nil {
				return err
			}
			p := newProgress(loggerFromContext(ctx))
			meshes, err := app.Tessellate(s)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Tessellated %d meshes", len(meshes)))

			result := SceneResult{
				Meshes:   meshData(meshes),
				Layout:   s.Layout(),
				Errors:   []EvalErrorData{},
				Warnings: []EvalErrorData{},
			}
			for _, w := range s.Warnings {
				result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
			}
			return c.writeJSON(output, result)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *cli) exportCommand() *cobra.Command {
	var (
		output string
		weld   bool
	)
	cmd := &cobra.Command{
		Use:   "export [script]",
		Short: "Write the scene as a binary STL file",
		Long: `Write the scene as a binary STL file with one shell per part. --weld
unions every part into a single solid first, so touching parts print as one
piece; the whole scene is then meshed at mesh.cells along its longest axis.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, s, err := c.build(ctx, args)
			if err != nil {
				return err
			}
			p := newProgress(loggerFromContext(ctx))
			var meshes []*kernel.Mesh
			if weld {
				m, err := app.Weld(s)
				if err != nil {
					return err
				}
				meshes = []*kernel.Mesh{m}
			} else if meshes, err = app.Tessellate(s); err != nil {
				return err
			}
			if err := app.Kernel().SaveSTL(output, meshes); err != nil {
				return err
			}
			p.done("Exported "+output, "meshes", len(meshes))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "donutdate.stl", "output STL file")
	cmd.Flags().BoolVar(&weld, "weld", false, "union all parts into one solid before meshing")
	return cmd
}

func (c *cli) animateCommand() *cobra.Command {
	var (
		frames   int
		realtime bool
	)
	cmd := &cobra.Command{
		Use:   "animate [script]",
		Short: "Print animation frames as JSON lines",
		Long: `Print one JSON object per frame with the camera, the title transform and
every donut transform. Frames are sampled at animation.fps without waiting
unless --realtime is given; --realtime with --frames 0 runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, s, err := c.build(ctx, args)
			if err != nil {
				return err
			}
			d, err := app.Director(s)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.out)
			emit := func(f animate.Frame) error {
				if err := enc.Encode(d.Step(f)); err != nil {
					return err
				}
				if frames > 0 && f.Index+1 >= frames {
					return animate.ErrStop
				}
				return nil
			}

			fps := c.cfg.Animation.FPS
			if realtime {
				return animate.Loop{FPS: fps}.Run(ctx, emit)
			}
			if frames <= 0 {
				return errors.New("animate: --frames must be positive without --realtime")
			}
			return animate.Sample(frames, 1/float64(fps), emit)
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 120, "number of frames (0 with --realtime: until interrupted)")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "pace frames with the wall clock")
	return cmd
}

func (c *cli) dateCommand() *cobra.Command {
	var (
		style   string
		weekday bool
	)
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Print today's date as the scene would show it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.cfg.Text.Style
			if cmd.Flags().Changed("style") {
				var err error
				if s, err = datetext.ParseStyle(style); err != nil {
					return err
				}
			}
			now := c.now()
			line := datetext.Format(now, s)
			if weekday {
				line += " " + datetext.Weekday(now)
			}
			_, err := fmt.Fprintln(c.out, line)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "gregorian, era or iso (default: text.style)")
	cmd.Flags().BoolVar(&weekday, "weekday", false, "append the day of the week")
	return cmd
}

func (c *cli) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.cfg.Encode(c.out)
		},
	}
}
