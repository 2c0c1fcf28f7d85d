package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/grid"
	"github.com/matzehuels/tessera/pkg/pipeline"
	"github.com/matzehuels/tessera/pkg/scene"
	"github.com/matzehuels/tessera/pkg/shapes"
	"github.com/matzehuels/tessera/pkg/transform"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

// renderFlags holds the flags that do not map one-to-one onto pipeline.Options.
type renderFlags struct {
	output     string   // output file (single format) or base path (multiple)
	formats    string   // comma-separated output formats
	transforms []string // kind=value, applied in order (uniform mode)
	candidates []string // kind=value, drawn per cell (random mode)
	target     int      // random-mode shape index; negative selects every shape
	noCache    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [scene.toml|scene.json]",
		Short: "Compose a grid and write SVG, HTML or JSON",
		Long: `Compose a grid and write SVG, HTML or JSON.

Without a scene file the grid is described entirely by flags. With a scene
file, flags given explicitly on the command line override the scene.

Transforms are written as kind=value, for example rotate=45 or scale=0.8.
--transform applies the list to every shape (uniform mode); --candidate
draws up to two transforms per cell at random (random mode).

Seeded renders are cached locally; --randomize uses a fresh seed and is
never cached.`,
		Example: `  tessera render --preset star --rows 5 --cols 5 -t rotate=36 -t scale=1.1
  tessera render --preset vera -c rotate=45 -c scale=0.8 --target 3 -f svg,html
  tessera render examples/scenes/dancing_stars.toml -o stars.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *scene.Scene
			var input string
			if len(args) == 1 {
				input = args[0]
				loaded, err := scene.Load(input)
				if err != nil {
					return err
				}
				s = loaded
			}
			resolved, err := resolveRenderOptions(cmd, s, opts, flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), input, resolved, flags)
		},
	}

	bindRenderFlags(cmd, &opts, &flags)
	return cmd
}

// bindRenderFlags registers the render flags, writing parsed values into
// opts and flags.
func bindRenderFlags(cmd *cobra.Command, opts *pipeline.Options, flags *renderFlags) {
	*opts = pipeline.Options{
		Width:  pipeline.DefaultWidth,
		Height: pipeline.DefaultHeight,
		Rows:   pipeline.DefaultRows,
		Cols:   pipeline.DefaultCols,
		Preset: pipeline.DefaultPreset,
		Size:   shapes.DefaultSize,
		Fill:   shapes.DefaultFill,
		Seed:   pipeline.DefaultSeed,
		Title:  pipeline.DefaultTitle,
	}

	// Canvas flags
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width (0 uses the default)")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height (0 uses the default)")
	cmd.Flags().IntVar(&opts.Rows, "rows", opts.Rows, "grid rows (0 uses the default)")
	cmd.Flags().IntVar(&opts.Cols, "cols", opts.Cols, "grid columns (0 uses the default)")

	// Shape flags
	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", opts.Preset, "base shape: "+strings.Join(shapes.Names(), ", "))
	cmd.Flags().Float64Var(&opts.Size, "size", opts.Size, "preset size")
	cmd.Flags().StringVar(&opts.Fill, "fill", opts.Fill, "preset fill color")
	cmd.Flags().BoolVar(&opts.Center, "center", false, "center the base group on the cell pivot")
	cmd.Flags().BoolVar(&opts.Palette, "palette", false, "recolor the base group with a seeded palette")
	cmd.Flags().BoolVar(&opts.Shimmer, "shimmer", false, "jitter palette brightness per cell (with --palette)")

	// Composition flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "composition mode: plain, uniform, random (inferred from transforms)")
	cmd.Flags().StringArrayVarP(&flags.transforms, "transform", "t", nil, "transform applied to every shape, kind=value (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.candidates, "candidate", "c", nil, "candidate transform for random mode, kind=value (repeatable)")
	cmd.Flags().IntVar(&flags.target, "target", grid.NoTarget, "random mode: transform only this shape index")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed (0 uses the default 42)")
	cmd.Flags().BoolVar(&opts.Randomize, "randomize", false, "use a time-based seed (disables caching)")

	// Output flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), html, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Title, "title", opts.Title, "HTML page title")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background fill")
	cmd.Flags().StringVar(&opts.Stroke, "stroke", "", "polygon stroke color")
	cmd.Flags().Float64Var(&opts.StrokeWidth, "stroke-width", 0, "polygon stroke width")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even if cached")

}

// resolveRenderOptions merges the scene (if any) with the command-line flags.
// Without a scene every flag applies; with one only flags that were set.
func resolveRenderOptions(cmd *cobra.Command, s *scene.Scene, flagOpts pipeline.Options, flags renderFlags) (pipeline.Options, error) {
	set := func(name string) bool { return s == nil || cmd.Flags().Changed(name) }

	opts := flagOpts
	if s != nil {
		var err error
		if opts, err = s.Options(); err != nil {
			return pipeline.Options{}, err
		}
	}

	copyIf := func(name string, apply func()) {
		if set(name) {
			apply()
		}
	}
	copyIf("width", func() { opts.Width = flagOpts.Width })
	copyIf("height", func() { opts.Height = flagOpts.Height })
	copyIf("rows", func() { opts.Rows = flagOpts.Rows })
	copyIf("cols", func() { opts.Cols = flagOpts.Cols })
	copyIf("preset", func() { opts.Preset = flagOpts.Preset; opts.Base = nil })
	copyIf("size", func() { opts.Size = flagOpts.Size })
	copyIf("fill", func() { opts.Fill = flagOpts.Fill })
	copyIf("center", func() { opts.Center = flagOpts.Center })
	copyIf("palette", func() { opts.Palette = flagOpts.Palette })
	copyIf("shimmer", func() { opts.Shimmer = flagOpts.Shimmer })
	copyIf("mode", func() { opts.Mode = strings.ToLower(flagOpts.Mode) })
	copyIf("seed", func() { opts.Seed = flagOpts.Seed })
	copyIf("randomize", func() { opts.Randomize = flagOpts.Randomize })
	copyIf("title", func() { opts.Title = flagOpts.Title })
	copyIf("background", func() { opts.Background = flagOpts.Background })
	copyIf("stroke", func() { opts.Stroke = flagOpts.Stroke })
	copyIf("stroke-width", func() { opts.StrokeWidth = flagOpts.StrokeWidth })
	opts.Refresh = flagOpts.Refresh

	if cmd.Flags().Changed("transform") {
		ts, err := parseTransforms(flags.transforms)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Transforms = ts
	}
	if cmd.Flags().Changed("candidate") {
		ts, err := parseTransforms(flags.candidates)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Candidates = ts
	}
	if cmd.Flags().Changed("target") {
		if flags.target < 0 {
			opts.Target = nil
		} else {
			target := flags.target
			opts.Target = &target
		}
	}
	if s == nil || cmd.Flags().Changed("format") {
		opts.Formats = parseFormats(flags.formats)
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// parseTransforms parses kind=value flag values in order.
func parseTransforms(values []string) ([]transform.Transform, error) {
	out := make([]transform.Transform, 0, len(values))
	for _, v := range values {
		t, err := transform.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if flags.output == stdoutPath && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	sp := newSpinner(ctx, os.Stderr, fmt.Sprintf("Composing %dx%d grid...", opts.Rows, opts.Cols))
	sp.start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if sp.cancelled() {
			sp.stop()
			return ctx.Err()
		}
		sp.stopWithError("Render failed")
		return err
	}
	sp.stop()
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(opts.Formats, ", ")))

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    flags.output,
		cells:     result.Stats.CellCount,
		shapes:    result.Stats.ShapeCount,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

// artifactWriteParams bundles everything writeArtifacts needs.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cells     int
	shapes    int
	cacheHit  bool
}

// writeArtifacts writes each format to its output path and reports the files.
func writeArtifacts(p artifactWriteParams) error {
	if p.output == stdoutPath {
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	var paths []string
	for _, format := range p.formats {
		path := outputPath(p.output, p.input, format, len(p.formats) > 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, p.artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	if len(paths) == 1 {
		printSuccess("Rendered %s", p.formats[0])
	} else {
		printSuccess("Rendered %d formats", len(paths))
	}
	printStats(p.cells, p.shapes, p.cacheHit)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// outputPath derives the file for one format. A single format with an
// explicit output path is written there verbatim; otherwise the base path
// (output or input without extension, or the app name) gets the format as
// extension.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input paths.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return appName
		}
		return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
