// Package pipeline provides the core rendering pipeline for tessera.
//
// This package implements the complete compose → render pipeline used by
// the CLI and the HTTP server, so that defaults, validation and caching
// behave the same for every entry point.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Compose: build the base group, tile it across the grid and apply the
//     mode's transforms
//  2. Render: serialize the composed cells as SVG, an HTML page or JSON
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Preset:     "square",
//	    Mode:       grid.ModeRandom,
//	    Candidates: []transform.Transform{transform.New(transform.Rotate, 45)},
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/geom"
	"github.com/matzehuels/tessera/pkg/grid"
	"github.com/matzehuels/tessera/pkg/shapes"
	"github.com/matzehuels/tessera/pkg/transform"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height.
	DefaultHeight = 600.0

	// DefaultRows is the default number of grid rows.
	DefaultRows = 2

	// DefaultCols is the default number of grid columns.
	DefaultCols = 3

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultPreset is the base shape used when no preset or base is given.
	DefaultPreset = "square"

	// DefaultMode is the composition mode used when neither transforms nor
	// candidates are given.
	DefaultMode = grid.ModePlain

	// DefaultTitle is the HTML page title.
	DefaultTitle = "tessera"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatJSON: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatHTML: "text/html; charset=utf-8",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// It supports JSON serialization for API requests.
type Options struct {
	// Canvas options. Zero selects the default, so an explicit 0 is
	// indistinguishable from an omitted field.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Rows   int     `json:"rows,omitempty"`
	Cols   int     `json:"cols,omitempty"`

	// Base group options. Base takes precedence over Preset.
	Preset string     `json:"preset,omitempty"`
	Size   float64    `json:"size,omitempty"`
	Fill   string     `json:"fill,omitempty"`
	Center bool       `json:"center,omitempty"`
	Base   geom.Group `json:"base,omitempty"`

	// Palette recolors the base group with seeded HSV colors; Shimmer
	// additionally jitters the accent brightness per cell.
	Palette bool `json:"palette,omitempty"`
	Shimmer bool `json:"shimmer,omitempty"`

	// Composition options
	Mode       string                `json:"mode,omitempty"`
	Transforms []transform.Transform `json:"transforms,omitempty"`
	Candidates []transform.Transform `json:"candidates,omitempty"`
	Target     *int                  `json:"target,omitempty"`    // nil selects every shape
	Seed       uint64                `json:"seed,omitempty"`      // 0 selects DefaultSeed
	Randomize  bool                  `json:"randomize,omitempty"` // time-based seed, never cached

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Title       string   `json:"title,omitempty"`
	Background  string   `json:"background,omitempty"`
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth float64  `json:"stroke_width,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Canvas is the validated canvas including the base group.
	Canvas grid.Canvas

	// Cells holds the composed grid. It is nil when every artifact came
	// from the cache.
	Cells []grid.Cell

	// Hash is the content hash of the canonical options. It is empty for
	// randomized runs.
	Hash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CellCount   int
	ShapeCount  int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, html, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFill rejects labels that would break out of an SVG attribute.
// The serializer writes fills verbatim, so untrusted input is checked here.
func ValidateFill(fill string) error {
	if strings.ContainsAny(fill, "\"<>&") {
		return errors.New(errors.ErrCodeInvalidShape, "invalid fill: %q", fill)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := o.canvas(nil).Validate(); err != nil {
		return err
	}
	if err := grid.ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := transform.Validate(o.Transforms); err != nil {
		return err
	}
	if err := transform.Validate(o.Candidates); err != nil {
		return err
	}
	for _, c := range []string{o.Fill, o.Background, o.Stroke} {
		if err := ValidateFill(c); err != nil {
			return err
		}
	}
	if !finite(o.Size) || o.Size < 0 {
		return errors.New(errors.ErrCodeInvalidShape, "invalid size: %g", o.Size)
	}
	if !finite(o.StrokeWidth) || o.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid stroke width: %g", o.StrokeWidth)
	}
	if len(o.Base) == 0 {
		if _, err := shapes.Lookup(o.Preset, o.Size, o.Fill); err != nil {
			return err
		}
	}
	for i, s := range o.Base {
		if err := ValidateFill(s.Fill); err != nil {
			return err
		}
		for _, p := range s.Points {
			if !finite(p.X) || !finite(p.Y) {
				return errors.New(errors.ErrCodeInvalidShape,
					"shape %d: point coordinates must be finite, got (%g, %g)", i, p.X, p.Y)
			}
		}
	}

	o.validated = true
	return nil
}

// SetDefaults fills in zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Cols == 0 {
		o.Cols = DefaultCols
	}
	if o.Preset == "" {
		o.Preset = DefaultPreset
	}
	if o.Mode == "" {
		o.Mode = o.inferMode()
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Stroke != "" && o.StrokeWidth == 0 {
		o.StrokeWidth = 1
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// TargetIndex returns the random-mode target, or grid.NoTarget when unset.
func (o *Options) TargetIndex() int {
	if o.Target == nil {
		return grid.NoTarget
	}
	return *o.Target
}

// Cacheable reports whether the output is fully determined by the options.
func (o *Options) Cacheable() bool {
	return !o.Randomize
}

// Hash returns the SHA-256 of the canonical options. Formats and runtime
// flags are excluded because artifact keys carry the format separately.
func (o *Options) Hash() (string, error) {
	canon := *o
	canon.Formats = nil
	canon.Refresh = false
	canon.Logger = nil
	data, err := json.Marshal(canon)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode options")
	}
	return cache.Hash(data), nil
}

// NewRand returns the seeded random source for a run.
func (o *Options) NewRand() *rand.Rand {
	seed := o.Seed
	if o.Randomize {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// BaseGroup builds the template group from Base or the named preset.
func (o *Options) BaseGroup() (geom.Group, error) {
	base := o.Base.Clone()
	if len(base) == 0 {
		var err error
		if base, err = shapes.Lookup(o.Preset, o.Size, o.Fill); err != nil {
			return nil, err
		}
	}
	if o.Center {
		base = shapes.Center(base)
	}
	return base, nil
}

// BuildMode returns the composition mode named by o.Mode.
func (o *Options) BuildMode(rng transform.Rand) grid.Mode {
	switch o.Mode {
	case grid.ModeUniform:
		return grid.Uniform{Transforms: o.Transforms}
	case grid.ModeRandom:
		return grid.Random{Candidates: o.Candidates, Target: o.TargetIndex(), Rand: rng}
	default:
		return grid.Plain{}
	}
}

// inferMode picks random when candidates are given, uniform when transforms
// are, and DefaultMode otherwise.
func (o *Options) inferMode() string {
	switch {
	case len(o.Candidates) > 0:
		return grid.ModeRandom
	case len(o.Transforms) > 0:
		return grid.ModeUniform
	}
	return DefaultMode
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (o *Options) canvas(base geom.Group) grid.Canvas {
	return grid.Canvas{Width: o.Width, Height: o.Height, Base: base, Rows: o.Rows, Cols: o.Cols}
}
