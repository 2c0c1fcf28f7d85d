package pipeline

import (
	"encoding/json"
	"fmt"
	stdhtml "html"
	"math/rand/v2"

	"github.com/matzehuels/tessera/pkg/grid"
	"github.com/matzehuels/tessera/pkg/palette"
	"github.com/matzehuels/tessera/pkg/render/html"
	"github.com/matzehuels/tessera/pkg/render/svg"
	"github.com/matzehuels/tessera/pkg/shapes"
)

// Compose builds the base group and tiles it across the canvas.
// All randomness is drawn from rng, so equal options and seed give equal cells.
func Compose(opts Options, rng *rand.Rand) (grid.Canvas, []grid.Cell, error) {
	base, err := opts.BaseGroup()
	if err != nil {
		return grid.Canvas{}, nil, err
	}

	var colors []string
	if opts.Palette {
		colors = palette.Random(rng, len(base))
		base = shapes.Recolor(base, colors)
	}

	c := opts.canvas(base)
	if err := c.Validate(); err != nil {
		return grid.Canvas{}, nil, err
	}
	cells := opts.BuildMode(rng).Compose(c)

	if opts.Palette && opts.Shimmer {
		for i := range cells {
			cells[i].Shapes = shapes.Recolor(cells[i].Shapes, palette.Shimmered(colors, rng))
		}
	}
	return c, cells, nil
}

// Render generates output artifacts in the requested formats.
func Render(c grid.Canvas, cells []grid.Cell, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var doc []byte
	svgDoc := func() []byte {
		if doc == nil {
			doc = svg.Render(c, cells, buildSVGOptions(opts)...)
		}
		return doc
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = svgDoc()
		case FormatHTML:
			artifacts[format] = []byte(html.Wrap(string(svgDoc()), stdhtml.EscapeString(opts.Title)))
		case FormatJSON:
			data, err := MarshalCells(c, cells)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []svg.Option {
	var svgOpts []svg.Option
	if opts.Background != "" {
		svgOpts = append(svgOpts, svg.WithBackground(opts.Background))
	}
	if opts.Stroke != "" {
		svgOpts = append(svgOpts, svg.WithStroke(opts.Stroke, opts.StrokeWidth))
	}
	return svgOpts
}

// CellsDocument is the JSON export of a composed grid.
type CellsDocument struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Cells  []grid.Cell `json:"cells"`
}

// MarshalCells encodes the composed cells with their canvas dimensions.
func MarshalCells(c grid.Canvas, cells []grid.Cell) ([]byte, error) {
	if cells == nil {
		cells = []grid.Cell{}
	}
	return json.MarshalIndent(CellsDocument{
		Width:  c.Width,
		Height: c.Height,
		Rows:   c.Rows,
		Cols:   c.Cols,
		Cells:  cells,
	}, "", "  ")
}

// UnmarshalCells decodes a document written by MarshalCells.
func UnmarshalCells(data []byte) (CellsDocument, error) {
	var doc CellsDocument
	err := json.Unmarshal(data, &doc)
	return doc, err
}
