// Package scene loads tiling scenes from TOML or JSON files.
//
// A scene names everything needed to reproduce a drawing: canvas size, grid
// dimensions, base shapes, composition mode and output formats. Scenes
// convert to [pipeline.Options], so a scene file and the equivalent CLI
// flags render the same output.
//
// A minimal TOML scene:
//
//	title = "Rotating squares"
//	rows = 4
//	cols = 6
//	mode = "random"
//
//	[shape]
//	preset = "square"
//	size = 50
//
//	[[candidates]]
//	kind = "rotate"
//	value = 45
package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/geom"
	"github.com/matzehuels/tessera/pkg/grid"
	"github.com/matzehuels/tessera/pkg/pipeline"
	"github.com/matzehuels/tessera/pkg/transform"
)

// Supported scene encodings.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Scene is the file representation of a rendering request.
type Scene struct {
	Title  string  `toml:"title" json:"title,omitempty"`
	Width  float64 `toml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty"`
	Rows   int     `toml:"rows" json:"rows,omitempty"`
	Cols   int     `toml:"cols" json:"cols,omitempty"`
	Mode   string  `toml:"mode" json:"mode,omitempty"`
	Seed   uint64  `toml:"seed" json:"seed,omitempty"`
	Target *int    `toml:"target" json:"target,omitempty"`

	Shape      Shape                 `toml:"shape" json:"shape"`
	Transforms []transform.Transform `toml:"transforms" json:"transforms,omitempty"`
	Candidates []transform.Transform `toml:"candidates" json:"candidates,omitempty"`
	Style      Style                 `toml:"style" json:"style"`
	Formats    []string              `toml:"formats" json:"formats,omitempty"`
}

// Shape selects the base group: either a preset or explicit polygons.
type Shape struct {
	Preset   string    `toml:"preset" json:"preset,omitempty"`
	Size     float64   `toml:"size" json:"size,omitempty"`
	Fill     string    `toml:"fill" json:"fill,omitempty"`
	Center   bool      `toml:"center" json:"center,omitempty"`
	Polygons []Polygon `toml:"polygons" json:"polygons,omitempty"`
}

// Polygon is an explicit base shape given as [x, y] pairs.
type Polygon struct {
	Fill   string      `toml:"fill" json:"fill"`
	Points [][]float64 `toml:"points" json:"points"`
}

// Style holds presentation settings that do not affect geometry.
type Style struct {
	Palette     bool    `toml:"palette" json:"palette,omitempty"`
	Shimmer     bool    `toml:"shimmer" json:"shimmer,omitempty"`
	Background  string  `toml:"background" json:"background,omitempty"`
	Stroke      string  `toml:"stroke" json:"stroke,omitempty"`
	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width,omitempty"`
}

// FormatFromPath infers the scene encoding from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidScene,
		"unsupported scene file %q (expected .toml or .json)", path)
}

// Load reads a scene file, choosing the decoder by extension.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open scene %s", path)
	}
	defer f.Close()

	s, err := Read(f, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "load %s", filepath.Base(path))
	}
	return s, nil
}

// Read decodes a scene. Unknown keys are rejected so that typos do not
// silently fall back to defaults.
func Read(r io.Reader, format string) (*Scene, error) {
	var s Scene
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown key %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidScene, "unsupported scene format %q", format)
	}
	return &s, nil
}

// Parse decodes a scene held in memory.
func Parse(data []byte, format string) (*Scene, error) {
	return Read(bytes.NewReader(data), format)
}

// Options converts the scene to pipeline options. Transform kinds are
// normalized and polygons are checked for well-formed points; the remaining
// validation happens in the pipeline.
func (s *Scene) Options() (pipeline.Options, error) {
	transforms, err := normalize(s.Transforms)
	if err != nil {
		return pipeline.Options{}, err
	}
	candidates, err := normalize(s.Candidates)
	if err != nil {
		return pipeline.Options{}, err
	}
	base, err := s.Shape.group()
	if err != nil {
		return pipeline.Options{}, err
	}

	mode := strings.ToLower(strings.TrimSpace(s.Mode))
	if mode != "" {
		if err := grid.ValidateMode(mode); err != nil {
			return pipeline.Options{}, err
		}
	}

	return pipeline.Options{
		Width:       s.Width,
		Height:      s.Height,
		Rows:        s.Rows,
		Cols:        s.Cols,
		Preset:      s.Shape.Preset,
		Size:        s.Shape.Size,
		Fill:        s.Shape.Fill,
		Center:      s.Shape.Center,
		Base:        base,
		Palette:     s.Style.Palette,
		Shimmer:     s.Style.Shimmer,
		Mode:        mode,
		Transforms:  transforms,
		Candidates:  candidates,
		Target:      s.Target,
		Seed:        s.Seed,
		Formats:     s.Formats,
		Title:       s.Title,
		Background:  s.Style.Background,
		Stroke:      s.Style.Stroke,
		StrokeWidth: s.Style.StrokeWidth,
	}, nil
}

func normalize(ts []transform.Transform) ([]transform.Transform, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	out := make([]transform.Transform, len(ts))
	for i, t := range ts {
		kind, err := transform.ParseKind(string(t.Kind))
		if err != nil {
			return nil, err
		}
		out[i] = transform.New(kind, t.Value)
	}
	return out, nil
}

func (sh Shape) group() (geom.Group, error) {
	if len(sh.Polygons) == 0 {
		return nil, nil
	}
	g := make(geom.Group, 0, len(sh.Polygons))
	for i, p := range sh.Polygons {
		pts := make([]geom.Point, len(p.Points))
		for j, xy := range p.Points {
			if len(xy) != 2 {
				return nil, errors.New(errors.ErrCodeInvalidShape,
					"polygon %d point %d: expected [x, y], got %d values", i, j, len(xy))
			}
			pts[j] = geom.Pt(xy[0], xy[1])
		}
		fill := p.Fill
		if fill == "" {
			fill = sh.Fill
		}
		g = append(g, geom.Shape{Points: pts, Fill: fill})
	}
	return g, nil
}

// WriteCells writes the JSON export of composed cells to w.
func WriteCells(w io.Writer, c grid.Canvas, cells []grid.Cell) error {
	data, err := pipeline.MarshalCells(c, cells)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode cells")
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
