// Package svg serializes shapes and composed grids as SVG markup.
//
// Shapes render as <polygon> elements: the vertex list is space-separated
// "x,y" pairs in vertex order and the fill label is copied verbatim. A shape
// without vertices renders as a polygon with an empty points attribute.
//
// Coordinates are formatted with the shortest representation that round-trips
// to the same float64, so adjacent cells never show seams from rounding.
package svg

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/tessera/pkg/geom"
	"github.com/matzehuels/tessera/pkg/grid"
)

// Namespace is the SVG XML namespace written on the root element.
const Namespace = "http://www.w3.org/2000/svg"

// Option configures canvas rendering.
type Option func(*renderer)

type renderer struct {
	background  string
	stroke      string
	strokeWidth float64
}

// WithBackground paints a full-canvas rectangle behind the cells.
func WithBackground(fill string) Option { return func(r *renderer) { r.background = fill } }

// WithStroke outlines every polygon.
func WithStroke(color string, width float64) Option {
	return func(r *renderer) { r.stroke, r.strokeWidth = color, width }
}

// FormatFloat renders v with the shortest exact decimal representation.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PointText renders p as "x,y".
func PointText(p geom.Point) string {
	return FormatFloat(p.X) + "," + FormatFloat(p.Y)
}

// ShapeMarkup renders s as a closed polygon element.
func ShapeMarkup(s geom.Shape) string {
	var buf bytes.Buffer
	writeShape(&buf, s, &renderer{})
	return buf.String()
}

// GroupMarkup renders every shape of g in order.
func GroupMarkup(g geom.Group) string {
	var buf bytes.Buffer
	r := &renderer{}
	for _, s := range g {
		writeShape(&buf, s, r)
	}
	return buf.String()
}

// Render wraps cells in an <svg> root sized to the canvas. Shapes are emitted
// in cell order, then in group order within each cell.
func Render(c grid.Canvas, cells []grid.Cell, opts ...Option) []byte {
	r := &renderer{}
	for _, opt := range opts {
		opt(r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg width="%s" height="%s" xmlns="%s">`+"\n",
		FormatFloat(c.Width), FormatFloat(c.Height), Namespace)

	if r.background != "" {
		fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="%s" />`+"\n", r.background)
	}
	for _, cell := range cells {
		for _, s := range cell.Shapes {
			writeShape(&buf, s, r)
		}
	}

	buf.WriteString("</svg>")
	return buf.Bytes()
}

// RenderCanvas composes c with mode and renders the result.
func RenderCanvas(c grid.Canvas, mode grid.Mode, opts ...Option) []byte {
	if mode == nil {
		mode = grid.Plain{}
	}
	return Render(c, mode.Compose(c), opts...)
}

func writeShape(buf *bytes.Buffer, s geom.Shape, r *renderer) {
	buf.WriteString(`<polygon points="`)
	for i, p := range s.Points {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(PointText(p))
	}
	fmt.Fprintf(buf, `" fill="%s"`, s.Fill)
	if r.stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, r.stroke, FormatFloat(r.strokeWidth))
	}
	buf.WriteString(" />\n")
}
