// Package shapes provides preset base shapes for tiling.
//
// Presets are built in their own coordinate frame with the top-left of the
// bounding box at the origin, so a tiled copy hangs down and to the right of
// its cell pivot. Use [Center] to move a group's bounding-box center onto the
// origin instead.
package shapes

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/geom"
)

// DefaultSize is the preset size used when none is given.
const DefaultSize = 50.0

// DefaultFill is the fill used when none is given.
const DefaultFill = "blue"

// Builder creates a preset group of the given size and fill.
type Builder func(size float64, fill string) geom.Group

// Preset describes a named base shape.
type Preset struct {
	Name        string
	Description string
	Build       Builder
}

var registry = map[string]Preset{
	"square":   {"square", "axis-aligned square", single(Square)},
	"triangle": {"triangle", "isosceles triangle pointing up", single(Triangle)},
	"pentagon": {"pentagon", "regular pentagon", single(func(s float64, f string) geom.Shape { return Polygon(5, s, f) })},
	"hexagon":  {"hexagon", "regular hexagon", single(func(s float64, f string) geom.Shape { return Polygon(6, s, f) })},
	"star":     {"star", "five-pointed star", single(Star)},
	"vera":     {"vera", "Vera Molnar concentric squares", VeraSquares},
}

func single(fn func(float64, string) geom.Shape) Builder {
	return func(size float64, fill string) geom.Group { return geom.Group{fn(size, fill)} }
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Presets returns every registered preset sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}
	return out
}

// Lookup builds the named preset. A non-positive size falls back to
// DefaultSize and an empty fill to DefaultFill.
func Lookup(name string, size float64, fill string) (geom.Group, error) {
	p, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidShape,
			"unknown shape preset %q (available: %v)", name, Names())
	}
	if size <= 0 {
		size = DefaultSize
	}
	if fill == "" {
		fill = DefaultFill
	}
	return p.Build(size, fill), nil
}

// Square returns a size x size square.
func Square(size float64, fill string) geom.Shape {
	return squareAt(0, size, fill)
}

func squareAt(offset, size float64, fill string) geom.Shape {
	return geom.Shape{
		Points: []geom.Point{
			{X: offset, Y: offset},
			{X: offset + size, Y: offset},
			{X: offset + size, Y: offset + size},
			{X: offset, Y: offset + size},
		},
		Fill: fill,
	}
}

// Triangle returns an isosceles triangle with its apex at the top center.
func Triangle(size float64, fill string) geom.Shape {
	return geom.Shape{
		Points: []geom.Point{{X: size / 2, Y: 0}, {X: size, Y: size}, {X: 0, Y: size}},
		Fill:   fill,
	}
}

// Polygon returns a regular polygon with n vertices inscribed in a circle of
// diameter size, first vertex at the top. n < 3 yields an empty shape.
func Polygon(n int, size float64, fill string) geom.Shape {
	if n < 3 {
		return geom.Shape{Fill: fill}
	}
	r := size / 2
	step := 2 * math.Pi / float64(n)
	pts := make([]geom.Point, n)
	for i := range pts {
		a := float64(i)*step - math.Pi/2
		pts[i] = geom.Point{X: r + r*math.Cos(a), Y: r + r*math.Sin(a)}
	}
	return geom.Shape{Points: pts, Fill: fill}
}

// Star returns a five-pointed star; the inner radius is half the outer one.
func Star(size float64, fill string) geom.Shape {
	const points = 5
	outer, inner := size/2, size/4
	pts := make([]geom.Point, 0, 2*points)
	for i := range 2 * points {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := float64(i)*math.Pi/points - math.Pi/2
		pts = append(pts, geom.Point{X: outer + r*math.Cos(a), Y: outer + r*math.Sin(a)})
	}
	return geom.Shape{Points: pts, Fill: fill}
}

// VeraSquares returns four concentric squares in the style of Vera Molnar:
// outer and inner squares use fill, the two middle squares are red.
// Side lengths are 60, 40, 30 and 20 units at size 60.
func VeraSquares(size float64, fill string) geom.Group {
	k := size / 60
	return geom.Group{
		squareAt(0, 60*k, fill),
		squareAt(10*k, 40*k, "red"),
		squareAt(15*k, 30*k, "red"),
		squareAt(20*k, 20*k, fill),
	}
}

// Center returns a copy of g translated so that its bounding-box center
// sits on the origin. Groups without vertices are returned unchanged.
func Center(g geom.Group) geom.Group {
	out := g.Clone()
	b, ok := out.Bounds()
	if !ok {
		return out
	}
	out.Translate(-(b.MinX+b.MaxX)/2, -(b.MinY+b.MaxY)/2)
	return out
}

// Recolor returns a copy of g whose shapes take fills from colors in order,
// cycling when the group is longer than the palette.
func Recolor(g geom.Group, colors []string) geom.Group {
	out := g.Clone()
	if len(colors) == 0 {
		return out
	}
	for i := range out {
		out[i].Fill = colors[i%len(colors)]
	}
	return out
}

// Fills returns the distinct fills of g in first-seen order.
func Fills(g geom.Group) []string {
	var out []string
	for _, s := range g {
		if !slices.Contains(out, s.Fill) {
			out = append(out, s.Fill)
		}
	}
	return out
}
