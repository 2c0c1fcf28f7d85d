package geom

import (
	"math"
	"slices"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Box is an axis-aligned bounding box.
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Shape is a polygon: vertices in emission order plus a fill label.
// The fill is an opaque string (a color name, hex code, ...) and is never
// validated.
type Shape struct {
	Points []Point `json:"points"`
	Fill   string  `json:"fill"`
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	return Shape{Points: slices.Clone(s.Points), Fill: s.Fill}
}

// Len returns the number of vertices.
func (s Shape) Len() int { return len(s.Points) }

// Centroid returns the arithmetic mean of the vertices.
// It reports false for a shape without vertices.
func (s Shape) Centroid() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	var c Point
	for _, p := range s.Points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(s.Points))
	return Point{c.X / n, c.Y / n}, true
}

// Bounds returns the axis-aligned bounding box of the vertices.
// It reports false for a shape without vertices.
func (s Shape) Bounds() (Box, bool) {
	if len(s.Points) == 0 {
		return Box{}, false
	}
	b := Box{MinX: s.Points[0].X, MinY: s.Points[0].Y, MaxX: s.Points[0].X, MaxY: s.Points[0].Y}
	for _, p := range s.Points[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b, true
}

// Translate moves every vertex by (dx, dy).
func (s *Shape) Translate(dx, dy float64) {
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
}

// Scale scales the shape by k about its own centroid.
// Shapes without vertices are left unchanged.
func (s *Shape) Scale(k float64) {
	c, ok := s.Centroid()
	if !ok {
		return
	}
	s.ScaleAbout(k, c)
}

// ScaleAbout scales every vertex by k relative to pivot, on both axes.
func (s *Shape) ScaleAbout(k float64, pivot Point) {
	for i, p := range s.Points {
		s.Points[i] = Point{
			X: pivot.X + (p.X-pivot.X)*k,
			Y: pivot.Y + (p.Y-pivot.Y)*k,
		}
	}
}

// Rotate rotates every vertex by deg degrees about center.
// Positive angles turn clockwise on screen (y grows downward in SVG).
func (s *Shape) Rotate(deg float64, center Point) {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	for i, p := range s.Points {
		dx := p.X - center.X
		dy := p.Y - center.Y
		s.Points[i] = Point{
			X: center.X + dx*cos - dy*sin,
			Y: center.Y + dx*sin + dy*cos,
		}
	}
}

// Group is an ordered collection of shapes composed as one unit.
type Group []Shape

// Clone returns a deep copy of g. Modifying the copy never affects g.
func (g Group) Clone() Group {
	if g == nil {
		return nil
	}
	out := make(Group, len(g))
	for i, s := range g {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the number of shapes in the group.
func (g Group) Len() int { return len(g) }

// Translate moves every shape by (dx, dy).
func (g Group) Translate(dx, dy float64) {
	for i := range g {
		g[i].Translate(dx, dy)
	}
}

// Scale scales each shape by k about that shape's own centroid.
func (g Group) Scale(k float64) {
	for i := range g {
		g[i].Scale(k)
	}
}

// Rotate rotates every shape by deg degrees about a shared center.
func (g Group) Rotate(deg float64, center Point) {
	for i := range g {
		g[i].Rotate(deg, center)
	}
}

// Bounds returns the bounding box of all vertices in the group.
// It reports false when no shape has vertices.
func (g Group) Bounds() (Box, bool) {
	var (
		out Box
		found bool
	)
	for _, s := range g {
		b, ok := s.Bounds()
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out.MinX = min(out.MinX, b.MinX)
		out.MinY = min(out.MinY, b.MinY)
		out.MaxX = max(out.MaxX, b.MaxX)
		out.MaxY = max(out.MaxY, b.MaxY)
	}
	return out, found
}
