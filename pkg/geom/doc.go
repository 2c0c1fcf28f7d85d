// Package geom provides the geometric data model for tessera: points,
// polygon shapes and ordered shape groups.
//
// # Overview
//
// A [Shape] is an ordered list of vertices plus a fill label. Vertex order
// defines the polygon edges, so it is preserved by every operation. A
// [Group] is an ordered list of shapes composed as one unit; later shapes are
// drawn over earlier ones.
//
// All types are plain values. Mutating operations ([Shape.Translate],
// [Shape.Scale], [Group.Rotate], ...) work in place on caller-owned data;
// use [Shape.Clone] and [Group.Clone] to get independent copies.
//
// # Scaling
//
// Two scale operations exist on purpose:
//
//   - [Shape.Scale] scales about the shape's own centroid (vertex mean).
//     [Group.Scale] applies it per shape, so each shape grows about its own
//     centroid, not the group's.
//   - [Shape.ScaleAbout] scales about a caller-supplied pivot. The transform
//     engine uses this form.
//
// # Degenerate Shapes
//
// A shape with no vertices is valid. It renders as an empty polygon,
// translating or scaling it is a no-op, and [Shape.Centroid] reports false.
package geom
