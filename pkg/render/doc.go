// Package render groups the output stages of tessera.
//
// # Overview
//
// Rendering turns composed grid cells into text. It is split into:
//
//   - [svg]: the markup serializer (points, polygons, groups, whole canvases)
//   - [html]: a document shell that embeds an SVG fragment and a title
//
// Neither subpackage performs I/O; both build and return values. Writing
// files or HTTP responses is left to the caller (the CLI and the server).
//
//	cells := grid.TileUniform(canvas, transforms)
//	out := svg.Render(canvas, cells)
//	page := html.Wrap(string(out), "Rotating squares")
//
// [svg]: github.com/matzehuels/tessera/pkg/render/svg
// [html]: github.com/matzehuels/tessera/pkg/render/html
package render
