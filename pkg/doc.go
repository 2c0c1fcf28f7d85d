// Package pkg provides the core libraries for tessera, a generator of
// procedural polygon grids.
//
// # Overview
//
// Tessera replicates a base group of polygons across a rows x cols grid and
// transforms each copy, either uniformly or with seeded randomness. The
// result is serialized as SVG, wrapped in an HTML page or exported as JSON.
// The pkg directory is organized into three areas:
//
//  1. Geometry: [geom], [transform], [shapes], [palette]
//  2. Composition and output: [grid], [render/svg], [render/html]
//  3. Orchestration: [pipeline], [scene], [cache], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	scene file / flags / HTTP request
//	         ↓
//	    [scene] package (decode, normalize into pipeline options)
//	         ↓
//	    [shapes] + [palette] (build and color the base group)
//	         ↓
//	    [grid] package (plain, uniform or random composition)
//	         ↓
//	    [render/svg], [render/html] (markup)
//	         ↓
//	    SVG/HTML/JSON output
//
// # Quick Start
//
//	base, _ := shapes.Lookup("star", 50, "gold")
//	canvas := grid.Canvas{Width: 800, Height: 600, Rows: 5, Cols: 5, Base: base}
//	cells := grid.TileUniform(canvas, []transform.Transform{
//	    transform.New(transform.Rotate, 36),
//	})
//	out := svg.Render(canvas, cells)
//
// Most callers go through [pipeline.Runner], which validates options, caches
// seeded renders by content hash and produces every requested format.
//
// # Main Packages
//
// [geom] - Points, polygons and groups with in-place translate, scale and
// rotate about a pivot.
//
// [transform] - Tagged transforms, the backward-evaluated [transform.Chain]
// and the randomized [transform.ApplyRandom].
//
// [grid] - Canvas geometry, cell pivots and the three composition modes.
//
// [shapes] - Built-in presets (square, triangle, pentagon, hexagon, star,
// vera) and group helpers.
//
// [palette] - Seeded HSV palettes with optional per-cell brightness jitter.
//
// [render/svg] - Markup serializer for points, polygons and canvases.
//
// [render/html] - Standalone page around an SVG fragment.
//
// [pipeline] - Options, validation, composition and rendering, used by the
// CLI and the HTTP server alike.
//
// [scene] - TOML and JSON scene files.
//
// [cache] - File, Redis and no-op artifact caches with content-addressed keys.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/geom
// [transform]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/transform
// [transform.Chain]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/transform#Chain
// [transform.ApplyRandom]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/transform#ApplyRandom
// [grid]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/grid
// [shapes]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/shapes
// [palette]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/palette
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/render/svg
// [render/html]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/render/html
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/pipeline#Runner
// [scene]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/scene
// [cache]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/tessera/pkg/observability
package pkg
