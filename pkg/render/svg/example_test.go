package svg_test

import (
	"fmt"

	"github.com/matzehuels/tessera/pkg/geom"
	"github.com/matzehuels/tessera/pkg/grid"
	"github.com/matzehuels/tessera/pkg/render/svg"
)

func ExampleRenderCanvas() {
	c := grid.Canvas{
		Width:  300,
		Height: 200,
		Rows:   1,
		Cols:   2,
		Base:   geom.Group{{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}, Fill: "red"}},
	}
	fmt.Println(string(svg.RenderCanvas(c, grid.Plain{})))
	// Output:
	// <svg width="300" height="200" xmlns="http://www.w3.org/2000/svg">
	// <polygon points="100,100 110,100 105,110" fill="red" />
	// <polygon points="200,100 210,100 205,110" fill="red" />
	// </svg>
}
