package grid

import (
	"math"
	"testing"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/geom"
	"github.com/matzehuels/tessera/pkg/transform"
)

const eps = 1e-9

func square(size float64, fill string) geom.Shape {
	return geom.Shape{
		Points: []geom.Point{{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size}},
		Fill:   fill,
	}
}

func canvas(base geom.Group, rows, cols int) Canvas {
	return Canvas{Width: 800, Height: 600, Base: base, Rows: rows, Cols: cols}
}

func samePoints(a, b []geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i].X-b[i].X) > eps || math.Abs(a[i].Y-b[i].Y) > eps {
			return false
		}
	}
	return true
}

// fixedRand always returns v modulo n and counts calls.
type fixedRand struct {
	v     int
	calls int
}

func (r *fixedRand) IntN(n int) int {
	r.calls++
	return r.v % n
}

// seqRand returns queued values in order.
type seqRand struct {
	vals []int
	pos  int
}

func (r *seqRand) IntN(n int) int {
	v := r.vals[r.pos%len(r.vals)] % n
	r.pos++
	return v
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Canvas
		wantErr bool
	}{
		{"valid", canvas(nil, 2, 3), false},
		{"single cell", canvas(nil, 1, 1), false},
		{"zero rows", canvas(nil, 0, 3), true},
		{"negative cols", canvas(nil, 2, -1), true},
		{"zero width", Canvas{Width: 0, Height: 600, Rows: 1, Cols: 1}, true},
		{"negative height", Canvas{Width: 800, Height: -1, Rows: 1, Cols: 1}, true},
		{"NaN width", Canvas{Width: math.NaN(), Height: 600, Rows: 1, Cols: 1}, true},
		{"infinite height", Canvas{Width: 800, Height: math.Inf(1), Rows: 1, Cols: 1}, true},
		{"cell count overflows", Canvas{Width: 800, Height: 600, Rows: math.MaxInt / 2, Cols: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidCanvas) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidCanvas)
			}
		})
	}
}

func TestCellCount(t *testing.T) {
	tests := []struct {
		name string
		c    Canvas
		want int
	}{
		{"2x3", canvas(nil, 2, 3), 6},
		{"degenerate", canvas(nil, 0, 3), 0},
		{"overflow", Canvas{Rows: math.MaxInt / 2, Cols: 3}, 0},
	}
	for _, tt := range tests {
		if got := tt.c.CellCount(); got != tt.want {
			t.Errorf("%s: CellCount() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPivot(t *testing.T) {
	c := canvas(nil, 2, 3)
	tests := []struct {
		row, col int
		want     geom.Point
	}{
		{0, 0, geom.Pt(200, 200)},
		{0, 2, geom.Pt(600, 200)},
		{1, 1, geom.Pt(400, 400)},
	}
	for _, tt := range tests {
		if got := c.Pivot(tt.row, tt.col); got != tt.want {
			t.Errorf("Pivot(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}

	// Non-integral spacing keeps fractional precision.
	c = Canvas{Width: 100, Height: 100, Rows: 2, Cols: 2}
	dx, dy := c.Spacing()
	if math.Abs(dx-100.0/3) > eps || math.Abs(dy-100.0/3) > eps {
		t.Errorf("Spacing() = (%v,%v), want 33.33..", dx, dy)
	}
}

func TestTileScenario(t *testing.T) {
	base := geom.Group{square(50, "blue")}
	cells := Tile(canvas(base, 2, 3))

	if len(cells) != 6 {
		t.Fatalf("cells = %d, want 6", len(cells))
	}
	first := cells[0]
	if first.Row != 0 || first.Col != 0 || first.Pivot != geom.Pt(200, 200) {
		t.Errorf("first cell = (%d,%d) pivot %v", first.Row, first.Col, first.Pivot)
	}
	want := []geom.Point{{X: 200, Y: 200}, {X: 250, Y: 200}, {X: 250, Y: 250}, {X: 200, Y: 250}}
	if !samePoints(first.Shapes[0].Points, want) {
		t.Errorf("first shape = %v, want %v", first.Shapes[0].Points, want)
	}
}

func TestRowMajorOrder(t *testing.T) {
	cells := Tile(canvas(geom.Group{square(1, "red")}, 3, 4))
	i := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			if cells[i].Row != row || cells[i].Col != col {
				t.Fatalf("cell %d = (%d,%d), want (%d,%d)", i, cells[i].Row, cells[i].Col, row, col)
			}
			i++
		}
	}
}

func TestShapeCount(t *testing.T) {
	base := geom.Group{square(60, "blue"), square(40, "red"), square(20, "blue")}
	rng := &fixedRand{v: 1}
	modes := []Mode{
		Plain{},
		Uniform{Transforms: []transform.Transform{{Kind: transform.Rotate, Value: 45}}},
		Random{Candidates: []transform.Transform{{Kind: transform.Scale, Value: 0.5}}, Target: NoTarget, Rand: rng},
	}
	for _, m := range modes {
		t.Run(m.Name(), func(t *testing.T) {
			cells := m.Compose(canvas(base, 4, 5))
			if got := ShapeCount(cells); got != 4*5*3 {
				t.Errorf("ShapeCount = %d, want %d", got, 60)
			}
		})
	}
}

func TestBaseGroupNotMutated(t *testing.T) {
	base := geom.Group{square(50, "blue"), square(25, "red")}
	snapshot := base.Clone()
	c := canvas(base, 2, 2)

	Tile(c)
	TileUniform(c, []transform.Transform{{Kind: transform.Scale, Value: 3}, {Kind: transform.Rotate, Value: 30}})
	TileRandom(c, []transform.Transform{{Kind: transform.Translate, Value: 9}}, 1, &fixedRand{v: 2})
	TileRandom(c, []transform.Transform{{Kind: transform.Translate, Value: 9}}, NoTarget, &fixedRand{v: 2})

	for i := range base {
		if !samePoints(base[i].Points, snapshot[i].Points) {
			t.Errorf("base shape %d mutated: %v", i, base[i].Points)
		}
	}
}

func TestCellsAreIndependent(t *testing.T) {
	cells := Tile(canvas(geom.Group{square(10, "blue")}, 1, 2))
	cells[0].Shapes[0].Translate(1000, 1000)
	if cells[1].Shapes[0].Points[0] != geom.Pt(cells[1].Pivot.X, cells[1].Pivot.Y) {
		t.Errorf("second cell affected by first: %v", cells[1].Shapes[0].Points[0])
	}
}

func TestTileUniformScalesAboutPivot(t *testing.T) {
	// Unit square centered on the origin lands centered on the pivot.
	unit := geom.Shape{Points: []geom.Point{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}}
	cells := TileUniform(canvas(geom.Group{unit}, 1, 1), []transform.Transform{{Kind: transform.Scale, Value: 2}})

	p := cells[0].Pivot
	want := []geom.Point{{X: p.X - 1, Y: p.Y - 1}, {X: p.X + 1, Y: p.Y - 1}, {X: p.X + 1, Y: p.Y + 1}, {X: p.X - 1, Y: p.Y + 1}}
	if !samePoints(cells[0].Shapes[0].Points, want) {
		t.Errorf("points = %v, want %v", cells[0].Shapes[0].Points, want)
	}
}

func TestTileUniformUsesPivotNotCentroid(t *testing.T) {
	// A square whose corner sits on the pivot: scaling about the pivot keeps
	// that corner fixed, scaling about the centroid would move it.
	cells := TileUniform(canvas(geom.Group{square(50, "blue")}, 2, 3), []transform.Transform{{Kind: transform.Scale, Value: 2}})
	got := cells[0].Shapes[0].Points
	want := []geom.Point{{X: 200, Y: 200}, {X: 300, Y: 200}, {X: 300, Y: 300}, {X: 200, Y: 300}}
	if !samePoints(got, want) {
		t.Errorf("points = %v, want %v", got, want)
	}
}

func TestTileUniformTranslate(t *testing.T) {
	cells := TileUniform(canvas(geom.Group{square(10, "blue")}, 1, 1), []transform.Transform{{Kind: transform.Translate, Value: 20}})
	p := cells[0].Pivot
	if got := cells[0].Shapes[0].Points[0]; got != geom.Pt(p.X+20, p.Y+20) {
		t.Errorf("first vertex = %v, want pivot+(20,20)", got)
	}
}

func TestTileRandomTargetsOneShape(t *testing.T) {
	base := geom.Group{square(60, "blue"), square(40, "red"), square(20, "blue")}
	candidates := []transform.Transform{{Kind: transform.Translate, Value: 1}, {Kind: transform.Translate, Value: 10}}
	// Count 2 per cell: candidates[0] then candidates[1].
	cells := TileRandom(canvas(base, 1, 2), candidates, 2, &fixedRand{v: 2})

	plain := Tile(canvas(base, 1, 2))
	for ci, cell := range cells {
		for si := range cell.Shapes {
			want := plain[ci].Shapes[si].Clone()
			if si == 2 {
				want.Translate(11, 11)
			}
			if !samePoints(cell.Shapes[si].Points, want.Points) {
				t.Errorf("cell %d shape %d = %v, want %v", ci, si, cell.Shapes[si].Points, want.Points)
			}
		}
	}
}

func TestTileRandomAllShapesDrawIndependently(t *testing.T) {
	base := geom.Group{square(10, "blue"), square(10, "red")}
	candidates := []transform.Transform{{Kind: transform.Translate, Value: 1}, {Kind: transform.Translate, Value: 10}}
	// Shape 0 draws 1, shape 1 draws 2.
	rng := &seqRand{vals: []int{1, 2}}
	cells := TileRandom(canvas(base, 1, 1), candidates, NoTarget, rng)

	p := cells[0].Pivot
	if got := cells[0].Shapes[0].Points[0]; got != geom.Pt(p.X+1, p.Y+1) {
		t.Errorf("shape 0 first vertex = %v, want pivot+1", got)
	}
	if got := cells[0].Shapes[1].Points[0]; got != geom.Pt(p.X+11, p.Y+11) {
		t.Errorf("shape 1 first vertex = %v, want pivot+11", got)
	}
	if rng.pos != 2 {
		t.Errorf("draws = %d, want one per shape", rng.pos)
	}
}

func TestTileRandomInvalidTargetFallsBack(t *testing.T) {
	base := geom.Group{square(10, "blue"), square(10, "red")}
	candidates := []transform.Transform{{Kind: transform.Translate, Value: 5}}
	for _, target := range []int{NoTarget, 2, 99} {
		rng := &fixedRand{v: 1}
		cells := TileRandom(canvas(base, 1, 1), candidates, target, rng)
		p := cells[0].Pivot
		for si, s := range cells[0].Shapes {
			if s.Points[0] != geom.Pt(p.X+5, p.Y+5) {
				t.Errorf("target %d: shape %d not transformed: %v", target, si, s.Points[0])
			}
		}
	}
}

func TestTileRandomCyclicPicks(t *testing.T) {
	// One candidate, count 2: the same transform is applied twice.
	candidates := []transform.Transform{{Kind: transform.Translate, Value: 3}}
	cells := TileRandom(canvas(geom.Group{square(10, "blue")}, 1, 1), candidates, 0, &fixedRand{v: 2})
	p := cells[0].Pivot
	if got := cells[0].Shapes[0].Points[0]; got != geom.Pt(p.X+6, p.Y+6) {
		t.Errorf("first vertex = %v, want pivot+6", got)
	}
}

func TestTileRandomEmptyCandidates(t *testing.T) {
	base := geom.Group{square(10, "blue")}
	rng := &fixedRand{v: 2}
	got := TileRandom(canvas(base, 2, 2), nil, NoTarget, rng)
	want := Tile(canvas(base, 2, 2))
	for i := range want {
		if !samePoints(got[i].Shapes[0].Points, want[i].Shapes[0].Points) {
			t.Errorf("cell %d differs from plain tiling", i)
		}
	}
	if rng.calls != 0 {
		t.Errorf("random source used %d times, want 0", rng.calls)
	}
}

func TestDegenerateGrid(t *testing.T) {
	if cells := Tile(canvas(geom.Group{square(1, "x")}, 0, 3)); len(cells) != 0 {
		t.Errorf("cells = %d, want 0", len(cells))
	}
	if cells := Tile(canvas(nil, 2, 2)); len(cells) != 4 || ShapeCount(cells) != 0 {
		t.Errorf("empty base: cells = %d shapes = %d", len(cells), ShapeCount(cells))
	}
}

func TestValidateMode(t *testing.T) {
	for _, m := range []string{ModePlain, ModeUniform, ModeRandom} {
		if err := ValidateMode(m); err != nil {
			t.Errorf("ValidateMode(%q) = %v", m, err)
		}
	}
	if err := ValidateMode("spiral"); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("ValidateMode(spiral) = %v, want INVALID_MODE", err)
	}
}
