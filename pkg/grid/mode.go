package grid

import (
	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/geom"
	"github.com/matzehuels/tessera/pkg/transform"
)

// Mode names accepted by ValidateMode.
const (
	ModePlain   = "plain"
	ModeUniform = "uniform"
	ModeRandom  = "random"
)

// NoTarget selects every shape in Random mode.
const NoTarget = -1

// maxCellTransforms bounds the per-cell draw count in Random mode.
const maxCellTransforms = 2

// Mode composes a canvas into cells.
type Mode interface {
	// Name returns the mode identifier (plain, uniform or random).
	Name() string
	// Compose returns one cell per grid slot in row-major order.
	Compose(c Canvas) []Cell
}

// ValidateMode checks that name is a known mode.
func ValidateMode(name string) error {
	switch name {
	case ModePlain, ModeUniform, ModeRandom:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidMode,
		"invalid mode: %q (must be one of: plain, uniform, random)", name)
}

// Plain tiles the base group without transforms.
type Plain struct{}

// Name implements Mode.
func (Plain) Name() string { return ModePlain }

// Compose implements Mode.
func (Plain) Compose(c Canvas) []Cell { return Tile(c) }

// Uniform applies the same transform list to every shape of every cell.
type Uniform struct {
	Transforms []transform.Transform
}

// Name implements Mode.
func (Uniform) Name() string { return ModeUniform }

// Compose implements Mode.
func (u Uniform) Compose(c Canvas) []Cell { return TileUniform(c, u.Transforms) }

// Random applies a per-cell random number of candidate transforms.
// Target selects one shape index; any out-of-range value (such as NoTarget)
// means every shape.
type Random struct {
	Candidates []transform.Transform
	Target     int
	Rand       transform.Rand
}

// Name implements Mode.
func (Random) Name() string { return ModeRandom }

// Compose implements Mode.
func (r Random) Compose(c Canvas) []Cell {
	return TileRandom(c, r.Candidates, r.Target, r.Rand)
}

// Tile copies the base group into every cell, translated to the cell pivot.
func Tile(c Canvas) []Cell {
	return compose(c, nil)
}

// TileUniform tiles the base group and applies ts, in order, to every shape
// of each cell. Rotate and scale use the cell pivot as their center.
func TileUniform(c Canvas, ts []transform.Transform) []Cell {
	return compose(c, func(cell *Cell) {
		transform.ApplyGroup(cell.Shapes, ts, cell.Pivot)
	})
}

// TileRandom tiles the base group and applies between 0 and 2 transforms
// per cell, picking candidates cyclically (candidates[i % len]).
//
// When target is a valid shape index only that shape is transformed, using
// one count drawn per cell. Otherwise every shape draws its own count.
// An empty candidate set, or a nil rng, yields the plain tiling.
func TileRandom(c Canvas, candidates []transform.Transform, target int, rng transform.Rand) []Cell {
	if len(candidates) == 0 || rng == nil {
		return Tile(c)
	}
	return compose(c, func(cell *Cell) {
		if target >= 0 && target < len(cell.Shapes) {
			applyCyclic(&cell.Shapes[target], candidates, rng.IntN(maxCellTransforms+1), cell)
			return
		}
		for i := range cell.Shapes {
			applyCyclic(&cell.Shapes[i], candidates, rng.IntN(maxCellTransforms+1), cell)
		}
	})
}

func applyCyclic(s *geom.Shape, candidates []transform.Transform, n int, cell *Cell) {
	for i := range n {
		transform.Apply(s, candidates[i%len(candidates)], cell.Pivot)
	}
}
