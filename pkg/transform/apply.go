package transform

import "github.com/matzehuels/tessera/pkg/geom"

// Rand is the random source used by randomized application.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}

// Apply mutates s by a single transform. Rotate and scale use pivot as their
// center; translate adds t.Value to both axes. Unknown kinds are ignored.
func Apply(s *geom.Shape, t Transform, pivot geom.Point) {
	switch t.Kind {
	case Rotate:
		s.Rotate(t.Value, pivot)
	case Scale:
		s.ScaleAbout(t.Value, pivot)
	case Translate:
		s.Translate(t.Value, t.Value)
	}
}

// ApplyList applies ts to s in order.
func ApplyList(s *geom.Shape, ts []Transform, pivot geom.Point) {
	for _, t := range ts {
		Apply(s, t, pivot)
	}
}

// ApplyChain applies every chain entry to s in evaluation order.
func ApplyChain(s *geom.Shape, c *Chain, pivot geom.Point) {
	if c == nil {
		return
	}
	for t := range c.All() {
		Apply(s, t, pivot)
	}
}

// ApplyRandom draws a count N in [0, len(candidates)] and then applies N
// candidates picked uniformly with replacement. An empty candidate set is a
// no-op.
func ApplyRandom(s *geom.Shape, candidates []Transform, pivot geom.Point, rng Rand) {
	n := len(candidates)
	if n == 0 || rng == nil {
		return
	}
	for range rng.IntN(n + 1) {
		Apply(s, candidates[rng.IntN(n)], pivot)
	}
}

// ApplyGroup applies ts to every shape of g about pivot.
func ApplyGroup(g geom.Group, ts []Transform, pivot geom.Point) {
	for i := range g {
		ApplyList(&g[i], ts, pivot)
	}
}
