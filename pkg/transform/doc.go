// Package transform provides the transform model and the engine that
// applies transforms to shapes.
//
// # Transforms
//
// A [Transform] is a tagged value: a [Kind] (translate, scale or rotate) and
// one scalar. The scalar means:
//
//   - translate: offset added to BOTH axes (x += v, y += v)
//   - scale: factor applied about a pivot
//   - rotate: angle in degrees about a pivot
//
// The single-scalar translate differs from the two-argument
// [geom.Shape.Translate]. It is kept for compatibility with existing scene
// files; callers needing independent offsets use [geom.Shape.Translate]
// directly.
//
// # Chains
//
// A [Chain] is an ordered, mutable list of transforms owned by its builder.
// [Chain.Add] inserts at the front, so the most recently added transform is
// evaluated first. [Chain.Remove] drops the first front-to-back match.
//
//	var c transform.Chain
//	c.Add(transform.Rotate, 45)
//	c.Add(transform.Scale, 0.8)   // evaluated before the rotation
//	c.Remove(transform.Rotate)    // c now holds only the scale
//
// # Application
//
// [Apply], [ApplyList] and [ApplyChain] mutate a shape in place. Lists and
// chains compose sequentially: each transform's output is the next one's
// input. [ApplyRandom] draws from a candidate set using an injected [Rand],
// so tests can pass a deterministic source.
package transform
